package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the success envelope. Failures use the errors package.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}
