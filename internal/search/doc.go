// Package search turns a structured listing filter into parameterized SQL.
//
// Everything here is pure: ValidateFilter checks a filter for consistent
// ranges, NewPagination clamps page and limit, BuildQuery renders the count
// and page statements, and GuardStatement vets SQL produced by the
// translation service before it reaches the database.
package search
