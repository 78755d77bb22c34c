package search

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrUnsafeStatement is returned when translated SQL is not a single
// read-only query.
var ErrUnsafeStatement = errors.New("unsafe statement")

// Keywords that may not appear outside string literals. INTO covers
// SELECT ... INTO, which creates a table.
var forbiddenKeywords = map[string]struct{}{
	"insert": {}, "update": {}, "delete": {}, "merge": {}, "upsert": {},
	"drop": {}, "alter": {}, "create": {}, "truncate": {}, "rename": {},
	"grant": {}, "revoke": {}, "copy": {}, "call": {}, "do": {},
	"execute": {}, "prepare": {}, "deallocate": {}, "declare": {},
	"vacuum": {}, "analyze": {}, "reindex": {}, "cluster": {}, "refresh": {},
	"lock": {}, "listen": {}, "notify": {}, "unlisten": {}, "set": {}, "reset": {},
	"comment": {}, "security": {}, "into": {}, "import": {}, "load": {},
	"dblink": {},
}

// GuardStatement vets SQL returned by the translation service. It accepts
// exactly one SELECT (or WITH ... SELECT) statement without comments,
// strips a trailing semicolon, and rejects data-modifying, DDL and
// session keywords as well as server-side pg_* functions. The statement is
// still executed in a read-only transaction by the repository.
func GuardStatement(sql string) (string, error) {
	stmt := strings.TrimSpace(sql)
	for strings.HasSuffix(stmt, ";") {
		stmt = strings.TrimSpace(strings.TrimSuffix(stmt, ";"))
	}
	if stmt == "" {
		return "", fmt.Errorf("%w: empty statement", ErrUnsafeStatement)
	}

	bare, err := stripLiterals(stmt)
	if err != nil {
		return "", err
	}

	words := strings.FieldsFunc(strings.ToLower(bare), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	})
	if len(words) == 0 || (words[0] != "select" && words[0] != "with") {
		return "", fmt.Errorf("%w: only SELECT queries are allowed", ErrUnsafeStatement)
	}

	for _, word := range words {
		if _, bad := forbiddenKeywords[word]; bad {
			return "", fmt.Errorf("%w: keyword %q is not allowed", ErrUnsafeStatement, strings.ToUpper(word))
		}
		if strings.HasPrefix(word, "pg_") || strings.HasPrefix(word, "lo_") {
			return "", fmt.Errorf("%w: function %q is not allowed", ErrUnsafeStatement, word)
		}
	}

	return stmt, nil
}

// stripLiterals blanks out single-quoted strings and double-quoted
// identifiers, and rejects statement separators, comments and dollar
// quoting found outside them.
func stripLiterals(stmt string) (string, error) {
	var sb strings.Builder
	sb.Grow(len(stmt))

	for i := 0; i < len(stmt); i++ {
		ch := stmt[i]
		switch {
		case ch == '\'' || ch == '"':
			end := closingQuote(stmt, i+1, ch)
			if end < 0 {
				return "", fmt.Errorf("%w: unterminated quoted text", ErrUnsafeStatement)
			}
			if ch == '"' {
				// Quoted identifiers still name objects; keep them visible
				// to the keyword scan.
				sb.WriteString(stmt[i+1 : end])
			}
			sb.WriteByte(' ')
			i = end
		case ch == ';':
			return "", fmt.Errorf("%w: multiple statements", ErrUnsafeStatement)
		case ch == '-' && i+1 < len(stmt) && stmt[i+1] == '-',
			ch == '/' && i+1 < len(stmt) && stmt[i+1] == '*':
			return "", fmt.Errorf("%w: comments are not allowed", ErrUnsafeStatement)
		case ch == '$':
			return "", fmt.Errorf("%w: dollar quoting and parameters are not allowed", ErrUnsafeStatement)
		default:
			sb.WriteByte(ch)
		}
	}
	return sb.String(), nil
}

// closingQuote returns the index of the quote closing the literal that
// starts at from, treating doubled quotes as escapes, or -1.
func closingQuote(s string, from int, quote byte) int {
	for i := from; i < len(s); i++ {
		if s[i] != quote {
			continue
		}
		if i+1 < len(s) && s[i+1] == quote {
			i++
			continue
		}
		return i
	}
	return -1
}
