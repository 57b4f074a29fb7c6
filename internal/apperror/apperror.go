// Package apperror holds the client-facing error type of the HTTP layer.
package apperror

import "net/http"

// AppError carries the HTTP status and message sent back to the client.
type AppError struct {
	Status  int
	Message string
}

// New mirrors the argument order used at call sites: message first, status second.
func New(message string, status int) *AppError {
	return &AppError{Status: status, Message: message}
}

func (e *AppError) Error() string { return e.Message }

// NotFound is used for requests no route matched.
func NotFound() *AppError {
	return New("Page not found", http.StatusNotFound)
}
