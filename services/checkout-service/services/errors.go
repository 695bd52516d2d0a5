package services

import "net/http"

// ServiceError is a typed error with an HTTP status code. Fields holds
// per-field validation messages.
type ServiceError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *ServiceError) Error() string { return e.Message }

func badRequest(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusBadRequest, Message: msg}
}

func internal(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusInternalServerError, Message: msg}
}
