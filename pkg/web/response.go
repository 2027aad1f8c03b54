// Package web defines common components for a web application.
package web

import (
	"github.com/go-playground/validator/v10"
)

// Response holds the common response type for all APIs.
//
// Successful balance mutations carry status, message and the new balance;
// failures carry only the message.
type Response struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message"`
	Balance string `json:"balance,omitempty"`
}

// Error wraps a given err into json friendly struct.
func Error(err error) Response {
	return Response{Message: err.Error()}
}

// Success returns the response for a successful balance mutation.
func Success(message, balance string) Response {
	return Response{
		Status:  "success",
		Message: message,
		Balance: balance,
	}
}

// GetErrorMsg builds a human readable message for the first failed validation.
func GetErrorMsg(ve validator.ValidationErrors) string {
	field := ve[0]

	switch field.Tag() {
	case "required":
		return field.Field() + " is required"
	case "min", "gte":
		return field.Field() + " must be greater than or equal to " + field.Param()
	case "max", "lte":
		return field.Field() + " must be less than or equal to " + field.Param()
	case "oneof":
		return field.Field() + " must be one of: " + field.Param()
	}

	return field.Field() + " is invalid"
}
