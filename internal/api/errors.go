package api

import "net/http"

// Error is the JSON body of every non-2xx response.
type Error struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// NewError returns an Error with only a message.
func NewError(message string) *Error {
	return &Error{Error: message}
}

// NewErrorWithDetails returns an Error carrying a textual rendering of err.
func NewErrorWithDetails(message string, err error) *Error {
	e := &Error{Error: message}
	if err != nil {
		e.Details = err.Error()
	}
	return e
}

// WriteError writes an Error as a JSON response with the given HTTP status code.
func WriteError(w http.ResponseWriter, statusCode int, apiErr *Error) {
	WriteJSON(w, statusCode, apiErr)
}
