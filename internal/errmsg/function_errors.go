package errmsg

import "net/http"

var (
	FunctionNotFound = NewStatusError(
		http.StatusNotFound,
		"function not found",
	)
	NotifyInvalidPayload = NewStatusError(
		http.StatusBadRequest,
		"to, subject and body must be provided",
	)
)
