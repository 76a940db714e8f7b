package errmsg

import "net/http"

var (
	DocumentNameMismatch = NewStatusError(
		http.StatusBadRequest,
		"collection name mismatch",
	)
	DocumentNameMissing = NewStatusError(
		http.StatusBadRequest,
		"collection name must not be empty",
	)
	DocumentNotFound = NewStatusError(
		http.StatusNotFound,
		"item not found",
	)
	DocumentInvalidID = NewStatusError(
		http.StatusBadRequest,
		"document id must be an integer",
	)
)
