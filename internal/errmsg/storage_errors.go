package errmsg

import "net/http"

var (
	StorageFileMissing = NewStatusError(
		http.StatusBadRequest,
		"file must be provided",
	)
	StorageFileTypeNotAllowed = NewStatusError(
		http.StatusBadRequest,
		"file type not allowed",
	)
	StorageFileNotFound = NewStatusError(
		http.StatusNotFound,
		"file not found",
	)
)
