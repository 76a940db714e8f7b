package errmsg

import "net/http"

func InternalServerError(err error) StatusError {
	return NewStatusError(
		http.StatusInternalServerError,
		"internal server error: "+err.Error(),
	)
}

// UpstreamUnavailable masks the underlying failure; the real error belongs
// in the logs, never in the response body.
func UpstreamUnavailable(service string) StatusError {
	return NewStatusError(
		http.StatusInternalServerError,
		service+" unavailable",
	)
}

var InvalidBody = NewStatusError(
	http.StatusBadRequest,
	"request body is not valid JSON",
)
