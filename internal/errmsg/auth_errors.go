package errmsg

import "net/http"

var (
	UserInvalidPayload = NewStatusError(
		http.StatusBadRequest,
		"username, email and password must be provided",
	)
	UserAlreadyExists = NewStatusError(
		http.StatusConflict,
		"username or email is already taken",
	)
	UserWrongPassword = NewStatusError(
		http.StatusUnauthorized,
		"username or password is incorrect",
	)
	UserNoToken = NewStatusError(
		http.StatusUnauthorized,
		"no token has been provided",
	)
	UserInvalidToken = NewStatusError(
		http.StatusUnauthorized,
		"token is invalid or expired",
	)
	UserInactive = NewStatusError(
		http.StatusForbidden,
		"account is inactive",
	)
)
