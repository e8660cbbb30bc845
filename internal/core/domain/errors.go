package domain

import "errors"

var (
	// ErrUnauthenticated means there is no active session or credential.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrUnauthorized means the session is valid but the role is insufficient.
	ErrUnauthorized = errors.New("insufficient role")
	// ErrRefreshFailed means a 401 could not be recovered by refreshing.
	ErrRefreshFailed = errors.New("token refresh failed")
	// ErrNoRefreshToken means a refresh was needed but none is stored.
	ErrNoRefreshToken = errors.New("no refresh token")
	// ErrInvalidInput is returned for malformed caller input.
	ErrInvalidInput = errors.New("invalid input")
)
