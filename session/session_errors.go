package session

import "errors"

var (
	// ErrAccessDenied means the backend authenticated the user but the role
	// gate rejected them: only ADMIN identities may hold a session here.
	ErrAccessDenied = errors.New("access denied: admin privileges required")

	// ErrInvalidCredentials means the backend rejected the email/password.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
