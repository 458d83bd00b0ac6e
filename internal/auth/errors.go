package auth

import "errors"

var (
	// ErrAuthenticationFailed is returned when a username/password pair
	// does not match a stored account. Its message never says which factor was wrong.
	ErrAuthenticationFailed = errors.New("invalid username or password")

	// ErrUnauthenticated is returned when a request carries no usable bearer token.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrStoreUnavailable is returned when the credential store cannot be reached.
	ErrStoreUnavailable = errors.New("credential store unavailable")

	// ErrSecretRequired is returned when a token service is built without a signing secret.
	ErrSecretRequired = errors.New("token signing secret is required")
)

// Failure reasons. They are for logs and tests only and must not be sent to clients.
const (
	ReasonNoSuchUser   = "no such user"
	ReasonBadPassword  = "bad password"
	ReasonMissingToken = "missing token"
	ReasonInvalidToken = "invalid or expired token"
	ReasonUserGone     = "user no longer exists"
)

// Failure pairs one of the sentinel errors with the internal reason it occurred.
type Failure struct {
	Err    error
	Reason string
}

func (f *Failure) Error() string {
	return f.Err.Error() + ": " + f.Reason
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func fail(err error, reason string) error {
	return &Failure{Err: err, Reason: reason}
}

// ReasonOf returns the failure reason carried by err, or "" when there is none.
func ReasonOf(err error) string {
	var f *Failure
	if errors.As(err, &f) {
		return f.Reason
	}
	return ""
}
