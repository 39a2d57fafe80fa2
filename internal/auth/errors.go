package auth

import "errors"

// Kind identifies why an identity operation was rejected.
type Kind string

const (
	KindInvalidEmail      Kind = "invalid-email"
	KindMissingEmail      Kind = "missing-email"
	KindMissingPassword   Kind = "missing-password"
	KindWeakPassword      Kind = "weak-password"
	KindEmailInUse        Kind = "email-already-in-use"
	KindPasswordMismatch  Kind = "password-mismatch"
	KindUserNotFound      Kind = "user-not-found"
	KindWrongPassword     Kind = "wrong-password"
	KindUserDisabled      Kind = "user-disabled"
	KindInvalidCredential Kind = "invalid-credential"
)

var messages = map[Kind]string{
	KindInvalidEmail:      "Invalid email address.",
	KindMissingEmail:      "Please enter an email address.",
	KindMissingPassword:   "Please enter a password.",
	KindWeakPassword:      "Password must be at least 6 characters.",
	KindEmailInUse:        "Email address already in use.",
	KindPasswordMismatch:  "Passwords do not match.",
	KindUserNotFound:      "User not found.",
	KindWrongPassword:     "Incorrect password.",
	KindUserDisabled:      "User has been disabled.",
	KindInvalidCredential: "Either your email or password is incorrect.",
}

// Error is returned by Register, SignIn and SignOut for user-facing failures.
// Message is what the client shows in its alert.
type Error struct {
	Kind Kind
}

func newError(k Kind) *Error { return &Error{Kind: k} }

func (e *Error) Error() string {
	return "auth: " + string(e.Kind)
}

func (e *Error) Message() string {
	if m, ok := messages[e.Kind]; ok {
		return m
	}
	return "Authentication failed."
}

// Is matches another *Error of the same kind, so errors.Is(err, auth.ErrWrongPassword) works.
func (e *Error) Is(target error) bool {
	var t *Error
	return errors.As(target, &t) && t.Kind == e.Kind
}

var (
	ErrInvalidEmail      = newError(KindInvalidEmail)
	ErrMissingEmail      = newError(KindMissingEmail)
	ErrMissingPassword   = newError(KindMissingPassword)
	ErrWeakPassword      = newError(KindWeakPassword)
	ErrEmailInUse        = newError(KindEmailInUse)
	ErrPasswordMismatch  = newError(KindPasswordMismatch)
	ErrUserNotFound      = newError(KindUserNotFound)
	ErrWrongPassword     = newError(KindWrongPassword)
	ErrUserDisabled      = newError(KindUserDisabled)
	ErrInvalidCredential = newError(KindInvalidCredential)
)

// KindOf extracts the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
