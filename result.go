package magiclink

import (
	"errors"

	"github.com/templui/magiclink/model"
)

// Rejection reasons. They are surfaced on Result.Reason for the immediate
// caller; Result.Message stays generic so nothing leaks to the end user about
// account existence or which check failed.
var (
	ErrInvalidEmail          = errors.New("invalid email address")
	ErrRateLimited           = errors.New("too many attempts")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrTokenUsed             = errors.New("token already used")
	ErrEmailMismatch         = errors.New("email does not match")
	ErrDependencyFailure     = errors.New("dependency unavailable")
)

// User-facing messages. Validation failures, unknown accounts and dependency
// outages all read the same on the send path, and all token-level rejections
// read the same on the verify path.
const (
	msgLinkSent     = "Check your email for a sign-in link."
	msgSendFailed   = "Unable to send a sign-in link. Please try again."
	msgCoolDown     = "Too many attempts. Please wait a few minutes and try again."
	msgInvalidLink  = "This sign-in link is invalid or has expired."
	msgVerifyFailed = "Verification failed. Please request a new link."
	msgSignedIn     = "You are signed in."
)

// Result is the outcome of SendLink or VerifyLink.
type Result struct {
	OK      bool
	Message string

	// Reason holds the rejection sentinel when OK is false. It is meant for
	// the trusted caller (logging, status codes), not for display.
	Reason error

	// Session and User are set on a successful VerifyLink.
	Session *model.Session
	User    *model.User
}

func rejected(reason error, message string) Result {
	return Result{Message: message, Reason: reason}
}
