// Package apperrors defines the typed error values returned by the
// service layer, so callers can branch on kind instead of matching
// message strings.
package apperrors

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindNotFound Kind = iota
	KindConflict
	KindUnauthorized
	KindInvalidInput
	KindUpstreamUnavailable
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

var (
	// Identity / provisioning
	ErrIdentityUnresolvable = New(KindInvalidInput, "IDENTITY_UNRESOLVABLE", "principal has no usable subject id or email")
	ErrProfileNotFound      = New(KindNotFound, "PROFILE_NOT_FOUND", "profile not found")
	ErrCreatorCreateFailed  = New(KindNotFound, "CREATOR_CREATE_FAILED", "cannot create a creator account for a missing profile")
	ErrCreatorNotFound      = New(KindNotFound, "CREATOR_NOT_FOUND", "creator account not found")

	// Post lifecycle
	ErrEmptyPostContent = New(KindInvalidInput, "EMPTY_POST_CONTENT", "a post needs a caption or a media reference")
	ErrInvalidPrice     = New(KindInvalidInput, "INVALID_PRICE", "price must be a non-negative amount and only set on paid posts")
	ErrPostNotFound     = New(KindNotFound, "POST_NOT_FOUND", "post not found")
	ErrNotOwner         = New(KindUnauthorized, "NOT_OWNER", "only the owner may modify this resource")
	ErrImmutablePost    = New(KindConflict, "IMMUTABLE_POST", "post can no longer be edited after moderation")

	// Moderation
	ErrPostNotPending         = New(KindConflict, "POST_NOT_PENDING", "post is not awaiting moderation")
	ErrAlreadyModerated       = New(KindConflict, "ALREADY_MODERATED", "post has already been moderated")
	ErrReasonRequired         = New(KindInvalidInput, "REASON_REQUIRED", "a rejection reason is required")
	ErrVerificationNotPending = New(KindConflict, "VERIFICATION_NOT_PENDING", "creator has no pending verification request")
	ErrVerificationRequested  = New(KindConflict, "VERIFICATION_ALREADY_REQUESTED", "verification already requested or granted")

	// Messaging
	ErrMessageNotFound      = New(KindNotFound, "MESSAGE_NOT_FOUND", "message not found")
	ErrNotificationNotFound = New(KindNotFound, "NOTIFICATION_NOT_FOUND", "notification not found")

	// Subscriptions
	ErrSubscriptionNotFound   = New(KindNotFound, "SUBSCRIPTION_NOT_FOUND", "subscription not found")
	ErrUnmappedExternalStatus = New(KindInvalidInput, "UNMAPPED_EXTERNAL_STATUS", "unknown external subscription status")

	// Collaborators
	ErrClassifierUnavailable = New(KindUpstreamUnavailable, "CLASSIFIER_UNAVAILABLE", "content safety classifier unavailable")
)

// AsError returns the typed error wrapped in err, if any.
func AsError(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// HTTPStatus maps an error to the status code handlers respond with.
// Untyped errors are internal.
func HTTPStatus(err error) int {
	ae, ok := AsError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch ae.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusForbidden
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUpstreamUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
