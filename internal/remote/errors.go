package remote

import "errors"

// Kind classifies a failed remote call. The core never interprets
// transport details beyond this taxonomy.
type Kind int

const (
	// KindTransient covers network failures, timeouts, and 5xx
	// responses. Safe to retry; local state is untouched.
	KindTransient Kind = iota

	// KindUnauthenticated means no valid session; the caller should
	// route to login.
	KindUnauthenticated

	// KindForbidden means the server rejected the call on role or
	// ownership grounds.
	KindForbidden

	// KindNotFound means the entity was deleted or moved concurrently.
	KindNotFound

	// KindValidation means a required field was missing or malformed,
	// either in the request or in the server's response.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation"
	default:
		return "transient"
	}
}

// Error is the failure type every Client method returns
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewError builds a classified remote error
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf extracts the error's classification. Errors that are not
// *Error (wrapped transport failures and the like) classify as
// transient.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindTransient
}

// IsUnauthenticated reports whether err classifies as a missing session
func IsUnauthenticated(err error) bool {
	return err != nil && KindOf(err) == KindUnauthenticated
}

// IsForbidden reports whether err classifies as a permission rejection
func IsForbidden(err error) bool {
	return err != nil && KindOf(err) == KindForbidden
}

// IsNotFound reports whether err classifies as a missing entity
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

// IsValidation reports whether err classifies as a malformed request
// or response
func IsValidation(err error) bool {
	return err != nil && KindOf(err) == KindValidation
}
