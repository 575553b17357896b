package errs

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/withstack"
)

// PublicError carries a message that API handlers may show to clients.
// Errors without it are rendered by their kind only.
type PublicError struct {
	cause   error
	message string
}

func (p *PublicError) Error() string { return p.cause.Error() }

func (p *PublicError) Message() string { return p.message }

func (p *PublicError) Unwrap() error { return p.cause }

// WithPublicMessage exposes err's message, prefixed with prefix when not empty. It returns nil for a nil err.
func WithPublicMessage(err error, prefix string) error {
	if err == nil {
		return nil
	}
	return withstack.WithStackDepth(&PublicError{cause: err, message: prefixed(prefix, err.Error())}, 1)
}

// Invalid marks err as InvalidArgument and exposes its message.
func Invalid(err error, prefix string) error {
	if err == nil {
		return nil
	}
	return withstack.WithStackDepth(&PublicError{
		cause:   errors.Mark(err, InvalidArgument),
		message: prefixed(prefix, err.Error()),
	}, 1)
}

func prefixed(prefix, message string) string {
	if prefix == "" {
		return message
	}
	return prefix + ": " + message
}

// WithFixedPublicMessage exposes message in place of err's own text, for errors whose text
// carries internal details such as upstream urls. It returns nil for a nil err.
func WithFixedPublicMessage(err error, message string) error {
	if err == nil {
		return nil
	}
	return withstack.WithStackDepth(&PublicError{cause: err, message: message}, 1)
}

// MarkWithReason marks err with kind and exposes "<kind>: <reason>", the reason being the
// public message already carried by err. Without one only the kind is exposed.
func MarkWithReason(err error, kind ErrorKind) error {
	if err == nil {
		return nil
	}
	message := kind.Error()
	if reason := new(PublicError); errors.As(err, &reason) {
		message = prefixed(message, reason.Message())
	}
	return withstack.WithStackDepth(&PublicError{cause: errors.Mark(err, kind), message: message}, 1)
}
