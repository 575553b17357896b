package errs

import "github.com/cockroachdb/errors"

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
//
// Use errors.Mark(err, kind) to attach a kind to an error without losing its cause,
// e.g. a fee charge that failed because the ledger was unreachable is both
// FeeChargeFailed and ExternalCallFailed.
type ErrorKind string

const (
	// NotFound is returned when a requested item is not found.
	NotFound = ErrorKind("Not Found")

	// NotAuthorized is returned when the caller is not the registered admin.
	NotAuthorized = ErrorKind("Not Authorized")

	// NotAllowed is returned when an anonymous caller tries a operation that needs an identity.
	NotAllowed = ErrorKind("Not Allowed")

	NotRegistered     = ErrorKind("Admin Not Registered")
	AlreadyRegistered = ErrorKind("Admin Already Registered")

	// AlreadyHasToken is returned when an identity already owns (or is provisioning) a token.
	AlreadyHasToken = ErrorKind("Already Has Token")

	// BinaryNotSet is returned when provisioning runs before the admin uploaded the resource binary.
	BinaryNotSet = ErrorKind("Resource Binary Not Set")

	FeeChargeFailed = ErrorKind("Fee Charge Failed")
	CreationFailed  = ErrorKind("Creation Failed")

	// TransferFailed is an application-level ledger rejection. The ledger confirmed nothing moved.
	TransferFailed = ErrorKind("Transfer Failed")

	// ExternalCallFailed is a transport-level failure. State on the other side is unknown,
	// mutating calls must not be retried blindly.
	ExternalCallFailed = ErrorKind("External Call Failed")

	// InvalidArgument is returned when a argument is invalid.
	InvalidArgument = ErrorKind("Invalid Argument")

	// Unsupported is returned when a feature or result is not supported.
	Unsupported = ErrorKind("Unsupported")

	// InternalError is returned when internal logic got error
	InternalError = ErrorKind("Internal Error")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// kinds in lookup order, the most specific kind first.
var kinds = []ErrorKind{
	NotAuthorized,
	NotAllowed,
	AlreadyRegistered,
	NotRegistered,
	AlreadyHasToken,
	BinaryNotSet,
	FeeChargeFailed,
	CreationFailed,
	TransferFailed,
	ExternalCallFailed,
	NotFound,
	InvalidArgument,
	Unsupported,
	InternalError,
}

// KindOf returns the first known kind marked on err, or InternalError.
func KindOf(err error) ErrorKind {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return InternalError
}
