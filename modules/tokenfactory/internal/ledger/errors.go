package ledger

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/ictalent/talent-network/common/errs"
)

type RejectionKind string

const (
	RejectionBadFee                 RejectionKind = "BadFee"
	RejectionBadBurn                RejectionKind = "BadBurn"
	RejectionInsufficientFunds      RejectionKind = "InsufficientFunds"
	RejectionInsufficientAllowance  RejectionKind = "InsufficientAllowance"
	RejectionAllowanceChanged       RejectionKind = "AllowanceChanged"
	RejectionExpired                RejectionKind = "Expired"
	RejectionTooOld                 RejectionKind = "TooOld"
	RejectionCreatedInFuture        RejectionKind = "CreatedInFuture"
	RejectionDuplicate              RejectionKind = "Duplicate"
	RejectionTemporarilyUnavailable RejectionKind = "TemporarilyUnavailable"
	RejectionGenericError           RejectionKind = "GenericError"
)

// CallError is a transport failure. The ledger state after a CallError is unknown.
type CallError struct {
	Code    int
	Message string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("ledger call failed (code %d): %s", e.Code, e.Message)
}

// RejectionError is a ledger refusal. The call was not applied.
type RejectionError struct {
	Kind    RejectionKind
	Message string
}

func (e *RejectionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("ledger rejected: %s", e.Kind)
	}
	return fmt.Sprintf("ledger rejected: %s: %s", e.Kind, e.Message)
}

// NewCallError returns a CallError marked as errs.ExternalCallFailed. Clients only see "ledger unavailable",
// the message may hold upstream addresses.
func NewCallError(code int, message string) error {
	err := errors.Mark(errors.WithStackDepth(&CallError{Code: code, Message: message}, 1), errs.ExternalCallFailed)
	return errs.WithFixedPublicMessage(err, "ledger unavailable")
}

// NewRejectionError returns a RejectionError marked as errs.TransferFailed. Its text is public.
func NewRejectionError(kind RejectionKind, message string) error {
	err := errors.Mark(errors.WithStackDepth(&RejectionError{Kind: kind, Message: message}, 1), errs.TransferFailed)
	return errs.WithPublicMessage(err, "")
}
