package entity

import (
	"slices"
	"time"

	"github.com/ictalent/talent-network/common"
)

// TokenRecord is the metadata of a provisioned talent token. It is immutable after creation.
type TokenRecord struct {
	ResourceID  common.Identity `cbor:"resource_id"`
	Name        string          `cbor:"name"`
	Symbol      string          `cbor:"symbol"`
	Decimals    uint8           `cbor:"decimals"`
	TotalSupply uint64          `cbor:"total_supply"`
	Owner       common.Identity `cbor:"owner"`
	Logo        *string         `cbor:"logo,omitempty"`
	CreatedAt   uint64          `cbor:"created_at"` // unix nanoseconds
}

func (t TokenRecord) CreatedTime() time.Time {
	return time.Unix(0, int64(t.CreatedAt)).UTC()
}

// UserToken is an entry of the owner index. A reserved entry has no token yet,
// a provisioning attempt for the owner is in flight.
type UserToken struct {
	TokenID    common.Identity `cbor:"token_id"`
	Reserved   bool            `cbor:"reserved"`
	ReservedAt uint64          `cbor:"reserved_at,omitempty"` // unix nanoseconds
}

func NewReservation(at time.Time) UserToken {
	return UserToken{Reserved: true, ReservedAt: uint64(at.UnixNano())}
}

func (u UserToken) HasToken() bool {
	return !u.Reserved && !u.TokenID.IsZero()
}

// ExpiredBefore reports whether u is a reservation taken before cutoff. Nothing expires before the
// zero cutoff, and a reservation without a timestamp expires before any other.
func (u UserToken) ExpiredBefore(cutoff time.Time) bool {
	if !u.Reserved || cutoff.IsZero() {
		return false
	}
	return int64(u.ReservedAt) < cutoff.UnixNano()
}

// SameReservation reports whether u and other are the same reservation.
func (u UserToken) SameReservation(other UserToken) bool {
	return u.Reserved && other.Reserved && u.ReservedAt == other.ReservedAt
}

type FaucetStatus string

const (
	FaucetStatusPending  FaucetStatus = "pending"
	FaucetStatusApproved FaucetStatus = "approved"
	FaucetStatusRejected FaucetStatus = "rejected"
)

func (s FaucetStatus) IsValid() bool {
	switch s {
	case FaucetStatusPending, FaucetStatusApproved, FaucetStatusRejected:
		return true
	}
	return false
}

// FaucetRequest is the faucet record of one requester. TotalTokenGiven only grows after a
// confirmed transfer.
type FaucetRequest struct {
	Requester             common.Identity `cbor:"requester"`
	CurrentRequestAmount  uint32          `cbor:"current_request_amount"`
	TotalNumberOfRequests uint32          `cbor:"total_number_of_requests"`
	TotalTokenGiven       uint64          `cbor:"total_token_given"`
	Status                FaucetStatus    `cbor:"status"`
}

type AdminState struct {
	Admin      common.Identity `cbor:"admin"`
	Registered bool            `cbor:"registered"`
}

// PurchaseHistory is the ordered, deduplicated list of tokens an identity bought.
type PurchaseHistory struct {
	Tokens []common.Identity `cbor:"tokens"`
}

// Append adds tokenID unless it is already recorded and reports whether it did.
func (p *PurchaseHistory) Append(tokenID common.Identity) bool {
	if slices.Contains(p.Tokens, tokenID) {
		return false
	}
	p.Tokens = append(p.Tokens, tokenID)
	return true
}

// CreateTokenArgs are the caller supplied parameters of a new talent token.
type CreateTokenArgs struct {
	Name        string
	Symbol      string
	Decimals    uint8
	TotalSupply uint64
	Logo        *string
}
