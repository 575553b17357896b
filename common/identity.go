package common

import (
	"github.com/cockroachdb/errors"
	"github.com/ictalent/talent-network/common/errs"
	"github.com/mr-tron/base58"
)

const (
	// MaxIdentityLength is the maximum length of a raw identity in bytes.
	MaxIdentityLength = 29

	anonymousTag = 0x04
)

// Identity is an opaque, globally unique reference to an actor (caller, owner, account or resource).
// The zero value is not a valid identity. Identity is comparable and safe to use as a map key.
type Identity struct {
	raw string
}

// AnonymousIdentity is the identity of an unauthenticated caller.
var AnonymousIdentity = Identity{raw: string([]byte{anonymousTag})}

// NewIdentity creates an identity from its raw bytes.
func NewIdentity(raw []byte) (Identity, error) {
	if len(raw) == 0 {
		return Identity{}, errors.Wrap(errs.InvalidArgument, "identity must not be empty")
	}
	if len(raw) > MaxIdentityLength {
		return Identity{}, errors.Wrapf(errs.InvalidArgument, "identity must be at most %d bytes, got %d", MaxIdentityLength, len(raw))
	}
	return Identity{raw: string(raw)}, nil
}

// MustNewIdentity is like NewIdentity but panics on invalid input. Use for constants and tests only.
func MustNewIdentity(raw []byte) Identity {
	id, err := NewIdentity(raw)
	if err != nil {
		panic(err)
	}
	return id
}

// ParseIdentity parses the base58 text form of an identity.
func ParseIdentity(s string) (Identity, error) {
	if s == "" {
		return Identity{}, errors.Wrap(errs.InvalidArgument, "identity must not be empty")
	}
	raw, err := base58.Decode(s)
	if err != nil {
		return Identity{}, errors.Mark(errors.Wrapf(err, "invalid identity %q", s), errs.InvalidArgument)
	}
	return NewIdentity(raw)
}

// MustParseIdentity is like ParseIdentity but panics on invalid input.
func MustParseIdentity(s string) Identity {
	id, err := ParseIdentity(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id Identity) Bytes() []byte {
	return []byte(id.raw)
}

func (id Identity) IsZero() bool {
	return id.raw == ""
}

func (id Identity) IsAnonymous() bool {
	return id == AnonymousIdentity
}

// IsAuthenticated reports whether id is a real, non-anonymous identity.
func (id Identity) IsAuthenticated() bool {
	return !id.IsZero() && !id.IsAnonymous()
}

func (id Identity) String() string {
	if id.IsZero() {
		return ""
	}
	return base58.Encode([]byte(id.raw))
}

func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *Identity) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*id = Identity{}
		return nil
	}
	parsed, err := ParseIdentity(string(text))
	if err != nil {
		return errors.WithStack(err)
	}
	*id = parsed
	return nil
}

func (id Identity) MarshalBinary() ([]byte, error) {
	return id.Bytes(), nil
}

func (id *Identity) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		*id = Identity{}
		return nil
	}
	parsed, err := NewIdentity(data)
	if err != nil {
		return errors.WithStack(err)
	}
	*id = parsed
	return nil
}
