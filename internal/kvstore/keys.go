package kvstore

import (
	"github.com/cockroachdb/errors"
	"github.com/ictalent/talent-network/common"
)

var (
	// IdentityKey stores identities as their raw bytes.
	IdentityKey KeyCodec[common.Identity] = identityKey{}

	// StringKey stores strings as their UTF-8 bytes.
	StringKey KeyCodec[string] = stringKey{}
)

type identityKey struct{}

func (identityKey) EncodeKey(id common.Identity) ([]byte, error) {
	return id.Bytes(), nil
}

func (identityKey) DecodeKey(data []byte) (common.Identity, error) {
	id, err := common.NewIdentity(data)
	return id, errors.WithStack(err)
}

type stringKey struct{}

func (stringKey) EncodeKey(s string) ([]byte, error) {
	return []byte(s), nil
}

func (stringKey) DecodeKey(data []byte) (string, error) {
	return string(data), nil
}
