package common

import (
	"encoding/json"
	"testing"

	"github.com/ictalent/talent-network/common/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity(t *testing.T) {
	t.Run("text_round_trip", func(t *testing.T) {
		id := MustNewIdentity([]byte{0x00, 0x01, 0xfe, 0x42})
		parsed, err := ParseIdentity(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	})
	t.Run("anonymous", func(t *testing.T) {
		assert.True(t, AnonymousIdentity.IsAnonymous())
		assert.False(t, AnonymousIdentity.IsAuthenticated())
		assert.False(t, Identity{}.IsAuthenticated())
		assert.True(t, MustNewIdentity([]byte("alice")).IsAuthenticated())

		parsed, err := ParseIdentity(AnonymousIdentity.String())
		require.NoError(t, err)
		assert.True(t, parsed.IsAnonymous())
	})
	t.Run("invalid", func(t *testing.T) {
		_, err := ParseIdentity("")
		assert.ErrorIs(t, err, errs.InvalidArgument)

		_, err = ParseIdentity("0OIl")
		assert.ErrorIs(t, err, errs.InvalidArgument)

		_, err = NewIdentity(make([]byte, MaxIdentityLength+1))
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})
	t.Run("json", func(t *testing.T) {
		type payload struct {
			Owner Identity `json:"owner"`
		}
		in := payload{Owner: MustNewIdentity([]byte("bob"))}
		data, err := json.Marshal(in)
		require.NoError(t, err)

		var out payload
		require.NoError(t, json.Unmarshal(data, &out))
		assert.Equal(t, in, out)
	})
}
