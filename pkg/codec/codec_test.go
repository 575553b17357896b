package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordV1 struct {
	Name    string    `cbor:"name"`
	Amount  uint64    `cbor:"amount"`
	Logo    *string   `cbor:"logo,omitempty"`
	Created time.Time `cbor:"created"`
}

type recordV2 struct {
	Name    string    `cbor:"name"`
	Amount  uint64    `cbor:"amount"`
	Logo    *string   `cbor:"logo,omitempty"`
	Created time.Time `cbor:"created"`
	Price   uint64    `cbor:"price"`
}

func TestRoundTrip(t *testing.T) {
	logo := "data:image/png;base64,AAAA"
	in := recordV1{Name: "Alice", Amount: 1_000_000, Logo: &logo, Created: time.Unix(1700000000, 42).UTC()}

	data, err := Marshal(in)
	require.NoError(t, err)

	var out recordV1
	require.NoError(t, Unmarshal(data, &out))
	assert.True(t, in.Created.Equal(out.Created))
	out.Created = in.Created
	assert.Equal(t, in, out)
}

func TestDeterministic(t *testing.T) {
	a, err := Marshal(map[string]int{"b": 2, "a": 1, "c": 3})
	require.NoError(t, err)
	b, err := Marshal(map[string]int{"c": 3, "a": 1, "b": 2})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestForwardCompatible(t *testing.T) {
	newer := recordV2{Name: "Bob", Amount: 7, Price: 100, Created: time.Unix(0, 0).UTC()}
	data, err := Marshal(newer)
	require.NoError(t, err)

	var older recordV1
	require.NoError(t, Unmarshal(data, &older))
	assert.Equal(t, "Bob", older.Name)
	assert.Equal(t, uint64(7), older.Amount)

	data, err = Marshal(older)
	require.NoError(t, err)

	var upgraded recordV2
	require.NoError(t, Unmarshal(data, &upgraded))
	assert.Zero(t, upgraded.Price)
}
