package provisioning

import (
	"testing"

	"github.com/ictalent/talent-network/common"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/entity"
	"github.com/ictalent/talent-network/pkg/codec"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInitArgs(t *testing.T) {
	creator := common.MustNewIdentity([]byte("creator"))
	args := NewInitArgs(service, creator, entity.CreateTokenArgs{
		Name:        "Creator Coin",
		Symbol:      "CRC",
		Decimals:    6,
		TotalSupply: 21_000_000,
		Logo:        lo.ToPtr("data:image/png;base64,AAAA"),
	}, DefaultLedgerLimits)

	assert.Equal(t, Account{Owner: service}, args.MintingAccount)
	assert.Equal(t, &Account{Owner: creator}, args.FeeCollectorAccount)
	assert.Equal(t, uint64(0), args.TransferFee)
	assert.Equal(t, []InitialBalance{{Account: Account{Owner: service}, Amount: 21_000_000}}, args.InitialBalances)
	assert.True(t, args.FeatureFlags.ICRC2)
	assert.Equal(t, uint8(6), *args.Decimals)
	assert.Equal(t, uint16(256), *args.MaxMemoLength)
	assert.Equal(t, service, args.ArchiveOptions.ControllerID)
	assert.Equal(t, []common.Identity{creator}, args.ArchiveOptions.MoreControllerIDs)

	keys := lo.Map(args.Metadata, func(entry MetadataEntry, _ int) string { return entry.Key })
	assert.Equal(t, []string{MetadataKeyName, MetadataKeySymbol, MetadataKeyDecimals, MetadataKeyLogo}, keys)
	assert.Equal(t, uint64(6), *args.Metadata[2].Value.Nat)
}

func TestInitArgsEncode(t *testing.T) {
	creator := common.MustNewIdentity([]byte("creator"))
	args := NewInitArgs(service, creator, tokenArgs, DefaultLedgerLimits)

	first, err := args.Encode()
	require.NoError(t, err)
	second, err := NewInitArgs(service, creator, tokenArgs, DefaultLedgerLimits).Encode()
	require.NoError(t, err)
	assert.Equal(t, first, second, "encoding must be deterministic")

	var decoded InitArgs
	require.NoError(t, codec.Unmarshal(first, &decoded))
	assert.Equal(t, args, decoded)
}
