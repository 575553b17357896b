package provisioning

import (
	"github.com/cockroachdb/errors"
	"github.com/ictalent/talent-network/common"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/entity"
	"github.com/ictalent/talent-network/pkg/codec"
)

const (
	MetadataKeyName     = "icrc1:name"
	MetadataKeySymbol   = "icrc1:symbol"
	MetadataKeyDecimals = "icrc1:decimals"
	MetadataKeyLogo     = "icrc1:logo"
)

// Account is a ledger account, an owner and an optional 32 byte subaccount.
type Account struct {
	Owner      common.Identity `cbor:"owner"`
	Subaccount []byte          `cbor:"subaccount,omitempty"`
}

// MetadataValue holds exactly one of its fields.
type MetadataValue struct {
	Nat  *uint64 `cbor:"nat,omitempty"`
	Int  *int64  `cbor:"int,omitempty"`
	Text *string `cbor:"text,omitempty"`
	Blob []byte  `cbor:"blob,omitempty"`
}

type MetadataEntry struct {
	Key   string        `cbor:"key"`
	Value MetadataValue `cbor:"value"`
}

type InitialBalance struct {
	Account Account `cbor:"account"`
	Amount  uint64  `cbor:"amount"`
}

type FeatureFlags struct {
	ICRC2 bool `cbor:"icrc2"`
}

type ArchiveOptions struct {
	NumBlocksToArchive         uint64            `cbor:"num_blocks_to_archive"`
	TriggerThreshold           uint64            `cbor:"trigger_threshold"`
	MaxMessageSizeBytes        *uint64           `cbor:"max_message_size_bytes,omitempty"`
	CyclesForArchiveCreation   *uint64           `cbor:"cycles_for_archive_creation,omitempty"`
	NodeMaxMemorySizeBytes     *uint64           `cbor:"node_max_memory_size_bytes,omitempty"`
	ControllerID               common.Identity   `cbor:"controller_id"`
	MoreControllerIDs          []common.Identity `cbor:"more_controller_ids,omitempty"`
	MaxTransactionsPerResponse *uint64           `cbor:"max_transactions_per_response,omitempty"`
}

// InitArgs is the install argument of a talent token ledger.
type InitArgs struct {
	MintingAccount               Account          `cbor:"minting_account"`
	FeeCollectorAccount          *Account         `cbor:"fee_collector_account,omitempty"`
	TransferFee                  uint64           `cbor:"transfer_fee"`
	Decimals                     *uint8           `cbor:"decimals,omitempty"`
	MaxMemoLength                *uint16          `cbor:"max_memo_length,omitempty"`
	TokenSymbol                  string           `cbor:"token_symbol"`
	TokenName                    string           `cbor:"token_name"`
	Metadata                     []MetadataEntry  `cbor:"metadata"`
	InitialBalances              []InitialBalance `cbor:"initial_balances"`
	FeatureFlags                 *FeatureFlags    `cbor:"feature_flags,omitempty"`
	MaximumNumberOfAccounts      *uint64          `cbor:"maximum_number_of_accounts,omitempty"`
	AccountsOverflowTrimQuantity *uint64          `cbor:"accounts_overflow_trim_quantity,omitempty"`
	ArchiveOptions               ArchiveOptions   `cbor:"archive_options"`
}

// LedgerLimits are the account and archive limits every talent token ledger is installed with.
type LedgerLimits struct {
	MaxMemoLength                uint16
	MaximumNumberOfAccounts      uint64
	AccountsOverflowTrimQuantity uint64
	NumBlocksToArchive           uint64
	TriggerThreshold             uint64
	MaxMessageSizeBytes          uint64
	CyclesForArchiveCreation     uint64
	NodeMaxMemorySizeBytes       uint64
	MaxTransactionsPerResponse   uint64
}

var DefaultLedgerLimits = LedgerLimits{
	MaxMemoLength:                256,
	MaximumNumberOfAccounts:      1_000_000,
	AccountsOverflowTrimQuantity: 100_000,
	NumBlocksToArchive:           2000,
	TriggerThreshold:             1000,
	MaxMessageSizeBytes:          1024 * 1024,
	CyclesForArchiveCreation:     10_000_000_000_000,
	NodeMaxMemorySizeBytes:       3 * 1024 * 1024 * 1024,
	MaxTransactionsPerResponse:   100,
}

// NewInitArgs builds the install argument of the ledger of a new talent token. The service mints
// and holds the whole supply, the creator collects fees and co-controls the archive.
func NewInitArgs(service, creator common.Identity, args entity.CreateTokenArgs, limits LedgerLimits) InitArgs {
	decimals := uint64(args.Decimals)
	metadata := []MetadataEntry{
		{Key: MetadataKeyName, Value: MetadataValue{Text: &args.Name}},
		{Key: MetadataKeySymbol, Value: MetadataValue{Text: &args.Symbol}},
		{Key: MetadataKeyDecimals, Value: MetadataValue{Nat: &decimals}},
	}
	if args.Logo != nil {
		metadata = append(metadata, MetadataEntry{Key: MetadataKeyLogo, Value: MetadataValue{Text: args.Logo}})
	}

	return InitArgs{
		MintingAccount:      Account{Owner: service},
		FeeCollectorAccount: &Account{Owner: creator},
		TransferFee:         0,
		Decimals:            &args.Decimals,
		MaxMemoLength:       &limits.MaxMemoLength,
		TokenSymbol:         args.Symbol,
		TokenName:           args.Name,
		Metadata:            metadata,
		InitialBalances: []InitialBalance{
			{Account: Account{Owner: service}, Amount: args.TotalSupply},
		},
		FeatureFlags:                 &FeatureFlags{ICRC2: true},
		MaximumNumberOfAccounts:      &limits.MaximumNumberOfAccounts,
		AccountsOverflowTrimQuantity: &limits.AccountsOverflowTrimQuantity,
		ArchiveOptions: ArchiveOptions{
			NumBlocksToArchive:         limits.NumBlocksToArchive,
			TriggerThreshold:           limits.TriggerThreshold,
			MaxMessageSizeBytes:        &limits.MaxMessageSizeBytes,
			CyclesForArchiveCreation:   &limits.CyclesForArchiveCreation,
			NodeMaxMemorySizeBytes:     &limits.NodeMaxMemorySizeBytes,
			ControllerID:               service,
			MoreControllerIDs:          []common.Identity{creator},
			MaxTransactionsPerResponse: &limits.MaxTransactionsPerResponse,
		},
	}
}

func (a InitArgs) Encode() ([]byte, error) {
	data, err := codec.Marshal(a)
	if err != nil {
		return nil, errors.Wrap(err, "can't encode init args")
	}
	return data, nil
}
