package config

import (
	"time"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/ictalent/talent-network/common"
	"github.com/ictalent/talent-network/common/errs"
	"github.com/samber/lo"
)

const (
	DefaultFee              = 100
	DefaultPlatformDecimals = 8
	DefaultCycles           = 2_000_000_000_000
	DefaultHTTPTimeout      = 30 * time.Second
	DefaultReservationTTL   = time.Hour
)

type Config struct {
	// ServiceIdentity is the identity this service acts as on ledgers and the resource manager.
	ServiceIdentity string `mapstructure:"service_identity"`
	// TreasuryIdentity collects provisioning fees and funds faucet payouts.
	TreasuryIdentity string `mapstructure:"treasury_identity"`
	// Fee charged for a token creation, in platform token units. Default is 100, 0 disables the fee.
	Fee *uint64 `mapstructure:"fee"`
	// ReservationTTL is how long an unfinished token creation blocks its owner. Default is 1h.
	ReservationTTL time.Duration `mapstructure:"reservation_ttl"`

	Ledger          LedgerConfig          `mapstructure:"ledger"`
	ResourceManager ResourceManagerConfig `mapstructure:"resource_manager"`
	TokenLedgers    TokenLedgersConfig    `mapstructure:"token_ledgers"`
	Archive         ArchiveConfig         `mapstructure:"archive"`

	// APIHandlers to mount. Only "http" is supported.
	APIHandlers []string `mapstructure:"api_handlers"`
}

type LedgerConfig struct {
	URL      string        `mapstructure:"url"`
	Decimals uint8         `mapstructure:"decimals"` // Default is 8
	Timeout  time.Duration `mapstructure:"timeout"`  // Default is 30s
	Debug    bool          `mapstructure:"debug"`
}

type ResourceManagerConfig struct {
	URL               string        `mapstructure:"url"`
	Cycles            uint64        `mapstructure:"cycles"` // Default is 2T
	ComputeAllocation *uint64       `mapstructure:"compute_allocation"`
	MemoryAllocation  *uint64       `mapstructure:"memory_allocation"`
	Timeout           time.Duration `mapstructure:"timeout"` // Default is 30s
	Debug             bool          `mapstructure:"debug"`
}

type TokenLedgersConfig struct {
	// URLTemplate is the base url of a talent token ledger, "{token_id}" is replaced by the token id.
	URLTemplate string        `mapstructure:"url_template"`
	Timeout     time.Duration `mapstructure:"timeout"` // Default is 30s
	Debug       bool          `mapstructure:"debug"`
}

// ArchiveConfig overrides the ledger limits passed to every created token. Zero values keep the defaults.
type ArchiveConfig struct {
	MaxMemoLength                uint16 `mapstructure:"max_memo_length"`
	MaximumNumberOfAccounts      uint64 `mapstructure:"maximum_number_of_accounts"`
	AccountsOverflowTrimQuantity uint64 `mapstructure:"accounts_overflow_trim_quantity"`
	NumBlocksToArchive           uint64 `mapstructure:"num_blocks_to_archive"`
	TriggerThreshold             uint64 `mapstructure:"trigger_threshold"`
	MaxMessageSizeBytes          uint64 `mapstructure:"max_message_size_bytes"`
	CyclesForArchiveCreation     uint64 `mapstructure:"cycles_for_archive_creation"`
	NodeMaxMemorySizeBytes       uint64 `mapstructure:"node_max_memory_size_bytes"`
	MaxTransactionsPerResponse   uint64 `mapstructure:"max_transactions_per_response"`
}

// WithDefaults returns a copy of the config with every unset optional field filled.
func (c Config) WithDefaults() Config {
	if c.Fee == nil {
		c.Fee = lo.ToPtr(uint64(DefaultFee))
	}
	c.ReservationTTL = utils.Default(c.ReservationTTL, DefaultReservationTTL)
	c.Ledger.Decimals = utils.Default(c.Ledger.Decimals, DefaultPlatformDecimals)
	c.Ledger.Timeout = utils.Default(c.Ledger.Timeout, DefaultHTTPTimeout)
	c.ResourceManager.Cycles = utils.Default(c.ResourceManager.Cycles, DefaultCycles)
	c.ResourceManager.Timeout = utils.Default(c.ResourceManager.Timeout, DefaultHTTPTimeout)
	c.TokenLedgers.Timeout = utils.Default(c.TokenLedgers.Timeout, DefaultHTTPTimeout)
	if len(c.APIHandlers) == 0 {
		c.APIHandlers = []string{"http"}
	}
	return c
}

// Identities parses the service and treasury identities.
func (c Config) Identities() (service common.Identity, treasury common.Identity, err error) {
	service, err = common.ParseIdentity(c.ServiceIdentity)
	if err != nil {
		return common.Identity{}, common.Identity{}, errors.Wrap(err, "invalid service_identity")
	}
	treasury, err = common.ParseIdentity(c.TreasuryIdentity)
	if err != nil {
		return common.Identity{}, common.Identity{}, errors.Wrap(err, "invalid treasury_identity")
	}
	if service == treasury {
		return common.Identity{}, common.Identity{}, errors.Wrap(errs.InvalidArgument, "service_identity and treasury_identity must differ")
	}
	return service, treasury, nil
}

func (c Config) Validate() error {
	var errList []error
	if _, _, err := c.Identities(); err != nil {
		errList = append(errList, err)
	}
	if c.Ledger.URL == "" {
		errList = append(errList, errors.Wrap(errs.InvalidArgument, "ledger.url is required"))
	}
	if c.ResourceManager.URL == "" {
		errList = append(errList, errors.Wrap(errs.InvalidArgument, "resource_manager.url is required"))
	}
	if c.TokenLedgers.URLTemplate == "" {
		errList = append(errList, errors.Wrap(errs.InvalidArgument, "token_ledgers.url_template is required"))
	}
	if c.ReservationTTL < 0 {
		errList = append(errList, errors.Wrap(errs.InvalidArgument, "reservation_ttl must not be negative"))
	}
	return errors.Join(errList...)
}
