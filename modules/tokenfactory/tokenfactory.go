package tokenfactory

import (
	"context"
	"strings"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/ictalent/talent-network/common"
	"github.com/ictalent/talent-network/common/errs"
	"github.com/ictalent/talent-network/internal/config"
	"github.com/ictalent/talent-network/internal/kvstore"
	"github.com/ictalent/talent-network/modules/tokenfactory/api/httphandler"
	tfconfig "github.com/ictalent/talent-network/modules/tokenfactory/config"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/authority"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/faucet"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/ledger"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/provisioning"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/purchase"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/resourcemgr"
	kvrepo "github.com/ictalent/talent-network/modules/tokenfactory/repository/kvstore"
	"github.com/ictalent/talent-network/pkg/httpclient"
	"github.com/ictalent/talent-network/pkg/logger"
	"github.com/ictalent/talent-network/pkg/logger/slogx"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
)

// TokenFactory owns the store and the services of the module. It is constructed once per process.
type TokenFactory struct {
	store *kvstore.Store

	Authority    *authority.Manager
	Faucet       *faucet.Service
	Provisioning *provisioning.Service
	Purchase     *purchase.Service
}

func New(injector do.Injector) (*TokenFactory, error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector)
	ctx = logger.WithContext(ctx, slogx.String("module", "tokenfactory"))

	tfConf := conf.Modules.TokenFactory.WithDefaults()
	if err := tfConf.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid tokenfactory configuration")
	}
	serviceIdentity, treasury, err := tfConf.Identities()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	platform, err := ledger.NewHTTPLedger(tfConf.Ledger.URL, httpclient.Config{
		Debug:   tfConf.Ledger.Debug,
		Timeout: tfConf.Ledger.Timeout,
	})
	if err != nil {
		return nil, errors.Wrap(err, "can't create ledger client")
	}
	tokens, err := ledger.NewHTTPResolver(tfConf.TokenLedgers.URLTemplate, httpclient.Config{
		Debug:   tfConf.TokenLedgers.Debug,
		Timeout: tfConf.TokenLedgers.Timeout,
	})
	if err != nil {
		return nil, errors.Wrap(err, "can't create token ledger resolver")
	}
	resources, err := resourcemgr.NewHTTPResourceManager(tfConf.ResourceManager.URL, httpclient.Config{
		Debug:   tfConf.ResourceManager.Debug,
		Timeout: tfConf.ResourceManager.Timeout,
	})
	if err != nil {
		return nil, errors.Wrap(err, "can't create resource manager client")
	}

	store, err := kvstore.Open(ctx, conf.Store, conf.Postgres)
	if err != nil {
		return nil, errors.Wrap(err, "can't open store")
	}

	success := false
	defer func() {
		if !success {
			if err := store.Close(ctx); err != nil {
				logger.WarnContext(ctx, "Failed to close store", slogx.Error(err))
			}
		}
	}()

	tf := newTokenFactory(store, platform, tokens, resources, tfConf, identities{Service: serviceIdentity, Treasury: treasury})

	// Mount API
	apiHandlers := lo.Uniq(tfConf.APIHandlers)
	for _, handler := range apiHandlers {
		switch strings.ToLower(handler) {
		case "http":
			httpServer := do.MustInvoke[*fiber.App](injector)
			tfHTTPHandler := httphandler.New(tf.services(platform, tfConf.Ledger.Decimals, tokens))
			if err := tfHTTPHandler.Mount(httpServer); err != nil {
				return nil, errors.Wrap(err, "can't mount TokenFactory API")
			}
			logger.InfoContext(ctx, "Mounted HTTP handler")
		default:
			return nil, errors.Wrapf(errs.Unsupported, "%q API handler is not supported", handler)
		}
	}

	success = true
	logger.InfoContext(ctx, "TokenFactory module initialized",
		slogx.Stringer("service", serviceIdentity),
		slogx.Stringer("treasury", treasury),
		slogx.Uint64("fee", *tfConf.Fee),
	)
	return tf, nil
}

type identities struct {
	Service  common.Identity
	Treasury common.Identity
}

func newTokenFactory(store *kvstore.Store, platform ledger.Ledger, tokens ledger.Resolver, resources resourcemgr.ResourceManager, conf tfconfig.Config, ids identities) *TokenFactory {
	repo := kvrepo.NewRepository(store)
	transfers := ledger.NewDelegatedClient(platform, ids.Service)
	authorityManager := authority.New(repo)

	return &TokenFactory{
		store:     store,
		Authority: authorityManager,
		Faucet:    faucet.New(repo, authorityManager, transfers, ids.Treasury),
		Provisioning: provisioning.New(repo, authorityManager, transfers, resources, provisioning.Options{
			Service:        ids.Service,
			Treasury:       ids.Treasury,
			Fee:            *conf.Fee,
			ReservationTTL: conf.ReservationTTL,
			Settings: resourcemgr.Settings{
				Cycles:            conf.ResourceManager.Cycles,
				ComputeAllocation: conf.ResourceManager.ComputeAllocation,
				MemoryAllocation:  conf.ResourceManager.MemoryAllocation,
			},
			Limits: ledgerLimits(conf.Archive),
		}),
		Purchase: purchase.New(repo, transfers, tokens, ids.Service),
	}
}

func (tf *TokenFactory) services(platform ledger.Ledger, platformDecimals uint8, tokens ledger.Resolver) httphandler.Services {
	return httphandler.Services{
		Authority:        tf.Authority,
		Faucet:           tf.Faucet,
		Provisioning:     tf.Provisioning,
		Purchase:         tf.Purchase,
		Platform:         platform,
		PlatformDecimals: platformDecimals,
		Tokens:           tokens,
	}
}

func ledgerLimits(archive tfconfig.ArchiveConfig) provisioning.LedgerLimits {
	defaults := provisioning.DefaultLedgerLimits
	return provisioning.LedgerLimits{
		MaxMemoLength:                utils.Default(archive.MaxMemoLength, defaults.MaxMemoLength),
		MaximumNumberOfAccounts:      utils.Default(archive.MaximumNumberOfAccounts, defaults.MaximumNumberOfAccounts),
		AccountsOverflowTrimQuantity: utils.Default(archive.AccountsOverflowTrimQuantity, defaults.AccountsOverflowTrimQuantity),
		NumBlocksToArchive:           utils.Default(archive.NumBlocksToArchive, defaults.NumBlocksToArchive),
		TriggerThreshold:             utils.Default(archive.TriggerThreshold, defaults.TriggerThreshold),
		MaxMessageSizeBytes:          utils.Default(archive.MaxMessageSizeBytes, defaults.MaxMessageSizeBytes),
		CyclesForArchiveCreation:     utils.Default(archive.CyclesForArchiveCreation, defaults.CyclesForArchiveCreation),
		NodeMaxMemorySizeBytes:       utils.Default(archive.NodeMaxMemorySizeBytes, defaults.NodeMaxMemorySizeBytes),
		MaxTransactionsPerResponse:   utils.Default(archive.MaxTransactionsPerResponse, defaults.MaxTransactionsPerResponse),
	}
}

// Shutdown closes the store.
func (tf *TokenFactory) Shutdown(ctx context.Context) error {
	if err := tf.store.Close(ctx); err != nil {
		return errors.Wrap(err, "failed to close store")
	}
	return nil
}
