package tokenfactory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/ictalent/talent-network/common"
	"github.com/ictalent/talent-network/common/errs"
	"github.com/ictalent/talent-network/internal/config"
	"github.com/ictalent/talent-network/internal/kvstore"
	tfconfig "github.com/ictalent/talent-network/modules/tokenfactory/config"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/provisioning"
	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{
		Store: kvstore.Config{Backend: kvstore.BackendMemory},
		Modules: config.Modules{
			TokenFactory: tfconfig.Config{
				ServiceIdentity:  common.MustNewIdentity([]byte("service")).String(),
				TreasuryIdentity: common.MustNewIdentity([]byte("treasury")).String(),
				Ledger:           tfconfig.LedgerConfig{URL: "http://127.0.0.1:1"},
				ResourceManager:  tfconfig.ResourceManagerConfig{URL: "http://127.0.0.1:1"},
				TokenLedgers:     tfconfig.TokenLedgersConfig{URLTemplate: "http://127.0.0.1:1/{token_id}"},
			},
		},
	}
}

func newInjector(conf config.Config) (do.Injector, *fiber.App) {
	app := fiber.New()
	injector := do.New()
	do.ProvideValue(injector, conf)
	do.ProvideValue[context.Context](injector, context.Background())
	do.ProvideValue(injector, app)
	return injector, app
}

func TestNew(t *testing.T) {
	injector, app := newInjector(testConfig())

	tf, err := New(injector)
	require.NoError(t, err)
	require.NotNil(t, tf.Provisioning)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/tokenfactory/v1/admin", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, tf.Shutdown(context.Background()))
}

func TestNewInvalidConfig(t *testing.T) {
	t.Run("missing identities", func(t *testing.T) {
		conf := testConfig()
		conf.Modules.TokenFactory.ServiceIdentity = ""
		injector, _ := newInjector(conf)

		_, err := New(injector)
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})

	t.Run("unsupported api handler", func(t *testing.T) {
		conf := testConfig()
		conf.Modules.TokenFactory.APIHandlers = []string{"grpc"}
		injector, _ := newInjector(conf)

		_, err := New(injector)
		assert.ErrorIs(t, err, errs.Unsupported)
	})

	t.Run("unsupported store", func(t *testing.T) {
		conf := testConfig()
		conf.Store.Backend = "sqlite"
		injector, _ := newInjector(conf)

		_, err := New(injector)
		assert.ErrorIs(t, err, errs.Unsupported)
	})
}

func TestLedgerLimits(t *testing.T) {
	assert.Equal(t, provisioning.DefaultLedgerLimits, ledgerLimits(tfconfig.ArchiveConfig{}))

	limits := ledgerLimits(tfconfig.ArchiveConfig{MaxMemoLength: 32, TriggerThreshold: 5})
	assert.EqualValues(t, 32, limits.MaxMemoLength)
	assert.EqualValues(t, 5, limits.TriggerThreshold)
	assert.Equal(t, provisioning.DefaultLedgerLimits.NumBlocksToArchive, limits.NumBlocksToArchive)
}
