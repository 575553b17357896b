package errorhandler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/ictalent/talent-network/common/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, StatusOf(errors.WithStack(errs.NotAuthorized)))
	assert.Equal(t, http.StatusConflict, StatusOf(errors.Wrap(errs.AlreadyHasToken, "owner")))
	assert.Equal(t, http.StatusPaymentRequired, StatusOf(errors.Mark(errors.New("insufficient allowance"), errs.FeeChargeFailed)))
	assert.Equal(t, http.StatusBadGateway, StatusOf(errors.Mark(errors.WithStack(errs.ExternalCallFailed), errs.FeeChargeFailed)))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusOf(errors.Mark(errors.WithStack(errs.TransferFailed), errs.TransferFailed)))
	assert.Equal(t, http.StatusBadGateway, StatusOf(errors.Mark(errors.WithStack(errs.ExternalCallFailed), errs.TransferFailed)))
	assert.Equal(t, http.StatusBadGateway, StatusOf(errors.WithStack(errs.ExternalCallFailed)))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
}

func TestHTTPErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: NewHTTPErrorHandler()})
	app.Get("/public", func(c *fiber.Ctx) error {
		return errs.WithPublicMessage(errors.WithStack(errs.NotFound), "token")
	})
	app.Get("/internal", func(c *fiber.Ctx) error {
		return errors.New("secret detail")
	})
	app.Get("/rejected", func(c *fiber.Ctx) error {
		rejected := errs.WithPublicMessage(errors.New("InsufficientFunds"), "ledger rejected")
		return errs.MarkWithReason(errors.Wrap(rejected, "transfer"), errs.TransferFailed)
	})
	app.Get("/unreachable", func(c *fiber.Ctx) error {
		cause := errs.WithFixedPublicMessage(errors.Mark(errors.New("dial tcp 10.0.0.7:80"), errs.ExternalCallFailed), "ledger unavailable")
		return errs.MarkWithReason(errors.Wrap(cause, "transfer"), errs.TransferFailed)
	})

	testCases := []struct {
		path    string
		status  int
		message string
	}{
		{"/public", http.StatusNotFound, "token: Not Found"},
		{"/internal", http.StatusInternalServerError, "Internal Server Error"},
		{"/rejected", http.StatusUnprocessableEntity, "Transfer Failed: ledger rejected: InsufficientFunds"},
		{"/unreachable", http.StatusBadGateway, "Transfer Failed: ledger unavailable"},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tc.path, nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var out map[string]string
			require.NoError(t, json.Unmarshal(body, &out))

			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.message, out["error"])
		})
	}
}
