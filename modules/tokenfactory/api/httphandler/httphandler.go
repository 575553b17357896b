package httphandler

import (
	"context"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/ictalent/talent-network/common"
	"github.com/ictalent/talent-network/common/errs"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/authority"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/entity"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/faucet"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/ledger"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/provisioning"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/purchase"
	"github.com/ictalent/talent-network/pkg/decimals"
	"github.com/ictalent/talent-network/pkg/middleware/requestcontext"
	"github.com/shopspring/decimal"
)

type Services struct {
	Authority    *authority.Manager
	Faucet       *faucet.Service
	Provisioning *provisioning.Service
	Purchase     *purchase.Service

	// Platform is the ledger of the platform token used for fees, faucet payouts and purchases.
	Platform         ledger.Ledger
	PlatformDecimals uint8
	// Tokens opens the ledger of a talent token.
	Tokens ledger.Resolver
}

type HttpHandler struct {
	Services
}

func New(services Services) *HttpHandler {
	return &HttpHandler{
		Services: services,
	}
}

type HttpResponse[T any] struct {
	Error  *string `json:"error"`
	Result *T      `json:"result,omitempty"`
}

func ok[T any](ctx *fiber.Ctx, result T) error {
	return errors.WithStack(ctx.JSON(HttpResponse[T]{Result: &result}))
}

func caller(ctx *fiber.Ctx) common.Identity {
	return requestcontext.GetCaller(ctx.UserContext())
}

// validationError joins errList into one public InvalidArgument error. It returns nil for an empty list.
func validationError(errList []error) error {
	if len(errList) == 0 {
		return nil
	}
	return errs.Invalid(errors.Join(errList...), "validation error")
}

func parseBody(ctx *fiber.Ctx, out any) error {
	if err := ctx.BodyParser(out); err != nil {
		return errs.Invalid(err, "invalid request body")
	}
	return nil
}

// parseIdentityParam parses the route parameter name as an identity.
func parseIdentityParam(ctx *fiber.Ctx, name string) (common.Identity, error) {
	raw, err := url.PathUnescape(ctx.Params(name))
	if err != nil {
		return common.Identity{}, errs.Invalid(err, name)
	}
	id, err := common.ParseIdentity(raw)
	if err != nil {
		return common.Identity{}, errs.WithPublicMessage(err, name)
	}
	return id, nil
}

// parseIdentityQuery parses an optional identity. The zero identity is returned if raw is empty.
func parseIdentityQuery(name, raw string) (common.Identity, error) {
	if raw == "" {
		return common.Identity{}, nil
	}
	id, err := common.ParseIdentity(raw)
	if err != nil {
		return common.Identity{}, errs.WithPublicMessage(err, name)
	}
	return id, nil
}

type token struct {
	Id                 common.Identity `json:"id"`
	Name               string          `json:"name"`
	Symbol             string          `json:"symbol"`
	Decimals           uint8           `json:"decimals"`
	TotalSupply        uint64          `json:"totalSupply"`
	DisplayTotalSupply decimal.Decimal `json:"displayTotalSupply"`
	Owner              common.Identity `json:"owner"`
	Logo               *string         `json:"logo,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
}

func mapToken(t *entity.TokenRecord) token {
	return token{
		Id:                 t.ResourceID,
		Name:               t.Name,
		Symbol:             t.Symbol,
		Decimals:           t.Decimals,
		TotalSupply:        t.TotalSupply,
		DisplayTotalSupply: decimals.ToDecimal(t.TotalSupply, t.Decimals),
		Owner:              t.Owner,
		Logo:               t.Logo,
		CreatedAt:          t.CreatedTime().UTC(),
	}
}

// resolveLedger returns the platform ledger for the zero tokenID, otherwise the ledger of the talent token.
func (h *HttpHandler) resolveLedger(ctx context.Context, tokenID common.Identity) (ledger.Ledger, uint8, error) {
	if tokenID.IsZero() {
		return h.Platform, h.PlatformDecimals, nil
	}
	record, err := h.Provisioning.GetToken(ctx, tokenID)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}
	l, err := h.Tokens.LedgerOf(tokenID)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}
	return l, record.Decimals, nil
}
