package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/ictalent/talent-network/common"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/entity"
	"github.com/samber/lo"
)

type createTokenRequest struct {
	Name        string  `json:"name"`
	Symbol      string  `json:"symbol"`
	Decimals    uint8   `json:"decimals"`
	TotalSupply uint64  `json:"totalSupply"`
	Logo        *string `json:"logo"`
}

type createTokenResult struct {
	Id common.Identity `json:"id"`
}

func (h *HttpHandler) CreateToken(ctx *fiber.Ctx) (err error) {
	var req createTokenRequest
	if err := parseBody(ctx, &req); err != nil {
		return errors.WithStack(err)
	}

	tokenID, err := h.Provisioning.CreateToken(ctx.UserContext(), caller(ctx), entity.CreateTokenArgs{
		Name:        req.Name,
		Symbol:      req.Symbol,
		Decimals:    req.Decimals,
		TotalSupply: req.TotalSupply,
		Logo:        req.Logo,
	})
	if err != nil {
		return errors.Wrap(err, "error during CreateToken")
	}
	return ok(ctx, createTokenResult{Id: tokenID})
}

type getTokensResult struct {
	List []token `json:"list"`
}

func (h *HttpHandler) GetTokens(ctx *fiber.Ctx) (err error) {
	records, err := h.Provisioning.ListTokens(ctx.UserContext())
	if err != nil {
		return errors.Wrap(err, "error during ListTokens")
	}
	return ok(ctx, getTokensResult{
		List: lo.Map(records, func(t *entity.TokenRecord, _ int) token {
			return mapToken(t)
		}),
	})
}

func (h *HttpHandler) GetToken(ctx *fiber.Ctx) (err error) {
	tokenID, err := parseIdentityParam(ctx, "tokenId")
	if err != nil {
		return errors.WithStack(err)
	}
	record, err := h.Provisioning.GetToken(ctx.UserContext(), tokenID)
	if err != nil {
		return errors.Wrap(err, "error during GetToken")
	}
	return ok(ctx, mapToken(record))
}

func (h *HttpHandler) GetTokenByOwner(ctx *fiber.Ctx) (err error) {
	owner, err := parseIdentityParam(ctx, "owner")
	if err != nil {
		return errors.WithStack(err)
	}
	record, err := h.Provisioning.GetTokenByOwner(ctx.UserContext(), owner)
	if err != nil {
		return errors.Wrap(err, "error during GetTokenByOwner")
	}
	return ok(ctx, mapToken(record))
}
