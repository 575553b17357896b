package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/ictalent/talent-network/common"
)

type purchaseTokenRequest struct {
	Amount uint64 `json:"amount"`
}

type purchaseTokenResult struct {
	TokenId       common.Identity `json:"tokenId"`
	Amount        uint64          `json:"amount"`
	PaymentBlock  uint64          `json:"paymentBlock"`
	DeliveryBlock uint64          `json:"deliveryBlock"`
}

func (h *HttpHandler) PurchaseToken(ctx *fiber.Ctx) (err error) {
	tokenID, err := parseIdentityParam(ctx, "tokenId")
	if err != nil {
		return errors.WithStack(err)
	}
	var req purchaseTokenRequest
	if err := parseBody(ctx, &req); err != nil {
		return errors.WithStack(err)
	}
	if req.Amount == 0 {
		return errors.WithStack(validationError([]error{errors.New("'amount' must be greater than zero")}))
	}

	receipt, err := h.Purchase.Purchase(ctx.UserContext(), caller(ctx), tokenID, req.Amount)
	if err != nil {
		return errors.Wrap(err, "error during Purchase")
	}
	return ok(ctx, purchaseTokenResult{
		TokenId:       receipt.TokenID,
		Amount:        receipt.Amount,
		PaymentBlock:  receipt.PaymentBlock,
		DeliveryBlock: receipt.DeliveryBlock,
	})
}

type getPurchasesResult struct {
	Identity common.Identity   `json:"identity"`
	Tokens   []common.Identity `json:"tokens"`
}

func (h *HttpHandler) getPurchases(ctx *fiber.Ctx, identity common.Identity) error {
	tokens, err := h.Purchase.History(ctx.UserContext(), identity)
	if err != nil {
		return errors.Wrap(err, "error during History")
	}
	if tokens == nil {
		tokens = []common.Identity{}
	}
	return ok(ctx, getPurchasesResult{Identity: identity, Tokens: tokens})
}

func (h *HttpHandler) GetMyPurchases(ctx *fiber.Ctx) (err error) {
	return h.getPurchases(ctx, caller(ctx))
}

func (h *HttpHandler) GetPurchases(ctx *fiber.Ctx) (err error) {
	identity, err := parseIdentityParam(ctx, "identity")
	if err != nil {
		return errors.WithStack(err)
	}
	return h.getPurchases(ctx, identity)
}
