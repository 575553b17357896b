package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/ictalent/talent-network/common"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/entity"
	"github.com/ictalent/talent-network/pkg/decimals"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type faucetRequest struct {
	Requester             common.Identity     `json:"requester"`
	CurrentRequestAmount  uint32              `json:"currentRequestAmount"`
	TotalNumberOfRequests uint32              `json:"totalNumberOfRequests"`
	TotalTokenGiven       uint64              `json:"totalTokenGiven"`
	Status                entity.FaucetStatus `json:"status"`
}

func mapFaucetRequest(req *entity.FaucetRequest) faucetRequest {
	return faucetRequest{
		Requester:             req.Requester,
		CurrentRequestAmount:  req.CurrentRequestAmount,
		TotalNumberOfRequests: req.TotalNumberOfRequests,
		TotalTokenGiven:       req.TotalTokenGiven,
		Status:                req.Status,
	}
}

// submitFaucetRequest takes either a raw amount or a display amount in platform token units.
type submitFaucetRequest struct {
	Amount        uint32           `json:"amount"`
	DisplayAmount *decimal.Decimal `json:"displayAmount,omitempty"`
}

func (r submitFaucetRequest) Validate() error {
	var errList []error
	switch {
	case r.DisplayAmount != nil && r.Amount != 0:
		errList = append(errList, errors.New("only one of 'amount' and 'displayAmount' can be set"))
	case r.DisplayAmount == nil && r.Amount == 0:
		errList = append(errList, errors.New("'amount' must be greater than zero"))
	}
	return validationError(errList)
}

// RawAmount returns the requested amount in raw units of a token with tokenDecimals decimals.
func (r submitFaucetRequest) RawAmount(tokenDecimals uint8) (uint32, error) {
	if r.DisplayAmount == nil {
		return r.Amount, nil
	}
	raw, err := decimals.ToUint128(*r.DisplayAmount, tokenDecimals)
	if err != nil {
		return 0, validationError([]error{errors.Wrap(err, "'displayAmount'")})
	}
	if raw.IsZero() {
		return 0, validationError([]error{errors.New("'displayAmount' must be greater than zero")})
	}
	if !raw.IsUint32() {
		return 0, validationError([]error{errors.New("'displayAmount' is too large")})
	}
	return raw.Uint32(), nil
}

func (h *HttpHandler) SubmitFaucetRequest(ctx *fiber.Ctx) (err error) {
	var req submitFaucetRequest
	if err := parseBody(ctx, &req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	amount, err := req.RawAmount(h.PlatformDecimals)
	if err != nil {
		return errors.WithStack(err)
	}

	record, err := h.Faucet.SubmitRequest(ctx.UserContext(), caller(ctx), amount)
	if err != nil {
		return errors.Wrap(err, "error during SubmitRequest")
	}
	return ok(ctx, mapFaucetRequest(record))
}

type getFaucetRequestsResult struct {
	List []faucetRequest `json:"list"`
}

func (h *HttpHandler) GetFaucetRequests(ctx *fiber.Ctx) (err error) {
	records, err := h.Faucet.ListRequests(ctx.UserContext(), caller(ctx))
	if err != nil {
		return errors.Wrap(err, "error during ListRequests")
	}
	return ok(ctx, getFaucetRequestsResult{
		List: lo.Map(records, func(r *entity.FaucetRequest, _ int) faucetRequest {
			return mapFaucetRequest(r)
		}),
	})
}

func (h *HttpHandler) GetMyFaucetRequest(ctx *fiber.Ctx) (err error) {
	record, err := h.Faucet.GetRequest(ctx.UserContext(), caller(ctx))
	if err != nil {
		return errors.Wrap(err, "error during GetRequest")
	}
	return ok(ctx, mapFaucetRequest(record))
}

func (h *HttpHandler) ApproveFaucetRequest(ctx *fiber.Ctx) (err error) {
	requester, err := parseIdentityParam(ctx, "requester")
	if err != nil {
		return errors.WithStack(err)
	}
	record, err := h.Faucet.ApproveRequest(ctx.UserContext(), caller(ctx), requester)
	if err != nil {
		return errors.Wrap(err, "error during ApproveRequest")
	}
	return ok(ctx, mapFaucetRequest(record))
}

type rejectFaucetRequestResult struct {
	Requester common.Identity `json:"requester"`
}

func (h *HttpHandler) RejectFaucetRequest(ctx *fiber.Ctx) (err error) {
	requester, err := parseIdentityParam(ctx, "requester")
	if err != nil {
		return errors.WithStack(err)
	}
	if err := h.Faucet.RejectRequest(ctx.UserContext(), caller(ctx), requester); err != nil {
		return errors.Wrap(err, "error during RejectRequest")
	}
	return ok(ctx, rejectFaucetRequestResult{Requester: requester})
}
