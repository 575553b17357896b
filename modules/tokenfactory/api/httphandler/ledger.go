package httphandler

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/ictalent/talent-network/common"
	"github.com/ictalent/talent-network/pkg/decimals"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type balance struct {
	Account       common.Identity  `json:"account"`
	Token         *common.Identity `json:"token"`
	Amount        string           `json:"amount"`
	DisplayAmount decimal.Decimal  `json:"displayAmount"`
	Decimals      uint8            `json:"decimals"`
}

type getBalanceRequest struct {
	Token string `query:"token"`
}

func (h *HttpHandler) getBalance(ctx context.Context, account, tokenID common.Identity) (*balance, error) {
	l, tokenDecimals, err := h.resolveLedger(ctx, tokenID)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	amount, err := l.BalanceOf(ctx, account)
	if err != nil {
		return nil, errors.Wrap(err, "error during BalanceOf")
	}
	result := &balance{
		Account:       account,
		Amount:        amount.String(),
		DisplayAmount: decimals.ToDecimal(amount, tokenDecimals),
		Decimals:      tokenDecimals,
	}
	if !tokenID.IsZero() {
		result.Token = &tokenID
	}
	return result, nil
}

// GetBalance returns the platform token balance of an account, or its talent token balance if `token` is set.
func (h *HttpHandler) GetBalance(ctx *fiber.Ctx) (err error) {
	account, err := parseIdentityParam(ctx, "account")
	if err != nil {
		return errors.WithStack(err)
	}
	var req getBalanceRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(validationError([]error{err}))
	}
	tokenID, err := parseIdentityQuery("token", req.Token)
	if err != nil {
		return errors.WithStack(err)
	}

	result, err := h.getBalance(ctx.UserContext(), account, tokenID)
	if err != nil {
		return errors.WithStack(err)
	}
	return ok(ctx, *result)
}

type getBalanceQuery struct {
	Account string `json:"account"`
	Token   string `json:"token"`
}

type getBalancesBatchRequest struct {
	Queries []getBalanceQuery `json:"queries"`
}

const getBalancesBatchMaxQueries = 100

type parsedBalanceQuery struct {
	account common.Identity
	token   common.Identity
}

func (r getBalancesBatchRequest) Parse() ([]parsedBalanceQuery, error) {
	var errList []error
	if len(r.Queries) == 0 {
		errList = append(errList, errors.New("at least one query is required"))
	}
	if len(r.Queries) > getBalancesBatchMaxQueries {
		errList = append(errList, errors.Errorf("cannot exceed %d queries", getBalancesBatchMaxQueries))
	}
	queries := make([]parsedBalanceQuery, len(r.Queries))
	for i, query := range r.Queries {
		account, err := common.ParseIdentity(query.Account)
		if err != nil {
			errList = append(errList, errors.Wrapf(err, "queries[%d]: 'account'", i))
		}
		token, err := parseIdentityQuery("token", query.Token)
		if err != nil {
			errList = append(errList, errors.Wrapf(err, "queries[%d]", i))
		}
		queries[i] = parsedBalanceQuery{account: account, token: token}
	}
	if err := validationError(errList); err != nil {
		return nil, errors.WithStack(err)
	}
	return queries, nil
}

type getBalancesBatchResult struct {
	List []*balance `json:"list"`
}

func (h *HttpHandler) GetBalancesBatch(ctx *fiber.Ctx) (err error) {
	var req getBalancesBatchRequest
	if err := parseBody(ctx, &req); err != nil {
		return errors.WithStack(err)
	}
	queries, err := req.Parse()
	if err != nil {
		return errors.WithStack(err)
	}

	results := make([]*balance, len(queries))
	eg, ectx := errgroup.WithContext(ctx.UserContext())
	for i, query := range queries {
		eg.Go(func() error {
			result, err := h.getBalance(ectx, query.account, query.token)
			if err != nil {
				return errors.Wrapf(err, "error during getBalance for query %d", i)
			}
			results[i] = result
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return errors.WithStack(err)
	}
	return ok(ctx, getBalancesBatchResult{List: results})
}

type totalSupply struct {
	Token         *common.Identity `json:"token"`
	Amount        string           `json:"amount"`
	DisplayAmount decimal.Decimal  `json:"displayAmount"`
	Decimals      uint8            `json:"decimals"`
}

func (h *HttpHandler) GetTotalSupply(ctx *fiber.Ctx) (err error) {
	var req getBalanceRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(validationError([]error{err}))
	}
	tokenID, err := parseIdentityQuery("token", req.Token)
	if err != nil {
		return errors.WithStack(err)
	}

	l, tokenDecimals, err := h.resolveLedger(ctx.UserContext(), tokenID)
	if err != nil {
		return errors.WithStack(err)
	}
	amount, err := l.TotalSupply(ctx.UserContext())
	if err != nil {
		return errors.Wrap(err, "error during TotalSupply")
	}
	result := totalSupply{
		Amount:        amount.String(),
		DisplayAmount: decimals.ToDecimal(amount, tokenDecimals),
		Decimals:      tokenDecimals,
	}
	if !tokenID.IsZero() {
		result.Token = &tokenID
	}
	return ok(ctx, result)
}
