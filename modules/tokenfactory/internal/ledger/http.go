package ledger

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/ictalent/talent-network/common"
	"github.com/ictalent/talent-network/common/errs"
	"github.com/ictalent/talent-network/pkg/httpclient"
)

var _ Ledger = (*HTTPLedger)(nil)

// HTTPLedger is a Ledger served over JSON HTTP. Amounts are decimal strings on the wire.
type HTTPLedger struct {
	client *httpclient.Client
}

func NewHTTPLedger(url string, config httpclient.Config) (*HTTPLedger, error) {
	client, err := httpclient.New(url, config)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "can't create ledger http client"), errs.InvalidArgument)
	}
	return &HTTPLedger{client: client}, nil
}

type approveRequest struct {
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}

type transferFromRequest struct {
	Spender string `json:"spender"`
	From    string `json:"from"`
	To      string `json:"to"`
	Amount  string `json:"amount"`
}

type transferRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type rejection struct {
	Kind    RejectionKind `json:"kind"`
	Message string        `json:"message"`
}

type result[T any] struct {
	Ok  *T         `json:"ok"`
	Err *rejection `json:"err"`
}

func (l *HTTPLedger) Approve(ctx context.Context, owner common.Identity, args ApproveArgs) (uint64, error) {
	index, err := call[uint64](ctx, l.client, "/approve", approveRequest{
		Owner:   owner.String(),
		Spender: args.Spender.String(),
		Amount:  args.Amount.String(),
	})
	return index, errors.WithStack(err)
}

func (l *HTTPLedger) TransferFrom(ctx context.Context, spender common.Identity, args TransferFromArgs) (uint64, error) {
	index, err := call[uint64](ctx, l.client, "/transfer_from", transferFromRequest{
		Spender: spender.String(),
		From:    args.From.String(),
		To:      args.To.String(),
		Amount:  args.Amount.String(),
	})
	return index, errors.WithStack(err)
}

func (l *HTTPLedger) Transfer(ctx context.Context, from common.Identity, args TransferArgs) (uint64, error) {
	index, err := call[uint64](ctx, l.client, "/transfer", transferRequest{
		From:   from.String(),
		To:     args.To.String(),
		Amount: args.Amount.String(),
	})
	return index, errors.WithStack(err)
}

func (l *HTTPLedger) BalanceOf(ctx context.Context, account common.Identity) (uint128.Uint128, error) {
	resp, err := l.client.Get(ctx, "/balances/"+account.String(), nil)
	if err != nil {
		return uint128.Zero, NewCallError(0, err.Error())
	}
	amount, err := decodeResult[string](resp)
	if err != nil {
		return uint128.Zero, errors.WithStack(err)
	}
	return parseAmount(amount)
}

func (l *HTTPLedger) TotalSupply(ctx context.Context) (uint128.Uint128, error) {
	resp, err := l.client.Get(ctx, "/total_supply", nil)
	if err != nil {
		return uint128.Zero, NewCallError(0, err.Error())
	}
	amount, err := decodeResult[string](resp)
	if err != nil {
		return uint128.Zero, errors.WithStack(err)
	}
	return parseAmount(amount)
}

func call[T any](ctx context.Context, client *httpclient.Client, path string, body any) (T, error) {
	var zero T
	resp, err := client.PostJSON(ctx, path, body)
	if err != nil {
		return zero, NewCallError(0, err.Error())
	}
	return decodeResult[T](resp)
}

func decodeResult[T any](resp *httpclient.Response) (T, error) {
	var zero T
	if status := resp.StatusCode(); status < http.StatusOK || status >= http.StatusMultipleChoices {
		return zero, NewCallError(status, strings.TrimSpace(string(resp.Body())))
	}
	var out result[T]
	if err := resp.UnmarshalBody(&out); err != nil {
		return zero, NewCallError(resp.StatusCode(), err.Error())
	}
	if out.Err != nil {
		return zero, NewRejectionError(out.Err.Kind, out.Err.Message)
	}
	if out.Ok == nil {
		return zero, NewCallError(resp.StatusCode(), "empty ledger response")
	}
	return *out.Ok, nil
}

func parseAmount(s string) (uint128.Uint128, error) {
	amount, err := uint128.FromString(s)
	if err != nil {
		return uint128.Zero, NewCallError(http.StatusOK, fmt.Sprintf("invalid amount %q", s))
	}
	return amount, nil
}

// URLTemplatePlaceholder is replaced by the token id in HTTPResolver url templates.
const URLTemplatePlaceholder = "{token_id}"

// HTTPResolver opens HTTPLedgers of talent tokens from a url template,
// e.g. "http://ledger.internal/tokens/{token_id}".
type HTTPResolver struct {
	template string
	config   httpclient.Config

	mu      sync.Mutex
	ledgers map[common.Identity]*HTTPLedger
}

var _ Resolver = (*HTTPResolver)(nil)

func NewHTTPResolver(template string, config httpclient.Config) (*HTTPResolver, error) {
	if !strings.Contains(template, URLTemplatePlaceholder) {
		return nil, errors.Wrapf(errs.InvalidArgument, "token ledger url template must contain %s", URLTemplatePlaceholder)
	}
	return &HTTPResolver{
		template: template,
		config:   config,
		ledgers:  make(map[common.Identity]*HTTPLedger),
	}, nil
}

func (r *HTTPResolver) LedgerOf(tokenID common.Identity) (Ledger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ledger, ok := r.ledgers[tokenID]; ok {
		return ledger, nil
	}
	ledger, err := NewHTTPLedger(strings.ReplaceAll(r.template, URLTemplatePlaceholder, tokenID.String()), r.config)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open ledger of token %s", tokenID)
	}
	r.ledgers[tokenID] = ledger
	return ledger, nil
}
