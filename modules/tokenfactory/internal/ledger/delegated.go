package ledger

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/ictalent/talent-network/common"
	"github.com/ictalent/talent-network/pkg/logger"
	"github.com/ictalent/talent-network/pkg/logger/slogx"
)

// DelegatedTransfer moves Amount from Holder to To through Spender's allowance.
type DelegatedTransfer struct {
	Holder  common.Identity
	Spender common.Identity // defaults to the service identity
	To      common.Identity
	Amount  uint128.Uint128
}

// DelegatedClient moves funds the service does not hold itself.
type DelegatedClient struct {
	ledger  Ledger
	service common.Identity
}

func NewDelegatedClient(ledger Ledger, service common.Identity) *DelegatedClient {
	return &DelegatedClient{
		ledger:  ledger,
		service: service,
	}
}

func (c *DelegatedClient) Ledger() Ledger {
	return c.ledger
}

// Transfer approves the spender on the holder's account and then transfers from it.
// Errors keep their CallError or RejectionError class. A failed transfer after a successful
// approval leaves the allowance in place.
func (c *DelegatedClient) Transfer(ctx context.Context, t DelegatedTransfer) (uint64, error) {
	spender := t.Spender
	if spender.IsZero() {
		spender = c.service
	}
	ctx = logger.WithContext(ctx,
		slogx.Stringer("holder", t.Holder),
		slogx.Stringer("spender", spender),
		slogx.Stringer("to", t.To),
		slogx.Stringer("amount", t.Amount),
	)

	approveIndex, err := c.ledger.Approve(ctx, t.Holder, ApproveArgs{
		Spender: spender,
		Amount:  t.Amount,
	})
	if err != nil {
		return 0, errors.Wrap(err, "approve failed")
	}
	logger.DebugContext(ctx, "Approved delegated transfer", slogx.Uint64("block_index", approveIndex))

	blockIndex, err := c.ledger.TransferFrom(ctx, spender, TransferFromArgs{
		From:   t.Holder,
		To:     t.To,
		Amount: t.Amount,
	})
	if err != nil {
		return 0, errors.Wrap(err, "transfer_from failed")
	}
	logger.InfoContext(ctx, "Delegated transfer completed", slogx.Uint64("block_index", blockIndex))
	return blockIndex, nil
}

// TransferOnBehalf transfers from an account that approved the service beforehand.
func (c *DelegatedClient) TransferOnBehalf(ctx context.Context, from, to common.Identity, amount uint128.Uint128) (uint64, error) {
	blockIndex, err := c.ledger.TransferFrom(ctx, c.service, TransferFromArgs{
		From:   from,
		To:     to,
		Amount: amount,
	})
	if err != nil {
		return 0, errors.Wrap(err, "transfer_from failed")
	}
	logger.InfoContext(ctx, "Transfer on behalf completed",
		slogx.Stringer("from", from),
		slogx.Stringer("to", to),
		slogx.Stringer("amount", amount),
		slogx.Uint64("block_index", blockIndex),
	)
	return blockIndex, nil
}
