// Package ledger talks to fungible token ledgers. Every call names the identity it acts for,
// the ledger checks that identity against balances and allowances.
package ledger

import (
	"context"

	"github.com/gaze-network/uint128"
	"github.com/ictalent/talent-network/common"
)

type ApproveArgs struct {
	Spender common.Identity
	Amount  uint128.Uint128
}

type TransferFromArgs struct {
	From   common.Identity
	To     common.Identity
	Amount uint128.Uint128
}

type TransferArgs struct {
	To     common.Identity
	Amount uint128.Uint128
}

// Ledger is a fungible token ledger. Mutating calls return the index of the ledger block that
// recorded them.
//
// A *CallError means the call may or may not have been applied. A *RejectionError means the
// ledger refused the call and nothing moved.
type Ledger interface {
	// Approve allows args.Spender to move up to args.Amount out of owner's account.
	Approve(ctx context.Context, owner common.Identity, args ApproveArgs) (uint64, error)
	// TransferFrom moves args.Amount out of args.From using spender's allowance.
	TransferFrom(ctx context.Context, spender common.Identity, args TransferFromArgs) (uint64, error)
	Transfer(ctx context.Context, from common.Identity, args TransferArgs) (uint64, error)
	BalanceOf(ctx context.Context, account common.Identity) (uint128.Uint128, error)
	TotalSupply(ctx context.Context) (uint128.Uint128, error)
}

// Resolver opens the ledger of a provisioned talent token.
type Resolver interface {
	LedgerOf(tokenID common.Identity) (Ledger, error)
}
