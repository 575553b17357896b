// Package purchase sells talent tokens for platform tokens at a fixed 1:1 price and records
// which tokens every identity bought.
package purchase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/ictalent/talent-network/common"
	"github.com/ictalent/talent-network/common/errs"
	"github.com/ictalent/talent-network/modules/tokenfactory/datagateway"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/ledger"
	"github.com/ictalent/talent-network/pkg/keyedmutex"
	"github.com/ictalent/talent-network/pkg/logger"
	"github.com/ictalent/talent-network/pkg/logger/slogx"
)

type Service struct {
	dg        datagateway.TokenFactoryDataGateway
	payments  *ledger.DelegatedClient
	tokens    ledger.Resolver
	service   common.Identity
	historyMu *keyedmutex.KeyedMutex[common.Identity]
}

func New(dg datagateway.TokenFactoryDataGateway, payments *ledger.DelegatedClient, tokens ledger.Resolver, service common.Identity) *Service {
	return &Service{
		dg:        dg,
		payments:  payments,
		tokens:    tokens,
		service:   service,
		historyMu: keyedmutex.New[common.Identity](),
	}
}

type Receipt struct {
	TokenID       common.Identity
	Amount        uint64
	PaymentBlock  uint64
	DeliveryBlock uint64
}

// Purchase pays amount platform tokens from buyer to the token owner and delivers amount talent
// tokens from the service's supply to buyer. Nothing is refunded if delivery fails after payment.
func (s *Service) Purchase(ctx context.Context, buyer common.Identity, tokenID common.Identity, amount uint64) (*Receipt, error) {
	if !buyer.IsAuthenticated() {
		return nil, errors.Wrap(errs.NotAllowed, "anonymous caller can't buy tokens")
	}
	if amount == 0 {
		return nil, errors.Wrap(errs.InvalidArgument, "amount must be greater than zero")
	}

	token, err := s.dg.GetToken(ctx, tokenID)
	if err != nil {
		return nil, errors.Wrapf(err, "token %s", tokenID)
	}
	if token.Owner == buyer {
		return nil, errors.Wrap(errs.InvalidArgument, "can't buy own token")
	}
	tokenLedger, err := s.tokens.LedgerOf(tokenID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open token ledger")
	}

	ctx = logger.WithContext(ctx,
		slogx.Stringer("buyer", buyer),
		slogx.Stringer("token_id", tokenID),
		slogx.Uint64("amount", amount),
	)

	paymentBlock, err := s.payments.TransferOnBehalf(ctx, buyer, token.Owner, uint128.From64(amount))
	if err != nil {
		return nil, errs.MarkWithReason(errors.Wrap(err, "payment failed"), errs.TransferFailed)
	}

	deliveryBlock, err := tokenLedger.Transfer(ctx, s.service, ledger.TransferArgs{
		To:     buyer,
		Amount: uint128.From64(amount),
	})
	if err != nil {
		logger.ErrorContext(ctx, "Token delivery failed after payment", err, slogx.Uint64("payment_block", paymentBlock))
		return nil, errs.MarkWithReason(errors.Wrap(err, "delivery failed"), errs.TransferFailed)
	}

	if err := s.appendHistory(ctx, buyer, tokenID); err != nil {
		return nil, errors.WithStack(err)
	}

	logger.InfoContext(ctx, "Token purchased",
		slogx.Uint64("payment_block", paymentBlock),
		slogx.Uint64("delivery_block", deliveryBlock),
	)
	return &Receipt{
		TokenID:       tokenID,
		Amount:        amount,
		PaymentBlock:  paymentBlock,
		DeliveryBlock: deliveryBlock,
	}, nil
}

func (s *Service) appendHistory(ctx context.Context, buyer, tokenID common.Identity) error {
	unlock := s.historyMu.Lock(buyer)
	defer unlock()

	history, err := s.dg.GetPurchaseHistory(ctx, buyer)
	if err != nil {
		return errors.Wrap(err, "failed to get purchase history")
	}
	if !history.Append(tokenID) {
		return nil
	}
	if err := s.dg.SetPurchaseHistory(ctx, buyer, history); err != nil {
		return errors.Wrap(err, "failed to save purchase history")
	}
	return nil
}

// History returns the tokens identity bought, in purchase order.
func (s *Service) History(ctx context.Context, identity common.Identity) ([]common.Identity, error) {
	if !identity.IsAuthenticated() {
		return nil, errors.Wrap(errs.InvalidArgument, "identity must be authenticated")
	}
	history, err := s.dg.GetPurchaseHistory(ctx, identity)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get purchase history")
	}
	return history.Tokens, nil
}
