// Package faucet hands out platform test tokens from the treasury on admin approval.
package faucet

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/ictalent/talent-network/common"
	"github.com/ictalent/talent-network/common/errs"
	"github.com/ictalent/talent-network/modules/tokenfactory/datagateway"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/authority"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/entity"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/ledger"
	"github.com/ictalent/talent-network/pkg/keyedmutex"
	"github.com/ictalent/talent-network/pkg/logger"
	"github.com/ictalent/talent-network/pkg/logger/slogx"
)

type Service struct {
	dg        datagateway.TokenFactoryDataGateway
	authority *authority.Manager
	transfers *ledger.DelegatedClient
	treasury  common.Identity

	// every state change of a requester's record holds its lock, so an approval
	// can't race another approval or a resubmission while the transfer is in flight.
	locks *keyedmutex.KeyedMutex[common.Identity]
}

func New(dg datagateway.TokenFactoryDataGateway, authority *authority.Manager, transfers *ledger.DelegatedClient, treasury common.Identity) *Service {
	return &Service{
		dg:        dg,
		authority: authority,
		transfers: transfers,
		treasury:  treasury,
		locks:     keyedmutex.New[common.Identity](),
	}
}

// SubmitRequest creates or replaces the pending request of requester. Lifetime statistics are kept.
func (s *Service) SubmitRequest(ctx context.Context, requester common.Identity, amount uint32) (*entity.FaucetRequest, error) {
	if !requester.IsAuthenticated() {
		return nil, errors.Wrap(errs.NotAllowed, "anonymous caller can't request tokens")
	}
	if amount == 0 {
		return nil, errors.Wrap(errs.InvalidArgument, "amount must be greater than zero")
	}

	unlock := s.locks.Lock(requester)
	defer unlock()

	qtx, err := s.dg.BeginTokenFactoryTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if rErr := qtx.Rollback(ctx); rErr != nil {
			logger.WarnContext(ctx, "failed to rollback transaction", slogx.Error(rErr))
		}
	}()

	req := entity.FaucetRequest{Requester: requester}
	existing, err := qtx.GetFaucetRequest(ctx, requester)
	switch {
	case err == nil:
		req = *existing
	case errors.Is(err, errs.NotFound):
	default:
		return nil, errors.Wrap(err, "failed to get faucet request")
	}
	req.CurrentRequestAmount = amount
	req.TotalNumberOfRequests++
	req.Status = entity.FaucetStatusPending

	if err := qtx.SetFaucetRequest(ctx, req); err != nil {
		return nil, errors.Wrap(err, "failed to save faucet request")
	}
	if err := qtx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to commit transaction")
	}

	logger.InfoContext(ctx, "Submitted faucet request",
		slogx.Stringer("requester", requester),
		slogx.Uint64("amount", uint64(amount)),
		slogx.Uint64("total_requests", uint64(req.TotalNumberOfRequests)),
	)
	return &req, nil
}

// ApproveRequest transfers the pending amount from the treasury to requester. The record is
// updated only after the ledger confirmed the transfer.
func (s *Service) ApproveRequest(ctx context.Context, admin common.Identity, requester common.Identity) (*entity.FaucetRequest, error) {
	if err := s.authority.RequireAdmin(ctx, admin); err != nil {
		return nil, errors.WithStack(err)
	}

	unlock := s.locks.Lock(requester)
	defer unlock()

	req, err := s.dg.GetFaucetRequest(ctx, requester)
	if err != nil {
		return nil, errors.Wrapf(err, "faucet request of %s", requester)
	}
	if req.Status != entity.FaucetStatusPending {
		return nil, errors.Wrapf(errs.InvalidArgument, "faucet request of %s is %s, not pending", requester, req.Status)
	}

	ctx = logger.WithContext(ctx, slogx.Stringer("requester", requester))
	blockIndex, err := s.transfers.Transfer(ctx, ledger.DelegatedTransfer{
		Holder: s.treasury,
		To:     requester,
		Amount: uint128.From64(uint64(req.CurrentRequestAmount)),
	})
	if err != nil {
		logger.WarnContext(ctx, "Faucet transfer failed", slogx.Error(err))
		return nil, errs.MarkWithReason(errors.Wrap(err, "faucet transfer failed"), errs.TransferFailed)
	}

	req.TotalNumberOfRequests++
	req.TotalTokenGiven += uint64(req.CurrentRequestAmount)
	req.Status = entity.FaucetStatusApproved
	if err := s.dg.SetFaucetRequest(ctx, *req); err != nil {
		// the tokens moved, the record is behind the ledger now.
		logger.ErrorContext(ctx, "Failed to record approved faucet request", err,
			slogx.Uint64("block_index", blockIndex),
			slogx.Uint64("amount", uint64(req.CurrentRequestAmount)),
		)
		return nil, errors.Wrap(err, "failed to save faucet request")
	}

	logger.InfoContext(ctx, "Approved faucet request",
		slogx.Uint64("amount", uint64(req.CurrentRequestAmount)),
		slogx.Uint64("total_given", req.TotalTokenGiven),
		slogx.Uint64("block_index", blockIndex),
	)
	return req, nil
}

// RejectRequest deletes the record of requester.
func (s *Service) RejectRequest(ctx context.Context, admin common.Identity, requester common.Identity) error {
	if err := s.authority.RequireAdmin(ctx, admin); err != nil {
		return errors.WithStack(err)
	}

	unlock := s.locks.Lock(requester)
	defer unlock()

	if err := s.dg.DeleteFaucetRequest(ctx, requester); err != nil {
		return errors.Wrapf(err, "faucet request of %s", requester)
	}
	logger.InfoContext(ctx, "Rejected faucet request", slogx.Stringer("requester", requester))
	return nil
}

// ListRequests returns every faucet request ordered by requester.
func (s *Service) ListRequests(ctx context.Context, admin common.Identity) ([]*entity.FaucetRequest, error) {
	if err := s.authority.RequireAdmin(ctx, admin); err != nil {
		return nil, errors.WithStack(err)
	}
	reqs, err := s.dg.GetFaucetRequests(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get faucet requests")
	}
	return reqs, nil
}

func (s *Service) GetRequest(ctx context.Context, requester common.Identity) (*entity.FaucetRequest, error) {
	if !requester.IsAuthenticated() {
		return nil, errors.WithStack(errs.NotAllowed)
	}
	req, err := s.dg.GetFaucetRequest(ctx, requester)
	if err != nil {
		return nil, errors.Wrapf(err, "faucet request of %s", requester)
	}
	return req, nil
}
