package kvstore

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ictalent/talent-network/common"
	"github.com/ictalent/talent-network/common/errs"
	"github.com/ictalent/talent-network/internal/kvstore"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/entity"
	"github.com/ictalent/talent-network/pkg/logger"
	"github.com/ictalent/talent-network/pkg/logger/slogx"
	"github.com/samber/lo"
)

func (r *Repository) GetAdminState(ctx context.Context) (entity.AdminState, error) {
	var state entity.AdminState
	err := r.view(ctx, func(tx *kvstore.Tx) (err error) {
		state, _, err = adminState.Get(ctx, tx, adminStateKey)
		return err
	})
	if err != nil {
		return entity.AdminState{}, errors.Wrap(err, "error during query")
	}
	return state, nil
}

func (r *Repository) SetAdminState(ctx context.Context, state entity.AdminState) error {
	err := r.update(ctx, func(tx *kvstore.Tx) error {
		_, _, err := adminState.Insert(ctx, tx, adminStateKey, state)
		return err
	})
	return errors.Wrap(err, "error during exec")
}

func (r *Repository) GetToken(ctx context.Context, tokenID common.Identity) (*entity.TokenRecord, error) {
	var (
		token entity.TokenRecord
		found bool
	)
	err := r.view(ctx, func(tx *kvstore.Tx) (err error) {
		token, found, err = tokens.Get(ctx, tx, tokenID)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	if !found {
		return nil, errors.WithStack(errs.NotFound)
	}
	return &token, nil
}

func (r *Repository) GetTokens(ctx context.Context) ([]*entity.TokenRecord, error) {
	var entries []kvstore.MapEntry[common.Identity, entity.TokenRecord]
	err := r.view(ctx, func(tx *kvstore.Tx) (err error) {
		entries, err = tokens.Entries(ctx, tx)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	return lo.Map(entries, func(entry kvstore.MapEntry[common.Identity, entity.TokenRecord], _ int) *entity.TokenRecord {
		return &entry.Value
	}), nil
}

func (r *Repository) CreateToken(ctx context.Context, token entity.TokenRecord) error {
	err := r.update(ctx, func(tx *kvstore.Tx) error {
		inserted, err := tokens.InsertIfAbsent(ctx, tx, token.ResourceID, token)
		if err != nil {
			return errors.WithStack(err)
		}
		if !inserted {
			return errors.Wrapf(errs.InternalError, "token %s already exists", token.ResourceID)
		}
		return nil
	})
	return errors.Wrap(err, "error during exec")
}

func (r *Repository) GetUserToken(ctx context.Context, owner common.Identity) (entity.UserToken, error) {
	var (
		userToken entity.UserToken
		found     bool
	)
	err := r.view(ctx, func(tx *kvstore.Tx) (err error) {
		userToken, found, err = userTokens.Get(ctx, tx, owner)
		return err
	})
	if err != nil {
		return entity.UserToken{}, errors.Wrap(err, "error during query")
	}
	if !found {
		return entity.UserToken{}, errors.WithStack(errs.NotFound)
	}
	return userToken, nil
}

// errEntryHeld rolls back a takeover that lost a race. Inside a transaction the caller gets it
// and must roll back.
var errEntryHeld = errors.New("owner index entry is held")

func (r *Repository) ReserveUserToken(ctx context.Context, owner common.Identity, reservation entity.UserToken, staleBefore time.Time) (bool, error) {
	var reserved bool
	err := r.update(ctx, func(tx *kvstore.Tx) error {
		inserted, err := userTokens.InsertIfAbsent(ctx, tx, owner, reservation)
		if err != nil {
			return errors.WithStack(err)
		}
		if inserted {
			reserved = true
			return nil
		}
		current, _, err := userTokens.Get(ctx, tx, owner)
		if err != nil {
			return errors.WithStack(err)
		}
		if !current.ExpiredBefore(staleBefore) {
			return nil
		}
		// Insert locks the entry, a concurrent takeover sees the replaced value.
		old, _, err := userTokens.Insert(ctx, tx, owner, reservation)
		if err != nil {
			return errors.WithStack(err)
		}
		if !old.SameReservation(current) {
			return errors.WithStack(errEntryHeld)
		}
		logger.WarnContext(ctx, "Replaced expired owner index reservation",
			slogx.Stringer("owner", owner),
			slogx.Stringer("reserved_at", time.Unix(0, int64(old.ReservedAt)).UTC()),
		)
		reserved = true
		return nil
	})
	if errors.Is(err, errEntryHeld) && r.tx == nil {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "error during exec")
	}
	return reserved, nil
}

func (r *Repository) SetUserToken(ctx context.Context, owner common.Identity, tokenID common.Identity) error {
	err := r.update(ctx, func(tx *kvstore.Tx) error {
		_, _, err := userTokens.Insert(ctx, tx, owner, entity.UserToken{TokenID: tokenID})
		return err
	})
	return errors.Wrap(err, "error during exec")
}

func (r *Repository) RemoveUserToken(ctx context.Context, owner common.Identity) (entity.UserToken, bool, error) {
	var (
		old     entity.UserToken
		existed bool
	)
	err := r.update(ctx, func(tx *kvstore.Tx) (err error) {
		old, existed, err = userTokens.Remove(ctx, tx, owner)
		return err
	})
	if err != nil {
		return entity.UserToken{}, false, errors.Wrap(err, "error during exec")
	}
	return old, existed, nil
}

func (r *Repository) GetFaucetRequest(ctx context.Context, requester common.Identity) (*entity.FaucetRequest, error) {
	var (
		req   entity.FaucetRequest
		found bool
	)
	err := r.view(ctx, func(tx *kvstore.Tx) (err error) {
		req, found, err = faucetRequests.Get(ctx, tx, requester)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	if !found {
		return nil, errors.WithStack(errs.NotFound)
	}
	return &req, nil
}

func (r *Repository) GetFaucetRequests(ctx context.Context) ([]*entity.FaucetRequest, error) {
	var entries []kvstore.MapEntry[common.Identity, entity.FaucetRequest]
	err := r.view(ctx, func(tx *kvstore.Tx) (err error) {
		entries, err = faucetRequests.Entries(ctx, tx)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	return lo.Map(entries, func(entry kvstore.MapEntry[common.Identity, entity.FaucetRequest], _ int) *entity.FaucetRequest {
		return &entry.Value
	}), nil
}

func (r *Repository) SetFaucetRequest(ctx context.Context, req entity.FaucetRequest) error {
	err := r.update(ctx, func(tx *kvstore.Tx) error {
		_, _, err := faucetRequests.Insert(ctx, tx, req.Requester, req)
		return err
	})
	return errors.Wrap(err, "error during exec")
}

func (r *Repository) DeleteFaucetRequest(ctx context.Context, requester common.Identity) error {
	err := r.update(ctx, func(tx *kvstore.Tx) error {
		_, existed, err := faucetRequests.Remove(ctx, tx, requester)
		if err != nil {
			return errors.WithStack(err)
		}
		if !existed {
			return errors.WithStack(errs.NotFound)
		}
		return nil
	})
	return errors.Wrap(err, "error during exec")
}

func (r *Repository) GetPurchaseHistory(ctx context.Context, buyer common.Identity) (entity.PurchaseHistory, error) {
	var history entity.PurchaseHistory
	err := r.view(ctx, func(tx *kvstore.Tx) (err error) {
		history, _, err = purchaseHistory.Get(ctx, tx, buyer)
		return err
	})
	if err != nil {
		return entity.PurchaseHistory{}, errors.Wrap(err, "error during query")
	}
	return history, nil
}

func (r *Repository) SetPurchaseHistory(ctx context.Context, buyer common.Identity, history entity.PurchaseHistory) error {
	err := r.update(ctx, func(tx *kvstore.Tx) error {
		_, _, err := purchaseHistory.Insert(ctx, tx, buyer, history)
		return err
	})
	return errors.Wrap(err, "error during exec")
}
