package kvstore

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ictalent/talent-network/common"
	"github.com/ictalent/talent-network/internal/kvstore"
	"github.com/ictalent/talent-network/modules/tokenfactory/datagateway"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/entity"
)

const adminStateKey = "admin"

var (
	tokens          = kvstore.NewMap[common.Identity, entity.TokenRecord](kvstore.PartitionTokens, kvstore.IdentityKey)
	faucetRequests  = kvstore.NewMap[common.Identity, entity.FaucetRequest](kvstore.PartitionFaucetRequests, kvstore.IdentityKey)
	userTokens      = kvstore.NewMap[common.Identity, entity.UserToken](kvstore.PartitionUserTokenIndex, kvstore.IdentityKey)
	purchaseHistory = kvstore.NewMap[common.Identity, entity.PurchaseHistory](kvstore.PartitionPurchaseHistory, kvstore.IdentityKey)
	adminState      = kvstore.NewMap[string, entity.AdminState](kvstore.PartitionAdminState, kvstore.StringKey)
)

var _ datagateway.TokenFactoryDataGateway = (*Repository)(nil)

// Repository implements the token factory datagateway on top of the persistent store.
// Without a transaction every call runs in its own store transaction.
type Repository struct {
	store *kvstore.Store
	tx    *kvstore.Tx
}

func NewRepository(store *kvstore.Store) *Repository {
	return &Repository{
		store: store,
	}
}

func (r *Repository) view(ctx context.Context, fn func(tx *kvstore.Tx) error) error {
	if r.tx != nil {
		return errors.WithStack(fn(r.tx))
	}
	return errors.WithStack(r.store.View(ctx, fn))
}

func (r *Repository) update(ctx context.Context, fn func(tx *kvstore.Tx) error) error {
	if r.tx != nil {
		return errors.WithStack(fn(r.tx))
	}
	return errors.WithStack(r.store.Update(ctx, fn))
}

// ErrNestedTx is returned when BeginTokenFactoryTx is called on a transactional repository.
var ErrNestedTx = errors.New("repository already runs a transaction")

// BeginTokenFactoryTx returns a repository bound to a new store transaction.
func (r *Repository) BeginTokenFactoryTx(ctx context.Context) (datagateway.TokenFactoryDataGatewayWithTx, error) {
	if r.tx != nil {
		return nil, errors.WithStack(ErrNestedTx)
	}
	tx, err := r.store.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "can't begin store transaction")
	}
	return &Repository{store: r.store, tx: tx}, nil
}

// Commit ends the transaction. It is a no-op once the transaction ended.
func (r *Repository) Commit(ctx context.Context) error {
	if r.tx == nil {
		return nil
	}
	tx := r.tx
	r.tx = nil
	return errors.Wrap(tx.Commit(ctx), "can't commit store transaction")
}

// Rollback discards the transaction. It is a no-op once the transaction ended, so it can be deferred.
func (r *Repository) Rollback(ctx context.Context) error {
	if r.tx == nil {
		return nil
	}
	tx := r.tx
	r.tx = nil
	return errors.Wrap(tx.Rollback(ctx), "can't rollback store transaction")
}
