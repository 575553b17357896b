package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/ictalent/talent-network/common"
	"github.com/ictalent/talent-network/common/errs"
	"github.com/ictalent/talent-network/internal/kvstore"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository() *Repository {
	return NewRepository(kvstore.New(kvstore.NewMemoryBackend(), kvstore.Config{Backend: kvstore.BackendMemory, PageSize: 2}))
}

func TestUserTokenReservation(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()
	alice := common.MustNewIdentity([]byte("alice"))
	token := common.MustNewIdentity([]byte("token"))

	_, err := repo.GetUserToken(ctx, alice)
	assert.ErrorIs(t, err, errs.NotFound)

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	reserved, err := repo.ReserveUserToken(ctx, alice, entity.NewReservation(at), at.Add(-time.Hour))
	require.NoError(t, err)
	assert.True(t, reserved)

	reserved, err = repo.ReserveUserToken(ctx, alice, entity.NewReservation(at.Add(time.Minute)), at.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, reserved, "second reservation must be refused")

	userToken, err := repo.GetUserToken(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, entity.NewReservation(at), userToken)

	require.NoError(t, repo.SetUserToken(ctx, alice, token))
	userToken, err = repo.GetUserToken(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, entity.UserToken{TokenID: token}, userToken)

	reserved, err = repo.ReserveUserToken(ctx, alice, entity.NewReservation(at.Add(2*time.Hour)), at.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, reserved, "a provisioned token is never replaced")

	old, existed, err := repo.RemoveUserToken(ctx, alice)
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, token, old.TokenID)
}

func TestExpiredReservationIsReplaced(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()
	alice := common.MustNewIdentity([]byte("alice"))
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	reserved, err := repo.ReserveUserToken(ctx, alice, entity.NewReservation(at), time.Time{})
	require.NoError(t, err)
	require.True(t, reserved)

	later := at.Add(2 * time.Hour)
	reserved, err = repo.ReserveUserToken(ctx, alice, entity.NewReservation(later), later.Add(-time.Hour))
	require.NoError(t, err)
	assert.True(t, reserved)

	userToken, err := repo.GetUserToken(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, entity.NewReservation(later), userToken)

	// entries written before reservations carried a timestamp
	bob := common.MustNewIdentity([]byte("bob"))
	reserved, err = repo.ReserveUserToken(ctx, bob, entity.UserToken{Reserved: true}, time.Time{})
	require.NoError(t, err)
	require.True(t, reserved)
	reserved, err = repo.ReserveUserToken(ctx, bob, entity.NewReservation(later), later.Add(-time.Hour))
	require.NoError(t, err)
	assert.True(t, reserved)
}

func TestTransactionRollback(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()
	alice := common.MustNewIdentity([]byte("alice"))

	qtx, err := repo.BeginTokenFactoryTx(ctx)
	require.NoError(t, err)
	require.NoError(t, qtx.SetAdminState(ctx, entity.AdminState{Admin: alice, Registered: true}))

	_, err = qtx.BeginTokenFactoryTx(ctx)
	assert.ErrorIs(t, err, ErrNestedTx)

	require.NoError(t, qtx.Rollback(ctx))
	require.NoError(t, qtx.Rollback(ctx), "rollback must be safe to repeat")

	state, err := repo.GetAdminState(ctx)
	require.NoError(t, err)
	assert.False(t, state.Registered)
}

func TestTransactionCommit(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()
	alice := common.MustNewIdentity([]byte("alice"))
	token := common.MustNewIdentity([]byte("token"))

	qtx, err := repo.BeginTokenFactoryTx(ctx)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, qtx.Rollback(ctx))
	}()

	require.NoError(t, qtx.CreateToken(ctx, entity.TokenRecord{ResourceID: token, Name: "A", Symbol: "A", Owner: alice}))
	require.NoError(t, qtx.SetUserToken(ctx, alice, token))
	require.NoError(t, qtx.Commit(ctx))

	record, err := repo.GetToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, alice, record.Owner)

	err = repo.CreateToken(ctx, entity.TokenRecord{ResourceID: token})
	assert.ErrorIs(t, err, errs.InternalError)
}

func TestFaucetRequests(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()

	requesters := []common.Identity{
		common.MustNewIdentity([]byte("carol")),
		common.MustNewIdentity([]byte("alice")),
		common.MustNewIdentity([]byte("bob")),
	}
	for _, requester := range requesters {
		require.NoError(t, repo.SetFaucetRequest(ctx, entity.FaucetRequest{
			Requester:             requester,
			CurrentRequestAmount:  10,
			TotalNumberOfRequests: 1,
			Status:                entity.FaucetStatusPending,
		}))
	}

	reqs, err := repo.GetFaucetRequests(ctx)
	require.NoError(t, err)
	require.Len(t, reqs, 3)
	assert.Equal(t, "alice", string(reqs[0].Requester.Bytes()))
	assert.Equal(t, "bob", string(reqs[1].Requester.Bytes()))
	assert.Equal(t, "carol", string(reqs[2].Requester.Bytes()))

	require.NoError(t, repo.DeleteFaucetRequest(ctx, requesters[0]))
	assert.ErrorIs(t, repo.DeleteFaucetRequest(ctx, requesters[0]), errs.NotFound)

	_, err = repo.GetFaucetRequest(ctx, requesters[0])
	assert.ErrorIs(t, err, errs.NotFound)
}

func TestPurchaseHistory(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()
	bob := common.MustNewIdentity([]byte("bob"))
	token := common.MustNewIdentity([]byte("token"))

	history, err := repo.GetPurchaseHistory(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, history.Tokens)

	history.Append(token)
	require.NoError(t, repo.SetPurchaseHistory(ctx, bob, history))

	history, err = repo.GetPurchaseHistory(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, []common.Identity{token}, history.Tokens)
}
