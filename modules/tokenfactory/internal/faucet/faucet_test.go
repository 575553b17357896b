package faucet

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gaze-network/uint128"
	"github.com/ictalent/talent-network/common"
	"github.com/ictalent/talent-network/common/errs"
	"github.com/ictalent/talent-network/internal/kvstore"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/authority"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/entity"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/ledger"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/ledger/mocks"
	kvrepo "github.com/ictalent/talent-network/modules/tokenfactory/repository/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	service  = common.MustNewIdentity([]byte("service"))
	treasury = common.MustNewIdentity([]byte("treasury"))
	admin    = common.MustNewIdentity([]byte("admin"))
	u1       = common.MustNewIdentity([]byte("u1"))
)

func newTestService(t *testing.T) (*Service, *mocks.Ledger) {
	t.Helper()
	ctx := context.Background()
	store := kvstore.New(kvstore.NewMemoryBackend(), kvstore.Config{Backend: kvstore.BackendMemory})
	repo := kvrepo.NewRepository(store)
	authorityManager := authority.New(repo)
	require.NoError(t, authorityManager.RegisterAdmin(ctx, admin))

	mockLedger := mocks.NewLedger(t)
	return New(repo, authorityManager, ledger.NewDelegatedClient(mockLedger, service), treasury), mockLedger
}

func expectTransfer(mockLedger *mocks.Ledger, to common.Identity, amount uint64) {
	mockLedger.EXPECT().Approve(mock.Anything, treasury, ledger.ApproveArgs{Spender: service, Amount: uint128.From64(amount)}).Return(1, nil).Once()
	mockLedger.EXPECT().TransferFrom(mock.Anything, service, ledger.TransferFromArgs{From: treasury, To: to, Amount: uint128.From64(amount)}).Return(2, nil).Once()
}

func TestApproveRequest(t *testing.T) {
	ctx := context.Background()
	s, mockLedger := newTestService(t)

	req, err := s.SubmitRequest(ctx, u1, 50)
	require.NoError(t, err)
	assert.Equal(t, entity.FaucetRequest{
		Requester:             u1,
		CurrentRequestAmount:  50,
		TotalNumberOfRequests: 1,
		TotalTokenGiven:       0,
		Status:                entity.FaucetStatusPending,
	}, *req)

	expectTransfer(mockLedger, u1, 50)
	req, err = s.ApproveRequest(ctx, admin, u1)
	require.NoError(t, err)

	expected := entity.FaucetRequest{
		Requester:             u1,
		CurrentRequestAmount:  50,
		TotalNumberOfRequests: 2,
		TotalTokenGiven:       50,
		Status:                entity.FaucetStatusApproved,
	}
	assert.Equal(t, expected, *req)

	stored, err := s.GetRequest(ctx, u1)
	require.NoError(t, err)
	assert.Equal(t, expected, *stored)

	_, err = s.ApproveRequest(ctx, admin, u1)
	assert.ErrorIs(t, err, errs.InvalidArgument, "an approved request can't be approved again")
}

func TestApproveRequestTransferFailure(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name      string
		err       error
		transport bool
	}{
		{"rejected", ledger.NewRejectionError(ledger.RejectionInsufficientFunds, "treasury is empty"), false},
		{"unreachable", ledger.NewCallError(0, "connection refused"), true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, mockLedger := newTestService(t)
			before, err := s.SubmitRequest(ctx, u1, 50)
			require.NoError(t, err)

			mockLedger.EXPECT().Approve(mock.Anything, treasury, mock.Anything).Return(0, tc.err).Once()

			_, err = s.ApproveRequest(ctx, admin, u1)
			assert.ErrorIs(t, err, errs.TransferFailed)
			if tc.transport {
				assert.ErrorIs(t, err, errs.ExternalCallFailed)
			}

			after, err := s.GetRequest(ctx, u1)
			require.NoError(t, err)
			assert.Equal(t, before, after, "a failed transfer must not touch the record")
		})
	}
}

func TestSubmitRequestResubmission(t *testing.T) {
	ctx := context.Background()
	s, mockLedger := newTestService(t)

	_, err := s.SubmitRequest(ctx, u1, 50)
	require.NoError(t, err)
	expectTransfer(mockLedger, u1, 50)
	_, err = s.ApproveRequest(ctx, admin, u1)
	require.NoError(t, err)

	req, err := s.SubmitRequest(ctx, u1, 30)
	require.NoError(t, err)
	assert.Equal(t, uint32(30), req.CurrentRequestAmount)
	assert.Equal(t, uint32(3), req.TotalNumberOfRequests)
	assert.Equal(t, uint64(50), req.TotalTokenGiven, "lifetime total is kept on resubmission")
	assert.Equal(t, entity.FaucetStatusPending, req.Status)
}

func TestSubmitRequestValidation(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	_, err := s.SubmitRequest(ctx, common.AnonymousIdentity, 10)
	assert.ErrorIs(t, err, errs.NotAllowed)

	_, err = s.SubmitRequest(ctx, u1, 0)
	assert.ErrorIs(t, err, errs.InvalidArgument)

	_, err = s.GetRequest(ctx, u1)
	assert.ErrorIs(t, err, errs.NotFound)
}

func TestAdminOnlyOperations(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	_, err := s.SubmitRequest(ctx, u1, 10)
	require.NoError(t, err)

	_, err = s.ApproveRequest(ctx, u1, u1)
	assert.ErrorIs(t, err, errs.NotAuthorized)
	assert.ErrorIs(t, s.RejectRequest(ctx, u1, u1), errs.NotAuthorized)
	_, err = s.ListRequests(ctx, u1)
	assert.ErrorIs(t, err, errs.NotAuthorized)

	_, err = s.ApproveRequest(ctx, admin, treasury)
	assert.ErrorIs(t, err, errs.NotFound)
}

func TestRejectRequest(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	assert.ErrorIs(t, s.RejectRequest(ctx, admin, u1), errs.NotFound)

	_, err := s.SubmitRequest(ctx, u1, 10)
	require.NoError(t, err)
	require.NoError(t, s.RejectRequest(ctx, admin, u1))

	reqs, err := s.ListRequests(ctx, admin)
	require.NoError(t, err)
	assert.Empty(t, reqs)
}

func TestConcurrentApprovals(t *testing.T) {
	ctx := context.Background()
	s, mockLedger := newTestService(t)
	_, err := s.SubmitRequest(ctx, u1, 50)
	require.NoError(t, err)

	var transfers atomic.Int32
	mockLedger.EXPECT().Approve(mock.Anything, treasury, mock.Anything).Return(1, nil).Maybe()
	mockLedger.EXPECT().TransferFrom(mock.Anything, service, mock.Anything).RunAndReturn(
		func(context.Context, common.Identity, ledger.TransferFromArgs) (uint64, error) {
			transfers.Add(1)
			return 2, nil
		}).Maybe()

	const n = 8
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.ApproveRequest(ctx, admin, u1); err == nil {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(1), transfers.Load())

	req, err := s.GetRequest(ctx, u1)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), req.TotalTokenGiven)
}
