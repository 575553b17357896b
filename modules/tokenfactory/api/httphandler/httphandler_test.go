package httphandler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gaze-network/uint128"
	"github.com/gofiber/fiber/v2"
	"github.com/ictalent/talent-network/common"
	"github.com/ictalent/talent-network/common/errs"
	"github.com/ictalent/talent-network/internal/kvstore"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/authority"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/entity"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/faucet"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/ledger"
	ledgermocks "github.com/ictalent/talent-network/modules/tokenfactory/internal/ledger/mocks"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/provisioning"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/purchase"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/resourcemgr"
	resourcemocks "github.com/ictalent/talent-network/modules/tokenfactory/internal/resourcemgr/mocks"
	kvrepo "github.com/ictalent/talent-network/modules/tokenfactory/repository/kvstore"
	"github.com/ictalent/talent-network/pkg/errorhandler"
	"github.com/ictalent/talent-network/pkg/middleware/requestcontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	service  = common.MustNewIdentity([]byte("service"))
	treasury = common.MustNewIdentity([]byte("treasury"))
	admin    = common.MustNewIdentity([]byte("admin"))
	u1       = common.MustNewIdentity([]byte("u1"))
	u2       = common.MustNewIdentity([]byte("u2"))
	resource = common.MustNewIdentity([]byte("resource-1"))
)

type tokenLedgers map[common.Identity]ledger.Ledger

func (r tokenLedgers) LedgerOf(tokenID common.Identity) (ledger.Ledger, error) {
	if l, ok := r[tokenID]; ok {
		return l, nil
	}
	return nil, errs.NotFound
}

type testSuite struct {
	app       *fiber.App
	repo      *kvrepo.Repository
	platform  *ledgermocks.Ledger
	talent    *ledgermocks.Ledger
	resources *resourcemocks.ResourceManager
}

func newTestSuite(t *testing.T) *testSuite {
	t.Helper()
	repo := kvrepo.NewRepository(kvstore.New(kvstore.NewMemoryBackend(), kvstore.Config{Backend: kvstore.BackendMemory}))
	platform := ledgermocks.NewLedger(t)
	talent := ledgermocks.NewLedger(t)
	resources := resourcemocks.NewResourceManager(t)

	transfers := ledger.NewDelegatedClient(platform, service)
	tokens := tokenLedgers{resource: talent}
	authorityManager := authority.New(repo)
	handler := New(Services{
		Authority: authorityManager,
		Faucet:    faucet.New(repo, authorityManager, transfers, treasury),
		Provisioning: provisioning.New(repo, authorityManager, transfers, resources, provisioning.Options{
			Service:  service,
			Treasury: treasury,
			Fee:      100,
			Limits:   provisioning.DefaultLedgerLimits,
		}),
		Purchase:         purchase.New(repo, transfers, tokens, service),
		Platform:         platform,
		PlatformDecimals: 8,
		Tokens:           tokens,
	})

	app := fiber.New(fiber.Config{
		ErrorHandler: errorhandler.NewHTTPErrorHandler(),
	})
	app.Use(requestcontext.New(requestcontext.WithCaller()))
	require.NoError(t, handler.Mount(app))

	return &testSuite{app: app, repo: repo, platform: platform, talent: talent, resources: resources}
}

func (ts *testSuite) do(t *testing.T, method, target string, as common.Identity, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if _, ok := body.([]byte); !ok && body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if as.IsAuthenticated() {
		req.Header.Set(requestcontext.CallerHeader, as.String())
	}

	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func decodeResult[T any](t *testing.T, data []byte) T {
	t.Helper()
	var resp HttpResponse[T]
	require.NoError(t, json.Unmarshal(data, &resp), string(data))
	require.Nil(t, resp.Error)
	require.NotNil(t, resp.Result)
	return *resp.Result
}

func decodeError(t *testing.T, data []byte) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(data, &resp), string(data))
	return resp.Error
}

func TestAdmin(t *testing.T) {
	ts := newTestSuite(t)

	status, data := ts.do(t, http.MethodGet, "/tokenfactory/v1/admin", common.AnonymousIdentity, nil)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, decodeResult[getAdminResult](t, data).Registered)

	status, _ = ts.do(t, http.MethodPost, "/tokenfactory/v1/admin/register", common.AnonymousIdentity, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = ts.do(t, http.MethodPost, "/tokenfactory/v1/admin/register", admin, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = ts.do(t, http.MethodPost, "/tokenfactory/v1/admin/register", u1, nil)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = ts.do(t, http.MethodPut, "/tokenfactory/v1/admin/binary", u1, []byte("binary"))
	assert.Equal(t, http.StatusUnauthorized, status)
	status, data = ts.do(t, http.MethodPut, "/tokenfactory/v1/admin/binary", admin, []byte("binary"))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 6, decodeResult[provisioning.BinaryInfo](t, data).Size)

	status, data = ts.do(t, http.MethodGet, "/tokenfactory/v1/admin", common.AnonymousIdentity, nil)
	require.Equal(t, http.StatusOK, status)
	result := decodeResult[getAdminResult](t, data)
	assert.Equal(t, admin, *result.Admin)
	require.NotNil(t, result.Binary)
	assert.Len(t, result.Binary.Digest, 64)

	status, data = ts.do(t, http.MethodPost, "/tokenfactory/v1/admin/change", admin, changeAdminRequest{NewAdmin: "0OIl"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, decodeError(t, data), "validation error")

	status, _ = ts.do(t, http.MethodPost, "/tokenfactory/v1/admin/change", admin, changeAdminRequest{NewAdmin: u2.String()})
	require.Equal(t, http.StatusOK, status)
	status, _ = ts.do(t, http.MethodPost, "/tokenfactory/v1/admin/change", admin, changeAdminRequest{NewAdmin: u1.String()})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestFaucet(t *testing.T) {
	ts := newTestSuite(t)
	ts.do(t, http.MethodPost, "/tokenfactory/v1/admin/register", admin, nil)

	status, _ := ts.do(t, http.MethodPost, "/tokenfactory/v1/faucet/requests", u1, submitFaucetRequest{})
	assert.Equal(t, http.StatusBadRequest, status)

	status, data := ts.do(t, http.MethodPost, "/tokenfactory/v1/faucet/requests", u1, submitFaucetRequest{Amount: 50})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, entity.FaucetStatusPending, decodeResult[faucetRequest](t, data).Status)

	status, _ = ts.do(t, http.MethodGet, "/tokenfactory/v1/faucet/requests", u1, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, data = ts.do(t, http.MethodGet, "/tokenfactory/v1/faucet/requests", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decodeResult[getFaucetRequestsResult](t, data).List, 1)

	ts.platform.EXPECT().Approve(mock.Anything, treasury, ledger.ApproveArgs{Spender: service, Amount: uint128.From64(50)}).Return(1, nil).Once()
	ts.platform.EXPECT().TransferFrom(mock.Anything, service, ledger.TransferFromArgs{From: treasury, To: u1, Amount: uint128.From64(50)}).Return(2, nil).Once()
	status, data = ts.do(t, http.MethodPost, "/tokenfactory/v1/faucet/requests/"+u1.String()+"/approve", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, faucetRequest{
		Requester:             u1,
		CurrentRequestAmount:  50,
		TotalNumberOfRequests: 2,
		TotalTokenGiven:       50,
		Status:                entity.FaucetStatusApproved,
	}, decodeResult[faucetRequest](t, data))

	status, data = ts.do(t, http.MethodGet, "/tokenfactory/v1/faucet/requests/me", u1, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, uint64(50), decodeResult[faucetRequest](t, data).TotalTokenGiven)

	status, _ = ts.do(t, http.MethodPost, "/tokenfactory/v1/faucet/requests/"+u2.String()+"/reject", admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = ts.do(t, http.MethodPost, "/tokenfactory/v1/faucet/requests/"+u1.String()+"/reject", admin, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = ts.do(t, http.MethodGet, "/tokenfactory/v1/faucet/requests/me", u1, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestTokens(t *testing.T) {
	ts := newTestSuite(t)
	ts.do(t, http.MethodPost, "/tokenfactory/v1/admin/register", admin, nil)

	createReq := createTokenRequest{Name: "U1 Coin", Symbol: "UONE", Decimals: 2, TotalSupply: 1_000_000}

	// fee is charged before the missing binary is detected
	ts.platform.EXPECT().TransferFrom(mock.Anything, service, ledger.TransferFromArgs{From: u1, To: treasury, Amount: uint128.From64(100)}).Return(1, nil).Twice()
	status, _ := ts.do(t, http.MethodPost, "/tokenfactory/v1/tokens", u1, createReq)
	assert.Equal(t, http.StatusPreconditionFailed, status)

	status, _ = ts.do(t, http.MethodPut, "/tokenfactory/v1/admin/binary", admin, []byte("binary"))
	require.Equal(t, http.StatusOK, status)

	ts.resources.EXPECT().Create(mock.Anything, mock.Anything).Return(resource, nil).Once()
	ts.resources.EXPECT().Install(mock.Anything, mock.MatchedBy(func(args resourcemgr.InstallArgs) bool {
		return args.ResourceID == resource && args.Mode == resourcemgr.InstallModeInstall
	})).Return(nil).Once()
	status, data := ts.do(t, http.MethodPost, "/tokenfactory/v1/tokens", u1, createReq)
	require.Equal(t, http.StatusOK, status, string(data))
	assert.Equal(t, resource, decodeResult[createTokenResult](t, data).Id)

	status, _ = ts.do(t, http.MethodPost, "/tokenfactory/v1/tokens", u1, createReq)
	assert.Equal(t, http.StatusConflict, status)

	status, data = ts.do(t, http.MethodGet, "/tokenfactory/v1/tokens/"+resource.String(), common.AnonymousIdentity, nil)
	require.Equal(t, http.StatusOK, status)
	tok := decodeResult[token](t, data)
	assert.Equal(t, u1, tok.Owner)
	assert.Equal(t, "10000", tok.DisplayTotalSupply.String())

	status, data = ts.do(t, http.MethodGet, "/tokenfactory/v1/owners/"+u1.String()+"/token", common.AnonymousIdentity, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, resource, decodeResult[token](t, data).Id)

	status, _ = ts.do(t, http.MethodGet, "/tokenfactory/v1/owners/"+u2.String()+"/token", common.AnonymousIdentity, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, data = ts.do(t, http.MethodGet, "/tokenfactory/v1/tokens", common.AnonymousIdentity, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decodeResult[getTokensResult](t, data).List, 1)

	status, _ = ts.do(t, http.MethodGet, "/tokenfactory/v1/tokens/0OIl", common.AnonymousIdentity, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestPurchases(t *testing.T) {
	ts := newTestSuite(t)
	require.NoError(t, ts.repo.CreateToken(context.Background(), entity.TokenRecord{
		ResourceID:  resource,
		Name:        "U1 Coin",
		Symbol:      "UONE",
		Decimals:    2,
		TotalSupply: 1_000_000,
		Owner:       u1,
	}))

	ts.platform.EXPECT().TransferFrom(mock.Anything, service, ledger.TransferFromArgs{From: u2, To: u1, Amount: uint128.From64(25)}).Return(3, nil).Once()
	ts.talent.EXPECT().Transfer(mock.Anything, service, ledger.TransferArgs{To: u2, Amount: uint128.From64(25)}).Return(4, nil).Once()
	status, data := ts.do(t, http.MethodPost, "/tokenfactory/v1/tokens/"+resource.String()+"/purchase", u2, purchaseTokenRequest{Amount: 25})
	require.Equal(t, http.StatusOK, status, string(data))
	assert.Equal(t, purchaseTokenResult{TokenId: resource, Amount: 25, PaymentBlock: 3, DeliveryBlock: 4}, decodeResult[purchaseTokenResult](t, data))

	status, _ = ts.do(t, http.MethodPost, "/tokenfactory/v1/tokens/"+resource.String()+"/purchase", u1, purchaseTokenRequest{Amount: 25})
	assert.Equal(t, http.StatusBadRequest, status)

	status, data = ts.do(t, http.MethodGet, "/tokenfactory/v1/purchases/me", u2, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []common.Identity{resource}, decodeResult[getPurchasesResult](t, data).Tokens)

	status, data = ts.do(t, http.MethodGet, "/tokenfactory/v1/purchases/"+u1.String(), common.AnonymousIdentity, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decodeResult[getPurchasesResult](t, data).Tokens)
}

func TestBalances(t *testing.T) {
	ts := newTestSuite(t)
	require.NoError(t, ts.repo.CreateToken(context.Background(), entity.TokenRecord{
		ResourceID:  resource,
		Decimals:    2,
		TotalSupply: 1_000_000,
		Owner:       u1,
	}))

	ts.platform.EXPECT().BalanceOf(mock.Anything, u1).Return(uint128.From64(150_000_000), nil)
	ts.talent.EXPECT().BalanceOf(mock.Anything, u2).Return(uint128.From64(250), nil)
	ts.talent.EXPECT().TotalSupply(mock.Anything).Return(uint128.From64(1_000_000), nil).Once()

	status, data := ts.do(t, http.MethodGet, "/tokenfactory/v1/ledger/balances/"+u1.String(), common.AnonymousIdentity, nil)
	require.Equal(t, http.StatusOK, status)
	b := decodeResult[balance](t, data)
	assert.Equal(t, "150000000", b.Amount)
	assert.Equal(t, "1.5", b.DisplayAmount.String())
	assert.Nil(t, b.Token)

	status, data = ts.do(t, http.MethodPost, "/tokenfactory/v1/ledger/balances/batch", common.AnonymousIdentity, getBalancesBatchRequest{
		Queries: []getBalanceQuery{
			{Account: u1.String()},
			{Account: u2.String(), Token: resource.String()},
		},
	})
	require.Equal(t, http.StatusOK, status, string(data))
	list := decodeResult[getBalancesBatchResult](t, data).List
	require.Len(t, list, 2)
	assert.Equal(t, "1.5", list[0].DisplayAmount.String())
	assert.Equal(t, "2.5", list[1].DisplayAmount.String())
	assert.Equal(t, resource, *list[1].Token)

	status, _ = ts.do(t, http.MethodPost, "/tokenfactory/v1/ledger/balances/batch", common.AnonymousIdentity, getBalancesBatchRequest{})
	assert.Equal(t, http.StatusBadRequest, status)

	status, data = ts.do(t, http.MethodGet, "/tokenfactory/v1/ledger/total-supply?token="+resource.String(), common.AnonymousIdentity, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "10000", decodeResult[totalSupply](t, data).DisplayAmount.String())

	status, _ = ts.do(t, http.MethodGet, "/tokenfactory/v1/ledger/total-supply?token="+u2.String(), common.AnonymousIdentity, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestLedgerFailureClasses(t *testing.T) {
	createReq := createTokenRequest{Name: "U1 Coin", Symbol: "UONE", Decimals: 2, TotalSupply: 1_000_000}
	testCases := []struct {
		name          string
		err           error
		approveStatus int
		approveError  string
		feeStatus     int
		feeError      string
	}{
		{
			name:          "rejected",
			err:           ledger.NewRejectionError(ledger.RejectionInsufficientFunds, ""),
			approveStatus: http.StatusUnprocessableEntity,
			approveError:  "Transfer Failed: ledger rejected: InsufficientFunds",
			feeStatus:     http.StatusPaymentRequired,
			feeError:      "Fee Charge Failed: ledger rejected: InsufficientFunds",
		},
		{
			name:          "unreachable",
			err:           ledger.NewCallError(0, "dial tcp 10.0.0.7:4943: connection refused"),
			approveStatus: http.StatusBadGateway,
			approveError:  "Transfer Failed: ledger unavailable",
			feeStatus:     http.StatusBadGateway,
			feeError:      "Fee Charge Failed: ledger unavailable",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestSuite(t)
			ts.do(t, http.MethodPost, "/tokenfactory/v1/admin/register", admin, nil)
			status, _ := ts.do(t, http.MethodPost, "/tokenfactory/v1/faucet/requests", u1, submitFaucetRequest{Amount: 50})
			require.Equal(t, http.StatusOK, status)

			ts.platform.EXPECT().Approve(mock.Anything, treasury, mock.Anything).Return(0, tc.err).Once()
			status, data := ts.do(t, http.MethodPost, "/tokenfactory/v1/faucet/requests/"+u1.String()+"/approve", admin, nil)
			assert.Equal(t, tc.approveStatus, status)
			assert.Equal(t, tc.approveError, decodeError(t, data))

			// the request stays pending and can be approved again
			status, data = ts.do(t, http.MethodGet, "/tokenfactory/v1/faucet/requests/me", u1, nil)
			require.Equal(t, http.StatusOK, status)
			assert.Equal(t, entity.FaucetStatusPending, decodeResult[faucetRequest](t, data).Status)

			ts.platform.EXPECT().TransferFrom(mock.Anything, service, ledger.TransferFromArgs{From: u1, To: treasury, Amount: uint128.From64(100)}).Return(0, tc.err).Once()
			status, data = ts.do(t, http.MethodPost, "/tokenfactory/v1/tokens", u1, createReq)
			assert.Equal(t, tc.feeStatus, status)
			assert.Equal(t, tc.feeError, decodeError(t, data))

			_, err := ts.repo.GetUserToken(context.Background(), u1)
			assert.ErrorIs(t, err, errs.NotFound)
		})
	}
}

func TestFaucetDisplayAmount(t *testing.T) {
	ts := newTestSuite(t)

	for _, body := range []map[string]any{
		{"displayAmount": "0.000000001"},
		{"displayAmount": "-1"},
		{"displayAmount": "0"},
		{"displayAmount": "43"},
		{"displayAmount": "1", "amount": 5},
	} {
		status, data := ts.do(t, http.MethodPost, "/tokenfactory/v1/faucet/requests", u1, body)
		assert.Equal(t, http.StatusBadRequest, status, body)
		assert.Contains(t, decodeError(t, data), "validation error", body)
	}

	status, data := ts.do(t, http.MethodPost, "/tokenfactory/v1/faucet/requests", u1, map[string]any{"displayAmount": "0.0000005"})
	require.Equal(t, http.StatusOK, status, string(data))
	assert.Equal(t, uint32(50), decodeResult[faucetRequest](t, data).CurrentRequestAmount)

	status, data = ts.do(t, http.MethodPost, "/tokenfactory/v1/faucet/requests", u2, map[string]any{"displayAmount": "42.9"})
	require.Equal(t, http.StatusOK, status, string(data))
	assert.Equal(t, uint32(4_290_000_000), decodeResult[faucetRequest](t, data).CurrentRequestAmount)
}
