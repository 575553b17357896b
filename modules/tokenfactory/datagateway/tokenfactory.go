package datagateway

import (
	"context"
	"time"

	"github.com/ictalent/talent-network/common"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/entity"
)

type TokenFactoryDataGateway interface {
	TokenFactoryReaderDataGateway
	TokenFactoryWriterDataGateway

	// BeginTokenFactoryTx opens a transaction. Writes through the returned gateway persist on Commit only,
	// and the receiver must not be used until the transaction ends.
	BeginTokenFactoryTx(ctx context.Context) (TokenFactoryDataGatewayWithTx, error)
}

type TokenFactoryDataGatewayWithTx interface {
	TokenFactoryDataGateway

	Commit(ctx context.Context) error
	// Rollback is a no-op after Commit, callers defer it.
	Rollback(ctx context.Context) error
}

type TokenFactoryReaderDataGateway interface {
	// GetAdminState returns the zero AdminState if no admin was ever registered.
	GetAdminState(ctx context.Context) (entity.AdminState, error)

	// GetToken returns errs.NotFound if the token does not exist.
	GetToken(ctx context.Context, tokenID common.Identity) (*entity.TokenRecord, error)
	// GetTokens returns every token ordered by resource id.
	GetTokens(ctx context.Context) ([]*entity.TokenRecord, error)
	// GetUserToken returns errs.NotFound if the owner has neither a token nor a reservation.
	GetUserToken(ctx context.Context, owner common.Identity) (entity.UserToken, error)

	// GetFaucetRequest returns errs.NotFound if the requester never submitted a request.
	GetFaucetRequest(ctx context.Context, requester common.Identity) (*entity.FaucetRequest, error)
	// GetFaucetRequests returns every faucet request ordered by requester.
	GetFaucetRequests(ctx context.Context) ([]*entity.FaucetRequest, error)

	// GetPurchaseHistory returns an empty history if the identity never bought a token.
	GetPurchaseHistory(ctx context.Context, buyer common.Identity) (entity.PurchaseHistory, error)
}

type TokenFactoryWriterDataGateway interface {
	SetAdminState(ctx context.Context, state entity.AdminState) error

	// ReserveUserToken stores reservation as the entry of owner. It returns false if owner already has
	// a token or a reservation taken at or after staleBefore. An older reservation is replaced.
	ReserveUserToken(ctx context.Context, owner common.Identity, reservation entity.UserToken, staleBefore time.Time) (bool, error)
	// SetUserToken replaces the entry of owner with tokenID.
	SetUserToken(ctx context.Context, owner common.Identity, tokenID common.Identity) error
	// RemoveUserToken removes the entry of owner and returns it.
	RemoveUserToken(ctx context.Context, owner common.Identity) (entity.UserToken, bool, error)
	// CreateToken inserts a token record. It fails with errs.InternalError if the id is already taken.
	CreateToken(ctx context.Context, token entity.TokenRecord) error

	SetFaucetRequest(ctx context.Context, req entity.FaucetRequest) error
	// DeleteFaucetRequest returns errs.NotFound if the requester has no record.
	DeleteFaucetRequest(ctx context.Context, requester common.Identity) error

	SetPurchaseHistory(ctx context.Context, buyer common.Identity, history entity.PurchaseHistory) error
}
