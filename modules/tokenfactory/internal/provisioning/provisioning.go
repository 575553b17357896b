// Package provisioning creates talent tokens. Each identity gets at most one token: the owner
// index entry is reserved before any external call and only released if the attempt fails or the
// reservation outlives Options.ReservationTTL.
//
// A charged fee is not refunded and a created resource is not torn down when a later step fails.
package provisioning

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/ictalent/talent-network/common"
	"github.com/ictalent/talent-network/common/errs"
	"github.com/ictalent/talent-network/modules/tokenfactory/datagateway"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/authority"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/entity"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/ledger"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/resourcemgr"
	"github.com/ictalent/talent-network/pkg/logger"
	"github.com/ictalent/talent-network/pkg/logger/slogx"
)

type Options struct {
	// Service is the identity of this service. It controls created resources and mints their supply.
	Service common.Identity
	// Treasury receives provisioning fees.
	Treasury common.Identity
	// Fee is charged from the requester before a resource is created.
	Fee uint64
	// ReservationTTL is how long an owner index reservation blocks new attempts. An attempt that died
	// without releasing its reservation stops blocking the owner after it. Zero keeps reservations forever.
	ReservationTTL time.Duration

	Settings resourcemgr.Settings
	Limits   LedgerLimits
}

type Service struct {
	dg        datagateway.TokenFactoryDataGateway
	authority *authority.Manager
	transfers *ledger.DelegatedClient
	resources resourcemgr.ResourceManager
	opts      Options

	binary resourceBinary
	now    func() time.Time
}

func New(dg datagateway.TokenFactoryDataGateway, authority *authority.Manager, transfers *ledger.DelegatedClient, resources resourcemgr.ResourceManager, opts Options) *Service {
	return &Service{
		dg:        dg,
		authority: authority,
		transfers: transfers,
		resources: resources,
		opts:      opts,
		now:       time.Now,
	}
}

// UpdateBinary replaces the binary installed into new resources.
func (s *Service) UpdateBinary(ctx context.Context, admin common.Identity, binary []byte) (BinaryInfo, error) {
	if err := s.authority.RequireAdmin(ctx, admin); err != nil {
		return BinaryInfo{}, errors.WithStack(err)
	}
	if len(binary) == 0 {
		return BinaryInfo{}, errors.Wrap(errs.InvalidArgument, "binary must not be empty")
	}

	info := s.binary.Set(binary)
	logger.InfoContext(ctx, "Updated resource binary",
		slogx.Int("size", info.Size),
		slogx.String("digest", info.Digest),
	)
	return info, nil
}

func (s *Service) BinaryInfo() BinaryInfo {
	_, info := s.binary.Load()
	return info
}

func validateCreateTokenArgs(args entity.CreateTokenArgs) error {
	if strings.TrimSpace(args.Name) == "" {
		return errors.Wrap(errs.InvalidArgument, "name must not be empty")
	}
	if strings.TrimSpace(args.Symbol) == "" {
		return errors.Wrap(errs.InvalidArgument, "symbol must not be empty")
	}
	return nil
}

// CreateToken provisions the talent token of requester and returns its resource id.
func (s *Service) CreateToken(ctx context.Context, requester common.Identity, args entity.CreateTokenArgs) (common.Identity, error) {
	if !requester.IsAuthenticated() {
		return common.Identity{}, errors.Wrap(errs.NotAllowed, "anonymous caller can't create a token")
	}
	if err := validateCreateTokenArgs(args); err != nil {
		return common.Identity{}, errors.WithStack(err)
	}
	ctx = logger.WithContext(ctx, slogx.Stringer("requester", requester), slogx.String("symbol", args.Symbol))

	var sg saga
	fail := func(err error) (common.Identity, error) {
		logger.WarnContext(ctx, "Token provisioning failed", slogx.Error(err))
		return common.Identity{}, sg.abort(ctx, err)
	}

	// Uniqueness: the check and the reservation are a single store transaction.
	now := s.now()
	reservation := entity.NewReservation(now)
	var staleBefore time.Time
	if s.opts.ReservationTTL > 0 {
		staleBefore = now.Add(-s.opts.ReservationTTL)
	}
	reserved, err := s.dg.ReserveUserToken(ctx, requester, reservation, staleBefore)
	if err != nil {
		return common.Identity{}, errors.Wrap(err, "failed to reserve owner index entry")
	}
	if !reserved {
		return common.Identity{}, errors.Wrapf(errs.AlreadyHasToken, "%s already has a token", requester)
	}
	sg.compensate("release reservation", func(ctx context.Context) error {
		return s.releaseReservation(ctx, requester, reservation)
	})

	if s.opts.Fee > 0 {
		if _, err := s.transfers.TransferOnBehalf(ctx, requester, s.opts.Treasury, uint128.From64(s.opts.Fee)); err != nil {
			return fail(errs.MarkWithReason(errors.Wrap(err, "failed to charge fee"), errs.FeeChargeFailed))
		}
		logger.InfoContext(ctx, "Charged provisioning fee", slogx.Uint64("fee", s.opts.Fee))
	}

	binary, binaryInfo := s.binary.Load()
	if len(binary) == 0 {
		return fail(errors.WithStack(errs.BinaryNotSet))
	}

	resourceID, err := s.resources.Create(ctx, resourcemgr.CreateArgs{
		Controllers: []common.Identity{s.opts.Service, requester},
		Settings:    s.opts.Settings,
	})
	if err != nil {
		return fail(errs.MarkWithReason(errors.Wrap(err, "failed to create resource"), errs.CreationFailed))
	}
	ctx = logger.WithContext(ctx, slogx.Stringer("resource_id", resourceID))
	logger.InfoContext(ctx, "Created resource")

	initArgs, err := NewInitArgs(s.opts.Service, requester, args, s.opts.Limits).Encode()
	if err != nil {
		return fail(errs.MarkWithReason(errors.WithStack(err), errs.CreationFailed))
	}
	err = s.resources.Install(ctx, resourcemgr.InstallArgs{
		ResourceID: resourceID,
		Mode:       resourcemgr.InstallModeInstall,
		Binary:     binary,
		Arg:        initArgs,
	})
	if err != nil {
		return fail(errs.MarkWithReason(errors.Wrap(err, "failed to install binary"), errs.CreationFailed))
	}
	logger.InfoContext(ctx, "Installed token ledger", slogx.String("binary_digest", binaryInfo.Digest))

	if err := s.commitToken(ctx, resourceID, requester, reservation, args); err != nil {
		return fail(errors.Wrap(err, "failed to record token"))
	}

	logger.InfoContext(ctx, "Token provisioned")
	return resourceID, nil
}

// commitToken records the token and points the owner index at it. It fails with errs.AlreadyHasToken
// if the reservation expired and another attempt replaced it.
func (s *Service) commitToken(ctx context.Context, resourceID, owner common.Identity, reservation entity.UserToken, args entity.CreateTokenArgs) error {
	qtx, err := s.dg.BeginTokenFactoryTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if rErr := qtx.Rollback(ctx); rErr != nil {
			logger.WarnContext(ctx, "failed to rollback transaction", slogx.Error(rErr))
		}
	}()

	current, err := qtx.GetUserToken(ctx, owner)
	if err != nil && !errors.Is(err, errs.NotFound) {
		return errors.Wrap(err, "failed to get owner index entry")
	}
	if !current.SameReservation(reservation) {
		return errors.Wrapf(errs.AlreadyHasToken, "reservation of %s was replaced", owner)
	}

	err = qtx.CreateToken(ctx, entity.TokenRecord{
		ResourceID:  resourceID,
		Name:        args.Name,
		Symbol:      args.Symbol,
		Decimals:    args.Decimals,
		TotalSupply: args.TotalSupply,
		Owner:       owner,
		Logo:        args.Logo,
		CreatedAt:   uint64(s.now().UnixNano()),
	})
	if err != nil {
		return errors.Wrap(err, "failed to create token record")
	}
	if err := qtx.SetUserToken(ctx, owner, resourceID); err != nil {
		return errors.Wrap(err, "failed to set owner index entry")
	}
	if err := qtx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// releaseReservation removes the owner index entry if it still is reservation.
func (s *Service) releaseReservation(ctx context.Context, owner common.Identity, reservation entity.UserToken) error {
	qtx, err := s.dg.BeginTokenFactoryTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if rErr := qtx.Rollback(ctx); rErr != nil {
			logger.WarnContext(ctx, "failed to rollback transaction", slogx.Error(rErr))
		}
	}()

	current, err := qtx.GetUserToken(ctx, owner)
	if errors.Is(err, errs.NotFound) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to get owner index entry")
	}
	if !current.SameReservation(reservation) {
		logger.WarnContext(ctx, "Owner index entry was replaced, keeping it")
		return nil
	}
	if _, _, err := qtx.RemoveUserToken(ctx, owner); err != nil {
		return errors.Wrap(err, "failed to remove owner index entry")
	}
	return errors.Wrap(qtx.Commit(ctx), "failed to commit transaction")
}

func (s *Service) GetToken(ctx context.Context, tokenID common.Identity) (*entity.TokenRecord, error) {
	token, err := s.dg.GetToken(ctx, tokenID)
	if err != nil {
		return nil, errors.Wrapf(err, "token %s", tokenID)
	}
	return token, nil
}

func (s *Service) ListTokens(ctx context.Context) ([]*entity.TokenRecord, error) {
	tokens, err := s.dg.GetTokens(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tokens")
	}
	return tokens, nil
}

// GetTokenByOwner returns the token of owner. A pending reservation counts as no token.
func (s *Service) GetTokenByOwner(ctx context.Context, owner common.Identity) (*entity.TokenRecord, error) {
	userToken, err := s.dg.GetUserToken(ctx, owner)
	if err != nil {
		return nil, errors.Wrapf(err, "token of %s", owner)
	}
	if !userToken.HasToken() {
		return nil, errors.Wrapf(errs.NotFound, "token of %s", owner)
	}
	return s.GetToken(ctx, userToken.TokenID)
}
