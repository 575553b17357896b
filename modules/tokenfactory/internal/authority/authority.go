// Package authority keeps the single admin identity that governs the faucet and the resource binary.
package authority

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/ictalent/talent-network/common"
	"github.com/ictalent/talent-network/common/errs"
	"github.com/ictalent/talent-network/modules/tokenfactory/datagateway"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/entity"
	"github.com/ictalent/talent-network/pkg/logger"
	"github.com/ictalent/talent-network/pkg/logger/slogx"
)

type Manager struct {
	dg datagateway.TokenFactoryDataGateway
}

func New(dg datagateway.TokenFactoryDataGateway) *Manager {
	return &Manager{dg: dg}
}

// RegisterAdmin makes caller the admin. It succeeds only once.
func (m *Manager) RegisterAdmin(ctx context.Context, caller common.Identity) error {
	if !caller.IsAuthenticated() {
		return errors.Wrap(errs.NotAllowed, "anonymous caller can't register as admin")
	}

	qtx, err := m.dg.BeginTokenFactoryTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if rErr := qtx.Rollback(ctx); rErr != nil {
			logger.WarnContext(ctx, "failed to rollback transaction", slogx.Error(rErr))
		}
	}()

	state, err := qtx.GetAdminState(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get admin state")
	}
	if state.Registered {
		return errors.WithStack(errs.AlreadyRegistered)
	}
	if err := qtx.SetAdminState(ctx, entity.AdminState{Admin: caller, Registered: true}); err != nil {
		return errors.Wrap(err, "failed to set admin state")
	}
	if err := qtx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	logger.InfoContext(ctx, "Registered admin", slogx.Stringer("admin", caller))
	return nil
}

// ChangeAdmin hands the admin role from caller to newAdmin.
func (m *Manager) ChangeAdmin(ctx context.Context, caller common.Identity, newAdmin common.Identity) error {
	qtx, err := m.dg.BeginTokenFactoryTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if rErr := qtx.Rollback(ctx); rErr != nil {
			logger.WarnContext(ctx, "failed to rollback transaction", slogx.Error(rErr))
		}
	}()

	state, err := qtx.GetAdminState(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get admin state")
	}
	if !state.Registered {
		return errors.WithStack(errs.NotRegistered)
	}
	if state.Admin != caller {
		return errors.WithStack(errs.NotAuthorized)
	}
	if !newAdmin.IsAuthenticated() {
		return errors.Wrap(errs.InvalidArgument, "new admin must be an authenticated identity")
	}

	if err := qtx.SetAdminState(ctx, entity.AdminState{Admin: newAdmin, Registered: true}); err != nil {
		return errors.Wrap(err, "failed to set admin state")
	}
	if err := qtx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	logger.InfoContext(ctx, "Changed admin",
		slogx.Stringer("from", caller),
		slogx.Stringer("to", newAdmin),
	)
	return nil
}

// RequireAdmin fails with errs.NotAuthorized unless caller is the registered admin.
func (m *Manager) RequireAdmin(ctx context.Context, caller common.Identity) error {
	state, err := m.dg.GetAdminState(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get admin state")
	}
	if !state.Registered || state.Admin != caller {
		logger.DebugContext(ctx, "Rejected non-admin caller", slog.String("caller", caller.String()))
		return errors.WithStack(errs.NotAuthorized)
	}
	return nil
}

func (m *Manager) GetAdmin(ctx context.Context) (entity.AdminState, error) {
	state, err := m.dg.GetAdminState(ctx)
	if err != nil {
		return entity.AdminState{}, errors.Wrap(err, "failed to get admin state")
	}
	return state, nil
}
