// Package resourcemgr creates the isolated resources that host talent token ledgers.
package resourcemgr

import (
	"context"

	"github.com/ictalent/talent-network/common"
)

type InstallMode string

const (
	InstallModeInstall   InstallMode = "install"
	InstallModeReinstall InstallMode = "reinstall"
	InstallModeUpgrade   InstallMode = "upgrade"
)

// Settings are the quotas of a new resource. Nil allocations use the resource manager defaults.
type Settings struct {
	Cycles            uint64
	ComputeAllocation *uint64
	MemoryAllocation  *uint64
}

type CreateArgs struct {
	Controllers []common.Identity
	Settings    Settings
}

type InstallArgs struct {
	ResourceID common.Identity
	Mode       InstallMode
	Binary     []byte
	Arg        []byte
}

// ResourceManager is the external service that owns resources. Errors marked
// errs.ExternalCallFailed are transport failures, any other error is a refusal.
type ResourceManager interface {
	Create(ctx context.Context, args CreateArgs) (common.Identity, error)
	Install(ctx context.Context, args InstallArgs) error
}
