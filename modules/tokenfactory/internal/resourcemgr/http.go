package resourcemgr

import (
	"context"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ictalent/talent-network/common"
	"github.com/ictalent/talent-network/common/errs"
	"github.com/ictalent/talent-network/pkg/httpclient"
	"github.com/samber/lo"
)

var _ ResourceManager = (*HTTPResourceManager)(nil)

type HTTPResourceManager struct {
	client *httpclient.Client
}

func NewHTTPResourceManager(url string, config httpclient.Config) (*HTTPResourceManager, error) {
	client, err := httpclient.New(url, config)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "can't create resource manager http client"), errs.InvalidArgument)
	}
	return &HTTPResourceManager{client: client}, nil
}

type createRequest struct {
	Controllers       []string `json:"controllers"`
	Cycles            uint64   `json:"cycles"`
	ComputeAllocation *uint64  `json:"compute_allocation,omitempty"`
	MemoryAllocation  *uint64  `json:"memory_allocation,omitempty"`
}

type createResponse struct {
	ResourceID string `json:"resource_id"`
}

type installRequest struct {
	Mode   InstallMode `json:"mode"`
	Binary []byte      `json:"binary"`
	Arg    []byte      `json:"arg"`
}

func (m *HTTPResourceManager) Create(ctx context.Context, args CreateArgs) (common.Identity, error) {
	resp, err := m.client.PostJSON(ctx, "/resources", createRequest{
		Controllers:       lo.Map(args.Controllers, func(id common.Identity, _ int) string { return id.String() }),
		Cycles:            args.Settings.Cycles,
		ComputeAllocation: args.Settings.ComputeAllocation,
		MemoryAllocation:  args.Settings.MemoryAllocation,
	})
	if err != nil {
		return common.Identity{}, unavailable(errors.Wrap(err, "create resource"))
	}
	if err := checkStatus(resp); err != nil {
		return common.Identity{}, errors.Wrap(err, "create resource")
	}

	var out createResponse
	if err := resp.UnmarshalBody(&out); err != nil {
		return common.Identity{}, errors.Wrap(err, "create resource")
	}
	id, err := common.ParseIdentity(out.ResourceID)
	if err != nil {
		return common.Identity{}, errors.Wrap(err, "create resource: invalid resource id")
	}
	return id, nil
}

func (m *HTTPResourceManager) Install(ctx context.Context, args InstallArgs) error {
	resp, err := m.client.PostJSON(ctx, "/resources/"+args.ResourceID.String()+"/install", installRequest{
		Mode:   args.Mode,
		Binary: args.Binary,
		Arg:    args.Arg,
	})
	if err != nil {
		return unavailable(errors.Wrapf(err, "install %s", args.ResourceID))
	}
	return errors.Wrapf(checkStatus(resp), "install %s", args.ResourceID)
}

func checkStatus(resp *httpclient.Response) error {
	status := resp.StatusCode()
	message := strings.TrimSpace(string(resp.Body()))
	switch {
	case status >= http.StatusOK && status < http.StatusMultipleChoices:
		return nil
	case status >= http.StatusInternalServerError:
		return unavailable(errors.Newf("resource manager unavailable (%d): %s", status, message))
	default:
		return errs.WithPublicMessage(errors.Newf("resource manager refused (%d): %s", status, message), "")
	}
}

// unavailable marks a transport failure. Clients see a fixed message, err may hold upstream addresses.
func unavailable(err error) error {
	return errs.WithFixedPublicMessage(errors.Mark(err, errs.ExternalCallFailed), "resource manager unavailable")
}
