package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/ictalent/talent-network/common"
	"github.com/ictalent/talent-network/modules/tokenfactory/internal/provisioning"
)

type getAdminResult struct {
	Admin      *common.Identity         `json:"admin"`
	Registered bool                     `json:"registered"`
	Binary     *provisioning.BinaryInfo `json:"binary"`
}

type getAdminResponse = HttpResponse[getAdminResult]

func (h *HttpHandler) GetAdmin(ctx *fiber.Ctx) (err error) {
	state, err := h.Authority.GetAdmin(ctx.UserContext())
	if err != nil {
		return errors.Wrap(err, "error during GetAdmin")
	}

	result := getAdminResult{
		Registered: state.Registered,
	}
	if state.Registered {
		result.Admin = &state.Admin
	}
	if info := h.Provisioning.BinaryInfo(); info.Size > 0 {
		result.Binary = &info
	}
	return errors.WithStack(ctx.JSON(getAdminResponse{Result: &result}))
}

type registerAdminResult struct {
	Admin common.Identity `json:"admin"`
}

func (h *HttpHandler) RegisterAdmin(ctx *fiber.Ctx) (err error) {
	admin := caller(ctx)
	if err := h.Authority.RegisterAdmin(ctx.UserContext(), admin); err != nil {
		return errors.Wrap(err, "error during RegisterAdmin")
	}
	return ok(ctx, registerAdminResult{Admin: admin})
}

type changeAdminRequest struct {
	NewAdmin string `json:"newAdmin"`
}

func (h *HttpHandler) ChangeAdmin(ctx *fiber.Ctx) (err error) {
	var req changeAdminRequest
	if err := parseBody(ctx, &req); err != nil {
		return errors.WithStack(err)
	}
	var errList []error
	newAdmin, err := parseIdentityQuery("newAdmin", req.NewAdmin)
	if err != nil {
		errList = append(errList, err)
	}
	if req.NewAdmin == "" {
		errList = append(errList, errors.New("'newAdmin' is required"))
	}
	if err := validationError(errList); err != nil {
		return errors.WithStack(err)
	}

	if err := h.Authority.ChangeAdmin(ctx.UserContext(), caller(ctx), newAdmin); err != nil {
		return errors.Wrap(err, "error during ChangeAdmin")
	}
	return ok(ctx, registerAdminResult{Admin: newAdmin})
}

type updateBinaryResponse = HttpResponse[provisioning.BinaryInfo]

// UpdateBinary replaces the resource binary with the raw request body.
func (h *HttpHandler) UpdateBinary(ctx *fiber.Ctx) (err error) {
	// Body is only valid until the handler returns.
	binary := append([]byte(nil), ctx.Body()...)
	info, err := h.Provisioning.UpdateBinary(ctx.UserContext(), caller(ctx), binary)
	if err != nil {
		return errors.Wrap(err, "error during UpdateBinary")
	}
	return errors.WithStack(ctx.JSON(updateBinaryResponse{Result: &info}))
}
