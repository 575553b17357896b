package errorhandler

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/ictalent/talent-network/common/errs"
	"github.com/ictalent/talent-network/pkg/logger"
	"github.com/ictalent/talent-network/pkg/logger/slogx"
)

var statusByKind = map[errs.ErrorKind]int{
	errs.NotAuthorized:      http.StatusUnauthorized,
	errs.NotAllowed:         http.StatusForbidden,
	errs.NotFound:           http.StatusNotFound,
	errs.AlreadyRegistered:  http.StatusConflict,
	errs.AlreadyHasToken:    http.StatusConflict,
	errs.NotRegistered:      http.StatusConflict,
	errs.InvalidArgument:    http.StatusBadRequest,
	errs.BinaryNotSet:       http.StatusPreconditionFailed,
	errs.FeeChargeFailed:    http.StatusPaymentRequired,
	errs.TransferFailed:     http.StatusUnprocessableEntity,
	errs.CreationFailed:     http.StatusBadGateway,
	errs.ExternalCallFailed: http.StatusBadGateway,
	errs.Unsupported:        http.StatusNotImplemented,
}

// StatusOf returns the HTTP status for the kind marked on err. An err also marked
// errs.ExternalCallFailed is a 502 whatever its outcome kind, the upstream state is unknown
// and the call must not be blindly retried.
func StatusOf(err error) int {
	status, ok := statusByKind[errs.KindOf(err)]
	if !ok {
		return http.StatusInternalServerError
	}
	if errors.Is(err, errs.ExternalCallFailed) {
		return http.StatusBadGateway
	}
	return status
}

// NewHTTPErrorHandler returns a fiber error handler that renders kinded errors as `{"error": ...}` responses.
func NewHTTPErrorHandler() func(ctx *fiber.Ctx, err error) error {
	return func(ctx *fiber.Ctx, err error) error {
		if e := new(fiber.Error); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(e.Code).JSON(fiber.Map{
				"error": e.Message,
			}))
		}

		status := StatusOf(err)
		if status == http.StatusInternalServerError {
			logger.ErrorContext(ctx.UserContext(), "Something went wrong, unhandled api error", err,
				slogx.String("event", "api_unhandled_error"),
			)
			return errors.WithStack(ctx.Status(status).JSON(fiber.Map{
				"error": "Internal Server Error",
			}))
		}

		message := errs.KindOf(err).Error()
		if e := new(errs.PublicError); errors.As(err, &e) {
			message = e.Message()
		}
		if status >= http.StatusInternalServerError {
			logger.WarnContext(ctx.UserContext(), "Upstream call failed",
				slogx.String("event", "api_upstream_error"),
				slogx.Error(err),
			)
		}
		return errors.WithStack(ctx.Status(status).JSON(fiber.Map{
			"error": message,
		}))
	}
}
