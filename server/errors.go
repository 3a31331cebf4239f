package server

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"

	auth "github.com/studiolane/campus-auth"
)

// NewErrorHandler builds the fiber error handler. Status selection is
// driven by the numeric code carried on rich errors; a delivery failure is
// the one case reported as a bad gateway since the fault sits with the
// mail relay rather than this service.
func NewErrorHandler(logger auth.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			status := richErr.Code
			if status < fiber.StatusBadRequest || status > 599 {
				status = fiber.StatusInternalServerError
			}
			if richErr.TextCode == auth.TextCodeDeliveryFailed {
				status = fiber.StatusBadGateway
			}

			if len(richErr.Metadata) > 0 {
				logger.Debug("request error metadata: %s", print.MaybePrettyJSON(richErr.Metadata))
			}
			if status >= fiber.StatusInternalServerError {
				logger.Error("request failed: %v", richErr)
			}

			return c.Status(status).JSON(fiber.Map{
				"success": false,
				"error":   richErr.Message,
				"code":    richErr.TextCode,
			})
		}

		var valErrs validation.Errors
		if errors.As(err, &valErrs) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "validation failed",
				"fields":  valErrs,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"success": false,
				"error":   fiberErr.Message,
			})
		}

		logger.Error("unhandled request error: %v", err)

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "internal server error",
		})
	}
}
