package api

import (
	"github.com/bookmarkd/bookmarkd/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// renderError turns a failure into its public JSON body. Rich errors carry
// their own HTTP code and safe message; anything else is a 500 with the
// operation's generic message, with the real detail going to the server log
// only.
func renderError(c *fiber.Ctx, logger auth.Logger, err error, fallback string) error {
	var richErr *errors.Error

	if errors.As(err, &richErr) && richErr.Code >= fiber.StatusBadRequest && richErr.Code < fiber.StatusInternalServerError {
		return c.Status(richErr.Code).JSON(fiber.Map{
			"message": richErr.Message,
		})
	}

	if richErr != nil {
		logger.Error(fallback,
			"error", richErr.Message,
			"text_code", richErr.TextCode,
			"details", print.MaybePrettyJSON(richErr.Metadata),
			"path", c.OriginalURL(),
		)
	} else {
		logger.Error(fallback, "error", err, "path", c.OriginalURL())
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": fallback,
	})
}
