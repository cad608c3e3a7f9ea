package api

import (
	"github.com/bookmarkd/bookmarkd/auth"
	"github.com/bookmarkd/bookmarkd/auth/social"
	"github.com/gofiber/fiber/v2"
)

// OAuthController serves the federated login routes for one provider
type OAuthController struct {
	social *social.Authenticator
	logger auth.Logger
}

// NewOAuthController returns a new OAuthController
func NewOAuthController(authenticator *social.Authenticator, logger auth.Logger) *OAuthController {
	if logger == nil {
		logger = auth.DefaultLogger()
	}

	return &OAuthController{
		social: authenticator,
		logger: logger,
	}
}

// Begin handles GET /api/users/auth/github: redirect to the provider
func (ctrl *OAuthController) Begin(c *fiber.Ctx) error {
	redirect, err := ctrl.social.Begin(c.UserContext())
	if err != nil {
		return renderError(c, ctrl.logger, err, "server error during federated login")
	}

	return c.Redirect(redirect.URL, fiber.StatusFound)
}

// Callback handles GET /api/users/auth/github/callback. A completed
// handshake answers with the same token payload local login returns.
func (ctrl *OAuthController) Callback(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")

	if code == "" || state == "" {
		return renderError(c, ctrl.logger, social.ErrInvalidState, "server error during federated login")
	}

	result, err := ctrl.social.Complete(c.UserContext(), code, state)
	if err != nil {
		return renderError(c, ctrl.logger, err, "server error during federated login")
	}

	return c.JSON(fiber.Map{
		"token": result.Token,
		"user":  result.User,
	})
}
