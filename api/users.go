package api

import (
	"github.com/bookmarkd/bookmarkd/auth"
	"github.com/gofiber/fiber/v2"
)

// UserController serves the local account routes
type UserController struct {
	auther     *auth.Auther
	contextKey string
	logger     auth.Logger
}

// NewUserController returns a new UserController
func NewUserController(auther *auth.Auther, contextKey string, logger auth.Logger) *UserController {
	if contextKey == "" {
		contextKey = auth.DefaultContextKey
	}
	if logger == nil {
		logger = auth.DefaultLogger()
	}

	return &UserController{
		auther:     auther,
		contextKey: contextKey,
		logger:     logger,
	}
}

// Register handles POST /api/users/register
func (ctrl *UserController) Register(c *fiber.Ctx) error {
	var payload RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return renderError(c, ctrl.logger, auth.ErrMissingRegistrationFields, "server error during registration")
	}

	if err := payload.Validate(); err != nil {
		return renderError(c, ctrl.logger, auth.ErrMissingRegistrationFields, "server error during registration")
	}

	result, err := ctrl.auther.Register(c.UserContext(), payload.Username, payload.Email, payload.Password)
	if err != nil {
		return renderError(c, ctrl.logger, err, "server error during registration")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "user registered successfully",
		"token":   result.Token,
		"user":    result.User,
	})
}

// Login handles POST /api/users/login
func (ctrl *UserController) Login(c *fiber.Ctx) error {
	var payload LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return renderError(c, ctrl.logger, auth.ErrMissingLoginFields, "server error during login")
	}

	if err := payload.Validate(); err != nil {
		return renderError(c, ctrl.logger, auth.ErrMissingLoginFields, "server error during login")
	}

	result, err := ctrl.auther.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return renderError(c, ctrl.logger, err, "server error during login")
	}

	return c.JSON(fiber.Map{
		"token": result.Token,
		"user":  result.User,
	})
}

// Me handles GET /api/users/me. The response is the stored record minus
// the password hash, so provider links and timestamps come through.
func (ctrl *UserController) Me(c *fiber.Ctx) error {
	claims, _ := auth.ClaimsFromLocals(c, ctrl.contextKey)

	user, err := ctrl.auther.CurrentUser(c.UserContext(), claims)
	if err != nil {
		return renderError(c, ctrl.logger, err, "server error getting current user")
	}

	return c.JSON(user)
}

// List handles GET /api/users. The route is admin-gated; by the time this
// runs the guard has already rejected non-admin sessions.
func (ctrl *UserController) List(c *fiber.Ctx) error {
	users, err := ctrl.auther.ListUsers(c.UserContext())
	if err != nil {
		return renderError(c, ctrl.logger, err, "server error getting users")
	}

	return c.JSON(users)
}
