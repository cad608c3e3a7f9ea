package api

import (
	"github.com/bookmarkd/bookmarkd/auth"
	"github.com/bookmarkd/bookmarkd/bookmarks"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// BookmarksController serves the caller-owned bookmark routes
type BookmarksController struct {
	store      bookmarks.Store
	contextKey string
	logger     auth.Logger
}

// NewBookmarksController returns a new BookmarksController
func NewBookmarksController(store bookmarks.Store, contextKey string, logger auth.Logger) *BookmarksController {
	if contextKey == "" {
		contextKey = auth.DefaultContextKey
	}
	if logger == nil {
		logger = auth.DefaultLogger()
	}

	return &BookmarksController{
		store:      store,
		contextKey: contextKey,
		logger:     logger,
	}
}

// List handles GET /api/bookmarks
func (ctrl *BookmarksController) List(c *fiber.Ctx) error {
	userID, err := ctrl.callerID(c)
	if err != nil {
		return renderError(c, ctrl.logger, err, "server error getting bookmarks")
	}

	records, err := ctrl.store.ListByUser(c.UserContext(), userID)
	if err != nil {
		return renderError(c, ctrl.logger, err, "server error getting bookmarks")
	}

	return c.JSON(records)
}

// Create handles POST /api/bookmarks
func (ctrl *BookmarksController) Create(c *fiber.Ctx) error {
	userID, err := ctrl.callerID(c)
	if err != nil {
		return renderError(c, ctrl.logger, err, "server error creating bookmark")
	}

	var payload CreateBookmarkRequest
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "title and url are required",
		})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	record, err := ctrl.store.Create(c.UserContext(), &bookmarks.Bookmark{
		Title:  payload.Title,
		URL:    payload.URL,
		UserID: userID,
	})
	if err != nil {
		return renderError(c, ctrl.logger, err, "server error creating bookmark")
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

// callerID resolves the session claims to the owning user id
func (ctrl *BookmarksController) callerID(c *fiber.Ctx) (uuid.UUID, error) {
	claims, ok := auth.ClaimsFromLocals(c, ctrl.contextKey)
	if !ok {
		return uuid.Nil, auth.ErrNotAuthorized
	}

	id, err := uuid.Parse(claims.UserID())
	if err != nil {
		return uuid.Nil, auth.ErrNotAuthorized
	}

	return id, nil
}
