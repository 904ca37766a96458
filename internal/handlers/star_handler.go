package handlers

import (
	"net/http"

	"github.com/anonto42/tuiter-stars/backend/internal/models"
	"github.com/anonto42/tuiter-stars/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// StarHandler handles HTTP requests related to starred messages
type StarHandler struct {
	starRepository repositories.StarRepository
}

// NewStarHandler creates a new StarHandler
func NewStarHandler(starRepo repositories.StarRepository) *StarHandler {
	return &StarHandler{starRepository: starRepo}
}

// RegisterStarRoutes registers star-related routes
func (h *StarHandler) RegisterStarRoutes(g *echo.Group) {
	g.POST("/users/:uid/stars/:mid", h.UserStarsMessage)
	g.DELETE("/users/:uid/stars/:mid", h.UserUnstarsMessage)
	g.GET("/starred/:uid", h.FindAllStarredMessagesByUser)
}

// UserStarsMessage stars a message for a user. Both ids are used as given.
func (h *StarHandler) UserStarsMessage(c echo.Context) error {
	star, err := h.starRepository.CreateStar(c.Request().Context(), c.Param("uid"), c.Param("mid"))
	if err != nil {
		return storeError(c, err, "star message")
	}
	return c.JSON(http.StatusOK, star)
}

// UserUnstarsMessage removes the user's stars on a message
func (h *StarHandler) UserUnstarsMessage(c echo.Context) error {
	userID, err := resolveUserParam(c, "uid", LoginRequiredMessage)
	if err != nil {
		return err
	}

	res, err := h.starRepository.DeleteStar(c.Request().Context(), userID, c.Param("mid"))
	if err != nil {
		return storeError(c, err, "unstar message")
	}
	return c.JSON(http.StatusOK, res)
}

// FindAllStarredMessagesByUser lists a user's stars with messages expanded.
// With ?view=messages only the embedded messages are returned.
func (h *StarHandler) FindAllStarredMessagesByUser(c echo.Context) error {
	userID, err := resolveUserParam(c, "uid", LoginRequiredMessage)
	if err != nil {
		return err
	}

	stars, err := h.starRepository.FindStarredMessagesByUser(c.Request().Context(), userID)
	if err != nil {
		return storeError(c, err, "list starred messages")
	}

	if c.QueryParam("view") == "messages" {
		messages := make([]models.PopulatedMessage, 0, len(stars))
		for _, s := range stars {
			if s.Message != nil {
				messages = append(messages, *s.Message)
			}
		}
		return c.JSON(http.StatusOK, messages)
	}
	return c.JSON(http.StatusOK, stars)
}
