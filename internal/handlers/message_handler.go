package handlers

import (
	"net/http"

	"github.com/anonto42/tuiter-stars/backend/internal/models"
	"github.com/anonto42/tuiter-stars/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// MessageHandler handles HTTP requests related to direct messages
type MessageHandler struct {
	messageRepository repositories.MessageRepository
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageRepo repositories.MessageRepository) *MessageHandler {
	return &MessageHandler{messageRepository: messageRepo}
}

// RegisterMessageRoutes registers message-related routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.POST("/users/:uid/messages/:ruid", h.UserMessagesAnotherUser)
	g.GET("/users/:uid/messages/sent", h.FindMessagesSentByUser)
	g.GET("/users/:uid/messages/received", h.FindMessagesReceivedByUser)
	g.GET("/users/:uid/messages/latest", h.GetLatestMessagesForUser)
	g.GET("/users/:uid/messages/:ruid", h.FindMessagesBetweenUsers)
	g.PUT("/messages/:mid", h.UpdateMessage)
	g.DELETE("/messages/:mid", h.DeleteMessage)
}

// UserMessagesAnotherUser sends a message from uid to ruid
func (h *MessageHandler) UserMessagesAnotherUser(c echo.Context) error {
	userID, err := resolveUserParam(c, "uid", MessagesLoginRequiredMessage)
	if err != nil {
		return err
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	msg, err := h.messageRepository.CreateMessage(c.Request().Context(), userID, c.Param("ruid"), req.Message)
	if err != nil {
		return storeError(c, err, "send message")
	}
	return c.JSON(http.StatusCreated, msg)
}

// FindMessagesSentByUser lists messages sent by a user
func (h *MessageHandler) FindMessagesSentByUser(c echo.Context) error {
	userID, err := resolveUserParam(c, "uid", MessagesLoginRequiredMessage)
	if err != nil {
		return err
	}

	msgs, err := h.messageRepository.FindMessagesSentByUser(c.Request().Context(), userID)
	if err != nil {
		return storeError(c, err, "list sent messages")
	}
	return c.JSON(http.StatusOK, msgs)
}

// FindMessagesReceivedByUser lists messages received by a user
func (h *MessageHandler) FindMessagesReceivedByUser(c echo.Context) error {
	userID, err := resolveUserParam(c, "uid", MessagesLoginRequiredMessage)
	if err != nil {
		return err
	}

	msgs, err := h.messageRepository.FindMessagesReceivedByUser(c.Request().Context(), userID)
	if err != nil {
		return storeError(c, err, "list received messages")
	}
	return c.JSON(http.StatusOK, msgs)
}

// FindMessagesBetweenUsers returns the conversation between uid and ruid
func (h *MessageHandler) FindMessagesBetweenUsers(c echo.Context) error {
	userID, err := resolveUserParam(c, "uid", MessagesLoginRequiredMessage)
	if err != nil {
		return err
	}

	msgs, err := h.messageRepository.FindMessagesBetweenUsers(c.Request().Context(), userID, c.Param("ruid"))
	if err != nil {
		return storeError(c, err, "list conversation")
	}
	return c.JSON(http.StatusOK, msgs)
}

// GetLatestMessagesForUser returns the latest message of each of the user's chats
func (h *MessageHandler) GetLatestMessagesForUser(c echo.Context) error {
	userID, err := resolveUserParam(c, "uid", MessagesLoginRequiredMessage)
	if err != nil {
		return err
	}

	msgs, err := h.messageRepository.FindLatestMessagesForUser(c.Request().Context(), userID)
	if err != nil {
		return storeError(c, err, "list latest messages")
	}
	return c.JSON(http.StatusOK, msgs)
}

// UpdateMessage edits the text of a message
func (h *MessageHandler) UpdateMessage(c echo.Context) error {
	var req models.UpdateMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	msg, err := h.messageRepository.UpdateMessage(c.Request().Context(), c.Param("mid"), req.Message)
	if err != nil {
		return storeError(c, err, "update message")
	}
	return c.JSON(http.StatusOK, msg)
}

// DeleteMessage removes a message. Stars on it are kept.
func (h *MessageHandler) DeleteMessage(c echo.Context) error {
	res, err := h.messageRepository.DeleteMessage(c.Request().Context(), c.Param("mid"))
	if err != nil {
		return storeError(c, err, "delete message")
	}
	return c.JSON(http.StatusOK, res)
}
