package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maoucrm/crm/internal/dto"
	apierrors "github.com/maoucrm/crm/internal/errors"
	"github.com/maoucrm/crm/internal/middleware"
	"github.com/maoucrm/crm/internal/services"
)

type ChatHandler struct {
	settingsService *services.SettingsService
	chatService     *services.ChatService
	timeout         time.Duration
}

func NewChatHandler(settingsService *services.SettingsService, chatService *services.ChatService, timeout time.Duration) *ChatHandler {
	return &ChatHandler{
		settingsService: settingsService,
		chatService:     chatService,
		timeout:         timeout,
	}
}

func (h *ChatHandler) ListProviders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"providers": services.Providers()})
}

func (h *ChatHandler) GetSettings(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	cfg, err := h.settingsService.Get(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToChatSettingsDTO(cfg))
}

// UpdateSettings saves the chat settings. Omitting api_key keeps the
// stored one, so the masked value never has to be sent back.
func (h *ChatHandler) UpdateSettings(c *gin.Context) {
	type UpdateSettingsRequest struct {
		Provider string  `json:"provider" binding:"required"`
		Model    string  `json:"model"`
		APIKey   *string `json:"api_key"`
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	current, err := h.settingsService.Get(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	cfg := services.ProviderConfig{
		Provider: services.Provider(req.Provider),
		Model:    req.Model,
		APIKey:   current.APIKey,
	}
	if req.APIKey != nil {
		cfg.APIKey = *req.APIKey
	}

	saved, err := h.settingsService.Save(userID, cfg)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToChatSettingsDTO(saved))
}

// Chat forwards a message to the configured provider and streams the reply
// as server-sent events: "token" per chunk, then "done". Provider failures
// are sent as an "error" event rather than an HTTP error.
func (h *ChatHandler) Chat(c *gin.Context) {
	type ChatRequest struct {
		Message string `json:"message" binding:"required"`
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	cfg, err := h.settingsService.Get(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	stream, err := h.chatService.SendPrompt(ctx, cfg, req.Message)
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	if err != nil {
		_ = c.Error(err)
		h.send(c, "error", err.Error())
		return
	}
	defer stream.Close()

	for {
		token, err := stream.Next()
		if errors.Is(err, io.EOF) {
			h.send(c, "done", "")
			return
		}
		if err != nil {
			// The client went away; nobody is left to tell.
			if c.Request.Context().Err() != nil {
				return
			}
			_ = c.Error(err)
			h.send(c, "error", err.Error())
			return
		}
		h.send(c, "token", token)
	}
}

func (h *ChatHandler) send(c *gin.Context, event, data string) {
	c.SSEvent(event, data)
	c.Writer.Flush()
}
