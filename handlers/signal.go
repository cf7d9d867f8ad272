package handlers

import (
	"net/http"
	"strings"

	"calbot/models"
	"calbot/services/dialogue"
	"calbot/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SignalHandler struct {
	Dialogue dialogue.DialogueService
}

func NewSignalHandler(svc dialogue.DialogueService) *SignalHandler {
	return &SignalHandler{Dialogue: svc}
}

// HandleSignal advances the sender's booking dialogue by one inbound message.
func (h *SignalHandler) HandleSignal(c *gin.Context) {
	logger := getLogger(c)

	var req models.SignalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "phone is required")
		return
	}

	reply, err := h.Dialogue.Handle(c.Request.Context(), phone, req.Message)
	if err != nil {
		logger.Error("Dialogue turn failed", zap.String("phone", phone), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to process message", "Please try again shortly.")
		return
	}

	logger.Info("Dialogue turn handled", zap.String("phone", phone), zap.String("status", reply.Status))
	c.JSON(http.StatusOK, reply)
}
