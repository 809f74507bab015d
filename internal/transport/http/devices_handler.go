package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vetpoint/backend/internal/domain"
	"vetpoint/backend/internal/store"
)

// DevicesHandler registers the push device token the mobile client
// obtains from OneSignal on sign-in.
type DevicesHandler struct {
	devices store.PushDeviceRepository
	log     *slog.Logger
}

func NewDevicesHandler(devices store.PushDeviceRepository, log *slog.Logger) *DevicesHandler {
	if log == nil {
		log = slog.Default()
	}
	return &DevicesHandler{devices: devices, log: log.With(slog.String("component", "http.devices"))}
}

type registerDeviceRequest struct {
	PlayerID string `json:"playerId" binding:"required"`
}

func (h *DevicesHandler) Register(c *gin.Context) {
	var req registerDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "playerId is required"})
		return
	}

	userID := actorFrom(c).UserID
	err := h.devices.Save(c.Request.Context(), domain.PushDevice{
		UserID:    userID,
		PlayerID:  req.PlayerID,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	h.log.Info("push device registered", slog.String("user_id", userID))
	c.Status(http.StatusNoContent)
}
