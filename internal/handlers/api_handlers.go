package handlers

import (
	"context"
	"net/http"

	"frame-monitor/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RecordSaver interface {
	Save(ctx context.Context, req *services.RecordRequest) error
}

type FrameReader interface {
	GetFrameDetail(ctx context.Context, sessionID string, ordinal int) (*services.FrameSnapshot, error)
	ListSessions(ctx context.Context) ([]services.SessionSummaryOut, error)
}

// MonitorHandler serves agent uploads and the frame viewer.
type MonitorHandler struct {
	records RecordSaver
	frames  FrameReader
	logger  *zap.Logger
}

func NewMonitorHandler(records RecordSaver, frames FrameReader, logger *zap.Logger) *MonitorHandler {
	return &MonitorHandler{
		records: records,
		frames:  frames,
		logger:  logger,
	}
}

func (h *MonitorHandler) RegisterRoutes(r gin.IRouter) {
	r.POST("/records", h.SaveRecord)
	r.GET("/frames/:session_id/:frame_no", h.GetFrame)
	r.GET("/user-sessions", h.ListUserSessions)
}

func (h *MonitorHandler) SaveRecord(c *gin.Context) {
	var req services.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.records.Save(c.Request.Context(), &req); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

type frameURI struct {
	SessionID string `uri:"session_id" binding:"required,max=36"`
	FrameNo   int    `uri:"frame_no" binding:"required,min=1"`
}

func (h *MonitorHandler) GetFrame(c *gin.Context) {
	var uri frameURI
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}

	snapshot, err := h.frames.GetFrameDetail(c.Request.Context(), uri.SessionID, uri.FrameNo)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *MonitorHandler) ListUserSessions(c *gin.Context) {
	sessions, err := h.frames.ListSessions(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_sessions": sessions})
}

func (h *MonitorHandler) fail(c *gin.Context, err error) {
	writeError(c, h.logger, err)
}
