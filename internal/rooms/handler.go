package rooms

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/waitingroom/backend/internal/auth"
	"github.com/waitingroom/backend/internal/middleware"
	"github.com/waitingroom/backend/internal/models"
	"github.com/waitingroom/backend/pkg/response"
)

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// CreateRequest is the body for POST /trpc/room.create.
type CreateRequest struct {
	Title            string  `json:"title" binding:"required,max=100"`
	Markdown         string  `json:"markdown"`
	OpensAt          string  `json:"opensAt" binding:"required"`
	ClosesAt         string  `json:"closesAt" binding:"required"`
	Published        bool    `json:"published"`
	EventChoices     string  `json:"eventChoices"`
	DesktopImageBlob *string `json:"desktopImageBlob"`
	MobileImageBlob  *string `json:"mobileImageBlob"`
}

// UpdateRequest is the body for POST /trpc/room.update. Fields are replaced
// wholesale, matching the dashboard editor's save semantics.
type UpdateRequest struct {
	ID               string  `json:"id" binding:"required,uuid"`
	Title            string  `json:"title" binding:"required,max=100"`
	Markdown         string  `json:"markdown"`
	OpensAt          string  `json:"opensAt" binding:"required"`
	ClosesAt         string  `json:"closesAt" binding:"required"`
	EventChoices     string  `json:"eventChoices"`
	DesktopImageBlob *string `json:"desktopImageBlob"`
	MobileImageBlob  *string `json:"mobileImageBlob"`
}

// PublishRequest is the body for POST /trpc/room.publish.
type PublishRequest struct {
	ID      string `json:"id" binding:"required,uuid"`
	Publish *bool  `json:"publish" binding:"required"`
}

// Handler handles waiting room procedures.
type Handler struct {
	repo      *Repository
	cache     *Cache
	validator *auth.Validator
	logger    *zap.Logger
}

// NewHandler creates a rooms handler.
func NewHandler(repo *Repository, cache *Cache, validator *auth.Validator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, cache: cache, validator: validator, logger: logger}
}

// ReadUnique handles GET /trpc/room.readUnique?id=. Published rooms are
// public; unpublished rooms are visible only to their owner (dashboard
// preview with a bearer token).
func (h *Handler) ReadUnique(c *gin.Context) {
	id, err := uuid.Parse(c.Query("id"))
	if err != nil {
		response.BadRequest(c, "invalid room id")
		return
	}
	room, err := h.cache.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			response.NotFound(c, "waiting room not found")
			return
		}
		h.logger.Error("room lookup failed", zap.Error(err), zap.String("room_id", id.String()))
		response.Internal(c, "failed to load waiting room")
		return
	}
	if !room.Published && h.bearerSubject(c) != room.OwnerID {
		response.NotFound(c, "waiting room not found")
		return
	}
	response.OK(c, room)
}

// ReadMany handles GET /trpc/room.readMany: the caller's rooms, newest first.
func (h *Handler) ReadMany(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(string)
	list, err := h.repo.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		h.logger.Error("list rooms failed", zap.Error(err), zap.String("owner_id", ownerID))
		response.Internal(c, "failed to list waiting rooms")
		return
	}
	if list == nil {
		list = []models.Room{}
	}
	response.OK(c, list)
}

// Create handles POST /trpc/room.create.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	ownerID := c.MustGet(middleware.ContextUserID).(string)

	room, err := h.roomFromFields(req.Title, req.Markdown, req.OpensAt, req.ClosesAt, req.EventChoices, req.DesktopImageBlob, req.MobileImageBlob)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	room.Published = req.Published
	room.OwnerID = ownerID

	if err := h.repo.Create(c.Request.Context(), room); err != nil {
		h.logger.Error("create room failed", zap.Error(err))
		response.Internal(c, "failed to create waiting room")
		return
	}
	response.OK(c, room)
}

// Update handles POST /trpc/room.update.
func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	id := uuid.MustParse(req.ID)

	existing, ok := h.ownedRoom(c, id)
	if !ok {
		return
	}

	room, err := h.roomFromFields(req.Title, req.Markdown, req.OpensAt, req.ClosesAt, req.EventChoices, req.DesktopImageBlob, req.MobileImageBlob)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	room.ID = id
	room.OwnerID = existing.OwnerID

	if err := h.repo.Update(c.Request.Context(), room); err != nil {
		h.logger.Error("update room failed", zap.Error(err), zap.String("room_id", id.String()))
		response.Internal(c, "failed to update waiting room")
		return
	}
	h.cache.Invalidate(c.Request.Context(), id)
	response.OK(c, room)
}

// Publish handles POST /trpc/room.publish.
func (h *Handler) Publish(c *gin.Context) {
	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	id := uuid.MustParse(req.ID)

	if _, ok := h.ownedRoom(c, id); !ok {
		return
	}

	room, err := h.repo.SetPublished(c.Request.Context(), id, *req.Publish)
	if err != nil {
		h.logger.Error("publish room failed", zap.Error(err), zap.String("room_id", id.String()))
		response.Internal(c, "failed to publish waiting room")
		return
	}
	h.cache.Invalidate(c.Request.Context(), id)
	response.OK(c, room)
}

// roomFromFields validates organizer-supplied fields and assembles a room.
func (h *Handler) roomFromFields(title, markdown, opensAtStr, closesAtStr, eventChoices string, desktopBlob, mobileBlob *string) (*models.Room, error) {
	opensAt, err := parseTime(opensAtStr)
	if err != nil {
		return nil, errors.New("invalid opensAt")
	}
	closesAt, err := parseTime(closesAtStr)
	if err != nil {
		return nil, errors.New("invalid closesAt")
	}
	if err := ValidateWindow(opensAt, closesAt); err != nil {
		return nil, err
	}
	choices, err := NormalizeEventChoices(eventChoices)
	if err != nil {
		return nil, err
	}
	return &models.Room{
		Title:            title,
		Markdown:         markdown,
		OpensAt:          opensAt,
		ClosesAt:         closesAt,
		EventChoices:     choices,
		DesktopImageBlob: desktopBlob,
		MobileImageBlob:  mobileBlob,
	}, nil
}

// ownedRoom loads the room and enforces ownership, writing the error
// response itself on failure.
func (h *Handler) ownedRoom(c *gin.Context, id uuid.UUID) (*models.Room, bool) {
	room, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "waiting room not found")
		} else {
			h.logger.Error("room lookup failed", zap.Error(err), zap.String("room_id", id.String()))
			response.Internal(c, "failed to load waiting room")
		}
		return nil, false
	}
	ownerID := c.MustGet(middleware.ContextUserID).(string)
	if room.OwnerID != ownerID {
		response.Forbidden(c, "not the owner of this waiting room")
		return nil, false
	}
	return room, true
}

// bearerSubject returns the IdP subject of an optional bearer token, or "".
func (h *Handler) bearerSubject(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	claims, err := h.validator.Validate(parts[1])
	if err != nil {
		return ""
	}
	return claims.Subject
}
