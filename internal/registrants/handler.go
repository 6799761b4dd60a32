package registrants

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/waitingroom/backend/internal/challenge"
	"github.com/waitingroom/backend/internal/middleware"
	"github.com/waitingroom/backend/internal/models"
	"github.com/waitingroom/backend/internal/rooms"
	"github.com/waitingroom/backend/pkg/queue"
	"github.com/waitingroom/backend/pkg/response"
)

// TokenHeader and TokenCookie are the two places a challenge token may
// arrive from; the header wins when both are present.
const (
	TokenHeader = "X-Turnstile-Token"
	TokenCookie = "turnstile_token"
)

// RegisterRequest is the body for POST /trpc/register.
type RegisterRequest struct {
	LegalName     string `json:"legalName" binding:"required,min=2,max=100"`
	Email         string `json:"email" binding:"required,email,max=100"`
	IDNumber      string `json:"idNumber" binding:"required,max=100"`
	IDType        string `json:"idType" binding:"required,oneof=PASSPORT ID_CARD"`
	PhoneNumber   string `json:"phoneNumber" binding:"required,max=100,plausible_phone"`
	EventChoice   string `json:"eventChoice" binding:"omitempty,max=100"`
	WaitingRoomID string `json:"waitingRoomId" binding:"required,uuid"`
}

// StatsBroadcaster pushes live registrant counts to dashboard listeners.
type StatsBroadcaster interface {
	BroadcastCount(roomID uuid.UUID, count int)
}

// Handler handles the public registration procedure and the organizer-facing
// stats/participants queries.
type Handler struct {
	repo      *Repository
	roomCache *rooms.Cache
	verifier  *challenge.Verifier
	queue     *queue.Queue
	hub       StatsBroadcaster
	logger    *zap.Logger
}

// NewHandler creates a registrants handler. queue and hub may be nil.
func NewHandler(repo *Repository, roomCache *rooms.Cache, verifier *challenge.Verifier, q *queue.Queue, hub StatsBroadcaster, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, roomCache: roomCache, verifier: verifier, queue: q, hub: hub, logger: logger}
}

// Register handles POST /trpc/register.
//
// The challenge outcome's challenge_ts, not the request arrival time, is
// compared against the room window: too late is rejected outright; too early
// is recorded for audit and then rejected; inside the window the registrant
// is created and echoed back. The mutation is fire-once, no server-side
// dedupe: the form controller is responsible for preventing duplicates.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	token := c.GetHeader(TokenHeader)
	if token == "" {
		token, _ = c.Cookie(TokenCookie)
	}
	outcome, err := h.verifier.Verify(c.Request.Context(), token, c.ClientIP())
	if err != nil {
		h.logger.Error("challenge verification failed", zap.Error(err))
		response.Internal(c, "challenge verification unavailable")
		return
	}
	if err := outcome.Err(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	roomID := uuid.MustParse(req.WaitingRoomID)
	room, err := h.roomCache.Get(c.Request.Context(), roomID)
	if err != nil {
		if errors.Is(err, rooms.ErrRoomNotFound) {
			response.BadRequest(c, "invalid waiting room id")
			return
		}
		h.logger.Error("room lookup failed", zap.Error(err), zap.String("room_id", roomID.String()))
		response.Internal(c, "failed to load waiting room")
		return
	}

	challengeTS := *outcome.ChallengeTS
	if challengeTS.After(room.ClosesAt) {
		response.BadRequest(c, "too late to register")
		return
	}

	reg := &models.Registrant{
		RoomID:             roomID,
		LegalName:          req.LegalName,
		Email:              req.Email,
		IDNumber:           req.IDNumber,
		IDType:             req.IDType,
		PhoneNumber:        req.PhoneNumber,
		EventChoice:        req.EventChoice,
		TurnstileSuccess:   outcome.Success,
		TurnstileTimestamp: outcome.ChallengeTS,
	}
	if err := h.repo.Create(c.Request.Context(), reg); err != nil {
		h.logger.Error("create registrant failed", zap.Error(err), zap.String("room_id", roomID.String()))
		response.Internal(c, "failed to register")
		return
	}

	// Too-early attempts are recorded (the row above) but never confirmed.
	if challengeTS.Before(room.OpensAt) {
		response.BadRequest(c, "too early to register")
		return
	}

	h.afterRegistration(c, room, reg)
	response.OK(c, reg)
}

// afterRegistration performs the best-effort side effects of a confirmed
// registration: confirmation email job and live stats broadcast. Failures
// are logged, never surfaced to the registrant.
func (h *Handler) afterRegistration(c *gin.Context, room *models.Room, reg *models.Registrant) {
	ctx := c.Request.Context()
	if h.queue != nil {
		err := h.queue.EnqueueConfirmationEmail(ctx, queue.ConfirmationEmailPayload{
			RoomID:       room.ID,
			RegistrantID: reg.ID,
			Recipient:    reg.Email,
			LegalName:    reg.LegalName,
			RoomTitle:    room.Title,
		})
		if err != nil {
			h.logger.Warn("enqueue confirmation email failed", zap.Error(err), zap.String("registrant_id", reg.ID.String()))
		}
	}
	if h.hub != nil {
		count, err := h.repo.CountByRoom(ctx, room.ID)
		if err == nil {
			h.hub.BroadcastCount(room.ID, count)
		}
	}
}

// Stats handles GET /trpc/room.stats?id= (owner only).
func (h *Handler) Stats(c *gin.Context) {
	room, ok := h.ownedRoom(c)
	if !ok {
		return
	}
	count, err := h.repo.CountByRoom(c.Request.Context(), room.ID)
	if err != nil {
		h.logger.Error("count registrants failed", zap.Error(err), zap.String("room_id", room.ID.String()))
		response.Internal(c, "failed to load stats")
		return
	}
	response.OK(c, gin.H{"id": room.ID, "registrantsCount": count})
}

// Participants handles GET /trpc/room.participants?id= (owner only).
func (h *Handler) Participants(c *gin.Context) {
	room, ok := h.ownedRoom(c)
	if !ok {
		return
	}
	list, err := h.repo.ListByRoom(c.Request.Context(), room.ID)
	if err != nil {
		h.logger.Error("list registrants failed", zap.Error(err), zap.String("room_id", room.ID.String()))
		response.Internal(c, "failed to load participants")
		return
	}
	if list == nil {
		list = []models.Registrant{}
	}
	response.OK(c, gin.H{"id": room.ID, "registrants": list})
}

func (h *Handler) ownedRoom(c *gin.Context) (*models.Room, bool) {
	id, err := uuid.Parse(c.Query("id"))
	if err != nil {
		response.BadRequest(c, "invalid room id")
		return nil, false
	}
	room, err := h.roomCache.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, rooms.ErrRoomNotFound) {
			response.NotFound(c, "waiting room not found")
		} else {
			h.logger.Error("room lookup failed", zap.Error(err), zap.String("room_id", id.String()))
			response.Internal(c, "failed to load waiting room")
		}
		return nil, false
	}
	ownerID := c.MustGet(middleware.ContextUserID).(string)
	if ownerID != room.OwnerID {
		response.Forbidden(c, "not the owner of this waiting room")
		return nil, false
	}
	return room, true
}
