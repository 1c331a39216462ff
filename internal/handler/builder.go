package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/opshift-dev/shift-planner/backend/internal/domain"
	"github.com/opshift-dev/shift-planner/backend/internal/schedule"
	"github.com/opshift-dev/shift-planner/backend/internal/utils"
)

type builderSessionView struct {
	Token     string                              `json:"token"`
	WeekStart string                              `json:"weekStart"`
	Slots     []*schedule.Slot                    `json:"slots"`
	Pools     map[domain.Role][]schedule.Assignee `json:"pools"`
}

func (h *Handler) sessionView(s *schedule.Session) *builderSessionView {
	return &builderSessionView{
		Token:     s.Token,
		WeekStart: s.WeekStart.Format(time.DateOnly),
		Slots:     s.Slots(),
		Pools:     s.Pools(),
	}
}

// OpenBuilderSession generates a fresh slot list for the requested
// week from the current templates and roster. Reopening is the only
// way a session picks up template edits.
func (h *Handler) OpenBuilderSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WeekStart string `json:"weekStart" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	weekStart, err := utils.ValidateWeekStart(req.WeekStart)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	templates, err := h.repository.ListActiveShiftTemplates(myInfo.BusinessID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	roster, err := h.repository.GetRoster(myInfo.BusinessID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	weekVersion, err := h.repository.GetWeekVersion(myInfo.BusinessID, req.WeekStart)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	session := schedule.NewSession(
		utils.GenerateSessionToken(32),
		myInfo.BusinessID,
		weekStart,
		weekVersion,
		templates,
		roster,
	)
	h.sessions.Put(session)

	h.successResponse(w, r, "builder session opened", h.sessionView(session))
}

func (h *Handler) GetBuilderSession(w http.ResponseWriter, r *http.Request) {
	session := r.Context().Value(BuilderSessionCtx).(*schedule.Session)

	h.successResponse(w, r, "builder session fetched", h.sessionView(session))
}

// CloseBuilderSession discards all unpublished mutations.
func (h *Handler) CloseBuilderSession(w http.ResponseWriter, r *http.Request) {
	session := r.Context().Value(BuilderSessionCtx).(*schedule.Session)

	h.sessions.Remove(session.Token)

	h.successResponse(w, r, "builder session closed", nil)
}

func (h *Handler) AssignWorker(w http.ResponseWriter, r *http.Request) {
	session := r.Context().Value(BuilderSessionCtx).(*schedule.Session)

	var req struct {
		WorkerID    int64  `json:"workerID" validate:"required"`
		SlotID      string `json:"slotID" validate:"required"`
		InsertIndex int    `json:"insertIndex" validate:"gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := session.Assign(req.WorkerID, req.SlotID, req.InsertIndex); err != nil {
		capErr := &schedule.CapacityError{}
		switch {
		case errors.As(err, &capErr):
			// surfaced verbatim as the drag-rejection warning
			h.errorResponse(w, r, capErr.Error())
		case errors.Is(err, schedule.ErrUnknownWorker), errors.Is(err, schedule.ErrUnknownSlot):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "worker assigned", h.sessionView(session))
}

func (h *Handler) UnassignWorker(w http.ResponseWriter, r *http.Request) {
	session := r.Context().Value(BuilderSessionCtx).(*schedule.Session)

	var req struct {
		WorkerID int64  `json:"workerID" validate:"required"`
		SlotID   string `json:"slotID" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := session.Unassign(req.WorkerID, req.SlotID); err != nil {
		switch {
		case errors.Is(err, schedule.ErrUnknownWorker), errors.Is(err, schedule.ErrUnknownSlot), errors.Is(err, schedule.ErrNotAssigned):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "worker unassigned", h.sessionView(session))
}

func (h *Handler) MovePoolWorker(w http.ResponseWriter, r *http.Request) {
	session := r.Context().Value(BuilderSessionCtx).(*schedule.Session)

	var req struct {
		Role domain.Role `json:"role" validate:"required,oneof=opener closer"`
		From int         `json:"from" validate:"gte=0"`
		To   int         `json:"to" validate:"gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := session.MoveWithinPool(req.Role, req.From, req.To); err != nil {
		switch {
		case errors.Is(err, schedule.ErrUnknownPool), errors.Is(err, schedule.ErrBadPoolIndex):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "pool reordered", h.sessionView(session))
}

func (h *Handler) GetBuilderSummary(w http.ResponseWriter, r *http.Request) {
	session := r.Context().Value(BuilderSessionCtx).(*schedule.Session)

	h.successResponse(w, r, "summary computed", session.Summarize())
}

// PublishSchedule is the durability boundary of the builder. Steps:
// acquire the per-session publish lock, verify the week aggregate has
// not advanced, snapshot into published_schedules, then best-effort
// notify. A snapshot failure is fatal and leaves nothing behind; a
// notification failure only downgrades the success message.
func (h *Handler) PublishSchedule(w http.ResponseWriter, r *http.Request) {
	session := r.Context().Value(BuilderSessionCtx).(*schedule.Session)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		Notes  string `json:"notes"`
		Notify bool   `json:"notify"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// one publish per session at a time
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	lockKey := fmt.Sprintf("publish_lock_%s", session.Token)
	locked, err := h.redisClient.SetNX(ctx, lockKey, 1, time.Duration(h.config.Builder.PublishLockTTL)*time.Second).Result()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !locked {
		h.errorResponse(w, r, "a publish for this schedule is already in progress")
		return
	}
	defer func() {
		if err := h.redisClient.Del(context.Background(), lockKey).Err(); err != nil {
			slog.Error("failed to release publish lock", "key", lockKey, "error", err)
		}
	}()

	// reject if someone else published this week since the session
	// opened; the manager must reopen and re-check their work
	weekStart := session.WeekStart.Format(time.DateOnly)
	currentVersion, err := h.repository.GetWeekVersion(session.BusinessID, weekStart)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if currentVersion != session.WeekVersion {
		h.errorResponse(w, r, (&schedule.ConflictError{WeekStart: weekStart}).Error())
		return
	}

	snapshot, summary, recipients, err := session.Snapshot(myInfo.ID, req.Notes, req.Notify)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.repository.CreatePublishedSchedule(snapshot); err != nil {
		// fatal: no snapshot row exists, the whole publish must be retried
		h.logInternalServerError(r, err)
		h.errorResponse(w, r, "the schedule could not be saved, nothing was published, please retry")
		return
	}

	// the snapshot is durable; the session's work is done
	h.sessions.Remove(session.Token)

	data := map[string]any{
		"schedule":   snapshot,
		"summary":    summary,
		"recipients": recipients,
	}

	if req.Notify && len(recipients) > 0 {
		action := "published"
		if currentVersion > 0 {
			action = "updated"
		}
		msg := &domain.NotificationMessage{
			Type: "schedule_published",
			Data: domain.SchedulePublishedData{
				ScheduleID:   snapshot.ID,
				BusinessID:   snapshot.BusinessID,
				WeekStart:    snapshot.WeekStart,
				Action:       action,
				ActorName:    myInfo.FullName,
				RecipientIDs: recipients,
			},
		}
		if err := h.publishNotification(msg); err != nil {
			slog.Error("failed to enqueue schedule notifications", "scheduleID", snapshot.ID, "error", err)
			h.successResponse(w, r, "schedule published but notifications failed to send", data)
			return
		}
	}

	h.successResponse(w, r, "schedule published", data)
}
