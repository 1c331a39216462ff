package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/opshift-dev/shift-planner/backend/internal/domain"
	"github.com/opshift-dev/shift-planner/backend/internal/utils"
)

func (h *Handler) GetPublishedSchedulesByWeek(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	week := r.URL.Query().Get("week")
	if _, err := utils.ValidateWeekStart(week); err != nil {
		h.badRequest(w, r, err)
		return
	}

	schedules, err := h.repository.GetPublishedSchedulesByWeek(myInfo.BusinessID, week)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "published schedules fetched", schedules)
}

func (h *Handler) GetPublishedSchedule(w http.ResponseWriter, r *http.Request) {
	ps := r.Context().Value(PublishedScheduleCtx).(*domain.PublishedSchedule)

	h.successResponse(w, r, "published schedule fetched", ps)
}

// SupersedePublishedSchedule is the only permitted mutation of a
// snapshot: marking it replaced by a newer publish. The payload stays
// frozen forever.
func (h *Handler) SupersedePublishedSchedule(w http.ResponseWriter, r *http.Request) {
	ps := r.Context().Value(PublishedScheduleCtx).(*domain.PublishedSchedule)

	var req struct {
		Status string `json:"status" validate:"required,oneof=superseded"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdatePublishedScheduleStatus(ps, req.Status); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "schedule status updated", ps)
}
