package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/opshift-dev/shift-planner/backend/internal/domain"
	"github.com/opshift-dev/shift-planner/backend/internal/utils"
)

func (h *Handler) GetAllShiftTemplates(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	templates, err := h.repository.GetAllShiftTemplates(myInfo.BusinessID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "templates fetched", templates)
}

func (h *Handler) CreateShiftTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            string `json:"name" validate:"required"`
		DayOfWeek       int32  `json:"dayOfWeek" validate:"required,gte=1,lte=7"`
		StartTime       string `json:"startTime" validate:"required"`
		EndTime         string `json:"endTime" validate:"required"`
		BreakMinutes    int32  `json:"breakMinutes" validate:"gte=0"`
		RequiredOpeners int32  `json:"requiredOpeners" validate:"gte=0"`
		RequiredClosers int32  `json:"requiredClosers" validate:"gte=0"`
		StoreLabel      string `json:"storeLabel"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	st := &domain.ShiftTemplate{
		BusinessID:      myInfo.BusinessID,
		Name:            req.Name,
		DayOfWeek:       req.DayOfWeek,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		BreakMinutes:    req.BreakMinutes,
		RequiredOpeners: req.RequiredOpeners,
		RequiredClosers: req.RequiredClosers,
		IsActive:        true,
		StoreLabel:      req.StoreLabel,
	}

	if err := utils.ValidateShiftTemplate(st); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateShiftTemplate(st); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "template created", st)
}

func (h *Handler) GetShiftTemplate(w http.ResponseWriter, r *http.Request) {
	st := r.Context().Value(ShiftTemplateCtx).(*domain.ShiftTemplate)

	h.successResponse(w, r, "template fetched", st)
}

func (h *Handler) UpdateShiftTemplate(w http.ResponseWriter, r *http.Request) {
	st := r.Context().Value(ShiftTemplateCtx).(*domain.ShiftTemplate)

	var req struct {
		Name            *string `json:"name"`
		DayOfWeek       *int32  `json:"dayOfWeek" validate:"omitempty,gte=1,lte=7"`
		StartTime       *string `json:"startTime"`
		EndTime         *string `json:"endTime"`
		BreakMinutes    *int32  `json:"breakMinutes" validate:"omitempty,gte=0"`
		RequiredOpeners *int32  `json:"requiredOpeners" validate:"omitempty,gte=0"`
		RequiredClosers *int32  `json:"requiredClosers" validate:"omitempty,gte=0"`
		IsActive        *bool   `json:"isActive"`
		StoreLabel      *string `json:"storeLabel"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		st.Name = *req.Name
	}
	if req.DayOfWeek != nil {
		st.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		st.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		st.EndTime = *req.EndTime
	}
	if req.BreakMinutes != nil {
		st.BreakMinutes = *req.BreakMinutes
	}
	if req.RequiredOpeners != nil {
		st.RequiredOpeners = *req.RequiredOpeners
	}
	if req.RequiredClosers != nil {
		st.RequiredClosers = *req.RequiredClosers
	}
	if req.IsActive != nil {
		st.IsActive = *req.IsActive
	}
	if req.StoreLabel != nil {
		st.StoreLabel = *req.StoreLabel
	}

	if err := utils.ValidateShiftTemplate(st); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateShiftTemplate(st); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// open builder sessions keep their generated slots; template edits
	// only show up after the manager regenerates (reopens the builder)
	h.successResponse(w, r, "template updated", st)
}

// DeleteShiftTemplate removes a template outright. Published
// snapshots embed the template fields in their payload, so deleting
// the row never breaks history.
func (h *Handler) DeleteShiftTemplate(w http.ResponseWriter, r *http.Request) {
	st := r.Context().Value(ShiftTemplateCtx).(*domain.ShiftTemplate)

	if err := h.repository.DeleteShiftTemplate(st.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "template deleted", nil)
}

// DuplicateShiftTemplate clones every field except identity and
// appends " (Copy)" to the name. The copy is a fully independent
// template.
func (h *Handler) DuplicateShiftTemplate(w http.ResponseWriter, r *http.Request) {
	st := r.Context().Value(ShiftTemplateCtx).(*domain.ShiftTemplate)

	dup := &domain.ShiftTemplate{
		BusinessID:      st.BusinessID,
		Name:            st.Name + " (Copy)",
		DayOfWeek:       st.DayOfWeek,
		StartTime:       st.StartTime,
		EndTime:         st.EndTime,
		BreakMinutes:    st.BreakMinutes,
		RequiredOpeners: st.RequiredOpeners,
		RequiredClosers: st.RequiredClosers,
		IsActive:        st.IsActive,
		StoreLabel:      st.StoreLabel,
	}

	if err := h.repository.CreateShiftTemplate(dup); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "template duplicated", dup)
}
