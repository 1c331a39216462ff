package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/opshift-dev/shift-planner/backend/internal/domain"
)

// Published snapshots carry their own copy of the template fields, so
// a delete goes straight through with no history check.
func TestDeleteShiftTemplateIsUnconditional(t *testing.T) {
	store := &fakeStore{}
	h := newTestHandler(t, store, &fakePublisher{}, &fakeKeyValue{})

	st := &domain.ShiftTemplate{
		ID:         4,
		BusinessID: 1,
		Name:       "Close",
		DayOfWeek:  5,
		StartTime:  "14:00",
		EndTime:    "22:00",
	}
	req := httptest.NewRequest(http.MethodDelete, "/shift-templates/4", nil)
	ctx := context.WithValue(req.Context(), ShiftTemplateCtx, st)
	rec := httptest.NewRecorder()

	h.DeleteShiftTemplate(rec, req.WithContext(ctx))

	var resp Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Message != "template deleted" {
		t.Fatalf("unexpected response: success=%v message=%q", resp.Success, resp.Message)
	}
	if len(store.deleted) != 1 || store.deleted[0] != 4 {
		t.Errorf("unexpected deletes: %v", store.deleted)
	}
}
