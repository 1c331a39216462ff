package schedule

import (
	"testing"
	"time"

	"github.com/opshift-dev/shift-planner/backend/internal/domain"
)

func TestSummarizeReportsShortfalls(t *testing.T) {
	templates := []*domain.ShiftTemplate{
		testTemplate(1, 1, "06:30", "14:30", 2, 1),
		testTemplate(2, 2, "14:00", "22:00", 0, 1),
	}
	templates[0].Name = "Open"
	templates[1].Name = "Close"
	roster := []*domain.User{
		testWorker(1, "Maya Castillo", domain.RoleOpener),
		testWorker(2, "Amara Diallo", domain.RoleCloser),
	}
	s := testSession(t, templates, roster)

	if err := s.Assign(1, "0-0", 0); err != nil {
		t.Fatal(err)
	}
	if err := s.Assign(2, "1-0", 0); err != nil {
		t.Fatal(err)
	}

	sum := s.Summarize()

	if sum.StaffedSlots != 2 {
		t.Errorf("StaffedSlots = %d, want 2", sum.StaffedSlots)
	}
	if sum.TotalAssignments != 2 {
		t.Errorf("TotalAssignments = %d, want 2", sum.TotalAssignments)
	}

	// the Open slot is short one opener and one closer, the Close slot
	// is fully staffed, placeholders are never reported
	if sum.UnderstaffedCount != 1 {
		t.Fatalf("UnderstaffedCount = %d, want 1", sum.UnderstaffedCount)
	}
	under := sum.Understaffed[0]
	if under.SlotID != "0-0" || under.TemplateName != "Open" {
		t.Errorf("unexpected understaffed slot: %+v", under)
	}
	if len(under.Shortfalls) != 2 {
		t.Fatalf("expected 2 shortfalls, got %d", len(under.Shortfalls))
	}
	if sf := under.Shortfalls[0]; sf.Role != domain.RoleOpener || sf.Assigned != 1 || sf.Required != 2 {
		t.Errorf("unexpected opener shortfall: %+v", sf)
	}
	if sf := under.Shortfalls[1]; sf.Role != domain.RoleCloser || sf.Assigned != 0 || sf.Required != 1 {
		t.Errorf("unexpected closer shortfall: %+v", sf)
	}

	if len(sum.Days) != 7 {
		t.Errorf("expected 7 day breakdowns, got %d", len(sum.Days))
	}
	if !sum.Days[6].Shifts[0].NoTemplate {
		t.Error("Sunday placeholder should be flagged as template-less")
	}
}

func TestRecipientsDeduplicatesInFirstAppearanceOrder(t *testing.T) {
	templates := []*domain.ShiftTemplate{
		testTemplate(1, 1, "06:30", "14:30", 2, 0),
		testTemplate(2, 2, "06:30", "14:30", 2, 0),
	}
	roster := []*domain.User{
		testWorker(1, "Maya Castillo", domain.RoleOpener),
		testWorker(2, "Theo Brandt", domain.RoleOpener),
	}
	s := testSession(t, templates, roster)

	if err := s.Assign(2, "0-0", 0); err != nil {
		t.Fatal(err)
	}
	if err := s.Assign(1, "0-0", 1); err != nil {
		t.Fatal(err)
	}

	got := s.Recipients()
	if len(got) != 2 || got[0] != 2 || got[1] != 1 {
		t.Errorf("unexpected recipients: %v", got)
	}

	if got := testSession(t, templates, roster).Recipients(); len(got) != 0 {
		t.Errorf("empty session should have no recipients: %v", got)
	}
}

func TestSnapshotFreezesSessionState(t *testing.T) {
	templates := []*domain.ShiftTemplate{
		testTemplate(7, 1, "06:30", "14:30", 1, 0),
	}
	templates[0].Name = "Open"
	templates[0].BreakMinutes = 30
	roster := []*domain.User{
		testWorker(1, "Maya Castillo", domain.RoleOpener),
	}
	s := testSession(t, templates, roster)

	if err := s.Assign(1, "0-0", 0); err != nil {
		t.Fatal(err)
	}

	snapshot, summary, recipients, err := s.Snapshot(42, "first draft", true)
	if err != nil {
		t.Fatal(err)
	}

	// summary and recipients come from the same state as the payload
	if summary.TotalAssignments != 1 || summary.StaffedSlots != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if len(recipients) != 1 || recipients[0] != 1 {
		t.Errorf("unexpected recipients: %v", recipients)
	}

	if snapshot.BusinessID != 1 {
		t.Errorf("BusinessID = %d, want 1", snapshot.BusinessID)
	}
	if snapshot.WeekStart != "2026-01-05" {
		t.Errorf("WeekStart = %s, want 2026-01-05", snapshot.WeekStart)
	}
	if snapshot.Status != domain.ScheduleStatusPublished {
		t.Errorf("Status = %s, want %s", snapshot.Status, domain.ScheduleStatusPublished)
	}
	if snapshot.SubmittedBy != 42 || snapshot.Notes != "first draft" || !snapshot.Notify {
		t.Errorf("unexpected snapshot metadata: %+v", snapshot)
	}

	payload, err := ParsePayload(snapshot.Payload)
	if err != nil {
		t.Fatal(err)
	}
	if payload.WeekStart != "2026-01-05" {
		t.Errorf("payload WeekStart = %s", payload.WeekStart)
	}
	if len(payload.Slots) != 7 {
		t.Fatalf("expected 7 slot snapshots, got %d", len(payload.Slots))
	}

	open := payload.Slots[0]
	if open.TemplateID != 7 || open.TemplateName != "Open" || open.StartTime != "06:30" || open.EndTime != "14:30" || open.BreakMinutes != 30 {
		t.Errorf("template fields not frozen: %+v", open)
	}
	if len(open.Assignees) != 1 || open.Assignees[0].FullName != "Maya Castillo" {
		t.Errorf("assignees not frozen: %v", open.Assignees)
	}
	if payload.Slots[1].TemplateID != 0 {
		t.Errorf("placeholder snapshot should carry no template: %+v", payload.Slots[1])
	}

	// mutating the session afterwards must not affect the snapshot
	if err := s.Unassign(1, "0-0"); err != nil {
		t.Fatal(err)
	}
	payload2, err := ParsePayload(snapshot.Payload)
	if err != nil {
		t.Fatal(err)
	}
	if len(payload2.Slots[0].Assignees) != 1 {
		t.Error("snapshot changed after session mutation")
	}
}

func TestSnapshotRecipientsMatchPayload(t *testing.T) {
	templates := []*domain.ShiftTemplate{
		testTemplate(1, 1, "06:30", "14:30", 2, 1),
		testTemplate(2, 2, "06:30", "14:30", 2, 1),
	}
	roster := []*domain.User{
		testWorker(1, "Maya Castillo", domain.RoleOpener),
		testWorker(2, "Theo Brandt", domain.RoleOpener),
		testWorker(3, "Amara Diallo", domain.RoleCloser),
	}
	s := testSession(t, templates, roster)

	for _, a := range []struct {
		worker int64
		slot   string
	}{{1, "0-0"}, {3, "0-0"}, {2, "1-0"}} {
		if err := s.Assign(a.worker, a.slot, 0); err != nil {
			t.Fatal(err)
		}
	}

	snapshot, _, recipients, err := s.Snapshot(42, "", true)
	if err != nil {
		t.Fatal(err)
	}

	payload, err := ParsePayload(snapshot.Payload)
	if err != nil {
		t.Fatal(err)
	}

	inPayload := make(map[int64]bool)
	for _, slot := range payload.Slots {
		for _, a := range slot.Assignees {
			inPayload[a.WorkerID] = true
		}
	}

	if len(recipients) != len(inPayload) {
		t.Fatalf("recipients %v do not cover payload assignees %v", recipients, inPayload)
	}
	for _, id := range recipients {
		if !inPayload[id] {
			t.Errorf("recipient %d is not in the payload", id)
		}
	}
}

func TestSessionExpiry(t *testing.T) {
	s := testSession(t, nil, nil)

	if s.Expired(time.Hour) {
		t.Error("fresh session should not be expired")
	}
	time.Sleep(2 * time.Millisecond)
	if !s.Expired(time.Millisecond) {
		t.Error("idle session should expire")
	}
}
