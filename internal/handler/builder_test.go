package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/opshift-dev/shift-planner/backend/internal/config"
	"github.com/opshift-dev/shift-planner/backend/internal/domain"
	"github.com/opshift-dev/shift-planner/backend/internal/schedule"
)

// fakeStore implements the handful of Store methods the publish flow
// touches. Everything else panics through the embedded nil interface,
// which is exactly what a test wants from an unexpected call.
type fakeStore struct {
	Store

	weekVersion int64
	createErr   error
	created     []*domain.PublishedSchedule
	deleted     []int64
}

func (f *fakeStore) DeleteShiftTemplate(id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) GetWeekVersion(businessID int64, weekStart string) (int64, error) {
	return f.weekVersion, nil
}

func (f *fakeStore) CreatePublishedSchedule(ps *domain.PublishedSchedule) error {
	if f.createErr != nil {
		return f.createErr
	}
	ps.ID = int64(len(f.created) + 1)
	f.created = append(f.created, ps)
	return nil
}

type fakePublisher struct {
	err       error
	published []amqp.Publishing
}

func (f *fakePublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}

type fakeKeyValue struct {
	lockHeld bool
}

func (f *fakeKeyValue) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeKeyValue) Get(ctx context.Context, key string) *redis.StringCmd {
	return redis.NewStringResult("", redis.Nil)
}

func (f *fakeKeyValue) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	return redis.NewBoolResult(!f.lockHeld, nil)
}

func (f *fakeKeyValue) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	return redis.NewIntResult(1, nil)
}

func newTestHandler(t *testing.T, store Store, pub NotificationPublisher, kv KeyValueStore) *Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.RabbitMQ.PublishTimeout = 1
	cfg.Redis.OperationExpiration = 1
	cfg.Builder.SessionTTL = 7200
	cfg.Builder.PublishLockTTL = 30

	h, err := NewHandler(cfg, store, pub, kv)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func testManager() *domain.User {
	return &domain.User{
		ID:         9,
		BusinessID: 1,
		Username:   "manager",
		FullName:   "Priya Nair",
		Role:       domain.RoleManager,
		IsActive:   true,
	}
}

func openTestSession(t *testing.T, h *Handler, weekVersion int64) *schedule.Session {
	t.Helper()

	weekStart, err := time.Parse(time.DateOnly, "2026-01-05") // a Monday
	if err != nil {
		t.Fatal(err)
	}
	templates := []*domain.ShiftTemplate{{
		ID:              1,
		BusinessID:      1,
		Name:            "Open",
		DayOfWeek:       1,
		StartTime:       "06:30",
		EndTime:         "14:30",
		RequiredOpeners: 1,
		RequiredClosers: 1,
		IsActive:        true,
	}}
	roster := []*domain.User{{
		ID:         1,
		BusinessID: 1,
		Username:   "maya",
		FullName:   "Maya Castillo",
		Email:      "maya@example.com",
		Role:       domain.RoleOpener,
		IsActive:   true,
	}}

	s := schedule.NewSession("tok", 1, weekStart, weekVersion, templates, roster)
	h.sessions.Put(s)
	return s
}

func publishRequest(t *testing.T, h *Handler, s *schedule.Session, body string) *Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/builder/sessions/"+s.Token+"/publish", bytes.NewBufferString(body))
	ctx := context.WithValue(req.Context(), MyInfoCtx, testManager())
	ctx = context.WithValue(ctx, BuilderSessionCtx, s)
	rec := httptest.NewRecorder()

	h.PublishSchedule(rec, req.WithContext(ctx))

	resp := &Response{}
	if err := json.NewDecoder(rec.Body).Decode(resp); err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestPublishScheduleSnapshotFailureKeepsSession(t *testing.T) {
	store := &fakeStore{createErr: errors.New("connection reset")}
	pub := &fakePublisher{}
	h := newTestHandler(t, store, pub, &fakeKeyValue{})
	s := openTestSession(t, h, 0)
	if err := s.Assign(1, "0-0", 0); err != nil {
		t.Fatal(err)
	}

	resp := publishRequest(t, h, s, `{"notes":"","notify":true}`)

	if resp.Success {
		t.Error("publish should have failed")
	}
	if got, want := resp.Message, "the schedule could not be saved, nothing was published, please retry"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
	if _, err := h.sessions.Get(s.Token); err != nil {
		t.Errorf("session should survive a failed snapshot: %v", err)
	}
	if len(pub.published) != 0 {
		t.Errorf("no notification should be enqueued, got %d", len(pub.published))
	}
}

func TestPublishScheduleNotificationFailureIsNotFatal(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{err: errors.New("channel closed")}
	h := newTestHandler(t, store, pub, &fakeKeyValue{})
	s := openTestSession(t, h, 0)
	if err := s.Assign(1, "0-0", 0); err != nil {
		t.Fatal(err)
	}

	resp := publishRequest(t, h, s, `{"notes":"","notify":true}`)

	if !resp.Success {
		t.Errorf("publish should succeed despite the queue: %s", resp.Message)
	}
	if got, want := resp.Message, "schedule published but notifications failed to send"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected 1 persisted schedule, got %d", len(store.created))
	}
	if _, err := h.sessions.Get(s.Token); !errors.Is(err, schedule.ErrSessionNotFound) {
		t.Errorf("session should be gone after a durable publish, got %v", err)
	}
}

func TestPublishScheduleRejectsAdvancedWeekVersion(t *testing.T) {
	store := &fakeStore{weekVersion: 2}
	h := newTestHandler(t, store, &fakePublisher{}, &fakeKeyValue{})
	s := openTestSession(t, h, 1) // opened when the week was at version 1

	resp := publishRequest(t, h, s, `{"notes":"","notify":false}`)

	if resp.Success {
		t.Error("stale session should not publish")
	}
	want := "the schedule for week 2026-01-05 changed since this session was opened, please reopen the builder"
	if resp.Message != want {
		t.Errorf("message = %q, want %q", resp.Message, want)
	}
	if len(store.created) != 0 {
		t.Errorf("nothing should be persisted, got %d", len(store.created))
	}
	if _, err := h.sessions.Get(s.Token); err != nil {
		t.Errorf("session should survive a version conflict: %v", err)
	}
}

func TestPublishScheduleEnqueuesRecipients(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	h := newTestHandler(t, store, pub, &fakeKeyValue{})
	s := openTestSession(t, h, 0)
	if err := s.Assign(1, "0-0", 0); err != nil {
		t.Fatal(err)
	}

	resp := publishRequest(t, h, s, `{"notes":"first draft","notify":true}`)

	if !resp.Success || resp.Message != "schedule published" {
		t.Fatalf("unexpected response: success=%v message=%q", resp.Success, resp.Message)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected 1 persisted schedule, got %d", len(store.created))
	}
	if len(pub.published) != 1 {
		t.Fatalf("expected 1 queued message, got %d", len(pub.published))
	}

	var msg struct {
		Type string                       `json:"type"`
		Data domain.SchedulePublishedData `json:"data"`
	}
	if err := json.Unmarshal(pub.published[0].Body, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != "schedule_published" {
		t.Errorf("unexpected message type: %s", msg.Type)
	}
	if msg.Data.Action != "published" {
		t.Errorf("first publish of the week should report %q, got %q", "published", msg.Data.Action)
	}
	if msg.Data.ActorName != "Priya Nair" {
		t.Errorf("unexpected actor name: %s", msg.Data.ActorName)
	}
	if len(msg.Data.RecipientIDs) != 1 || msg.Data.RecipientIDs[0] != 1 {
		t.Errorf("unexpected recipients: %v", msg.Data.RecipientIDs)
	}
}

func TestPublishScheduleLockContention(t *testing.T) {
	store := &fakeStore{}
	h := newTestHandler(t, store, &fakePublisher{}, &fakeKeyValue{lockHeld: true})
	s := openTestSession(t, h, 0)

	resp := publishRequest(t, h, s, `{"notes":"","notify":false}`)

	if resp.Success {
		t.Error("a held lock should reject the publish")
	}
	if got, want := resp.Message, "a publish for this schedule is already in progress"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
	if len(store.created) != 0 {
		t.Errorf("nothing should be persisted, got %d", len(store.created))
	}
}
