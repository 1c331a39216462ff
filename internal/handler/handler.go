package handler

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/opshift-dev/shift-planner/backend/internal/config"
	"github.com/opshift-dev/shift-planner/backend/internal/domain"
	"github.com/opshift-dev/shift-planner/backend/internal/schedule"
)

// Store is the persistence surface the handlers consume.
// *repository.Repository implements it.
type Store interface {
	CreateUser(user *domain.User) error
	GetUserByID(id int64) (*domain.User, error)
	GetUserByUsername(username string) (*domain.User, error)
	UpdateUser(user *domain.User) error
	DeleteUser(id int64) error
	GetAllUsers(businessID int64) ([]*domain.User, error)
	GetRoster(businessID int64) ([]*domain.User, error)
	ListActiveShiftTemplates(businessID int64) ([]*domain.ShiftTemplate, error)
	GetAllShiftTemplates(businessID int64) ([]*domain.ShiftTemplate, error)
	GetShiftTemplate(id int64) (*domain.ShiftTemplate, error)
	CreateShiftTemplate(st *domain.ShiftTemplate) error
	UpdateShiftTemplate(st *domain.ShiftTemplate) error
	DeleteShiftTemplate(id int64) error
	CreatePublishedSchedule(ps *domain.PublishedSchedule) error
	GetPublishedSchedule(id int64) (*domain.PublishedSchedule, error)
	GetPublishedSchedulesByWeek(businessID int64, weekStart string) ([]*domain.PublishedSchedule, error)
	UpdatePublishedScheduleStatus(ps *domain.PublishedSchedule, status string) error
	GetWeekVersion(businessID int64, weekStart string) (int64, error)
}

// NotificationPublisher is the queue side of publish and account
// flows. *amqp.Channel implements it.
type NotificationPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// KeyValueStore covers the OTP and lock operations. *redis.Client
// implements it.
type KeyValueStore interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type Handler struct {
	validate      *validator.Validate
	config        *config.Config
	repository    Store
	translator    ut.Translator
	notifyChannel NotificationPublisher
	redisClient   KeyValueStore
	sessions      *schedule.SessionStore

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo Store, notifyCh NotificationPublisher, rdb KeyValueStore) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:      validate,
		config:        cfg,
		repository:    repo,
		translator:    trans,
		notifyChannel: notifyCh,
		redisClient:   rdb,
		sessions:      schedule.NewSessionStore(time.Duration(cfg.Builder.SessionTTL) * time.Second),

		Mux: chi.NewRouter(),
	}, nil
}

// SweepSessions drops expired builder sessions; called periodically
// from main.
func (h *Handler) SweepSessions() int {
	return h.sessions.Sweep()
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// everything below requires a logged-in user
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(h.myInfo)
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo)
			r.Get("/roster", h.GetRoster)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialOwner).With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialOwner).With(h.RequiredRole([]domain.Role{domain.RoleManager})).Delete("/", h.DeleteUser)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/password", h.UpdateUserPassword)
			})
		})

		r.Route("/shift-templates", func(r chi.Router) {
			r.Use(h.myInfo)
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.CreateShiftTemplate)
			r.Get("/", h.GetAllShiftTemplates)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.shiftTemplate)
				r.Get("/", h.GetShiftTemplate)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/", h.UpdateShiftTemplate)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Delete("/", h.DeleteShiftTemplate)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/duplicate", h.DuplicateShiftTemplate)
			})
		})

		// the drag-and-drop schedule builder; managers only
		r.Route("/builder", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Use(h.RequiredRole([]domain.Role{domain.RoleManager}))
			r.Post("/sessions", h.OpenBuilderSession)
			r.Route("/sessions/{token}", func(r chi.Router) {
				r.Use(h.builderSession)
				r.Get("/", h.GetBuilderSession)
				r.Delete("/", h.CloseBuilderSession)
				r.Post("/assign", h.AssignWorker)
				r.Post("/unassign", h.UnassignWorker)
				r.Post("/move-pool", h.MovePoolWorker)
				r.Get("/summary", h.GetBuilderSummary)
				r.Post("/publish", h.PublishSchedule)
			})
		})

		r.Route("/published-schedules", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetPublishedSchedulesByWeek)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.publishedSchedule)
				r.Get("/", h.GetPublishedSchedule)
				r.Get("/export", h.ExportPublishedSchedule)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/status", h.SupersedePublishedSchedule)
			})
		})
	})
}
