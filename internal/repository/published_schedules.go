package repository

import (
	"context"
	"time"

	"github.com/opshift-dev/shift-planner/backend/internal/domain"
)

// CreatePublishedSchedule inserts the snapshot. A publish always
// creates a new row; corrections are a new publish, never an edit.
func (r *Repository) CreatePublishedSchedule(ps *domain.PublishedSchedule) error {
	query := `
		INSERT INTO published_schedules (business_id, week_start, payload, status, submitted_by, notes, notify)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{ps.BusinessID, ps.WeekStart, ps.Payload, ps.Status, ps.SubmittedBy, ps.Notes, ps.Notify}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&ps.ID, &ps.CreatedAt, &ps.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetPublishedSchedule(id int64) (*domain.PublishedSchedule, error) {
	query := `
		SELECT business_id, week_start, payload, status, submitted_by, notes, notify, created_at, version
		FROM published_schedules
		WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	ps := &domain.PublishedSchedule{
		ID: id,
	}

	dst := []any{&ps.BusinessID, &ps.WeekStart, &ps.Payload, &ps.Status, &ps.SubmittedBy, &ps.Notes, &ps.Notify, &ps.CreatedAt, &ps.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return ps, nil
}

func (r *Repository) GetPublishedSchedulesByWeek(businessID int64, weekStart string) ([]*domain.PublishedSchedule, error) {
	query := `
		SELECT id, week_start, payload, status, submitted_by, notes, notify, created_at, version
		FROM published_schedules
		WHERE business_id = $1 AND week_start = $2
		ORDER BY id DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, businessID, weekStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := make([]*domain.PublishedSchedule, 0)
	for rows.Next() {
		ps := &domain.PublishedSchedule{BusinessID: businessID}
		dst := []any{&ps.ID, &ps.WeekStart, &ps.Payload, &ps.Status, &ps.SubmittedBy, &ps.Notes, &ps.Notify, &ps.CreatedAt, &ps.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		schedules = append(schedules, ps)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return schedules, nil
}

// UpdatePublishedScheduleStatus is the only mutation allowed on a
// published snapshot.
func (r *Repository) UpdatePublishedScheduleStatus(ps *domain.PublishedSchedule, status string) error {
	query := `
		UPDATE published_schedules
		SET status = $1, version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING status, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, status, ps.ID, ps.Version).Scan(&ps.Status, &ps.Version); err != nil {
		return err
	}

	return nil
}

// GetWeekVersion returns the concurrency token for one business-week:
// the highest published schedule id for that week, or 0 when nothing
// has been published yet. A builder session records the value at open
// and a publish is rejected if it has advanced since.
func (r *Repository) GetWeekVersion(businessID int64, weekStart string) (int64, error) {
	query := `
		SELECT COALESCE(MAX(id), 0)
		FROM published_schedules
		WHERE business_id = $1 AND week_start = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var version int64
	if err := r.dbpool.QueryRowContext(ctx, query, businessID, weekStart).Scan(&version); err != nil {
		return 0, err
	}

	return version, nil
}
