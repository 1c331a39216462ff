package repository

import (
	"context"
	"time"

	"github.com/opshift-dev/shift-planner/backend/internal/domain"
)

// ListActiveShiftTemplates returns the active templates for a
// business ordered by (day_of_week, start_time), which is the order
// the slot generator consumes them in.
func (r *Repository) ListActiveShiftTemplates(businessID int64) ([]*domain.ShiftTemplate, error) {
	query := `
		SELECT id, name, day_of_week, start_time, end_time, break_minutes,
			required_openers, required_closers, is_active, store_label, created_at, version
		FROM shift_templates
		WHERE business_id = $1 AND is_active = true
		ORDER BY day_of_week, start_time, id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := make([]*domain.ShiftTemplate, 0)
	for rows.Next() {
		st := &domain.ShiftTemplate{BusinessID: businessID}
		dst := []any{&st.ID, &st.Name, &st.DayOfWeek, &st.StartTime, &st.EndTime, &st.BreakMinutes, &st.RequiredOpeners, &st.RequiredClosers, &st.IsActive, &st.StoreLabel, &st.CreatedAt, &st.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		templates = append(templates, st)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return templates, nil
}

func (r *Repository) GetAllShiftTemplates(businessID int64) ([]*domain.ShiftTemplate, error) {
	query := `
		SELECT id, name, day_of_week, start_time, end_time, break_minutes,
			required_openers, required_closers, is_active, store_label, created_at, version
		FROM shift_templates
		WHERE business_id = $1
		ORDER BY day_of_week, start_time, id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := make([]*domain.ShiftTemplate, 0)
	for rows.Next() {
		st := &domain.ShiftTemplate{BusinessID: businessID}
		dst := []any{&st.ID, &st.Name, &st.DayOfWeek, &st.StartTime, &st.EndTime, &st.BreakMinutes, &st.RequiredOpeners, &st.RequiredClosers, &st.IsActive, &st.StoreLabel, &st.CreatedAt, &st.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		templates = append(templates, st)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return templates, nil
}

func (r *Repository) GetShiftTemplate(id int64) (*domain.ShiftTemplate, error) {
	query := `
		SELECT business_id, name, day_of_week, start_time, end_time, break_minutes,
			required_openers, required_closers, is_active, store_label, created_at, version
		FROM shift_templates
		WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	st := &domain.ShiftTemplate{
		ID: id,
	}

	dst := []any{&st.BusinessID, &st.Name, &st.DayOfWeek, &st.StartTime, &st.EndTime, &st.BreakMinutes, &st.RequiredOpeners, &st.RequiredClosers, &st.IsActive, &st.StoreLabel, &st.CreatedAt, &st.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return st, nil
}

func (r *Repository) CreateShiftTemplate(st *domain.ShiftTemplate) error {
	query := `
		INSERT INTO shift_templates (business_id, name, day_of_week, start_time, end_time, break_minutes, required_openers, required_closers, is_active, store_label)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{st.BusinessID, st.Name, st.DayOfWeek, st.StartTime, st.EndTime, st.BreakMinutes, st.RequiredOpeners, st.RequiredClosers, st.IsActive, st.StoreLabel}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&st.ID, &st.CreatedAt, &st.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateShiftTemplate(st *domain.ShiftTemplate) error {
	query := `
		UPDATE shift_templates
		SET
			name = $1,
			day_of_week = $2,
			start_time = $3,
			end_time = $4,
			break_minutes = $5,
			required_openers = $6,
			required_closers = $7,
			is_active = $8,
			store_label = $9,
			version = version + 1
		WHERE id = $10 AND version = $11
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{st.Name, st.DayOfWeek, st.StartTime, st.EndTime, st.BreakMinutes, st.RequiredOpeners, st.RequiredClosers, st.IsActive, st.StoreLabel, st.ID, st.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&st.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteShiftTemplate(id int64) error {
	query := `DELETE FROM shift_templates WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
