package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// serviceRow flattens the optional bundle columns of the services table.
type serviceRow struct {
	ID                     string         `db:"id"`
	CoachID                string         `db:"coach_id"`
	Name                   string         `db:"name"`
	Kind                   string         `db:"kind"`
	PriceCents             int64          `db:"price_cents"`
	Duration               sql.NullInt64  `db:"duration"`
	DurationUnit           sql.NullString `db:"duration_unit"`
	Description            sql.NullString `db:"description"`
	BundleCredits          sql.NullInt64  `db:"bundle_credits"`
	BundlePriceCents       sql.NullInt64  `db:"bundle_price_cents"`
	BundleExpirationMonths sql.NullInt64  `db:"bundle_expiration_months"`
	IsActive               bool           `db:"is_active"`
}

func (r serviceRow) toService() Service {
	s := Service{
		ID:           r.ID,
		CoachID:      r.CoachID,
		Name:         r.Name,
		Kind:         ServiceKind(r.Kind),
		PriceCents:   r.PriceCents,
		Duration:     int(r.Duration.Int64),
		DurationUnit: DurationUnit(r.DurationUnit.String),
		Description:  r.Description.String,
		IsActive:     r.IsActive,
	}
	if r.BundleCredits.Valid && r.BundlePriceCents.Valid {
		s.Bundle = &Bundle{
			Credits:    int(r.BundleCredits.Int64),
			PriceCents: r.BundlePriceCents.Int64,
		}
		if r.BundleExpirationMonths.Valid {
			months := int(r.BundleExpirationMonths.Int64)
			s.Bundle.ExpirationMonths = &months
		}
	}
	return s
}

func (r *repository) GetCoach(ctx context.Context, coachID string) (*Coach, error) {
	query := `
		SELECT id, first_name, last_name, is_contact_only
		FROM coaches
		WHERE id = $1
	`

	var coach Coach
	err := r.db.GetContext(ctx, &coach, query, coachID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCoachNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get coach %s: %w", coachID, err)
	}

	return &coach, nil
}

func (r *repository) ListServices(ctx context.Context, coachID string) ([]Service, error) {
	query := `
		SELECT id, coach_id, name, kind, price_cents, duration, duration_unit, description,
		       bundle_credits, bundle_price_cents, bundle_expiration_months, is_active
		FROM services
		WHERE coach_id = $1
		ORDER BY position, id
	`

	var rows []serviceRow
	if err := r.db.SelectContext(ctx, &rows, query, coachID); err != nil {
		return nil, fmt.Errorf("list services for coach %s: %w", coachID, err)
	}

	services := make([]Service, 0, len(rows))
	for _, row := range rows {
		services = append(services, row.toService())
	}
	return services, nil
}

func (r *repository) ListSlots(ctx context.Context, coachID string, from, to Date) ([]AvailabilitySlot, error) {
	query := `
		SELECT id, coach_id,
		       to_char(slot_date, 'YYYY-MM-DD') AS slot_date,
		       to_char(start_time, 'HH24:MI') AS start_time,
		       to_char(end_time, 'HH24:MI') AS end_time,
		       service_id, is_booked
		FROM availability_slots
		WHERE coach_id = $1 AND slot_date BETWEEN $2 AND $3
		ORDER BY slot_date, start_time
	`

	slots := []AvailabilitySlot{}
	if err := r.db.SelectContext(ctx, &slots, query, coachID, from.String(), to.String()); err != nil {
		return nil, fmt.Errorf("list slots for coach %s: %w", coachID, err)
	}
	return slots, nil
}
