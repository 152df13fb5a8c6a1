package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"techrent/internal/database"
	"techrent/internal/domain/catalog"
	"techrent/internal/domain/rental"
)

const pgExclusionViolation = "23P01"

type Repository struct {
	db       *gorm.DB
	sql      goqu.DialectWrapper
	postgres bool
}

func NewRepository(db *gorm.DB) *Repository {
	postgres := database.Dialect(db) == database.DialectPostgres
	dialect := "sqlite3"
	if postgres {
		dialect = "postgres"
	}
	return &Repository{db: db, sql: goqu.Dialect(dialect), postgres: postgres}
}

// Create inserts b only if no pending or approved booking of the same item overlaps its
// range. The check and the insert are one statement; on PostgreSQL the bookings_no_overlap
// exclusion constraint backs it up. A lost race yields rental.ErrDateRangeUnavailable.
// The creation history row is written in the same transaction.
func (r *Repository) Create(ctx context.Context, b *Booking) error {
	query, args, err := r.conditionalInsert(b)
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res, err := tx.Statement.ConnPool.ExecContext(ctx, query, args...)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation {
				return rental.ErrDateRangeUnavailable
			}
			return err
		}

		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return rental.ErrDateRangeUnavailable
		}

		return tx.Create(&StatusEvent{
			BookingID: b.ID,
			ToStatus:  b.Status,
			ActorID:   b.UserID,
			CreatedAt: b.CreatedAt,
		}).Error
	})
}

// conditionalInsert builds
//
//	INSERT INTO bookings (...) SELECT <values> WHERE NOT EXISTS (<overlapping active booking>)
func (r *Repository) conditionalInsert(b *Booking) (string, []any, error) {
	overlapping := r.sql.From("bookings").Prepared(true).
		Select(goqu.L("1")).
		Where(
			goqu.C("equipment_id").Eq(r.typed(b.EquipmentID, "BIGINT")),
			goqu.C("status").In(rental.ActiveStatusStrings()),
			goqu.C("start_date").Lte(r.typed(b.EndDate.String(), "DATE")),
			goqu.C("end_date").Gte(r.typed(b.StartDate.String(), "DATE")),
		)

	values := r.sql.Select(
		r.typed(b.ID, "TEXT"),
		r.typed(b.UserID, "TEXT"),
		r.typed(b.EquipmentID, "BIGINT"),
		r.typed(b.StartDate.String(), "DATE"),
		r.typed(b.EndDate.String(), "DATE"),
		r.typed(string(b.Status), "TEXT"),
		r.typed(b.TotalPrice.Cents(), "BIGINT"),
		r.typed(b.Notes, "TEXT"),
		r.typed(b.CreatedAt, "TIMESTAMPTZ"),
		r.typed(b.UpdatedAt, "TIMESTAMPTZ"),
	).Prepared(true).Where(goqu.L("NOT EXISTS ?", overlapping))

	return r.sql.Insert("bookings").Prepared(true).
		Cols("id", "user_id", "equipment_id", "start_date", "end_date", "status",
			"total_price_cents", "notes", "created_at", "updated_at").
		FromQuery(values).
		ToSQL()
}

// typed casts a bound value on PostgreSQL, which cannot infer parameter types in a
// SELECT list. SQLite gets the bare value: CAST(... AS DATE) would turn a date into a number there.
func (r *Repository) typed(v any, pgType string) exp.Expression {
	if r.postgres {
		return goqu.Cast(goqu.V(v), pgType)
	}
	return goqu.V(v)
}

// UpdateStatus moves a booking from one status to another and appends the history row.
// Zero matched rows means another transition won and yields rental.ErrInvalidTransition.
func (r *Repository) UpdateStatus(ctx context.Context, id string, from, to rental.Status, actorID string, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Booking{}).
			Where("id = ? AND status = ?", id, string(from)).
			Updates(map[string]any{
				"status":     string(to),
				"updated_at": at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return rental.ErrInvalidTransition
		}

		return tx.Create(&StatusEvent{
			BookingID:  id,
			FromStatus: from,
			ToStatus:   to,
			ActorID:    actorID,
			CreatedAt:  at,
		}).Error
	})
}

// ActiveRanges returns the ranges of the item's pending and approved bookings that end on
// or after from. A zero from returns all of them.
func (r *Repository) ActiveRanges(ctx context.Context, equipmentID int64, from rental.Date) ([]rental.DateRange, error) {
	var rows []struct {
		StartDate rental.Date
		EndDate   rental.Date
	}

	q := r.db.WithContext(ctx).Model(&Booking{}).
		Select("start_date, end_date").
		Where("equipment_id = ? AND status IN ?", equipmentID, rental.ActiveStatusStrings())
	if !from.IsZero() {
		q = q.Where("end_date >= ?", from)
	}
	if err := q.Order("start_date ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]rental.DateRange, 0, len(rows))
	for _, row := range rows {
		out = append(out, rental.DateRange{Start: row.StartDate, End: row.EndDate})
	}
	return out, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Booking, error) {
	var b Booking
	err := r.db.WithContext(ctx).Preload("Equipment").Where("id = ?", id).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Booking, error) {
	var out []Booking
	err := r.db.WithContext(ctx).
		Preload("Equipment").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// List pages through all bookings. Search matches the booking id or the equipment model.
func (r *Repository) List(ctx context.Context, f ListFilter) ([]Booking, int64, error) {
	var out []Booking
	var total int64

	q := r.db.WithContext(ctx).Model(&Booking{})
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		like := "%" + s + "%"
		models := r.db.Model(&catalog.Equipment{}).Select("id").Where("LOWER(model) LIKE ?", like)
		q = q.Where("(LOWER(id) LIKE ? OR equipment_id IN (?))", like, models)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Equipment").
		Order("created_at DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *Repository) History(ctx context.Context, bookingID string) ([]StatusEvent, error) {
	var out []StatusEvent
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

// HasBookings implements catalog.BookingChecker.
func (r *Repository) HasBookings(ctx context.Context, equipmentID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Booking{}).Where("equipment_id = ?", equipmentID).Limit(1).Count(&n).Error
	return n > 0, err
}

// CountByStatus returns the number of bookings per status. Missing statuses count zero.
func (r *Repository) CountByStatus(ctx context.Context) (map[rental.Status]int64, error) {
	var rows []struct {
		Status string
		N      int64
	}
	err := r.db.WithContext(ctx).Model(&Booking{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[rental.Status]int64, len(rental.AllStatuses))
	for _, s := range rental.AllStatuses {
		out[s] = 0
	}
	for _, row := range rows {
		out[rental.Status(row.Status)] = row.N
	}
	return out, nil
}

// Recent returns the newest bookings.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Booking, error) {
	var out []Booking
	err := r.db.WithContext(ctx).
		Preload("Equipment").
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
