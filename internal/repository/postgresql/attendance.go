package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

const uniqueViolation = "23505"

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `a.id, a.user_id, a.date, a.check_in_time, a.check_out_time, a.created_at, a.updated_at`

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (id, user_id, date, check_in_time, check_out_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newAttendance.ID,
		newAttendance.UserID,
		pgDate(newAttendance.Date),
		pgTime(newAttendance.CheckIn),
		pgOptionalTime(newAttendance.CheckOut),
	).Scan(&newAttendance.CreatedAt, &newAttendance.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return attendance.Attendance{}, attendance.ErrUniquenessViolation
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return newAttendance, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances a WHERE a.id = $1`

	att, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrRecordNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by id: %w", err)
	}

	return att, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances a WHERE a.user_id = $1 AND a.date = $2`

	att, err := scanAttendance(q.QueryRow(ctx, query, userID, pgDate(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No existing attendance found
		}
		return nil, fmt.Errorf("failed to get attendance by user and date: %w", err)
	}

	return &att, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	return WithTransaction(ctx, a.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, a.db)

		var current pgtype.Time
		err := q.QueryRow(ctx, `SELECT check_out_time FROM attendances WHERE id = $1 FOR UPDATE`, att.ID).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return attendance.ErrRecordNotFound
			}
			return fmt.Errorf("failed to lock attendance: %w", err)
		}
		if current.Valid {
			return attendance.ErrAlreadyCheckedOut
		}

		_, err = q.Exec(ctx, `
			UPDATE attendances
			SET check_out_time = $2, updated_at = $3
			WHERE id = $1
		`, att.ID, pgOptionalTime(att.CheckOut), att.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}
		return nil
	})
}

// ListByDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances a WHERE a.date = $1 ORDER BY a.check_in_time`

	rows, err := q.Query(ctx, query, pgDate(date))
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances by date: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return attendances, nil
}

// SearchDetailed implements attendance.AttendanceRepository.
func (a *attendanceRepository) SearchDetailed(ctx context.Context, filter attendance.DetailedFilter, offset, limit int) ([]attendance.DetailedAttendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	// Record-level predicates
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filter.RecordID != nil {
		conditions = append(conditions, fmt.Sprintf("a.id = $%d", argIdx))
		args = append(args, *filter.RecordID)
		argIdx++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d", argIdx))
		args = append(args, pgDate(*filter.StartDate))
		argIdx++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d", argIdx))
		args = append(args, pgDate(*filter.EndDate))
		argIdx++
	}

	// User-level predicates; once any is given the owner must exist
	if filter.HasUserPredicate() {
		conditions = append(conditions, "u.id IS NOT NULL")
	}
	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("u.id = $%d", argIdx))
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.NameContains != nil {
		conditions = append(conditions, fmt.Sprintf(
			`(TRIM(u.first_name || ' ' || u.last_name) ILIKE $%[1]d ESCAPE '\'
			  OR u.first_name ILIKE $%[1]d ESCAPE '\'
			  OR u.last_name ILIKE $%[1]d ESCAPE '\')`, argIdx))
		args = append(args, "%"+escapeLike(*filter.NameContains)+"%")
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	countQuery := `
		SELECT COUNT(*)
		FROM attendances a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE ` + where
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s,
			COALESCE(u.first_name, ''), COALESCE(u.last_name, ''),
			d.name AS department, r.name AS role
		FROM attendances a
		LEFT JOIN users u ON u.id = a.user_id
		LEFT JOIN departments d ON d.id = u.department_id
		LEFT JOIN roles r ON r.id = u.role_id
		WHERE %s
		ORDER BY a.date DESC, COALESCE(u.last_name, '') ASC, COALESCE(u.first_name, '') ASC, a.id ASC
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, where, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var results []attendance.DetailedAttendance
	for rows.Next() {
		var (
			d        attendance.DetailedAttendance
			date     pgtype.Date
			checkIn  pgtype.Time
			checkOut pgtype.Time
		)
		err := rows.Scan(
			&d.ID, &d.UserID, &date, &checkIn, &checkOut, &d.CreatedAt, &d.UpdatedAt,
			&d.FirstName, &d.LastName, &d.Department, &d.Role,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		d.Date = date.Time
		d.CheckIn = fromPgTime(checkIn)
		d.CheckOut = fromPgOptionalTime(checkOut)
		results = append(results, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return results, total, nil
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var (
		att      attendance.Attendance
		date     pgtype.Date
		checkIn  pgtype.Time
		checkOut pgtype.Time
	)
	if err := row.Scan(&att.ID, &att.UserID, &date, &checkIn, &checkOut, &att.CreatedAt, &att.UpdatedAt); err != nil {
		return attendance.Attendance{}, err
	}
	att.Date = date.Time
	att.CheckIn = fromPgTime(checkIn)
	att.CheckOut = fromPgOptionalTime(checkOut)
	return att, nil
}

func pgDate(t time.Time) pgtype.Date {
	return pgtype.Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), Valid: true}
}

func pgTime(t attendance.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: int64(t.Duration() / time.Microsecond), Valid: true}
}

func pgOptionalTime(t *attendance.TimeOfDay) pgtype.Time {
	if t == nil {
		return pgtype.Time{}
	}
	return pgTime(*t)
}

func fromPgTime(t pgtype.Time) attendance.TimeOfDay {
	return attendance.TimeOfDay(time.Duration(t.Microseconds) * time.Microsecond)
}

func fromPgOptionalTime(t pgtype.Time) *attendance.TimeOfDay {
	if !t.Valid {
		return nil
	}
	tod := fromPgTime(t)
	return &tod
}

// escapeLike escapes LIKE wildcards so the term matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
