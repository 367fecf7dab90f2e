// Package sqlite implements the repository ports on an embedded SQLite
// database. Dates are stored as YYYY-MM-DD and times of day as HH:MM:SS.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type attendanceRepository struct {
	db database.SQLDB
}

func NewAttendanceRepository(db database.SQLDB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `a.id, a.user_id, a.date, a.check_in_time, a.check_out_time, a.created_at, a.updated_at`

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	now := time.Now().UTC()
	newAttendance.CreatedAt = now
	newAttendance.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendances (id, user_id, date, check_in_time, check_out_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		newAttendance.ID,
		newAttendance.UserID,
		newAttendance.Date.Format(time.DateOnly),
		newAttendance.CheckIn.String(),
		optionalTime(newAttendance.CheckOut),
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Attendance{}, attendance.ErrUniquenessViolation
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return newAttendance, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+attendanceColumns+` FROM attendances a WHERE a.id = ?`, id)

	att, err := scanAttendance(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrRecordNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by id: %w", err)
	}
	return att, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+attendanceColumns+` FROM attendances a WHERE a.user_id = ? AND a.date = ?`,
		userID, date.Format(time.DateOnly))

	att, err := scanAttendance(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by user and date: %w", err)
	}
	return &att, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	updatedAt := att.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE attendances
		SET check_out_time = ?, updated_at = ?
		WHERE id = ? AND check_out_time IS NULL
	`, optionalTime(att.CheckOut), updatedAt.UTC().Format(time.RFC3339Nano), att.ID)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected > 0 {
		return nil
	}

	// Nothing changed: either the record is gone or it is already closed
	var exists int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM attendances WHERE id = ?`, att.ID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return attendance.ErrRecordNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check attendance: %w", err)
	}
	return attendance.ErrAlreadyCheckedOut
}

// ListByDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+attendanceColumns+` FROM attendances a WHERE a.date = ? ORDER BY a.check_in_time`,
		date.Format(time.DateOnly))
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
func (r *attendanceRepository) SearchDetailed(ctx context.Context, filter attendance.DetailedFilter, offset, limit int) ([]attendance.DetailedAttendance, int64, error) {
	conditions := []string{"1 = 1"}
	var args []any

	if filter.RecordID != nil {
		conditions = append(conditions, "a.id = ?")
		args = append(args, *filter.RecordID)
	}
	if filter.StartDate != nil {
		conditions = append(conditions, "a.date >= ?")
		args = append(args, filter.StartDate.Format(time.DateOnly))
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "a.date <= ?")
		args = append(args, filter.EndDate.Format(time.DateOnly))
	}

	if filter.HasUserPredicate() {
		conditions = append(conditions, "u.id IS NOT NULL")
	}
	if filter.UserID != nil {
		conditions = append(conditions, "u.id = ?")
		args = append(args, *filter.UserID)
	}
	if filter.NameContains != nil {
		conditions = append(conditions, `(unicode_lower(TRIM(u.first_name || ' ' || u.last_name)) LIKE ? ESCAPE '\'
			OR unicode_lower(u.first_name) LIKE ? ESCAPE '\'
			OR unicode_lower(u.last_name) LIKE ? ESCAPE '\')`)
		pattern := "%" + escapeLike(strings.ToLower(*filter.NameContains)) + "%"
		args = append(args, pattern, pattern, pattern)
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `
		SELECT COUNT(*)
		FROM attendances a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	selectQuery := `
		SELECT ` + attendanceColumns + `,
			COALESCE(u.first_name, ''), COALESCE(u.last_name, ''),
			d.name, ro.name
		FROM attendances a
		LEFT JOIN users u ON u.id = a.user_id
		LEFT JOIN departments d ON d.id = u.department_id
		LEFT JOIN roles ro ON ro.id = u.role_id
		WHERE ` + where + `
		ORDER BY a.date DESC, COALESCE(u.last_name, '') ASC, COALESCE(u.first_name, '') ASC, a.id ASC
		LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, selectQuery, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var results []attendance.DetailedAttendance
	for rows.Next() {
		var (
			d                    attendance.DetailedAttendance
			department, role     sql.NullString
			date, checkIn        string
			checkOut             sql.NullString
			createdAt, updatedAt string
		)
		if err := rows.Scan(
			&d.ID, &d.UserID, &date, &checkIn, &checkOut, &createdAt, &updatedAt,
			&d.FirstName, &d.LastName, &department, &role,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		if d.Attendance, err = decodeAttendance(d.ID, d.UserID, date, checkIn, checkOut, createdAt, updatedAt); err != nil {
			return nil, 0, err
		}
		if department.Valid {
			d.Department = &department.String
		}
		if role.Valid {
			d.Role = &role.String
		}
		results = append(results, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return results, total, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAttendance(row scanner) (attendance.Attendance, error) {
	var (
		id, userID, date, checkIn string
		checkOut                  sql.NullString
		createdAt, updatedAt      string
	)
	if err := row.Scan(&id, &userID, &date, &checkIn, &checkOut, &createdAt, &updatedAt); err != nil {
		return attendance.Attendance{}, err
	}
	return decodeAttendance(id, userID, date, checkIn, checkOut, createdAt, updatedAt)
}

func decodeAttendance(id, userID, date, checkIn string, checkOut sql.NullString, createdAt, updatedAt string) (attendance.Attendance, error) {
	att := attendance.Attendance{ID: id, UserID: userID}

	var err error
	if att.Date, err = time.Parse(time.DateOnly, date); err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to parse date: %w", err)
	}
	if att.CheckIn, err = attendance.ParseTimeOfDay(checkIn); err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to parse check_in_time: %w", err)
	}
	if checkOut.Valid {
		out, err := attendance.ParseTimeOfDay(checkOut.String)
		if err != nil {
			return attendance.Attendance{}, fmt.Errorf("failed to parse check_out_time: %w", err)
		}
		att.CheckOut = &out
	}
	// Timestamps are best effort
	att.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	att.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)

	return att, nil
}

func optionalTime(t *attendance.TimeOfDay) any {
	if t == nil {
		return nil
	}
	return t.String()
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

// escapeLike escapes LIKE wildcards so the term matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
