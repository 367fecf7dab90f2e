package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
)

type userRepository struct {
	db database.SQLDB
}

func NewUserRepository(db database.SQLDB) user.UserRepository {
	return &userRepository{db: db}
}

// GetByID implements user.UserRepository.
func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	var (
		found            user.User
		department, role sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT u.id, u.first_name, u.last_name, d.name, ro.name
		FROM users u
		LEFT JOIN departments d ON d.id = u.department_id
		LEFT JOIN roles ro ON ro.id = u.role_id
		WHERE u.id = ?
	`, id).Scan(&found.ID, &found.FirstName, &found.LastName, &department, &role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	if department.Valid {
		found.Department = &department.String
	}
	if role.Valid {
		found.Role = &role.String
	}
	return found, nil
}

// Count implements user.UserRepository.
func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return total, nil
}
