package attendance

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
)

type fakeUserRepo struct {
	users map[string]user.User
}

func newFakeUserRepo(users ...user.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]user.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

// fakeAttendanceRepo is an in-memory store with the same uniqueness and
// close-once rules as the SQL repositories.
type fakeAttendanceRepo struct {
	mu      sync.Mutex
	records map[string]attendance.Attendance
	users   *fakeUserRepo

	creates int
	updates int

	// hideExisting makes GetByUserAndDate miss, as if a concurrent
	// check-in committed between the lookup and the insert.
	hideExisting bool
	// block makes every call wait for the context to end.
	block bool
}

func newFakeAttendanceRepo(users *fakeUserRepo) *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: map[string]attendance.Attendance{}, users: users}
}

func (r *fakeAttendanceRepo) wait(ctx context.Context) error {
	if !r.block {
		return nil
	}
	<-ctx.Done()
	return ctx.Err()
}

func (r *fakeAttendanceRepo) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	if err := r.wait(ctx); err != nil {
		return attendance.Attendance{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.records {
		if existing.UserID == a.UserID && existing.Date.Equal(a.Date) {
			return attendance.Attendance{}, attendance.ErrUniquenessViolation
		}
	}
	r.creates++
	r.records[a.ID] = a
	return a, nil
}

func (r *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	if err := r.wait(ctx); err != nil {
		return attendance.Attendance{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrRecordNotFound
	}
	return a, nil
}

func (r *fakeAttendanceRepo) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hideExisting {
		return nil, nil
	}
	for _, a := range r.records {
		if a.UserID == userID && a.Date.Equal(date) {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeAttendanceRepo) Update(ctx context.Context, a attendance.Attendance) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.records[a.ID]
	if !ok {
		return attendance.ErrRecordNotFound
	}
	if current.IsClosed() {
		return attendance.ErrAlreadyCheckedOut
	}
	current.CheckOut = a.CheckOut
	current.UpdatedAt = a.UpdatedAt
	r.records[a.ID] = current
	r.updates++
	return nil
}

func (r *fakeAttendanceRepo) ListByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []attendance.Attendance
	for _, a := range r.records {
		if a.Date.Equal(date) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) SearchDetailed(ctx context.Context, f attendance.DetailedFilter, offset, limit int) ([]attendance.DetailedAttendance, int64, error) {
	if err := r.wait(ctx); err != nil {
		return nil, 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []attendance.DetailedAttendance
	for _, a := range r.records {
		if f.RecordID != nil && a.ID != *f.RecordID {
			continue
		}
		if f.StartDate != nil && a.Date.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && a.Date.After(*f.EndDate) {
			continue
		}
		u, hasUser := r.users.users[a.UserID]
		if f.HasUserPredicate() {
			if !hasUser {
				continue
			}
			if f.UserID != nil && u.ID != *f.UserID {
				continue
			}
			if f.NameContains != nil {
				term := strings.ToLower(*f.NameContains)
				if !strings.Contains(strings.ToLower(u.FullName()), term) &&
					!strings.Contains(strings.ToLower(u.FirstName), term) &&
					!strings.Contains(strings.ToLower(u.LastName), term) {
					continue
				}
			}
		}
		matched = append(matched, attendance.DetailedAttendance{
			Attendance: a,
			FirstName:  u.FirstName,
			LastName:   u.LastName,
			Department: u.Department,
			Role:       u.Role,
		})
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		if a.FirstName != b.FirstName {
			return a.FirstName < b.FirstName
		}
		return a.ID < b.ID
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := min(offset+limit, len(matched))
	return matched[offset:end], total, nil
}
