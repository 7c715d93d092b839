package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"parcelbee/internal/apperr"
	"parcelbee/internal/domain"
)

// UserRepo represents user repository.
type UserRepo struct{ db *pgxpool.Pool }

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *pgxpool.Pool) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, email, name, phone, role, is_active, is_staff, date_joined, password_hash`

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Phone, &role, &u.IsActive, &u.IsStaff, &u.DateJoined, &u.PasswordHash); err != nil {
		return nil, err
	}
	r, err := domain.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", u.ID, err)
	}
	u.Role = r
	return &u, nil
}

// Create - inserts u and fills its ID and join time. A taken email yields apperr.ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	err := r.db.QueryRow(ctx, `
        INSERT INTO users (email, name, phone, role, is_active, is_staff, password_hash)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, date_joined
    `, u.Email, u.Name, u.Phone, u.Role.String(), u.IsActive, u.IsStaff, u.PasswordHash,
	).Scan(&u.ID, &u.DateJoined)
	if err != nil {
		if IsDuplicate(err) {
			return apperr.ErrConflict
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetByEmail - returns the user with the given email or nil.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// GetByID - returns the user with the given id or nil.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

// Stats - counts users overall and per self-registrable role.
func (r *UserRepo) Stats(ctx context.Context) (domain.UserStats, error) {
	var s domain.UserStats
	err := r.db.QueryRow(ctx, `
        SELECT
            COUNT(*),
            COUNT(*) FILTER (WHERE role = 'customer'),
            COUNT(*) FILTER (WHERE role = 'partner')
        FROM users
    `).Scan(&s.Total, &s.Customers, &s.Partners)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("user stats: %w", err)
	}
	return s, nil
}
