package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"edubackend/internal/dispatch"
	"edubackend/internal/domain"
	"edubackend/internal/domain/models"

	"github.com/go-sql-driver/mysql"
)

// UserRepository wraps DB access for accounts. Password hashes stay in
// this layer except where the login flow needs them for comparison.
type UserRepository struct {
	DB *sql.DB
}

const userColumns = `id, name, email, password_hash, role, status, created_at`

func scanUser(row *sql.Row) (models.User, error) {
	var u models.User
	var role string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.Status, &u.CreatedAt)
	u.Role = domain.ParseRole(role)
	return u, err
}

func (r UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if err == sql.ErrNoRows {
		return u, domain.NotFoundError{Resource: "user", Err: err}
	}
	return u, err
}

func (r UserRepository) GetByID(ctx context.Context, id domain.ID) (models.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, int64(id)))
	if err == sql.ErrNoRows {
		return u, domain.NotFoundError{Resource: "user", Err: err}
	}
	return u, err
}

func (r UserRepository) List(ctx context.Context, page dispatch.PageRequest) ([]models.User, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}

	p := page.Normalized()
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id ASC LIMIT ? OFFSET ?`,
		p.PageSize, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		var u models.User
		var role string
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.Status, &u.CreatedAt); err != nil {
			return nil, 0, err
		}
		u.Role = domain.ParseRole(role)
		out = append(out, u)
	}
	return out, total, rows.Err()
}

// Create inserts a new account. A taken email is a conflict: the
// pre-check catches the common case, and the unique index on email
// backs it when two registrations race past the check.
func (r UserRepository) Create(ctx context.Context, u models.User) (models.User, error) {
	var existing int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ?`, u.Email).Scan(&existing); err != nil {
		return u, err
	}
	if existing > 0 {
		return u, domain.ConflictError{Resource: "user", Msg: "email already registered"}
	}

	now := time.Now()
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, role, status, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.Name, u.Email, u.PasswordHash, string(u.Role), u.Status, now)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return u, domain.ConflictError{Resource: "user", Msg: "email already registered", Err: err}
		}
		return u, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return u, err
	}
	u.ID = domain.ID(id)
	u.CreatedAt = now
	return u, nil
}

func (r UserRepository) UpdateRole(ctx context.Context, id domain.ID, role domain.Role) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET role = ? WHERE id = ?`, string(role), int64(id))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "user"}
	}
	return nil
}
