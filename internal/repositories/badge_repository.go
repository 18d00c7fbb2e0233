package repositories

import (
	"context"
	"database/sql"
	"time"

	"edubackend/internal/dispatch"
	"edubackend/internal/domain"
	"edubackend/internal/domain/models"
)

// BadgeRepository wraps DB access for badges and the earned-badge join.
type BadgeRepository struct {
	DB *sql.DB
}

func (r BadgeRepository) List(ctx context.Context, page dispatch.PageRequest) ([]models.Badge, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM badges`).Scan(&total); err != nil {
		return nil, 0, err
	}

	p := page.Normalized()
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, description, icon, created_at FROM badges ORDER BY id ASC LIMIT ? OFFSET ?`,
		p.PageSize, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.Badge{}
	for rows.Next() {
		var b models.Badge
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.Icon, &b.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r BadgeRepository) GetByID(ctx context.Context, id domain.ID) (models.Badge, error) {
	var b models.Badge
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, name, description, icon, created_at FROM badges WHERE id = ?`, int64(id)).
		Scan(&b.ID, &b.Name, &b.Description, &b.Icon, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return b, domain.NotFoundError{Resource: "badge", Err: err}
	}
	return b, err
}

func (r BadgeRepository) Create(ctx context.Context, b models.Badge) (models.Badge, error) {
	now := time.Now()
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO badges (name, description, icon, created_at) VALUES (?, ?, ?, ?)`,
		b.Name, b.Description, b.Icon, now)
	if err != nil {
		return b, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return b, err
	}
	b.ID = domain.ID(id)
	b.CreatedAt = now
	return b, nil
}

func (r BadgeRepository) Update(ctx context.Context, b models.Badge) (models.Badge, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE badges SET name = ?, description = ?, icon = ? WHERE id = ?`,
		b.Name, b.Description, b.Icon, int64(b.ID))
	if err != nil {
		return b, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return b, domain.NotFoundError{Resource: "badge"}
	}
	return b, nil
}

func (r BadgeRepository) Delete(ctx context.Context, id domain.ID) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM badges WHERE id = ?`, int64(id))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "badge"}
	}
	return nil
}

// ListEarnedByUser returns the badges a student earned through mission
// completions, newest completion first.
func (r BadgeRepository) ListEarnedByUser(ctx context.Context, userID domain.ID) ([]models.Badge, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT b.id, b.name, b.description, b.icon, b.created_at
		 FROM badges b
		 JOIN missions m ON m.badge_id = b.id
		 JOIN mission_completions mc ON mc.mission_id = m.id
		 WHERE mc.user_id = ?
		 ORDER BY mc.completed_at DESC`, int64(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Badge{}
	for rows.Next() {
		var b models.Badge
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.Icon, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
