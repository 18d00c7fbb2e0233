package repositories

import (
	"context"
	"database/sql"
	"time"

	"edubackend/internal/dispatch"
	"edubackend/internal/domain"
	"edubackend/internal/domain/models"
)

// MissionRepository wraps DB access for missions and their completions.
type MissionRepository struct {
	DB *sql.DB
}

// nullableID stores 0 as NULL so missions without a badge keep a clean
// foreign key.
func nullableID(id domain.ID) any {
	if id == 0 {
		return nil
	}
	return int64(id)
}

// List returns one page of missions. createdBy narrows to a teacher's
// own missions when non-zero; activeOnly hides retired ones.
func (r MissionRepository) List(ctx context.Context, createdBy domain.ID, activeOnly bool, page dispatch.PageRequest) ([]models.Mission, int, error) {
	where := ""
	args := []any{}
	switch {
	case createdBy != 0 && activeOnly:
		where = " WHERE created_by = ? AND active = 1"
		args = append(args, int64(createdBy))
	case createdBy != 0:
		where = " WHERE created_by = ?"
		args = append(args, int64(createdBy))
	case activeOnly:
		where = " WHERE active = 1"
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM missions`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	p := page.Normalized()
	args = append(args, p.PageSize, page.Offset())
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, title, description, points, COALESCE(badge_id, 0), active, created_by, created_at FROM missions`+where+
			` ORDER BY id DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.Mission{}
	for rows.Next() {
		var m models.Mission
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.Points, &m.BadgeID, &m.Active, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}

func (r MissionRepository) GetByID(ctx context.Context, id domain.ID) (models.Mission, error) {
	var m models.Mission
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, title, description, points, COALESCE(badge_id, 0), active, created_by, created_at FROM missions WHERE id = ?`,
		int64(id)).
		Scan(&m.ID, &m.Title, &m.Description, &m.Points, &m.BadgeID, &m.Active, &m.CreatedBy, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return m, domain.NotFoundError{Resource: "mission", Err: err}
	}
	return m, err
}

func (r MissionRepository) Create(ctx context.Context, m models.Mission) (models.Mission, error) {
	now := time.Now()
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO missions (title, description, points, badge_id, active, created_by, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.Title, m.Description, m.Points, nullableID(m.BadgeID), m.Active, int64(m.CreatedBy), now)
	if err != nil {
		return m, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return m, err
	}
	m.ID = domain.ID(id)
	m.CreatedAt = now
	return m, nil
}

func (r MissionRepository) Update(ctx context.Context, m models.Mission) (models.Mission, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE missions SET title = ?, description = ?, points = ?, badge_id = ?, active = ? WHERE id = ?`,
		m.Title, m.Description, m.Points, nullableID(m.BadgeID), m.Active, int64(m.ID))
	if err != nil {
		return m, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return m, domain.NotFoundError{Resource: "mission"}
	}
	return m, nil
}

func (r MissionRepository) Delete(ctx context.Context, id domain.ID) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM missions WHERE id = ?`, int64(id))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "mission"}
	}
	return nil
}

// Complete records that the user finished the mission. Completing the
// same mission twice is a conflict, checked before the insert so the
// error surfaces as a handled outcome rather than a driver error.
func (r MissionRepository) Complete(ctx context.Context, missionID, userID domain.ID) (models.MissionCompletion, error) {
	var mc models.MissionCompletion

	var existing int64
	err := r.DB.QueryRowContext(ctx,
		`SELECT id FROM mission_completions WHERE mission_id = ? AND user_id = ?`,
		int64(missionID), int64(userID)).Scan(&existing)
	if err == nil {
		return mc, domain.ConflictError{Resource: "mission completion", Msg: "mission already completed"}
	}
	if err != sql.ErrNoRows {
		return mc, err
	}

	now := time.Now()
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO mission_completions (mission_id, user_id, completed_at) VALUES (?, ?, ?)`,
		int64(missionID), int64(userID), now)
	if err != nil {
		return mc, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return mc, err
	}
	mc = models.MissionCompletion{
		ID:          domain.ID(id),
		MissionID:   missionID,
		UserID:      userID,
		CompletedAt: now,
	}
	return mc, nil
}
