package repositories

import (
	"context"
	"database/sql"
	"time"

	"edubackend/internal/dispatch"
	"edubackend/internal/domain"
	"edubackend/internal/domain/models"
)

// CPDRepository wraps DB access for continuing-professional-development
// records. Records always belong to the teacher who logged them.
type CPDRepository struct {
	DB *sql.DB
}

func (r CPDRepository) ListByUser(ctx context.Context, userID domain.ID, page dispatch.PageRequest) ([]models.CPDRecord, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cpd_records WHERE user_id = ?`, int64(userID)).Scan(&total); err != nil {
		return nil, 0, err
	}

	p := page.Normalized()
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, activity, hours, activity_date, created_at FROM cpd_records WHERE user_id = ? ORDER BY id DESC LIMIT ? OFFSET ?`,
		int64(userID), p.PageSize, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.CPDRecord{}
	for rows.Next() {
		var rec models.CPDRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Activity, &rec.Hours, &rec.ActivityDate, &rec.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	return out, total, rows.Err()
}

func (r CPDRepository) GetByID(ctx context.Context, id domain.ID) (models.CPDRecord, error) {
	var rec models.CPDRecord
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, activity, hours, activity_date, created_at FROM cpd_records WHERE id = ?`, int64(id)).
		Scan(&rec.ID, &rec.UserID, &rec.Activity, &rec.Hours, &rec.ActivityDate, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return rec, domain.NotFoundError{Resource: "cpd record", Err: err}
	}
	return rec, err
}

func (r CPDRepository) Create(ctx context.Context, rec models.CPDRecord) (models.CPDRecord, error) {
	now := time.Now()
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO cpd_records (user_id, activity, hours, activity_date, created_at) VALUES (?, ?, ?, ?, ?)`,
		int64(rec.UserID), rec.Activity, rec.Hours, rec.ActivityDate, now)
	if err != nil {
		return rec, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return rec, err
	}
	rec.ID = domain.ID(id)
	rec.CreatedAt = now
	return rec, nil
}
