package repositories

import (
	"context"
	"database/sql"
	"time"

	"edubackend/internal/dispatch"
	"edubackend/internal/domain"
	"edubackend/internal/domain/models"
)

// AnnouncementRepository wraps DB access for the announcements table.
type AnnouncementRepository struct {
	DB *sql.DB
}

// List returns one page of announcements, newest first, plus the
// unpaginated total. publishedOnly hides drafts from non-admin surfaces.
func (r AnnouncementRepository) List(ctx context.Context, publishedOnly bool, page dispatch.PageRequest) ([]models.Announcement, int, error) {
	where := ""
	if publishedOnly {
		where = " WHERE published = 1"
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM announcements`+where).Scan(&total); err != nil {
		return nil, 0, err
	}

	p := page.Normalized()
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, title, body, audience, published, created_at, updated_at FROM announcements`+where+
			` ORDER BY id DESC LIMIT ? OFFSET ?`, p.PageSize, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.Announcement{}
	for rows.Next() {
		var a models.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Body, &a.Audience, &a.Published, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func (r AnnouncementRepository) GetByID(ctx context.Context, id domain.ID) (models.Announcement, error) {
	var a models.Announcement
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, title, body, audience, published, created_at, updated_at FROM announcements WHERE id = ?`, int64(id)).
		Scan(&a.ID, &a.Title, &a.Body, &a.Audience, &a.Published, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return a, domain.NotFoundError{Resource: "announcement", Err: err}
	}
	return a, err
}

func (r AnnouncementRepository) Create(ctx context.Context, a models.Announcement) (models.Announcement, error) {
	now := time.Now()
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO announcements (title, body, audience, published, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		a.Title, a.Body, a.Audience, a.Published, now, now)
	if err != nil {
		return a, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return a, err
	}
	a.ID = domain.ID(id)
	a.CreatedAt = now
	a.UpdatedAt = now
	return a, nil
}

func (r AnnouncementRepository) Update(ctx context.Context, a models.Announcement) (models.Announcement, error) {
	now := time.Now()
	res, err := r.DB.ExecContext(ctx,
		`UPDATE announcements SET title = ?, body = ?, audience = ?, published = ?, updated_at = ? WHERE id = ?`,
		a.Title, a.Body, a.Audience, a.Published, now, int64(a.ID))
	if err != nil {
		return a, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return a, domain.NotFoundError{Resource: "announcement"}
	}
	a.UpdatedAt = now
	return a, nil
}

func (r AnnouncementRepository) Delete(ctx context.Context, id domain.ID) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM announcements WHERE id = ?`, int64(id))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "announcement"}
	}
	return nil
}
