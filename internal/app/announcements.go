package app

import (
	"context"

	"edubackend/internal/dispatch"
	"edubackend/internal/domain"
	"edubackend/internal/domain/models"
	"edubackend/internal/repositories"
	"edubackend/internal/utils"
)

type AnnouncementDTO struct {
	ID        domain.ID `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Audience  string    `json:"audience"`
	Published bool      `json:"published"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

func toAnnouncementDTO(a models.Announcement) AnnouncementDTO {
	return AnnouncementDTO{
		ID:        a.ID,
		Title:     a.Title,
		Body:      a.Body,
		Audience:  a.Audience,
		Published: a.Published,
		CreatedAt: formatTime(a.CreatedAt),
		UpdatedAt: formatTime(a.UpdatedAt),
	}
}

type ListAnnouncementsRequest struct {
	dispatch.PageRequest
	PublishedOnly bool
}

func (ListAnnouncementsRequest) RequestName() string { return "announcements.list" }

type GetAnnouncementRequest struct {
	ID domain.ID
}

func (GetAnnouncementRequest) RequestName() string { return "announcements.get" }

type CreateAnnouncementRequest struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Audience  string `json:"audience"`
	Published bool   `json:"published"`
}

func (CreateAnnouncementRequest) RequestName() string { return "announcements.create" }

type UpdateAnnouncementRequest struct {
	ID        domain.ID `json:"-"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Audience  string    `json:"audience"`
	Published bool      `json:"published"`
}

func (UpdateAnnouncementRequest) RequestName() string { return "announcements.update" }

type DeleteAnnouncementRequest struct {
	ID domain.ID
}

func (DeleteAnnouncementRequest) RequestName() string { return "announcements.delete" }

// AnnouncementHandlers executes announcement operations against the
// repository collaborator.
type AnnouncementHandlers struct {
	Repo repositories.AnnouncementRepository
}

func (h AnnouncementHandlers) Register(m *dispatch.Mux) error {
	if err := dispatch.Register(m, h.List); err != nil {
		return err
	}
	if err := dispatch.Register(m, h.Get); err != nil {
		return err
	}
	if err := dispatch.Register(m, h.Create); err != nil {
		return err
	}
	if err := dispatch.Register(m, h.Update); err != nil {
		return err
	}
	return dispatch.Register(m, h.Delete)
}

func (h AnnouncementHandlers) List(ctx context.Context, actor dispatch.Actor, req ListAnnouncementsRequest) (dispatch.Result[dispatch.PageResult[AnnouncementDTO]], error) {
	items, total, err := h.Repo.List(ctx, req.PublishedOnly, req.PageRequest)
	if err != nil {
		return failureFrom[dispatch.PageResult[AnnouncementDTO]](err)
	}
	dtos := make([]AnnouncementDTO, 0, len(items))
	for _, a := range items {
		dtos = append(dtos, toAnnouncementDTO(a))
	}
	return dispatch.Success(dispatch.NewPageResult(dtos, total, req.PageRequest)), nil
}

func (h AnnouncementHandlers) Get(ctx context.Context, actor dispatch.Actor, req GetAnnouncementRequest) (dispatch.Result[AnnouncementDTO], error) {
	a, err := h.Repo.GetByID(ctx, req.ID)
	if err != nil {
		return failureFrom[AnnouncementDTO](err)
	}
	return dispatch.Success(toAnnouncementDTO(a)), nil
}

func (h AnnouncementHandlers) Create(ctx context.Context, actor dispatch.Actor, req CreateAnnouncementRequest) (dispatch.Result[AnnouncementDTO], error) {
	title := utils.NormalizeSpace(req.Title)
	if title == "" {
		return invalid[AnnouncementDTO]("title is required")
	}
	a, err := h.Repo.Create(ctx, models.Announcement{
		Title:     title,
		Body:      utils.TrimOrEmpty(req.Body),
		Audience:  utils.TrimOrEmpty(req.Audience),
		Published: req.Published,
	})
	if err != nil {
		return failureFrom[AnnouncementDTO](err)
	}
	return dispatch.SuccessMsg(toAnnouncementDTO(a), "announcement created"), nil
}

func (h AnnouncementHandlers) Update(ctx context.Context, actor dispatch.Actor, req UpdateAnnouncementRequest) (dispatch.Result[AnnouncementDTO], error) {
	title := utils.NormalizeSpace(req.Title)
	if title == "" {
		return invalid[AnnouncementDTO]("title is required")
	}
	a, err := h.Repo.Update(ctx, models.Announcement{
		ID:        req.ID,
		Title:     title,
		Body:      utils.TrimOrEmpty(req.Body),
		Audience:  utils.TrimOrEmpty(req.Audience),
		Published: req.Published,
	})
	if err != nil {
		return failureFrom[AnnouncementDTO](err)
	}
	return dispatch.SuccessMsg(toAnnouncementDTO(a), "announcement updated"), nil
}

func (h AnnouncementHandlers) Delete(ctx context.Context, actor dispatch.Actor, req DeleteAnnouncementRequest) (dispatch.Result[dispatch.Unit], error) {
	if err := h.Repo.Delete(ctx, req.ID); err != nil {
		return failureFrom[dispatch.Unit](err)
	}
	return dispatch.SuccessMsg(dispatch.Unit{}, "announcement deleted"), nil
}
