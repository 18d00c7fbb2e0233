package app

import (
	"context"

	"edubackend/internal/dispatch"
	"edubackend/internal/domain"
	"edubackend/internal/domain/models"
	"edubackend/internal/repositories"
	"edubackend/internal/utils"
)

type BadgeDTO struct {
	ID          domain.ID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	CreatedAt   string    `json:"createdAt"`
}

func toBadgeDTO(b models.Badge) BadgeDTO {
	return BadgeDTO{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Icon:        b.Icon,
		CreatedAt:   formatTime(b.CreatedAt),
	}
}

type ListBadgesRequest struct {
	dispatch.PageRequest
}

func (ListBadgesRequest) RequestName() string { return "badges.list" }

type CreateBadgeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func (CreateBadgeRequest) RequestName() string { return "badges.create" }

type UpdateBadgeRequest struct {
	ID          domain.ID `json:"-"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
}

func (UpdateBadgeRequest) RequestName() string { return "badges.update" }

type DeleteBadgeRequest struct {
	ID domain.ID
}

func (DeleteBadgeRequest) RequestName() string { return "badges.delete" }

// ListEarnedBadgesRequest returns the badges the calling student earned.
type ListEarnedBadgesRequest struct{}

func (ListEarnedBadgesRequest) RequestName() string { return "badges.earned" }

type BadgeHandlers struct {
	Repo repositories.BadgeRepository
}

func (h BadgeHandlers) Register(m *dispatch.Mux) error {
	if err := dispatch.Register(m, h.List); err != nil {
		return err
	}
	if err := dispatch.Register(m, h.Create); err != nil {
		return err
	}
	if err := dispatch.Register(m, h.Update); err != nil {
		return err
	}
	if err := dispatch.Register(m, h.Delete); err != nil {
		return err
	}
	return dispatch.Register(m, h.ListEarned)
}

func (h BadgeHandlers) List(ctx context.Context, actor dispatch.Actor, req ListBadgesRequest) (dispatch.Result[dispatch.PageResult[BadgeDTO]], error) {
	items, total, err := h.Repo.List(ctx, req.PageRequest)
	if err != nil {
		return failureFrom[dispatch.PageResult[BadgeDTO]](err)
	}
	dtos := make([]BadgeDTO, 0, len(items))
	for _, b := range items {
		dtos = append(dtos, toBadgeDTO(b))
	}
	return dispatch.Success(dispatch.NewPageResult(dtos, total, req.PageRequest)), nil
}

func (h BadgeHandlers) Create(ctx context.Context, actor dispatch.Actor, req CreateBadgeRequest) (dispatch.Result[BadgeDTO], error) {
	name := utils.NormalizeSpace(req.Name)
	if name == "" {
		return invalid[BadgeDTO]("name is required")
	}
	b, err := h.Repo.Create(ctx, models.Badge{
		Name:        name,
		Description: utils.TrimOrEmpty(req.Description),
		Icon:        utils.TrimOrEmpty(req.Icon),
	})
	if err != nil {
		return failureFrom[BadgeDTO](err)
	}
	return dispatch.SuccessMsg(toBadgeDTO(b), "badge created"), nil
}

func (h BadgeHandlers) Update(ctx context.Context, actor dispatch.Actor, req UpdateBadgeRequest) (dispatch.Result[BadgeDTO], error) {
	name := utils.NormalizeSpace(req.Name)
	if name == "" {
		return invalid[BadgeDTO]("name is required")
	}
	b, err := h.Repo.Update(ctx, models.Badge{
		ID:          req.ID,
		Name:        name,
		Description: utils.TrimOrEmpty(req.Description),
		Icon:        utils.TrimOrEmpty(req.Icon),
	})
	if err != nil {
		return failureFrom[BadgeDTO](err)
	}
	return dispatch.SuccessMsg(toBadgeDTO(b), "badge updated"), nil
}

func (h BadgeHandlers) Delete(ctx context.Context, actor dispatch.Actor, req DeleteBadgeRequest) (dispatch.Result[dispatch.Unit], error) {
	if err := h.Repo.Delete(ctx, req.ID); err != nil {
		return failureFrom[dispatch.Unit](err)
	}
	return dispatch.SuccessMsg(dispatch.Unit{}, "badge deleted"), nil
}

func (h BadgeHandlers) ListEarned(ctx context.Context, actor dispatch.Actor, req ListEarnedBadgesRequest) (dispatch.Result[[]BadgeDTO], error) {
	items, err := h.Repo.ListEarnedByUser(ctx, actor.UserID)
	if err != nil {
		return failureFrom[[]BadgeDTO](err)
	}
	dtos := make([]BadgeDTO, 0, len(items))
	for _, b := range items {
		dtos = append(dtos, toBadgeDTO(b))
	}
	return dispatch.Success(dtos), nil
}
