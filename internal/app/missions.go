package app

import (
	"context"

	"edubackend/internal/dispatch"
	"edubackend/internal/domain"
	"edubackend/internal/domain/models"
	"edubackend/internal/repositories"
	"edubackend/internal/utils"
)

type MissionDTO struct {
	ID          domain.ID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Points      int       `json:"points"`
	BadgeID     domain.ID `json:"badgeId"`
	Active      bool      `json:"active"`
	CreatedBy   domain.ID `json:"createdBy"`
	CreatedAt   string    `json:"createdAt"`
}

func toMissionDTO(m models.Mission) MissionDTO {
	return MissionDTO{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Points:      m.Points,
		BadgeID:     m.BadgeID,
		Active:      m.Active,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   formatTime(m.CreatedAt),
	}
}

type CompletionDTO struct {
	ID           domain.ID `json:"id"`
	MissionID    domain.ID `json:"missionId"`
	UserID       domain.ID `json:"userId"`
	CompletedAt  string    `json:"completedAt"`
	PointsEarned int       `json:"pointsEarned"`
	BadgeAwarded domain.ID `json:"badgeAwarded"`
}

// ListMissionsRequest lists missions. OwnOnly narrows to the caller's
// missions (teacher view); ActiveOnly hides retired ones (student view).
type ListMissionsRequest struct {
	dispatch.PageRequest
	OwnOnly    bool
	ActiveOnly bool
}

func (ListMissionsRequest) RequestName() string { return "missions.list" }

type CreateMissionRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Points      int       `json:"points"`
	BadgeID     domain.ID `json:"badgeId"`
	Active      bool      `json:"active"`
}

func (CreateMissionRequest) RequestName() string { return "missions.create" }

type UpdateMissionRequest struct {
	ID          domain.ID `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Points      int       `json:"points"`
	BadgeID     domain.ID `json:"badgeId"`
	Active      bool      `json:"active"`
}

func (UpdateMissionRequest) RequestName() string { return "missions.update" }

type DeleteMissionRequest struct {
	ID domain.ID
}

func (DeleteMissionRequest) RequestName() string { return "missions.delete" }

type CompleteMissionRequest struct {
	MissionID domain.ID
}

func (CompleteMissionRequest) RequestName() string { return "missions.complete" }

type MissionHandlers struct {
	Repo repositories.MissionRepository
}

func (h MissionHandlers) Register(m *dispatch.Mux) error {
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
	return dispatch.Register(m, h.Complete)
}

func (h MissionHandlers) List(ctx context.Context, actor dispatch.Actor, req ListMissionsRequest) (dispatch.Result[dispatch.PageResult[MissionDTO]], error) {
	var createdBy domain.ID
	if req.OwnOnly {
		createdBy = actor.UserID
	}
	items, total, err := h.Repo.List(ctx, createdBy, req.ActiveOnly, req.PageRequest)
	if err != nil {
		return failureFrom[dispatch.PageResult[MissionDTO]](err)
	}
	dtos := make([]MissionDTO, 0, len(items))
	for _, m := range items {
		dtos = append(dtos, toMissionDTO(m))
	}
	return dispatch.Success(dispatch.NewPageResult(dtos, total, req.PageRequest)), nil
}

func (h MissionHandlers) Create(ctx context.Context, actor dispatch.Actor, req CreateMissionRequest) (dispatch.Result[MissionDTO], error) {
	title := utils.NormalizeSpace(req.Title)
	if title == "" {
		return invalid[MissionDTO]("title is required")
	}
	if req.Points < 0 {
		return invalid[MissionDTO]("points must not be negative")
	}
	m, err := h.Repo.Create(ctx, models.Mission{
		Title:       title,
		Description: utils.TrimOrEmpty(req.Description),
		Points:      req.Points,
		BadgeID:     req.BadgeID,
		Active:      req.Active,
		CreatedBy:   actor.UserID,
	})
	if err != nil {
		return failureFrom[MissionDTO](err)
	}
	return dispatch.SuccessMsg(toMissionDTO(m), "mission created"), nil
}

func (h MissionHandlers) Update(ctx context.Context, actor dispatch.Actor, req UpdateMissionRequest) (dispatch.Result[MissionDTO], error) {
	title := utils.NormalizeSpace(req.Title)
	if title == "" {
		return invalid[MissionDTO]("title is required")
	}
	existing, err := h.Repo.GetByID(ctx, req.ID)
	if err != nil {
		return failureFrom[MissionDTO](err)
	}
	// Teachers may only touch their own missions; admins may touch any.
	if actor.Role != domain.RoleAdmin && existing.CreatedBy != actor.UserID {
		return dispatch.Failure[MissionDTO]("mission belongs to another teacher", domain.CodeForbidden), nil
	}
	m, err := h.Repo.Update(ctx, models.Mission{
		ID:          req.ID,
		Title:       title,
		Description: utils.TrimOrEmpty(req.Description),
		Points:      req.Points,
		BadgeID:     req.BadgeID,
		Active:      req.Active,
	})
	if err != nil {
		return failureFrom[MissionDTO](err)
	}
	m.CreatedBy = existing.CreatedBy
	m.CreatedAt = existing.CreatedAt
	return dispatch.SuccessMsg(toMissionDTO(m), "mission updated"), nil
}

func (h MissionHandlers) Delete(ctx context.Context, actor dispatch.Actor, req DeleteMissionRequest) (dispatch.Result[dispatch.Unit], error) {
	existing, err := h.Repo.GetByID(ctx, req.ID)
	if err != nil {
		return failureFrom[dispatch.Unit](err)
	}
	if actor.Role != domain.RoleAdmin && existing.CreatedBy != actor.UserID {
		return dispatch.Failure[dispatch.Unit]("mission belongs to another teacher", domain.CodeForbidden), nil
	}
	if err := h.Repo.Delete(ctx, req.ID); err != nil {
		return failureFrom[dispatch.Unit](err)
	}
	return dispatch.SuccessMsg(dispatch.Unit{}, "mission deleted"), nil
}

func (h MissionHandlers) Complete(ctx context.Context, actor dispatch.Actor, req CompleteMissionRequest) (dispatch.Result[CompletionDTO], error) {
	mission, err := h.Repo.GetByID(ctx, req.MissionID)
	if err != nil {
		return failureFrom[CompletionDTO](err)
	}
	if !mission.Active {
		return invalid[CompletionDTO]("mission is not active")
	}
	mc, err := h.Repo.Complete(ctx, req.MissionID, actor.UserID)
	if err != nil {
		return failureFrom[CompletionDTO](err)
	}
	utils.LogEvent(ctx, "missions", "complete", "user "+actor.UserID.String()+" completed mission "+req.MissionID.String())
	return dispatch.SuccessMsg(CompletionDTO{
		ID:           mc.ID,
		MissionID:    mc.MissionID,
		UserID:       mc.UserID,
		CompletedAt:  formatTime(mc.CompletedAt),
		PointsEarned: mission.Points,
		BadgeAwarded: mission.BadgeID,
	}, "mission completed"), nil
}
