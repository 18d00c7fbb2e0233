package app

import (
	"context"

	"edubackend/internal/dispatch"
	"edubackend/internal/domain"
	"edubackend/internal/domain/models"
	"edubackend/internal/repositories"
	"edubackend/internal/utils"
)

type UserDTO struct {
	ID        domain.ID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt string    `json:"createdAt"`
}

func toUserDTO(u models.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Status:    u.Status,
		CreatedAt: formatTime(u.CreatedAt),
	}
}

type ListUsersRequest struct {
	dispatch.PageRequest
}

func (ListUsersRequest) RequestName() string { return "users.list" }

type UpdateUserRoleRequest struct {
	UserID domain.ID `json:"-"`
	Role   string    `json:"role"`
}

func (UpdateUserRoleRequest) RequestName() string { return "users.updateRole" }

type UserHandlers struct {
	Repo repositories.UserRepository
}

func (h UserHandlers) Register(m *dispatch.Mux) error {
	if err := dispatch.Register(m, h.List); err != nil {
		return err
	}
	return dispatch.Register(m, h.UpdateRole)
}

func (h UserHandlers) List(ctx context.Context, actor dispatch.Actor, req ListUsersRequest) (dispatch.Result[dispatch.PageResult[UserDTO]], error) {
	items, total, err := h.Repo.List(ctx, req.PageRequest)
	if err != nil {
		return failureFrom[dispatch.PageResult[UserDTO]](err)
	}
	dtos := make([]UserDTO, 0, len(items))
	for _, u := range items {
		dtos = append(dtos, toUserDTO(u))
	}
	return dispatch.Success(dispatch.NewPageResult(dtos, total, req.PageRequest)), nil
}

func (h UserHandlers) UpdateRole(ctx context.Context, actor dispatch.Actor, req UpdateUserRoleRequest) (dispatch.Result[dispatch.Unit], error) {
	role := domain.Role(req.Role)
	if role != domain.RoleAdmin && role != domain.RoleTeacher && role != domain.RoleStudent {
		return invalid[dispatch.Unit]("unknown role")
	}
	if req.UserID == actor.UserID {
		return dispatch.Failure[dispatch.Unit]("cannot change own role", domain.CodeConflict), nil
	}
	if err := h.Repo.UpdateRole(ctx, req.UserID, role); err != nil {
		return failureFrom[dispatch.Unit](err)
	}
	utils.LogEvent(ctx, "users", "update_role", "user "+req.UserID.String()+" is now "+string(role))
	return dispatch.SuccessMsg(dispatch.Unit{}, "role updated"), nil
}
