package app

import (
	"context"
	"strings"
	"time"

	"edubackend/internal/auth"
	"edubackend/internal/dispatch"
	"edubackend/internal/domain"
	"edubackend/internal/domain/models"
	"edubackend/internal/repositories"
	"edubackend/internal/utils"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (LoginRequest) RequestName() string { return "auth.login" }

type LoginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (RegisterRequest) RequestName() string { return "auth.register" }

// AuthHandlers owns credential issuing. Token parsing lives in the auth
// package; these handlers only produce tokens after a password check.
type AuthHandlers struct {
	Users    repositories.UserRepository
	Secret   []byte
	TokenTTL time.Duration
}

func (h AuthHandlers) Register(m *dispatch.Mux) error {
	if err := dispatch.Register(m, h.Login); err != nil {
		return err
	}
	return dispatch.Register(m, h.SignUp)
}

func (h AuthHandlers) Login(ctx context.Context, actor dispatch.Actor, req LoginRequest) (dispatch.Result[LoginResponse], error) {
	email := strings.ToLower(utils.TrimOrEmpty(req.Email))
	if email == "" || req.Password == "" {
		return invalid[LoginResponse]("email and password are required")
	}

	user, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			// Same message as a wrong password so the response does not
			// reveal which accounts exist.
			return dispatch.Failure[LoginResponse]("invalid email or password", domain.CodeUnauthorized), nil
		}
		return dispatch.Result[LoginResponse]{}, err
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return dispatch.Failure[LoginResponse]("invalid email or password", domain.CodeUnauthorized), nil
	}

	token, err := auth.IssueToken(h.Secret, user, h.TokenTTL)
	if err != nil {
		return dispatch.Result[LoginResponse]{}, err
	}
	return dispatch.Success(LoginResponse{Token: token, User: toUserDTO(user)}), nil
}

func (h AuthHandlers) SignUp(ctx context.Context, actor dispatch.Actor, req RegisterRequest) (dispatch.Result[UserDTO], error) {
	name := utils.NormalizeSpace(req.Name)
	email := strings.ToLower(utils.TrimOrEmpty(req.Email))
	switch {
	case name == "":
		return invalid[UserDTO]("name is required")
	case email == "" || !strings.Contains(email, "@"):
		return invalid[UserDTO]("a valid email is required")
	case len(req.Password) < 8:
		return invalid[UserDTO]("password must be at least 8 characters")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return dispatch.Result[UserDTO]{}, err
	}
	user, err := h.Users.Create(ctx, models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleStudent,
		Status:       "active",
	})
	if err != nil {
		return failureFrom[UserDTO](err)
	}
	utils.LogEvent(ctx, "auth", "register", "account "+user.ID.String()+" created")
	return dispatch.SuccessMsg(toUserDTO(user), "registration successful"), nil
}
