package app

import (
	"database/sql"
	"time"

	"edubackend/internal/dispatch"
	"edubackend/internal/repositories"
	"edubackend/internal/services"
)

// Handlers groups every feature's handler set for one-shot registration.
type Handlers struct {
	Announcements AnnouncementHandlers
	Badges        BadgeHandlers
	Missions      MissionHandlers
	CPD           CPDHandlers
	Users         UserHandlers
	Auth          AuthHandlers
}

func NewHandlers(db *sql.DB, jwtSecret []byte, tokenTTL time.Duration) Handlers {
	users := repositories.UserRepository{DB: db}
	return Handlers{
		Announcements: AnnouncementHandlers{Repo: repositories.AnnouncementRepository{DB: db}},
		Badges:        BadgeHandlers{Repo: repositories.BadgeRepository{DB: db}},
		Missions:      MissionHandlers{Repo: repositories.MissionRepository{DB: db}},
		CPD: CPDHandlers{
			Repo:  repositories.CPDRepository{DB: db},
			Users: users,
			Certs: services.CertificateService{},
		},
		Users: UserHandlers{Repo: users},
		Auth:  AuthHandlers{Users: users, Secret: jwtSecret, TokenTTL: tokenTTL},
	}
}

// RegisterAll fills the mux. Any registration error is a configuration
// defect; the caller refuses to start on it.
func (h Handlers) RegisterAll(m *dispatch.Mux) error {
	if err := h.Announcements.Register(m); err != nil {
		return err
	}
	if err := h.Badges.Register(m); err != nil {
		return err
	}
	if err := h.Missions.Register(m); err != nil {
		return err
	}
	if err := h.CPD.Register(m); err != nil {
		return err
	}
	if err := h.Users.Register(m); err != nil {
		return err
	}
	return h.Auth.Register(m)
}
