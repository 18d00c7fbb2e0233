package models

import (
	"time"

	"edubackend/internal/domain"
)

// User is a platform account. PasswordHash never leaves the repository
// layer except for credential checks.
type User struct {
	ID           domain.ID
	Name         string
	Email        string
	PasswordHash string
	Role         domain.Role
	Status       string
	CreatedAt    time.Time
}

// Announcement is published by admins and read by everyone.
type Announcement struct {
	ID        domain.ID
	Title     string
	Body      string
	Audience  string
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Badge is an achievement students earn by completing missions.
type Badge struct {
	ID          domain.ID
	Name        string
	Description string
	Icon        string
	CreatedAt   time.Time
}

// Mission is authored by a teacher; completing it may award a badge.
type Mission struct {
	ID          domain.ID
	Title       string
	Description string
	Points      int
	BadgeID     domain.ID // 0 when the mission awards no badge
	Active      bool
	CreatedBy   domain.ID
	CreatedAt   time.Time
}

// MissionCompletion records that a student finished a mission.
// (mission_id, user_id) is unique.
type MissionCompletion struct {
	ID          domain.ID
	MissionID   domain.ID
	UserID      domain.ID
	CompletedAt time.Time
}

// CPDRecord is a teacher's continuing-professional-development entry.
type CPDRecord struct {
	ID           domain.ID
	UserID       domain.ID
	Activity     string
	Hours        float64
	ActivityDate string
	CreatedAt    time.Time
}
