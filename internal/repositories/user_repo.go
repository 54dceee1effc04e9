package repositories

import (
	"fmt"

	"frame-monitor/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// Resolve returns the id of the user with this natural key, creating it if needed.
func (r *UserRepository) Resolve(tx *gorm.DB, name, ip, machineName string) (uint, error) {
	user := models.User{Name: name, IP: ip, MachineName: machineName}
	err := resolveOrCreate(tx, &user,
		"name = ? AND ip = ? AND machine_name = ?", name, ip, machineName)
	if err != nil {
		return 0, fmt.Errorf("resolve user %q: %w", name, err)
	}
	return user.ID, nil
}

type UserSessionRepository struct{}

func NewUserSessionRepository() *UserSessionRepository {
	return &UserSessionRepository{}
}

// Resolve looks the session up by its UUID alone; userID is only written on insert.
func (r *UserSessionRepository) Resolve(tx *gorm.DB, sessionID string, userID uint) (uint, error) {
	session := models.UserSession{SessionID: sessionID, UserID: userID}
	if err := resolveOrCreate(tx, &session, "session_id = ?", sessionID); err != nil {
		return 0, fmt.Errorf("resolve user session %s: %w", sessionID, err)
	}
	return session.ID, nil
}
