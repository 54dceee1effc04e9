package repositories

import (
	"testing"
	"time"

	"frame-monitor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserResolveIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository()

	first, err := repo.Resolve(db, "alice", "10.0.0.1", "desk-01")
	require.NoError(t, err)
	second, err := repo.Resolve(db, "alice", "10.0.0.1", "desk-01")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := repo.Resolve(db, "alice", "10.0.0.1", "laptop-02")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestUserSessionResolveKeepsOriginalOwner(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository()
	sessions := NewUserSessionRepository()

	aliceID, err := users.Resolve(db, "alice", "10.0.0.1", "desk-01")
	require.NoError(t, err)
	bobID, err := users.Resolve(db, "bob", "10.0.0.2", "desk-02")
	require.NoError(t, err)

	sessionID := "8e140dd8-f921-4988-a91a-53cec6b3ad28"
	first, err := sessions.Resolve(db, sessionID, aliceID)
	require.NoError(t, err)
	second, err := sessions.Resolve(db, sessionID, bobID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var stored models.UserSession
	require.NoError(t, db.First(&stored, first).Error)
	assert.Equal(t, aliceID, stored.UserID)
}

func TestResolveTreatsRacingInsertAsExisting(t *testing.T) {
	db := newTestDB(t)
	userID, err := NewUserRepository().Resolve(db, "alice", "10.0.0.1", "desk-01")
	require.NoError(t, err)

	sessionID := "3f2b9c1e-6f53-4c55-9a5e-0f1d2c3b4a59"
	raced := false
	// A concurrent request slips its insert in between our lookup and insert.
	err = db.Callback().Create().Before("gorm:create").Register("test:race", func(d *gorm.DB) {
		if raced || d.Statement.Table != "user_sessions" {
			return
		}
		raced = true
		now := time.Now().UTC()
		d.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO user_sessions (session_id, user_id, created_at, updated_at) VALUES (?, ?, ?, ?)",
			sessionID, userID, now, now)
	})
	require.NoError(t, err)

	id, err := NewUserSessionRepository().Resolve(db, sessionID, userID)
	require.NoError(t, err)
	assert.True(t, raced)

	var rows []models.UserSession
	require.NoError(t, db.Where("session_id = ?", sessionID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, rows[0].ID, id)
}

func TestResolveRollsBackWithTransaction(t *testing.T) {
	db := newTestDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := NewUserRepository().Resolve(tx, "alice", "10.0.0.1", "desk-01")
		require.NoError(t, err)
		return gorm.ErrInvalidTransaction
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}
