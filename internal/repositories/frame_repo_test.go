package repositories

import (
	"testing"

	"frame-monitor/internal/apperr"
	"frame-monitor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRecordIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	first := seedFrame(t, db, "alice", "8e140dd8-f921-4988-a91a-53cec6b3ad28", "2020-10-10 10:10:10")
	second := seedFrame(t, db, "alice", "8e140dd8-f921-4988-a91a-53cec6b3ad28", "2020-10-10 10:10:10")
	assert.Equal(t, first, second)

	var frame models.Frame
	require.NoError(t, db.First(&frame, first).Error)
	assert.True(t, frame.FrameCreateTime.Equal(mustTime(t, "2020-10-10 10:10:10")))

	var count int64
	require.NoError(t, db.Model(&models.Frame{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestFetchBySessionAndOrdinal(t *testing.T) {
	db := newTestDB(t)
	session := "8e140dd8-f921-4988-a91a-53cec6b3ad28"

	// Inserted out of order on purpose.
	t3 := seedFrame(t, db, "alice", session, "2021-01-01 03:00:00")
	t1 := seedFrame(t, db, "alice", session, "2021-01-01 01:00:00")
	t2 := seedFrame(t, db, "alice", session, "2021-01-01 02:00:00")
	seedFrame(t, db, "bob", "c2d6d8e4-0a9f-4b3c-8d7e-1f2a3b4c5d6e", "2021-01-01 00:30:00")

	repo := NewFrameRepository()
	for ordinal, want := range map[int]uint{1: t1, 2: t2, 3: t3} {
		frame, err := repo.FetchBySessionAndOrdinal(db, session, ordinal)
		require.NoError(t, err)
		assert.Equal(t, want, frame.ID, "ordinal %d", ordinal)
	}

	frame, err := repo.FetchBySessionAndOrdinal(db, session, 2)
	require.NoError(t, err)
	assert.True(t, frame.FrameCreateTime.Equal(mustTime(t, "2021-01-01 02:00:00")))

	_, err = repo.FetchBySessionAndOrdinal(db, session, 4)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = repo.FetchBySessionAndOrdinal(db, session, 0)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = repo.FetchBySessionAndOrdinal(db, "00000000-0000-0000-0000-000000000000", 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestFetchAllSessionsSummary(t *testing.T) {
	db := newTestDB(t)
	bobSession := "c2d6d8e4-0a9f-4b3c-8d7e-1f2a3b4c5d6e"
	aliceSession := "8e140dd8-f921-4988-a91a-53cec6b3ad28"

	seedFrame(t, db, "bob", bobSession, "2020-10-10 10:25:10")
	seedFrame(t, db, "bob", bobSession, "2020-10-10 10:20:10")
	seedFrame(t, db, "alice", aliceSession, "2020-10-10 10:10:10")
	seedFrame(t, db, "alice", aliceSession, "2020-10-10 10:15:10")

	summaries, err := NewFrameRepository().FetchAllSessionsSummary(db)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	alice, bob := summaries[0], summaries[1]
	assert.Equal(t, "alice", alice.UserName)
	assert.Equal(t, aliceSession, alice.SessionID)
	assert.Equal(t, "machine-alice", alice.MachineName)
	assert.True(t, alice.StartTime.Equal(mustTime(t, "2020-10-10 10:10:10")))
	assert.True(t, alice.EndTime.Equal(mustTime(t, "2020-10-10 10:15:10")))

	assert.Equal(t, "bob", bob.UserName)
	assert.True(t, bob.StartTime.Equal(mustTime(t, "2020-10-10 10:20:10")))
	assert.True(t, bob.EndTime.Equal(mustTime(t, "2020-10-10 10:25:10")))
	assert.NotEqual(t, alice.UserID, bob.UserID)
}
