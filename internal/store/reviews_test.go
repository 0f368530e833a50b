package store

import (
	"testing"
	"time"

	"github.com/projethon/projethon/db"
	"github.com/projethon/projethon/internal/apperror"
	"github.com/projethon/projethon/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertReview_InsertThenOverwrite(t *testing.T) {
	setupTestDB(t)
	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")
	project := createTestProject(t, alice.ID, "Thermostat PID")

	first, created, err := UpsertReview(project.ID, bob.ID, 4, "solid work")
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := UpsertReview(project.ID, bob.ID, 2, "found a bug")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID, "overwrite reuses the row")
	assert.Equal(t, 2, second.Rating)
	assert.Equal(t, "found a bug", second.Comment)

	var count int64
	db.DB.Model(&models.Review{}).
		Where("project_id = ? AND reviewer_id = ?", project.ID, bob.ID).
		Count(&count)
	assert.Equal(t, int64(1), count, "exactly one row per (project, reviewer)")
}

func TestUpsertReview_RatingBounds(t *testing.T) {
	setupTestDB(t)
	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")
	project := createTestProject(t, alice.ID, "Thermostat PID")

	for _, rating := range []int{0, 6, -1} {
		_, _, err := UpsertReview(project.ID, bob.ID, rating, "")
		assert.ErrorIs(t, err, apperror.ErrValidation, "rating %d", rating)
	}

	for _, rating := range []int{1, 5} {
		_, _, err := UpsertReview(project.ID, bob.ID, rating, "")
		assert.NoError(t, err, "rating %d", rating)
	}
}

func TestUpsertReview_MissingProject(t *testing.T) {
	setupTestDB(t)
	bob := createTestUser(t, "bob")

	_, _, err := UpsertReview(424242, bob.ID, 4, "")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpsertReview_OwnProjectAllowed(t *testing.T) {
	setupTestDB(t)
	alice := createTestUser(t, "alice")
	project := createTestProject(t, alice.ID, "Thermostat PID")

	_, created, err := UpsertReview(project.ID, alice.ID, 5, "I like my own work")
	require.NoError(t, err)
	assert.True(t, created)
}

func TestListReviews(t *testing.T) {
	setupTestDB(t)
	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")
	carol := createTestUser(t, "carol")
	project := createTestProject(t, alice.ID, "Thermostat PID")

	older, _, err := UpsertReview(project.ID, bob.ID, 3, "fine")
	require.NoError(t, err)
	require.NoError(t, db.DB.Model(&models.Review{}).
		Where("id = ?", older.ID).
		Update("created_at", time.Now().Add(-time.Hour)).Error)

	_, _, err = UpsertReview(project.ID, carol.ID, 5, "great")
	require.NoError(t, err)

	reviews, err := ListReviews(project.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)

	assert.Equal(t, "carol", reviews[0].ReviewerName, "newest first")
	assert.Equal(t, 5, reviews[0].Rating)
	assert.Equal(t, "bob", reviews[1].ReviewerName)

	empty, err := ListReviews(424242)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetMyReview(t *testing.T) {
	setupTestDB(t)
	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")
	project := createTestProject(t, alice.ID, "Thermostat PID")

	review, err := GetMyReview(project.ID, bob.ID)
	require.NoError(t, err)
	assert.Nil(t, review, "no review yet is nil, not an error")

	_, _, err = UpsertReview(project.ID, bob.ID, 4, "")
	require.NoError(t, err)

	review, err = GetMyReview(project.ID, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, review)
	assert.Equal(t, 4, review.Rating)
}
