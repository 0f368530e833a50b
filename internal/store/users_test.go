package store

import (
	"testing"

	"github.com/projethon/projethon/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterUser(t *testing.T) {
	setupTestDB(t)

	user, err := RegisterUser("alice", "Alice@Example.com", "secret123")
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email, "email is stored lowercase")
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestRegisterUser_Validation(t *testing.T) {
	setupTestDB(t)

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"short username", "ab", "ab@example.com", "secret123"},
		{"short password", "alice", "alice@example.com", "12345"},
		{"email without at", "alice", "alice.example.com", "secret123"},
		{"email without tld", "alice", "alice@example", "secret123"},
		{"email with spaces", "alice", "a lice@example.com", "secret123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RegisterUser(tt.username, tt.email, tt.password)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}
}

func TestRegisterUser_Conflict(t *testing.T) {
	setupTestDB(t)

	createTestUser(t, "alice")

	_, err := RegisterUser("alice", "other@example.com", "secret123")
	assert.ErrorIs(t, err, apperror.ErrConflict, "duplicate username")

	_, err = RegisterUser("someoneelse", "alice@example.com", "secret123")
	assert.ErrorIs(t, err, apperror.ErrConflict, "duplicate email")
}

func TestVerifyUser(t *testing.T) {
	setupTestDB(t)

	created := createTestUser(t, "alice")

	byUsername, err := VerifyUser("alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byUsername.ID)

	byEmail, err := VerifyUser("alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
}

func TestVerifyUser_UniformFailure(t *testing.T) {
	setupTestDB(t)

	createTestUser(t, "alice")

	_, unknownErr := VerifyUser("nobody", "secret123")
	require.ErrorIs(t, unknownErr, apperror.ErrAuth)

	_, wrongPassErr := VerifyUser("alice", "wrongpass")
	require.ErrorIs(t, wrongPassErr, apperror.ErrAuth)

	// Same message either way, so callers cannot probe for accounts.
	assert.Equal(t, unknownErr.Error(), wrongPassErr.Error())
}

func TestSearchUsers(t *testing.T) {
	setupTestDB(t)

	createTestUser(t, "alice")
	createTestUser(t, "alicia")
	createTestUser(t, "bob")

	results, err := SearchUsers("ali")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "alice", results[0].Username)
	assert.Equal(t, "alicia", results[1].Username)

	results, err = SearchUsers("ALI")
	require.NoError(t, err)
	assert.Len(t, results, 2, "matching is case-insensitive")
}

func TestSearchUsers_MinLengthAndCap(t *testing.T) {
	setupTestDB(t)

	for _, name := range []string{"usr01", "usr02", "usr03"} {
		createTestUser(t, name)
	}

	results, err := SearchUsers("u")
	require.NoError(t, err)
	assert.Empty(t, results, "queries under 2 characters match nothing")

	for i := 0; i < 25; i++ {
		createTestUser(t, "student"+string(rune('a'+i)))
	}

	results, err = SearchUsers("student")
	require.NoError(t, err)
	assert.Len(t, results, 20, "results are capped")
}

func TestUpdateProfile(t *testing.T) {
	setupTestDB(t)

	user := createTestUser(t, "alice")

	avatar := "/uploads/avatar-1.png"
	updated, err := UpdateProfile(user.ID, ProfileUpdate{
		FullName:  "Alice Liddell",
		Bio:       "Second-year student",
		AvatarURL: &avatar,
	})
	require.NoError(t, err)

	assert.Equal(t, "Alice Liddell", updated.FullName)
	assert.Equal(t, "Second-year student", updated.Bio)
	assert.Equal(t, avatar, updated.AvatarURL)
	assert.Equal(t, "alice", updated.Username, "empty username keeps the current one")

	// A later update without an avatar keeps the stored reference.
	updated, err = UpdateProfile(user.ID, ProfileUpdate{FullName: "Alice L."})
	require.NoError(t, err)
	assert.Equal(t, avatar, updated.AvatarURL)
}

func TestUpdateProfile_IdentityConflicts(t *testing.T) {
	setupTestDB(t)

	createTestUser(t, "alice")
	bob := createTestUser(t, "bob")

	_, err := UpdateProfile(bob.ID, ProfileUpdate{Username: "alice"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = UpdateProfile(bob.ID, ProfileUpdate{Email: "alice@example.com"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = UpdateProfile(bob.ID, ProfileUpdate{Email: "not-an-email"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	// Re-submitting your own identity is not a conflict.
	updated, err := UpdateProfile(bob.ID, ProfileUpdate{Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "bob", updated.Username)
}

func TestGetUserByID_NotFound(t *testing.T) {
	setupTestDB(t)

	_, err := GetUserByID(9999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
