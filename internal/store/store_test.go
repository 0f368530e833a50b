package store

import (
	"errors"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/projethon/projethon/db"
	"github.com/projethon/projethon/internal/auth"
	"github.com/projethon/projethon/internal/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// setupTestDB points the global handle at a fresh in-memory database.
// MaxOpenConns(1) keeps the pool on the single connection that owns the
// in-memory file.
func setupTestDB(t *testing.T) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db.DB = gdb
	require.NoError(t, db.MigrateDatabase())

	auth.SetBcryptCostForTest(bcrypt.MinCost)

	t.Cleanup(func() {
		db.DB = nil
		sqlDB.Close()
	})
}

func createTestUser(t *testing.T, username string) *models.User {
	t.Helper()

	user, err := RegisterUser(username, username+"@example.com", "secret123")
	require.NoError(t, err)
	return user
}

// recordingSink captures Store/Remove calls so tests can assert on sink
// interplay without touching the filesystem.
type recordingSink struct {
	mu        sync.Mutex
	stored    []string
	removed   []string
	failStore bool
}

func newRecordingSink() *recordingSink {
	return &recordingSink{}
}

func (s *recordingSink) Store(data []byte, mimeType, ownerKey string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failStore {
		return "", errors.New("sink unavailable")
	}

	ref := "/uploads/" + ownerKey
	s.stored = append(s.stored, ref)
	return ref, nil
}

func (s *recordingSink) Remove(reference string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, reference)
}

func createTestProject(t *testing.T, authorID uint, title string) *models.Project {
	t.Helper()

	project, _, err := CreateProject(authorID, ProjectInput{
		Title:       title,
		Description: "A description long enough to pass validation",
	}, nil, nil)
	require.NoError(t, err)
	return project
}
