package store

import (
	"testing"

	"auth-service/models"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
CREATE TABLE users (
    id TEXT PRIMARY KEY,
    full_name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'user',
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);`

func newTestStore(t *testing.T) *UserStore {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	return NewUserStore(db, nil)
}

func TestCreateAndFind(t *testing.T) {
	s := newTestStore(t)

	created, err := s.Create("Test User", "test@example.com", "hashed-pw", models.RoleUser)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, models.RoleUser, created.Role)

	byEmail, err := s.FindByEmail("test@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, "hashed-pw", byEmail.Password)

	byID, err := s.FindByID(created.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "test@example.com", byID.Email)
}

func TestFindAbsentReturnsNil(t *testing.T) {
	s := newTestStore(t)

	user, err := s.FindByEmail("missing@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = s.FindByID("missing-id")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestCreateDuplicateEmail(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Create("Test User", "test@example.com", "hash1", models.RoleUser)
	require.NoError(t, err)

	_, err = s.Create("Other User", "test@example.com", "hash2", models.RoleUser)
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUpdateFieldsPartial(t *testing.T) {
	s := newTestStore(t)

	created, err := s.Create("Test User", "test@example.com", "hash", models.RoleUser)
	require.NoError(t, err)

	name := "Updated Name"
	updated, err := s.UpdateFields(created.ID, &models.UpdateProfileRequest{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Updated Name", updated.FullName)
	// Email untouched by a name-only update.
	assert.Equal(t, "test@example.com", updated.Email)
}

func TestUpdateFieldsNotFound(t *testing.T) {
	s := newTestStore(t)

	name := "Name"
	_, err := s.UpdateFields("missing-id", &models.UpdateProfileRequest{FullName: &name})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateFieldsDuplicateEmail(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Create("First", "first@example.com", "hash", models.RoleUser)
	require.NoError(t, err)
	second, err := s.Create("Second", "second@example.com", "hash", models.RoleUser)
	require.NoError(t, err)

	taken := "first@example.com"
	_, err = s.UpdateFields(second.ID, &models.UpdateProfileRequest{Email: &taken})
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUpdatePasswordHash(t *testing.T) {
	s := newTestStore(t)

	created, err := s.Create("Test User", "test@example.com", "old-hash", models.RoleUser)
	require.NoError(t, err)

	require.NoError(t, s.UpdatePasswordHash(created.ID, "new-hash"))

	reloaded, err := s.FindByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", reloaded.Password)

	require.ErrorIs(t, s.UpdatePasswordHash("missing-id", "hash"), ErrNotFound)
}

func TestListAll(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Create("User One", "one@example.com", "hash", models.RoleUser)
	require.NoError(t, err)
	_, err = s.Create("Admin", "admin@example.com", "hash", models.RoleAdmin)
	require.NoError(t, err)

	users, err := s.ListAll()
	require.NoError(t, err)
	require.Len(t, users, 2)

	emails := []string{users[0].Email, users[1].Email}
	assert.Contains(t, emails, "one@example.com")
	assert.Contains(t, emails, "admin@example.com")
}

func TestDecodeUserList(t *testing.T) {
	users := []models.User{{ID: "u1", Email: "a@b.co", Role: models.RoleUser}}

	// The cache may hand back either bytes or a string.
	raw := `[{"id":"u1","full_name":"","email":"a@b.co","role":"user","created_at":"0001-01-01T00:00:00Z","updated_at":"0001-01-01T00:00:00Z"}]`

	decoded, ok := decodeUserList([]byte(raw))
	require.True(t, ok)
	assert.Equal(t, users[0].ID, decoded[0].ID)

	decoded, ok = decodeUserList(raw)
	require.True(t, ok)
	assert.Equal(t, users[0].Email, decoded[0].Email)

	_, ok = decodeUserList(42)
	assert.False(t, ok)
	_, ok = decodeUserList([]byte("not json"))
	assert.False(t, ok)
}
