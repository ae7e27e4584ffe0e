package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"auth-service/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/umakantv/go-utils/cache"
)

var (
	// ErrDuplicateEmail is returned by Create when the email is already
	// registered. The UNIQUE index on users.email is the enforcement
	// mechanism; callers' find-then-create checks are advisory only.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrNotFound is returned by updates that affect zero rows.
	ErrNotFound = errors.New("user not found")
)

const usersListCacheKey = "users:list"

// UserStore is the persistence layer for user records, backed by sqlx.
// The full user list is served cache-aside; cached entries are sanitized
// by User's JSON encoding, so password hashes never reach the cache.
type UserStore struct {
	db    *sqlx.DB
	cache cache.Cache
}

// NewUserStore creates a UserStore. The cache may be nil, in which case
// every read goes to the database.
func NewUserStore(db *sqlx.DB, cache cache.Cache) *UserStore {
	return &UserStore{db: db, cache: cache}
}

// FindByEmail returns the user with the given email, or nil when absent.
// Lookup is case-sensitive, matching how emails are stored.
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Get(&user, "SELECT id, full_name, email, password, role, created_at, updated_at FROM users WHERE email = ?", email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID returns the user with the given id, or nil when absent.
func (s *UserStore) FindByID(id string) (*models.User, error) {
	var user models.User
	err := s.db.Get(&user, "SELECT id, full_name, email, password, role, created_at, updated_at FROM users WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user with a generated id and returns it. A UNIQUE
// violation on email surfaces as ErrDuplicateEmail, which also covers the
// race where two concurrent signups pass the caller's pre-check.
func (s *UserStore) Create(fullName, email, passwordHash string, role models.Role) (*models.User, error) {
	now := time.Now().UTC()
	user := &models.User{
		ID:        uuid.New().String(),
		FullName:  fullName,
		Email:     email,
		Password:  passwordHash,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.Exec("INSERT INTO users (id, full_name, email, password, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.FullName, user.Email, user.Password, user.Role, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	s.invalidateList()
	return user, nil
}

// UpdateFields applies only the provided fields and returns the updated
// user. Zero rows affected means the record does not exist.
func (s *UserStore) UpdateFields(id string, req *models.UpdateProfileRequest) (*models.User, error) {
	setParts := []string{}
	args := []interface{}{}

	if req.FullName != nil {
		setParts = append(setParts, "full_name = ?")
		args = append(args, *req.FullName)
	}
	if req.Email != nil {
		setParts = append(setParts, "email = ?")
		args = append(args, *req.Email)
	}
	if len(setParts) == 0 {
		return nil, ErrNotFound
	}

	setParts = append(setParts, "updated_at = ?")
	args = append(args, time.Now().UTC())
	args = append(args, id)

	query := "UPDATE users SET " + strings.Join(setParts, ", ") + " WHERE id = ?"
	result, err := s.db.Exec(query, args...)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	s.invalidateList()
	return s.FindByID(id)
}

// UpdatePasswordHash replaces the stored password hash for the user.
func (s *UserStore) UpdatePasswordHash(id, newHash string) error {
	result, err := s.db.Exec("UPDATE users SET password = ?, updated_at = ? WHERE id = ?", newHash, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	s.invalidateList()
	return nil
}

// ListAll returns every user ordered by creation time. There is no
// pagination; the service assumes a small user population. Results are
// served cache-aside and never include password hashes on the cached path.
func (s *UserStore) ListAll() ([]models.User, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(usersListCacheKey); err == nil {
			if users, ok := decodeUserList(cached); ok {
				return users, nil
			}
		}
	}

	users := []models.User{}
	err := s.db.Select(&users, "SELECT id, full_name, email, password, role, created_at, updated_at FROM users ORDER BY created_at")
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		// User's JSON encoding drops the password field, so the cached
		// copy is already sanitized.
		if encoded, err := json.Marshal(users); err == nil {
			s.cache.Set(usersListCacheKey, encoded, 5*time.Minute)
		}
	}

	return users, nil
}

func (s *UserStore) invalidateList() {
	if s.cache != nil {
		s.cache.Delete(usersListCacheKey)
	}
}

// decodeUserList tolerates both []byte and string values, which is what
// the cache returns depending on the redis/memory backend.
func decodeUserList(v interface{}) ([]models.User, bool) {
	var raw []byte
	switch data := v.(type) {
	case []byte:
		raw = data
	case string:
		raw = []byte(data)
	default:
		return nil, false
	}
	var users []models.User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, false
	}
	return users, true
}
