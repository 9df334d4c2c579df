package db

import (
	"errors"
	"sort"
	"sync"

	"github.com/EO-DataHub/eodhp-user-admin/models"
	"github.com/rs/zerolog"
)

var ErrUserNotFound = errors.New("user not found")

// UserDB is the in-memory user store behind the mock user API. It is safe
// for concurrent use.
type UserDB struct {
	mu     sync.RWMutex
	users  map[int]models.User
	nextID int
	Log    *zerolog.Logger
}

// NewUserDB is a constructor that initializes an empty UserDB.
func NewUserDB(log *zerolog.Logger) *UserDB {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &UserDB{
		users:  make(map[int]models.User),
		nextID: 1,
		Log:    log,
	}
}

// InsertUser stores a new user. A zero ID is assigned the next free id.
func (u *UserDB) InsertUser(user models.User) models.User {
	u.mu.Lock()
	defer u.mu.Unlock()

	if user.ID == 0 {
		user.ID = u.nextID
	}
	if user.ID >= u.nextID {
		u.nextID = user.ID + 1
	}
	u.users[user.ID] = user.Clone()

	u.Log.Debug().Int("user_id", user.ID).Msg("user inserted")
	return user
}

// ListUsers returns every user, newest first, and the total count.
func (u *UserDB) ListUsers() (int, []models.User) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	users := make([]models.User, 0, len(u.users))
	for _, user := range u.users {
		users = append(users, user.Clone())
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt.Time) {
			return users[i].CreatedAt.After(users[j].CreatedAt.Time)
		}
		return users[i].ID < users[j].ID
	})
	return len(users), users
}

// GetUser returns a single user.
func (u *UserDB) GetUser(id int) (models.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	user, ok := u.users[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return user.Clone(), nil
}

// UpdateUser replaces an existing user. A zero CreatedAt keeps the stored one.
func (u *UserDB) UpdateUser(user models.User) (models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	existing, ok := u.users[user.ID]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = existing.CreatedAt
	}
	u.users[user.ID] = user.Clone()

	u.Log.Debug().Int("user_id", user.ID).Msg("user updated")
	return user, nil
}

// DeleteUser removes a user.
func (u *UserDB) DeleteUser(id int) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if _, ok := u.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(u.users, id)

	u.Log.Debug().Int("user_id", id).Msg("user deleted")
	return nil
}

// SetStatus sets the status of a user and returns the result.
func (u *UserDB) SetStatus(id int, status models.Status) (models.User, error) {
	return u.modifyStatus(id, func(models.Status) models.Status { return status })
}

// ToggleStatus flips a user between active and inactive.
func (u *UserDB) ToggleStatus(id int) (models.User, error) {
	return u.modifyStatus(id, models.Status.Toggle)
}

func (u *UserDB) modifyStatus(id int, next func(models.Status) models.Status) (models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	user, ok := u.users[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	user.Status = next(user.Status)
	u.users[id] = user

	u.Log.Debug().Int("user_id", id).Str("status", string(user.Status)).Msg("user status changed")
	return user.Clone(), nil
}
