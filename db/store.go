package db

import (
	"strings"

	"github.com/pkg/errors"
)

// Store holds users and their todos. Every method returns copies; callers
// never hold references into the store.
type Store interface {
	CreateUser(name, username string) (User, error)
	UserByID(id string) (User, error)
	UserByUsername(username string) (User, error)
	UpgradeToPro(id string) (User, error)

	// AddTodo appends todo to the user's list. admit is evaluated against
	// the live user under the store's lock before the append.
	AddTodo(userID string, todo Todo, admit func(User) error) (Todo, error)
	// UpdateTodo applies edit to the stored todo and returns the result.
	UpdateTodo(userID, todoID string, edit func(*Todo)) (Todo, error)
	RemoveTodo(userID, todoID string) error

	Close() error
}

// Open returns the store backend registered under driver.
func Open(driver string) (Store, error) {
	switch strings.ToLower(driver) {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite", "sqlite3":
		return NewSQLiteStore()
	default:
		return nil, errors.Errorf("unknown store driver %q", driver)
	}
}

func validateNewUser(name, username string) error {
	if strings.TrimSpace(name) == "" || username == "" {
		return BadRequest(msgIncompleteInput)
	}
	return nil
}
