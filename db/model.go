package db

import (
	"time"

	"github.com/google/uuid"
)

// FreeTodoLimit is the most todos a user on the free plan may hold.
const FreeTodoLimit = 10

// User is a registered account and the todos it owns.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Pro      bool   `json:"pro"`
	Todos    []Todo `json:"todos"`
}

// Todo is a single task owned by exactly one user.
type Todo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Deadline  time.Time `json:"deadline"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
}

// CanAddTodo reports whether the user's plan admits one more todo.
func (u User) CanAddTodo() bool {
	return u.Pro || len(u.Todos) < FreeTodoLimit
}

// FindTodo returns the todo with the given id from the user's list.
func (u User) FindTodo(id string) (Todo, bool) {
	for _, todo := range u.Todos {
		if todo.ID == id {
			return todo, true
		}
	}
	return Todo{}, false
}

// NewTodo builds an open todo stamped with the current time.
func NewTodo(title string, deadline time.Time) Todo {
	return Todo{
		ID:        newID(),
		Title:     title,
		Deadline:  deadline,
		Done:      false,
		CreatedAt: time.Now().UTC(),
	}
}

func newID() string {
	return uuid.New().String()
}

// clone copies the user so callers never share the store's todo slice.
func (u User) clone() User {
	todos := make([]Todo, len(u.Todos))
	copy(todos, u.Todos)
	u.Todos = todos
	return u
}
