package db

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestCanAddTodo(t *testing.T) {
	full := make([]Todo, FreeTodoLimit)

	tests := []struct {
		name string
		user User
		want bool
	}{
		{"free with room", User{Todos: full[:FreeTodoLimit-1]}, true},
		{"free at limit", User{Todos: full}, false},
		{"pro at limit", User{Pro: true, Todos: full}, true},
		{"pro over limit", User{Pro: true, Todos: append(full, Todo{})}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.CanAddTodo())
		})
	}
}

func TestNewTodo(t *testing.T) {
	deadline := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	todo := NewTodo("write tests", deadline)

	id, err := uuid.Parse(todo.ID)
	assert.NoError(t, err)
	assert.Equal(t, uuid.Version(4), id.Version())
	assert.Equal(t, "write tests", todo.Title)
	assert.Equal(t, deadline, todo.Deadline)
	assert.False(t, todo.Done)
	assert.WithinDuration(t, time.Now(), todo.CreatedAt, time.Minute)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("x")))
	assert.Equal(t, KindConflict, KindOf(errors.Wrap(Conflict("x"), "wrapped")))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(nil))
	assert.Equal(t, "forbidden", KindForbidden.String())
}
