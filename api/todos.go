package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"TodoPlans/db"
)

type todoRequest struct {
	Title    string `json:"title"`
	Deadline string `json:"deadline"`
}

var deadlineLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseDeadline accepts an ISO-8601 timestamp or a bare date. Values
// without a zone are read as UTC.
func parseDeadline(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, db.BadRequest("Invalid deadline")
}

func (a *API) ListTodos(w http.ResponseWriter, r *http.Request) error {
	user, err := a.authenticate(r)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, user.Todos)
	return nil
}

func (a *API) CreateTodo(w http.ResponseWriter, r *http.Request) error {
	user, err := a.authenticate(r)
	if err != nil {
		return err
	}
	if err := checkQuota(user); err != nil {
		return err
	}

	var input todoRequest
	if err := decodeBody(r, &input); err != nil {
		return err
	}
	deadline, err := parseDeadline(input.Deadline)
	if err != nil {
		return err
	}

	todo, err := a.Store.AddTodo(user.ID, db.NewTodo(input.Title, deadline), checkQuota)
	if err != nil {
		return err
	}

	a.Logger.WithFields(logrus.Fields{"user_id": user.ID, "todo_id": todo.ID}).Info("todo created")
	writeJSON(w, http.StatusCreated, todo)
	return nil
}

func (a *API) EditTodo(w http.ResponseWriter, r *http.Request) error {
	user, todo, err := a.resolveTodo(r)
	if err != nil {
		return err
	}

	var input todoRequest
	if err := decodeBody(r, &input); err != nil {
		return err
	}

	var deadline time.Time
	if input.Deadline != "" {
		if deadline, err = parseDeadline(input.Deadline); err != nil {
			return err
		}
	}

	todo, err = a.Store.UpdateTodo(user.ID, todo.ID, func(t *db.Todo) {
		if input.Title != "" {
			t.Title = input.Title
		}
		if input.Deadline != "" {
			t.Deadline = deadline
		}
	})
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, todo)
	return nil
}

func (a *API) CompleteTodo(w http.ResponseWriter, r *http.Request) error {
	user, todo, err := a.resolveTodo(r)
	if err != nil {
		return err
	}

	todo, err = a.Store.UpdateTodo(user.ID, todo.ID, func(t *db.Todo) {
		t.Done = true
	})
	if err != nil {
		return err
	}

	a.Logger.WithFields(logrus.Fields{"user_id": user.ID, "todo_id": todo.ID}).Info("todo completed")
	writeJSON(w, http.StatusOK, todo)
	return nil
}

func (a *API) DeleteTodo(w http.ResponseWriter, r *http.Request) error {
	if _, err := a.authenticate(r); err != nil {
		return err
	}
	user, todo, err := a.resolveTodo(r)
	if err != nil {
		return err
	}

	if err := a.Store.RemoveTodo(user.ID, todo.ID); err != nil {
		return err
	}

	a.Logger.WithFields(logrus.Fields{"user_id": user.ID, "todo_id": todo.ID}).Info("todo deleted")
	w.WriteHeader(http.StatusNoContent)
	return nil
}
