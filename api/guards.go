package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"TodoPlans/db"
)

// Guards resolve what a handler needs from the request or fail with a typed
// error. Handlers call them in order and stop at the first failure.

// userByID resolves the {id} path variable to a user.
func (a *API) userByID(r *http.Request) (db.User, error) {
	return a.Store.UserByID(mux.Vars(r)["id"])
}

// authenticate resolves the username header to a user. It is a lookup, not
// a credential check.
func (a *API) authenticate(r *http.Request) (db.User, error) {
	return a.Store.UserByUsername(r.Header.Get(UsernameHeader))
}

// checkQuota admits the user if their plan has room for another todo.
func checkQuota(user db.User) error {
	if !user.CanAddTodo() {
		return db.ErrQuotaReached
	}
	return nil
}

// resolveTodo checks, in order, that the user exists, that {id} is a
// well-formed UUID and that the user owns a todo with that id.
func (a *API) resolveTodo(r *http.Request) (db.User, db.Todo, error) {
	user, err := a.authenticate(r)
	if err != nil {
		if db.IsNotFound(err) {
			return db.User{}, db.Todo{}, db.NotFound("User not found")
		}
		return db.User{}, db.Todo{}, err
	}

	id := mux.Vars(r)["id"]
	if !validID(id) {
		return db.User{}, db.Todo{}, db.BadRequest("Id not validated")
	}

	todo, ok := user.FindTodo(id)
	if !ok {
		return db.User{}, db.Todo{}, db.NotFound("Todo not found")
	}
	return user, todo, nil
}

// validID accepts the canonical 36-character form of an RFC 4122 UUID
// (versions 1 to 5) or the nil UUID.
func validID(id string) bool {
	if len(id) != 36 {
		return false
	}
	u, err := uuid.Parse(id)
	if err != nil {
		return false
	}
	if u == uuid.Nil {
		return true
	}
	return u.Variant() == uuid.RFC4122 && u.Version() >= 1 && u.Version() <= 5
}
