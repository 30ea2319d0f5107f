package db

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// SQLiteStore keeps users and todos in a private in-memory SQLite database.
// The pool is pinned to one connection: each ":memory:" connection would
// otherwise see its own empty database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database and creates the tables.
func NewSQLiteStore() (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		return nil, errors.Wrap(err, "unable to open database")
	}
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "unable to reach database")
	}

	s := &SQLiteStore{db: conn}
	if err := s.createTables(); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "unable to create tables")
	}
	return s, nil
}

func (s *SQLiteStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		username TEXT UNIQUE NOT NULL,
		pro INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS todos (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT UNIQUE NOT NULL,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		deadline TEXT NOT NULL,
		done INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id)
	);

	CREATE INDEX IF NOT EXISTS idx_todos_user_id ON todos(user_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func timeToString(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func stringToTime(v string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, v)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRow(query string, args ...interface{}) *sql.Row
	Query(query string, args ...interface{}) (*sql.Rows, error)
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func (s *SQLiteStore) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "unable to begin transaction")
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "unable to commit transaction")
}

func (s *SQLiteStore) CreateUser(name, username string) (User, error) {
	if err := validateNewUser(name, username); err != nil {
		return User{}, err
	}

	user := User{ID: newID(), Name: name, Username: username, Todos: []Todo{}}
	err := s.withTx(func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM users WHERE username = ?`, username).Scan(&count); err != nil {
			return errors.Wrap(err, "unable to check username")
		}
		if count > 0 {
			return Conflict(msgUsernameTaken)
		}
		_, err := tx.Exec(`INSERT INTO users (id, name, username, pro) VALUES (?, ?, ?, 0)`,
			user.ID, user.Name, user.Username)
		return errors.Wrap(err, "unable to insert user")
	})
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func loadUser(q queryer, column, value string) (User, error) {
	var user User
	var pro int
	err := q.QueryRow(`SELECT id, name, username, pro FROM users WHERE `+column+` = ?`, value).
		Scan(&user.ID, &user.Name, &user.Username, &pro)
	if err == sql.ErrNoRows {
		return User{}, NotFound(msgUserNotFound)
	} else if err != nil {
		return User{}, errors.Wrap(err, "unable to load user")
	}
	user.Pro = pro == 1

	user.Todos, err = loadTodos(q, user.ID)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func loadTodos(q queryer, userID string) ([]Todo, error) {
	rows, err := q.Query(`
	SELECT id, title, deadline, done, created_at
	FROM todos
	WHERE user_id = ?
	ORDER BY seq ASC
	`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load todos")
	}
	defer rows.Close()

	todos := []Todo{}
	for rows.Next() {
		var todo Todo
		var done int
		var deadline, createdAt string
		if err := rows.Scan(&todo.ID, &todo.Title, &deadline, &done, &createdAt); err != nil {
			return nil, errors.Wrap(err, "unable to scan todo")
		}
		todo.Done = done == 1
		if todo.Deadline, err = stringToTime(deadline); err != nil {
			return nil, errors.Wrapf(err, "todo %s has a corrupt deadline", todo.ID)
		}
		if todo.CreatedAt, err = stringToTime(createdAt); err != nil {
			return nil, errors.Wrapf(err, "todo %s has a corrupt creation time", todo.ID)
		}
		todos = append(todos, todo)
	}
	return todos, errors.Wrap(rows.Err(), "unable to read todos")
}

func (s *SQLiteStore) UserByID(id string) (User, error) {
	return loadUser(s.db, "id", id)
}

func (s *SQLiteStore) UserByUsername(username string) (User, error) {
	return loadUser(s.db, "username", username)
}

func (s *SQLiteStore) UpgradeToPro(id string) (User, error) {
	var user User
	err := s.withTx(func(tx *sql.Tx) error {
		var err error
		if user, err = loadUser(tx, "id", id); err != nil {
			return err
		}
		if user.Pro {
			return BadRequest(msgAlreadyPro)
		}
		if _, err := tx.Exec(`UPDATE users SET pro = 1 WHERE id = ?`, id); err != nil {
			return errors.Wrap(err, "unable to upgrade user")
		}
		user.Pro = true
		return nil
	})
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func saveTodo(q queryer, userID string, todo Todo) error {
	_, err := q.Exec(`
	INSERT INTO todos (id, user_id, title, deadline, done, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`, todo.ID, userID, todo.Title, timeToString(todo.Deadline), boolToInt(todo.Done), timeToString(todo.CreatedAt))
	return errors.Wrap(err, "unable to insert todo")
}

func (s *SQLiteStore) AddTodo(userID string, todo Todo, admit func(User) error) (Todo, error) {
	err := s.withTx(func(tx *sql.Tx) error {
		user, err := loadUser(tx, "id", userID)
		if err != nil {
			return err
		}
		if admit != nil {
			if err := admit(user); err != nil {
				return err
			}
		}
		return saveTodo(tx, userID, todo)
	})
	if err != nil {
		return Todo{}, err
	}
	return todo, nil
}

func (s *SQLiteStore) UpdateTodo(userID, todoID string, edit func(*Todo)) (Todo, error) {
	var todo Todo
	err := s.withTx(func(tx *sql.Tx) error {
		user, err := loadUser(tx, "id", userID)
		if err != nil {
			return err
		}
		var ok bool
		if todo, ok = user.FindTodo(todoID); !ok {
			return NotFound(msgTodoNotFound)
		}
		edit(&todo)
		_, err = tx.Exec(`UPDATE todos SET title = ?, deadline = ?, done = ? WHERE id = ? AND user_id = ?`,
			todo.Title, timeToString(todo.Deadline), boolToInt(todo.Done), todoID, userID)
		return errors.Wrap(err, "unable to update todo")
	})
	if err != nil {
		return Todo{}, err
	}
	return todo, nil
}

func (s *SQLiteStore) RemoveTodo(userID, todoID string) error {
	return s.withTx(func(tx *sql.Tx) error {
		if _, err := loadUser(tx, "id", userID); err != nil {
			return err
		}
		res, err := tx.Exec(`DELETE FROM todos WHERE id = ? AND user_id = ?`, todoID, userID)
		if err != nil {
			return errors.Wrap(err, "unable to delete todo")
		}
		n, err := res.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "unable to count deleted todos")
		}
		if n == 0 {
			return NotFound(msgTodoNotFound)
		}
		return nil
	})
}
