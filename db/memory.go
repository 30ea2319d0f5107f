package db

import (
	"sync"
)

type userEntry struct {
	mu   sync.Mutex
	user User
}

// MemoryStore keeps everything in process memory. The registry lock guards
// the indices; each user's list and plan are guarded by that user's lock.
type MemoryStore struct {
	mu         sync.RWMutex
	byID       map[string]*userEntry
	byUsername map[string]*userEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:       make(map[string]*userEntry),
		byUsername: make(map[string]*userEntry),
	}
}

func (s *MemoryStore) CreateUser(name, username string) (User, error) {
	if err := validateNewUser(name, username); err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsername[username]; exists {
		return User{}, Conflict(msgUsernameTaken)
	}

	entry := &userEntry{user: User{
		ID:       newID(),
		Name:     name,
		Username: username,
		Pro:      false,
		Todos:    []Todo{},
	}}
	s.byID[entry.user.ID] = entry
	s.byUsername[username] = entry

	return entry.user.clone(), nil
}

func (s *MemoryStore) lookup(index map[string]*userEntry, key string) (*userEntry, error) {
	s.mu.RLock()
	entry, ok := index[key]
	s.mu.RUnlock()
	if !ok {
		return nil, NotFound(msgUserNotFound)
	}
	return entry, nil
}

func (s *MemoryStore) snapshot(entry *userEntry) User {
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.user.clone()
}

func (s *MemoryStore) UserByID(id string) (User, error) {
	entry, err := s.lookup(s.byID, id)
	if err != nil {
		return User{}, err
	}
	return s.snapshot(entry), nil
}

func (s *MemoryStore) UserByUsername(username string) (User, error) {
	entry, err := s.lookup(s.byUsername, username)
	if err != nil {
		return User{}, err
	}
	return s.snapshot(entry), nil
}

func (s *MemoryStore) UpgradeToPro(id string) (User, error) {
	entry, err := s.lookup(s.byID, id)
	if err != nil {
		return User{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.user.Pro {
		return User{}, BadRequest(msgAlreadyPro)
	}
	entry.user.Pro = true
	return entry.user.clone(), nil
}

func (s *MemoryStore) AddTodo(userID string, todo Todo, admit func(User) error) (Todo, error) {
	entry, err := s.lookup(s.byID, userID)
	if err != nil {
		return Todo{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if admit != nil {
		if err := admit(entry.user); err != nil {
			return Todo{}, err
		}
	}
	entry.user.Todos = append(entry.user.Todos, todo)
	return todo, nil
}

func (s *MemoryStore) UpdateTodo(userID, todoID string, edit func(*Todo)) (Todo, error) {
	entry, err := s.lookup(s.byID, userID)
	if err != nil {
		return Todo{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	for i := range entry.user.Todos {
		if entry.user.Todos[i].ID == todoID {
			edit(&entry.user.Todos[i])
			return entry.user.Todos[i], nil
		}
	}
	return Todo{}, NotFound(msgTodoNotFound)
}

func (s *MemoryStore) RemoveTodo(userID, todoID string) error {
	entry, err := s.lookup(s.byID, userID)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	for i, todo := range entry.user.Todos {
		if todo.ID == todoID {
			entry.user.Todos = append(entry.user.Todos[:i], entry.user.Todos[i+1:]...)
			return nil
		}
	}
	return NotFound(msgTodoNotFound)
}

func (s *MemoryStore) Close() error {
	return nil
}
