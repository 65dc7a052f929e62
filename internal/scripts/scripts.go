package scripts

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/csheth/teleprompter/internal/store"
)

// Key is the store entry holding the saved script list.
const Key = "prompts"

// ErrNotFound is returned when no script has the requested id.
var ErrNotFound = errors.New("scripts: not found")

// Script is a saved teleprompter script.
type Script struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Store keeps the ordered script list in a key-value store.
type Store struct {
	kv store.Store
	mu sync.Mutex
}

func NewStore(kv store.Store) *Store {
	return &Store{kv: kv}
}

// List returns every saved script in insertion order.
func (s *Store) List() ([]Script, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) Get(id string) (Script, error) {
	list, err := s.List()
	if err != nil {
		return Script{}, err
	}
	for _, script := range list {
		if script.ID == id {
			return script, nil
		}
	}
	return Script{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Save updates the script with a matching ID in place, or appends it with a
// fresh ID when ID is empty. The stored value is returned.
func (s *Store) Save(script Script) (Script, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load()
	if err != nil {
		return Script{}, err
	}
	if script.ID == "" {
		script.ID = uuid.NewString()
		list = append(list, script)
		return script, s.write(list)
	}
	for i := range list {
		if list[i].ID == script.ID {
			list[i] = script
			return script, s.write(list)
		}
	}
	list = append(list, script)
	return script, s.write(list)
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load()
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID == id {
			list = append(list[:i], list[i+1:]...)
			return s.write(list)
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (s *Store) load() ([]Script, error) {
	raw, ok, err := s.kv.Get(Key)
	if err != nil {
		return nil, fmt.Errorf("scripts: load: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var list []Script
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("scripts: decode: %w", err)
	}
	return list, nil
}

func (s *Store) write(list []Script) error {
	if list == nil {
		list = []Script{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	if err := s.kv.Set(Key, data); err != nil {
		return fmt.Errorf("scripts: save: %w", err)
	}
	return nil
}

// Ready reports whether a draft has both a title and a body worth saving.
func Ready(script Script) bool {
	return strings.TrimSpace(script.Title) != "" && strings.TrimSpace(script.Content) != ""
}
