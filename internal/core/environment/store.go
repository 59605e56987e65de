package environment

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sadopc/restman/internal/core/model"
	"github.com/sadopc/restman/internal/persist"
)

// ErrNotFound is returned when an environment id does not exist.
var ErrNotFound = errors.New("environment not found")

// ChangeFunc is invoked when the active environment changes identity: the
// argument is the new active environment, or nil when none is active.
type ChangeFunc func(*model.Environment)

// Store manages environments over the persistence port and enforces the
// at-most-one-active invariant.
type Store struct {
	port   persist.Store
	logger *log.Logger

	mu      sync.Mutex
	active  *model.Environment
	scanned bool
	subs    map[int]ChangeFunc
	nextSub int
}

// NewStore creates an environment store. logger may be nil.
func NewStore(port persist.Store, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{
		port:   port,
		logger: logger,
		subs:   make(map[int]ChangeFunc),
	}
}

// Subscribe registers a callback for active-environment changes and returns
// an unsubscribe function. Edits to non-active environments do not notify.
func (s *Store) Subscribe(fn ChangeFunc) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify(env *model.Environment) {
	s.mu.Lock()
	fns := make([]ChangeFunc, 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(env)
	}
}

// Create persists a new environment, assigning an id if absent. The first
// environment ever created becomes active; an environment created with
// IsActive set deactivates all others.
func (s *Store) Create(env *model.Environment) (*model.Environment, error) {
	if env.ID == "" {
		env.ID = uuid.New().String()
	}
	now := time.Now()
	env.CreatedAt = now
	env.UpdatedAt = now

	existing, err := s.GetAll()
	if err != nil {
		return nil, err
	}

	if env.IsActive {
		if err := s.deactivateOthers(env.ID); err != nil {
			return nil, err
		}
	} else if len(existing) == 0 {
		env.IsActive = true
	}

	if err := s.write(env); err != nil {
		return nil, err
	}

	if env.IsActive {
		s.setCachedActive(env)
		s.notify(env)
	}
	return env, nil
}

// Get returns the environment with the given id, or ErrNotFound.
func (s *Store) Get(id string) (*model.Environment, error) {
	data, err := s.port.Read(persist.NSEnvironments, id)
	if errors.Is(err, persist.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var env model.Environment
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decoding environment %s: %w", id, err)
	}
	return &env, nil
}

// GetAll lists every environment. A corrupt record is logged and skipped; it
// never aborts the enumeration.
func (s *Store) GetAll() ([]*model.Environment, error) {
	docs, err := s.port.List(persist.NSEnvironments)
	if err != nil {
		return nil, err
	}
	envs := make([]*model.Environment, 0, len(docs))
	for _, doc := range docs {
		var env model.Environment
		if err := json.Unmarshal(doc.Data, &env); err != nil {
			s.logger.Printf("skipping corrupt environment %s: %v", doc.ID, err)
			continue
		}
		envs = append(envs, &env)
	}
	return envs, nil
}

// Update persists changes to an existing environment; ErrNotFound if the id
// is unknown. Activation transitions are applied and notified.
func (s *Store) Update(env *model.Environment) error {
	if _, err := s.Get(env.ID); err != nil {
		return err
	}
	env.UpdatedAt = time.Now()

	if env.IsActive {
		if err := s.deactivateOthers(env.ID); err != nil {
			return err
		}
	}
	if err := s.write(env); err != nil {
		return err
	}

	s.mu.Lock()
	wasActive := s.active != nil && s.active.ID == env.ID
	s.mu.Unlock()

	switch {
	case env.IsActive:
		s.setCachedActive(env)
		s.notify(env)
	case wasActive:
		s.setCachedActive(nil)
		s.notify(nil)
	}
	return nil
}

// Delete removes an environment; ErrNotFound if absent. Deleting the active
// environment leaves none active and notifies subscribers.
func (s *Store) Delete(id string) error {
	err := s.port.Delete(persist.NSEnvironments, id)
	if errors.Is(err, persist.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	wasActive := s.active != nil && s.active.ID == id
	s.mu.Unlock()
	if wasActive {
		s.setCachedActive(nil)
		s.notify(nil)
	}
	return nil
}

// SetActive marks the environment with the given id active, deactivating all
// others first. Unlike the other operations this raises a hard error on an
// unknown id: proceeding silently would leave the system with no valid
// active environment and masked state.
func (s *Store) SetActive(id string) error {
	env, err := s.Get(id)
	if err != nil {
		return fmt.Errorf("setting active environment %s: %w", id, err)
	}

	if err := s.deactivateOthers(id); err != nil {
		return err
	}

	env.IsActive = true
	env.UpdatedAt = time.Now()
	if err := s.write(env); err != nil {
		return err
	}

	s.setCachedActive(env)
	s.notify(env)
	return nil
}

// GetActive returns the active environment, or nil if none is. The result is
// cached until the active environment changes or Refresh is called. If more
// than one environment is marked active (crash mid-switch), the first found
// is treated as canonical.
func (s *Store) GetActive() (*model.Environment, error) {
	s.mu.Lock()
	if s.scanned {
		active := s.active
		s.mu.Unlock()
		return active, nil
	}
	s.mu.Unlock()
	return s.Refresh()
}

// Refresh rescans the persisted environments and rebuilds the active cache.
func (s *Store) Refresh() (*model.Environment, error) {
	envs, err := s.GetAll()
	if err != nil {
		return nil, err
	}
	var active *model.Environment
	for _, env := range envs {
		if env.IsActive {
			active = env
			break
		}
	}
	s.setCachedActive(active)
	return active, nil
}

// deactivateOthers persists IsActive=false on every environment except the
// one named. Each deactivation is written independently: a crash mid-sequence
// can leave more than one environment marked active, which readers tolerate
// by treating the first found as canonical.
func (s *Store) deactivateOthers(exceptID string) error {
	envs, err := s.GetAll()
	if err != nil {
		return err
	}
	for _, env := range envs {
		if env.IsActive && env.ID != exceptID {
			env.IsActive = false
			env.UpdatedAt = time.Now()
			if err := s.write(env); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Store) setCachedActive(env *model.Environment) {
	s.mu.Lock()
	s.active = env
	s.scanned = true
	s.mu.Unlock()
}

func (s *Store) write(env *model.Environment) error {
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding environment %s: %w", env.ID, err)
	}
	return s.port.Write(persist.NSEnvironments, env.ID, data)
}
