package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"

	"github.com/sadopc/restman/internal/core/collection"
	"github.com/sadopc/restman/internal/core/model"
	"github.com/sadopc/restman/internal/persist"
)

// MaxItems caps the history log. Older entries fall off the tail.
const MaxItems = 100

// historyDocID is the single document the whole log is stored under.
const historyDocID = "history"

// ErrNotFound is returned when a history item id does not exist.
var ErrNotFound = errors.New("history item not found")

// Store keeps the most recent requests and their responses, newest first,
// deduplicated by (url, method).
type Store struct {
	port   persist.Store
	logger *log.Logger

	mu     sync.Mutex
	items  []*model.HistoryItem
	loaded bool
}

// NewStore creates a history store. logger may be nil.
func NewStore(port persist.Store, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{port: port, logger: logger}
}

func (s *Store) load() error {
	if s.loaded {
		return nil
	}
	data, err := s.port.Read(persist.NSHistory, historyDocID)
	if errors.Is(err, persist.ErrNotFound) {
		s.items = nil
		s.loaded = true
		return nil
	}
	if err != nil {
		return err
	}
	var items []*model.HistoryItem
	if err := json.Unmarshal(data, &items); err != nil {
		// A corrupt log is not worth failing every send over.
		s.logger.Printf("resetting corrupt history log: %v", err)
		items = nil
	}
	s.items = items
	s.loaded = true
	return nil
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.items, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	return s.port.Write(persist.NSHistory, historyDocID, data)
}

// Record adds a request and its response to the front of the log. An
// existing entry with the same url and method is evicted first, so repeats
// of the same call keep a single, freshest entry. A nil response is stored
// as an empty placeholder; callers record before sending and again after,
// so even a failed transport leaves a trace.
func (s *Store) Record(req *model.Request, resp *model.Response) (*model.HistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return nil, err
	}

	if resp == nil {
		resp = &model.Response{}
	}
	item := &model.HistoryItem{
		ID:        uuid.New().String(),
		Request:   req.Clone(),
		Response:  resp.Clone(),
		Timestamp: time.Now(),
	}

	for i, existing := range s.items {
		if existing.Request != nil &&
			existing.Request.URL == req.URL &&
			existing.Request.Method == req.Method {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}

	s.items = append([]*model.HistoryItem{item}, s.items...)
	if len(s.items) > MaxItems {
		s.items = s.items[:MaxItems]
	}
	if err := s.save(); err != nil {
		return nil, err
	}
	return item, nil
}

// List returns all history items, newest first.
func (s *Store) List() ([]*model.HistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return nil, err
	}
	out := make([]*model.HistoryItem, len(s.items))
	copy(out, s.items)
	return out, nil
}

// Recent returns up to n items from the front of the log. A limit below
// zero yields nothing.
func (s *Store) Recent(n int) ([]*model.HistoryItem, error) {
	items, err := s.List()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		n = 0
	}
	if n < len(items) {
		items = items[:n]
	}
	return items, nil
}

// GetByID returns a single history item, or ErrNotFound.
func (s *Store) GetByID(id string) (*model.HistoryItem, error) {
	items, err := s.List()
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, ErrNotFound
}

// RemoveByID deletes a single history item.
func (s *Store) RemoveByID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return err
	}
	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return s.save()
		}
	}
	return ErrNotFound
}

// Clear wipes the entire log.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.loaded = true
	return s.save()
}

// Search fuzzy-matches the query against "METHOD url" of every item and
// returns matches in relevance order.
func (s *Store) Search(query string) ([]*model.HistoryItem, error) {
	items, err := s.List()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return items, nil
	}
	haystack := make([]string, len(items))
	for i, item := range items {
		haystack[i] = fmt.Sprintf("%s %s", item.Request.Method, item.Request.URL)
	}
	matches := fuzzy.Find(query, haystack)
	out := make([]*model.HistoryItem, 0, len(matches))
	for _, m := range matches {
		out = append(out, items[m.Index])
	}
	return out, nil
}

// SaveToCollection copies a history item's request into a collection so it
// can be kept past the log's cap. The copy gets a fresh id; an unnamed
// request is titled "METHOD url".
func (s *Store) SaveToCollection(cols *collection.Store, itemID, collectionID, folderID string) (*model.Request, error) {
	item, err := s.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	req := item.Request.Clone()
	req.ID = uuid.New().String()
	if strings.TrimSpace(req.Name) == "" {
		req.Name = fmt.Sprintf("%s %s", req.Method, req.URL)
	}
	if err := cols.SaveRequestToFolder(collectionID, folderID, req); err != nil {
		return nil, err
	}
	return req, nil
}
