package collection

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/sadopc/restman/internal/core/model"
	"github.com/sadopc/restman/internal/persist"
)

// ErrNotFound is returned when a collection id does not exist.
var ErrNotFound = errors.New("collection not found")

// Store manages the collection hierarchy over the persistence port. Each
// collection is one document; folder and request edits rewrite the whole
// collection.
type Store struct {
	port   persist.Store
	logger *log.Logger
}

// NewStore creates a collection store. logger may be nil.
func NewStore(port persist.Store, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{port: port, logger: logger}
}

// Create persists a new collection, assigning an id if absent.
func (s *Store) Create(col *model.Collection) (*model.Collection, error) {
	if col.ID == "" {
		col.ID = uuid.New().String()
	}
	now := time.Now()
	col.CreatedAt = now
	col.UpdatedAt = now
	if err := s.write(col); err != nil {
		return nil, err
	}
	return col, nil
}

// Get returns the collection with the given id, or ErrNotFound.
func (s *Store) Get(id string) (*model.Collection, error) {
	data, err := s.port.Read(persist.NSCollections, id)
	if errors.Is(err, persist.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var col model.Collection
	if err := json.Unmarshal(data, &col); err != nil {
		return nil, fmt.Errorf("decoding collection %s: %w", id, err)
	}
	return &col, nil
}

// GetAll lists every collection. Corrupt records are logged and skipped.
func (s *Store) GetAll() ([]*model.Collection, error) {
	docs, err := s.port.List(persist.NSCollections)
	if err != nil {
		return nil, err
	}
	cols := make([]*model.Collection, 0, len(docs))
	for _, doc := range docs {
		var col model.Collection
		if err := json.Unmarshal(doc.Data, &col); err != nil {
			s.logger.Printf("skipping corrupt collection %s: %v", doc.ID, err)
			continue
		}
		cols = append(cols, &col)
	}
	return cols, nil
}

// Update persists changes to an existing collection; ErrNotFound if absent.
func (s *Store) Update(col *model.Collection) error {
	if _, err := s.Get(col.ID); err != nil {
		return err
	}
	col.UpdatedAt = time.Now()
	return s.write(col)
}

// Delete removes a collection and everything inside it.
func (s *Store) Delete(id string) error {
	err := s.port.Delete(persist.NSCollections, id)
	if errors.Is(err, persist.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// FindFolder searches a collection's folder tree depth-first and returns the
// folder with the given id, or nil.
func FindFolder(col *model.Collection, folderID string) *model.Folder {
	return findFolderIn(col.Folders, folderID)
}

func findFolderIn(folders []*model.Folder, folderID string) *model.Folder {
	for _, f := range folders {
		if f.ID == folderID {
			return f
		}
		if found := findFolderIn(f.Folders, folderID); found != nil {
			return found
		}
	}
	return nil
}

// FindRequestAnywhere searches the collection root and every folder subtree
// for a request with the given id. Root requests are checked first.
func FindRequestAnywhere(col *model.Collection, requestID string) *model.Request {
	for _, r := range col.Requests {
		if r.ID == requestID {
			return r
		}
	}
	return findRequestIn(col.Folders, requestID)
}

func findRequestIn(folders []*model.Folder, requestID string) *model.Request {
	for _, f := range folders {
		for _, r := range f.Requests {
			if r.ID == requestID {
				return r
			}
		}
		if found := findRequestIn(f.Folders, requestID); found != nil {
			return found
		}
	}
	return nil
}

// SaveRequestToFolder stores a request under the given target. The target id
// is resolved first as a collection id; failing that, every collection's
// folder tree is searched for a folder with that id. Within the resolved
// container an existing request with the same id is replaced in place,
// otherwise the request is appended. A folderID that matches nothing inside
// the resolved collection falls back to the collection root rather than
// losing the request.
func (s *Store) SaveRequestToFolder(targetID, folderID string, req *model.Request) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	col, err := s.Get(targetID)
	if err == nil {
		s.placeRequest(col, folderID, req)
		return s.Update(col)
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	// Not a collection id; maybe the caller handed us a folder id directly.
	c, err := s.collectionOwningFolder(targetID)
	if err != nil {
		return fmt.Errorf("saving request: %w", err)
	}
	folder := FindFolder(c, targetID)
	upsertRequest(&folder.Requests, req)
	return s.Update(c)
}

func (s *Store) placeRequest(col *model.Collection, folderID string, req *model.Request) {
	if folderID != "" {
		if folder := FindFolder(col, folderID); folder != nil {
			upsertRequest(&folder.Requests, req)
			return
		}
		s.logger.Printf("folder %s not found in collection %s, saving to root", folderID, col.ID)
	}
	upsertRequest(&col.Requests, req)
}

func upsertRequest(requests *[]*model.Request, req *model.Request) {
	for i, existing := range *requests {
		if existing.ID == req.ID {
			(*requests)[i] = req
			return
		}
	}
	*requests = append(*requests, req)
}

// LocateRequest searches every collection, root requests first and then the
// folder subtree, and returns the owning collection together with the request.
func (s *Store) LocateRequest(requestID string) (*model.Collection, *model.Request, error) {
	cols, err := s.GetAll()
	if err != nil {
		return nil, nil, err
	}
	for _, col := range cols {
		if req := FindRequestAnywhere(col, requestID); req != nil {
			return col, req, nil
		}
	}
	return nil, nil, fmt.Errorf("locating request %s: %w", requestID, ErrNotFound)
}

// DeleteRequest removes the request with the given id from the resolved
// collection's root or from any folder in its tree. The target id follows the
// same collection-or-folder resolution as SaveRequestToFolder. ErrNotFound if
// the request is not in the collection.
func (s *Store) DeleteRequest(targetID, requestID string) error {
	col, err := s.Get(targetID)
	if errors.Is(err, ErrNotFound) {
		col, err = s.collectionOwningFolder(targetID)
	}
	if err != nil {
		return err
	}
	if !removeRequest(&col.Requests, requestID) && !removeRequestIn(col.Folders, requestID) {
		return fmt.Errorf("deleting request %s: %w", requestID, ErrNotFound)
	}
	return s.Update(col)
}

func (s *Store) collectionOwningFolder(folderID string) (*model.Collection, error) {
	cols, err := s.GetAll()
	if err != nil {
		return nil, err
	}
	for _, c := range cols {
		if FindFolder(c, folderID) != nil {
			return c, nil
		}
	}
	return nil, fmt.Errorf("no collection or folder with id %s: %w", folderID, ErrNotFound)
}

func removeRequest(requests *[]*model.Request, requestID string) bool {
	for i, r := range *requests {
		if r.ID == requestID {
			*requests = append((*requests)[:i], (*requests)[i+1:]...)
			return true
		}
	}
	return false
}

func removeRequestIn(folders []*model.Folder, requestID string) bool {
	for _, f := range folders {
		if removeRequest(&f.Requests, requestID) {
			return true
		}
		if removeRequestIn(f.Folders, requestID) {
			return true
		}
	}
	return false
}

// AddFolder appends a folder to the collection root or, when parentID is
// set, to the named parent folder.
func (s *Store) AddFolder(collectionID, parentID string, folder *model.Folder) error {
	col, err := s.Get(collectionID)
	if err != nil {
		return err
	}
	if folder.ID == "" {
		folder.ID = uuid.New().String()
	}
	folder.ParentID = parentID
	if parentID != "" {
		parent := FindFolder(col, parentID)
		if parent == nil {
			return fmt.Errorf("adding folder: parent %s not found: %w", parentID, ErrNotFound)
		}
		parent.Folders = append(parent.Folders, folder)
	} else {
		col.Folders = append(col.Folders, folder)
	}
	return s.Update(col)
}

// DeleteFolder removes a folder and its entire subtree from the collection.
func (s *Store) DeleteFolder(collectionID, folderID string) error {
	col, err := s.Get(collectionID)
	if err != nil {
		return err
	}
	if !removeFolderIn(&col.Folders, folderID) {
		return fmt.Errorf("deleting folder %s: %w", folderID, ErrNotFound)
	}
	return s.Update(col)
}

func removeFolderIn(folders *[]*model.Folder, folderID string) bool {
	for i, f := range *folders {
		if f.ID == folderID {
			*folders = append((*folders)[:i], (*folders)[i+1:]...)
			return true
		}
		if removeFolderIn(&f.Folders, folderID) {
			return true
		}
	}
	return false
}

// ExportAll serializes every collection into one JSON array, suitable for
// backup or moving between machines.
func (s *Store) ExportAll() ([]byte, error) {
	cols, err := s.GetAll()
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(cols, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding collections: %w", err)
	}
	return data, nil
}

// ImportAll reads a JSON array of collections and stores each one under fresh
// ids, folder and request ids included, so an import never collides with or
// overwrites existing data.
func (s *Store) ImportAll(data []byte) ([]*model.Collection, error) {
	var cols []*model.Collection
	if err := json.Unmarshal(data, &cols); err != nil {
		return nil, fmt.Errorf("decoding collections: %w", err)
	}
	for _, col := range cols {
		col.ID = uuid.New().String()
		for _, req := range col.Requests {
			req.ID = uuid.New().String()
		}
		reassignFolderIDs(col.Folders, "")
		if _, err := s.Create(col); err != nil {
			return nil, err
		}
	}
	return cols, nil
}

func reassignFolderIDs(folders []*model.Folder, parentID string) {
	for _, f := range folders {
		f.ID = uuid.New().String()
		f.ParentID = parentID
		for _, req := range f.Requests {
			req.ID = uuid.New().String()
		}
		reassignFolderIDs(f.Folders, f.ID)
	}
}

func (s *Store) write(col *model.Collection) error {
	data, err := json.MarshalIndent(col, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding collection %s: %w", col.ID, err)
	}
	return s.port.Write(persist.NSCollections, col.ID, data)
}
