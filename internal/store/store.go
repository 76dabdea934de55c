package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"almacen/internal/model"
)

const fileIndent = "    "

// LoadResult says how a data file load obtained its contents.
type LoadResult int

const (
	// LoadOK means the file was read and parsed.
	LoadOK LoadResult = iota
	// LoadInitialized means the file was missing and an empty one was written.
	LoadInitialized
	// LoadRecovered means the file was unreadable or unparsable and the
	// in-memory state started empty. The file on disk is left untouched
	// until the next save. Callers should report this: a corrupt file and
	// a new one are not the same thing.
	LoadRecovered
)

// Store owns the id → item mapping and its backing file. All mutating
// operations persist the full mapping and record themselves in the global
// log. There is exactly one Store per process; the backing file is assumed
// to be exclusively owned.
type Store struct {
	path  string
	items map[string]*model.Item
	log   *Log
	now   func() time.Time
}

// Fields are the user-supplied item fields for Create and Update.
// Quantity arrives as text because it is validated, not assumed, to be a
// whole number.
type Fields struct {
	Code        string
	Name        string
	Quantity    string
	Location    string
	Description string
}

// Open loads the store from path, failing open to an empty mapping.
func Open(path string, log *Log) (*Store, LoadResult) {
	s := &Store{
		path:  path,
		items: make(map[string]*model.Item),
		log:   log,
		now:   time.Now,
	}
	return s, s.load()
}

func (s *Store) load() LoadResult {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		// First run: persist the empty mapping so the file exists.
		// A write failure here is not fatal, the next save retries.
		_ = s.Save()
		return LoadInitialized
	}
	if err != nil {
		return LoadRecovered
	}

	var records map[string]*model.Item
	if err := json.Unmarshal(raw, &records); err != nil {
		return LoadRecovered
	}
	for id, item := range records {
		item.ID = id
		if item.History == nil {
			item.History = []string{}
		}
		s.items[id] = item
	}
	return LoadOK
}

// Save serializes the full mapping to the backing file. Unlike the global
// log, a failed store write is always surfaced.
func (s *Store) Save() error {
	raw, err := json.MarshalIndent(s.items, "", fileIndent)
	if err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}
	return nil
}

// Get returns the item with the given id, or nil.
func (s *Store) Get(id string) *model.Item {
	return s.items[id]
}

// Len returns the number of items in the store.
func (s *Store) Len() int { return len(s.items) }

// List returns all items, sorted by numeric id.
func (s *Store) List() []*model.Item {
	items := make([]*model.Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	SortItems(items, SortByID)
	return items
}

// Create validates the fields, assigns the next id and persists the new
// item, recording a CREATE entry in the global log.
func (s *Store) Create(f Fields) (*model.Item, error) {
	f = f.trimmed()
	if f.Code == "" || f.Name == "" || f.Quantity == "" || f.Location == "" {
		return nil, &ValidationError{Msg: "code, name, quantity and location are required"}
	}
	qty, err := parseQuantity(f.Quantity)
	if err != nil {
		return nil, err
	}
	if existing := s.findByCode(f.Code, ""); existing != nil {
		return nil, &ValidationError{
			Msg: fmt.Sprintf("code %q is already registered to %q", f.Code, existing.Name),
		}
	}

	item := &model.Item{
		ID:          s.NextID(),
		Code:        f.Code,
		Name:        f.Name,
		Quantity:    qty,
		Location:    f.Location,
		Description: f.Description,
		History:     []string{},
	}
	s.items[item.ID] = item

	if err := s.Save(); err != nil {
		return item, err
	}
	s.log.Append(model.LogEntry{
		Action: model.ActionCreate,
		Code:   item.Code,
		Name:   item.Name,
		Detail: fmt.Sprintf("Initial stock: %d", qty),
	})
	return item, nil
}

// Update replaces the editable fields of an existing item. The movement
// history is preserved, never replaced by the caller.
func (s *Store) Update(id string, f Fields) (*model.Item, error) {
	item := s.items[id]
	if item == nil {
		return nil, &NotFoundError{ID: id}
	}

	f = f.trimmed()
	if f.Code == "" || f.Name == "" || f.Quantity == "" || f.Location == "" {
		return nil, &ValidationError{Msg: "code, name, quantity and location are required"}
	}
	qty, err := parseQuantity(f.Quantity)
	if err != nil {
		return nil, err
	}
	if existing := s.findByCode(f.Code, id); existing != nil {
		return nil, &ValidationError{
			Msg: fmt.Sprintf("code %q is already in use by %q", f.Code, existing.Name),
		}
	}

	item.Code = f.Code
	item.Name = f.Name
	item.Quantity = qty
	item.Location = f.Location
	item.Description = f.Description

	if err := s.Save(); err != nil {
		return item, err
	}
	return item, nil
}

// Delete removes an item and records a DELETE entry in the global log.
// Earlier log entries referencing the item are never rewritten.
func (s *Store) Delete(id string) error {
	item := s.items[id]
	if item == nil {
		return &NotFoundError{ID: id}
	}

	s.log.Append(model.LogEntry{
		Action: model.ActionDelete,
		Code:   item.Code,
		Name:   item.Name,
		Detail: "Item removed from inventory",
	})
	delete(s.items, id)
	return s.Save()
}

// Find returns all items whose code or name contains the query,
// case-insensitively, sorted by numeric id. Callers branch on the number
// of results: none is an error, one is auto-selected, several go to a
// disambiguation list.
func (s *Store) Find(query string) []*model.Item {
	query = strings.ToLower(strings.TrimSpace(query))
	var matches []*model.Item
	for _, item := range s.items {
		if strings.Contains(strings.ToLower(item.Code), query) ||
			strings.Contains(strings.ToLower(item.Name), query) {
			matches = append(matches, item)
		}
	}
	SortItems(matches, SortByID)
	return matches
}

// FindByCode returns the item whose code matches exactly after
// normalization, or nil.
func (s *Store) FindByCode(code string) *model.Item {
	return s.findByCode(code, "")
}

// findByCode looks up an item by normalized code, skipping excludeID.
// Used both for exact lookup and for duplicate checks on create/update.
func (s *Store) findByCode(code, excludeID string) *model.Item {
	normalized := model.NormalizeCode(code)
	if normalized == "" {
		return nil
	}
	for id, item := range s.items {
		if id == excludeID {
			continue
		}
		if model.NormalizeCode(item.Code) == normalized {
			return item
		}
	}
	return nil
}

// NextID returns max(existing numeric ids) + 1, or "1" on an empty store.
// Non-numeric ids are excluded from the max computation.
func (s *Store) NextID() string {
	max := 0
	for id := range s.items {
		n, err := strconv.Atoi(id)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1)
}

func parseQuantity(text string) (int, error) {
	qty, err := strconv.Atoi(text)
	if err != nil {
		return 0, &ValidationError{Msg: fmt.Sprintf("quantity %q must be a whole number", text)}
	}
	if qty < 0 {
		return 0, &ValidationError{Msg: "quantity must not be negative"}
	}
	return qty, nil
}

func (f Fields) trimmed() Fields {
	return Fields{
		Code:        strings.TrimSpace(f.Code),
		Name:        strings.TrimSpace(f.Name),
		Quantity:    strings.TrimSpace(f.Quantity),
		Location:    strings.TrimSpace(f.Location),
		Description: strings.TrimSpace(f.Description),
	}
}

// SortKey selects an ordering for item listings.
type SortKey string

const (
	SortByID       SortKey = "id"       // numeric id, ascending
	SortByName     SortKey = "name"     // case-insensitive name, ascending
	SortByQuantity SortKey = "quantity" // stock, ascending
	SortByRecent   SortKey = "recent"   // last movement, newest first
)

// SortItems orders items in place by the given key. Unknown keys fall back
// to the id ordering. With SortByRecent, items with no parsable movement
// sort to the end.
func SortItems(items []*model.Item, key SortKey) {
	switch key {
	case SortByName:
		sort.SliceStable(items, func(a, b int) bool {
			return strings.ToLower(items[a].Name) < strings.ToLower(items[b].Name)
		})
	case SortByQuantity:
		sort.SliceStable(items, func(a, b int) bool {
			return items[a].Quantity < items[b].Quantity
		})
	case SortByRecent:
		sort.SliceStable(items, func(a, b int) bool {
			ta, _ := items[a].LastMovementTime()
			tb, _ := items[b].LastMovementTime()
			return ta.After(tb)
		})
	default:
		sort.SliceStable(items, func(a, b int) bool {
			return numericID(items[a].ID) < numericID(items[b].ID)
		})
	}
}

func numericID(id string) int {
	n, err := strconv.Atoi(id)
	if err != nil {
		return 0
	}
	return n
}
