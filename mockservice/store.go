package mockservice

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// DefaultFixtureCount is the number of albums in the initial fixture.
const DefaultFixtureCount = 100

const albumsPerUser = 10

// ErrNotFound is returned by AlbumStore when there is no record with the requested id.
var ErrNotFound = errors.New("album not found")

// Album is a stored album record. UserID keeps whatever JSON value the client sent: a number for
// the fixture and for JSON input, a string for form input.
type Album struct {
	UserID ldvalue.Value `json:"userId"`
	ID     int           `json:"id"`
	Title  string        `json:"title"`
}

// AlbumChanges is the set of fields supplied by a create or update request. Undefined values
// (ldvalue.Null()) mean "not supplied".
type AlbumChanges struct {
	UserID ldvalue.Value
	Title  ldvalue.OptionalString
}

// AlbumStore is a thread-safe in-memory album collection.
type AlbumStore struct {
	albums       map[int]Album
	fixtureCount int
	mu           sync.RWMutex
}

// NewAlbumStore creates a store that holds the fixture of fixtureCount albums.
func NewAlbumStore(fixtureCount int) *AlbumStore {
	s := &AlbumStore{fixtureCount: fixtureCount}
	s.Reset()
	return s
}

// Fixture returns the initial records: ids 1..count, ten albums per user.
func Fixture(count int) []Album {
	ret := make([]Album, 0, count)
	for id := 1; id <= count; id++ {
		userID := (id-1)/albumsPerUser + 1
		ret = append(ret, Album{
			UserID: ldvalue.Int(userID),
			ID:     id,
			Title:  fmt.Sprintf("album %d of user %d", id, userID),
		})
	}
	return ret
}

// Reset restores the fixture.
func (s *AlbumStore) Reset() {
	albums := make(map[int]Album, s.fixtureCount)
	for _, a := range Fixture(s.fixtureCount) {
		albums[a.ID] = a
	}
	s.mu.Lock()
	s.albums = albums
	s.mu.Unlock()
}

// List returns all records ordered by id.
func (s *AlbumStore) List() []Album {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ret := make([]Album, 0, len(s.albums))
	for _, a := range s.albums {
		ret = append(ret, a)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })
	return ret
}

// Count returns the number of records.
func (s *AlbumStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.albums)
}

// Get returns the record with the given id.
func (s *AlbumStore) Get(id int) (Album, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.albums[id]
	if !ok {
		return Album{}, ErrNotFound
	}
	return a, nil
}

// Create adds a record. Its id is one greater than the highest id in the store.
func (s *AlbumStore) Create(changes AlbumChanges) Album {
	s.mu.Lock()
	defer s.mu.Unlock()
	maxID := 0
	for id := range s.albums {
		if id > maxID {
			maxID = id
		}
	}
	a := Album{
		UserID: changes.UserID,
		ID:     maxID + 1,
		Title:  changes.Title.StringValue(),
	}
	s.albums[a.ID] = a
	return a
}

// Replace overwrites userId and title of an existing record. The id never changes.
func (s *AlbumStore) Replace(id int, changes AlbumChanges) (Album, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.albums[id]; !ok {
		return Album{}, ErrNotFound
	}
	a := Album{
		UserID: changes.UserID,
		ID:     id,
		Title:  changes.Title.StringValue(),
	}
	s.albums[id] = a
	return a, nil
}

// Patch changes only the supplied fields of an existing record.
func (s *AlbumStore) Patch(id int, changes AlbumChanges) (Album, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.albums[id]
	if !ok {
		return Album{}, ErrNotFound
	}
	if !changes.UserID.IsNull() {
		a.UserID = changes.UserID
	}
	if changes.Title.IsDefined() {
		a.Title = changes.Title.StringValue()
	}
	s.albums[id] = a
	return a, nil
}

// Delete removes a record.
func (s *AlbumStore) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.albums[id]; !ok {
		return ErrNotFound
	}
	delete(s.albums, id)
	return nil
}

// Load replaces the whole collection.
func (s *AlbumStore) Load(albums []Album) error {
	m := make(map[int]Album, len(albums))
	for _, a := range albums {
		if _, dup := m[a.ID]; dup {
			return fmt.Errorf("duplicate album id %d", a.ID)
		}
		m[a.ID] = a
	}
	s.mu.Lock()
	s.albums = m
	s.mu.Unlock()
	return nil
}
