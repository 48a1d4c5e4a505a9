package store

import (
	"cndash/utils/sets"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"
)

// The interface that a generic store must implement to retain basic functionality that is common across all stores.
// Once converted to a concrete store type, further type-specific operations may become available.
type IStore interface {
	CleanPath() string
	WriteSnapshot() error
	LoadFromFile() error
}

// Values kept in a Store know their own key, e.g. a nation's ID.
type Keyed interface {
	StoreKey() string
}

type StoreKey = string
type StoreData[T Keyed] map[StoreKey]T // Stores value not pointer. Use Put etc. to mutate data safely.

// On-disk shape of a store file.
type storeFile[T Keyed] struct {
	UpdatedAt int64        `json:"updatedAt"` // Unix ms of the last Replace/Put before the snapshot was written.
	Data      StoreData[T] `json:"data"`
}

// Essentially a persistent cache of snapshot records that can be interfaced with like a KV store.
//
// Each 'store' is backed by a JSON file which the cache will be populated from when it is initialized (if the file exists).
// From there on, all operations are done in-memory and the current state can be saved to the file on demand.
//
// The store is thread-safe and can be used concurrently across multiple goroutines.
type Store[T Keyed] struct {
	filePath  string       // Path to the file for this store.
	data      StoreData[T] // The actual data within the file.
	updatedAt int64        // Unix ms of the last write to data.
	mu        sync.RWMutex // Mutex lock to stop read & write collisions.
}

// Creates a new store backed by a JSON file at `path` for persistence.
// The path should be relative to the current working dir, i.e. "./db/snapshot/nations.json"
func New[T Keyed](path string) (*Store[T], error) {
	s := &Store[T]{
		filePath: path,
		data:     make(StoreData[T]),
	}

	if err := s.LoadFromFile(); err != nil {
		return nil, fmt.Errorf("failed to load store from file: %w", err)
	}

	if !s.IsEmpty() {
		fmt.Printf("DEBUG | Loaded store from file at: %s\n", s.CleanPath())
	}

	return s, nil
}

func (s *Store[T]) CleanPath() string {
	return filepath.Clean(s.filePath)
}

// When the data in this store last changed. Zero if it never has.
func (s *Store[T]) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.updatedAt == 0 {
		return time.Time{}
	}

	return time.UnixMilli(s.updatedAt)
}

// All values, in key order so callers get the same slice for the same data.
func (s *Store[T]) Values() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := slices.Sorted(maps.Keys(s.data))
	values := make([]T, 0, len(keys))
	for _, k := range keys {
		values = append(values, s.data[k])
	}

	return values
}

func (s *Store[T]) ValuesSorted(cmp func(a, b T) int) []T {
	values := s.Values()
	slices.SortStableFunc(values, cmp)

	return values
}

func (s *Store[T]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}

func (s *Store[T]) IsEmpty() bool {
	return s.Count() == 0
}

// Creates or overwrites the value in the store under its own key.
func (s *Store[T]) Put(value T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[value.StoreKey()] = value
	s.updatedAt = time.Now().UnixMilli()
}

// Swaps the entire contents of the store for `values`.
// Used when a fresh snapshot arrives, since records missing from it no longer exist upstream.
func (s *Store[T]) Replace(values []T) {
	data := make(StoreData[T], len(values))
	for _, v := range values {
		data[v.StoreKey()] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = data
	s.updatedAt = time.Now().UnixMilli()
}

func (s *Store[T]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
}

func (s *Store[T]) HasKey(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.data[key]
	return ok
}

// Retrieves the value associated with the key.
func (s *Store[T]) Get(key string) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.data[key]; ok {
		return &v, nil
	}

	return nil, fmt.Errorf("could not get value for key '%s' from store: %s. no such key exists", key, s.CleanPath())
}

// Retrieves every value whose key is in the set. Missing keys are skipped.
func (s *Store[T]) GetFromSet(set sets.Set[string]) []T {
	keys := sets.Sorted(set)

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]T, 0, len(keys))
	for _, k := range keys {
		if v, ok := s.data[k]; ok {
			results = append(results, v)
		}
	}

	return results
}

// Finds and immediately returns the first value (in key order) that passes the predicate.
func (s *Store[T]) Find(predicate func(value T) bool) (*T, error) {
	for _, v := range s.Values() {
		if predicate(v) {
			return &v, nil
		}
	}

	return nil, fmt.Errorf("no matching value found in store: %s", s.CleanPath())
}

// Like Find(), but returns all values that pass the predicate instead of just one.
func (s *Store[T]) FindAll(predicate func(value T) bool) []T {
	results := []T{}
	for _, v := range s.Values() {
		if predicate(v) {
			results = append(results, v)
		}
	}

	return results
}

// Overwrite the current store cache state with data from the associated JSON file located at path.
// This should usually be called when the cache is empty and needs fresh data, for example on startup.
func (s *Store[T]) LoadFromFile() error {
	contents, err := os.ReadFile(s.CleanPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}

		return err
	}

	var file storeFile[T]
	if err := json.Unmarshal(contents, &file); err != nil {
		return err
	}
	if file.Data == nil {
		file.Data = make(StoreData[T])
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = file.Data
	s.updatedAt = file.UpdatedAt
	return nil
}

// Creates a snapshot of the current cache state and writes it to the
// JSON file at the path we provided when the store was initialized.
func (s *Store[T]) WriteSnapshot() error {
	s.mu.RLock()
	file := storeFile[T]{UpdatedAt: s.updatedAt, Data: maps.Clone(s.data)}
	s.mu.RUnlock()

	// using a copy prevents a panic if map is modified when marshal iterates it
	data, err := json.Marshal(file)
	if err != nil {
		return err
	}

	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	// replace real file once temp file is fully written
	if err := os.Rename(tmp, s.filePath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("error writing store snapshot to %s: %w", s.filePath, err)
	}

	return nil
}
