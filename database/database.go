package database

import (
	"cndash/database/store"
	"cndash/structs"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type StoreDefinition[T store.Keyed] struct {
	Name string
}

var NATIONS_STORE = StoreDefinition[structs.Nation]{Name: "nations"}
var WARS_STORE = StoreDefinition[structs.War]{Name: "wars"}
var AID_OFFERS_STORE = StoreDefinition[structs.AidOffer]{Name: "aid-offers"}
var ALLIANCES_STORE = StoreDefinition[structs.Alliance]{Name: "alliances"}

var ErrStoreMissing = errors.New("store is not assigned to this db")

// A database that is responsible for multiple persistent caches aka "stores"
// which can be assigned to this database and then retrieved for use again later.
// Writes to a store's JSON file only ever happen through Flush, so concurrent
// flushes cannot interleave and scramble a file.
type Database struct {
	dirPath string                  // Path (relative to cwd) to the dir where this db lives.
	stores  map[string]store.IStore // Mapping from file name → generic Store instance.
	storeMu sync.RWMutex            // Guards access to `stores`.
	flushMu sync.Mutex              // Ensures multiple flushes cannot happen simultaneously.
}

// Creates an instance of [Database] with the dir at baseDir/name (created if it does not exist).
//
// NOTE: To add a store to this DB, call [AssignStore] with the appropriate type which the store file can be unmarshalled into.
func New(baseDir string, name string) (*Database, error) {
	dir := filepath.Join(baseDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &Database{
		dirPath: dir,
		stores:  make(map[string]store.IStore),
	}, nil
}

// Creates the db at baseDir/snapshot and assigns every snapshot store to it.
func NewSnapshotDB(baseDir string) (*Database, error) {
	db, err := New(baseDir, "snapshot")
	if err != nil {
		return nil, err
	}

	errs := []error{}
	if _, err := AssignStore(db, NATIONS_STORE); err != nil {
		errs = append(errs, err)
	}
	if _, err := AssignStore(db, WARS_STORE); err != nil {
		errs = append(errs, err)
	}
	if _, err := AssignStore(db, AID_OFFERS_STORE); err != nil {
		errs = append(errs, err)
	}
	if _, err := AssignStore(db, ALLIANCES_STORE); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return db, nil
}

// The clean path to the dir of this db which all store files live under.
func (db *Database) Dir() string {
	return filepath.Clean(db.dirPath)
}

// Calls WriteSnapshot on every store in this DB, flushing its current state to its associated file.
func (db *Database) Flush() error {
	errs := []error{}

	db.flushMu.Lock()
	defer db.flushMu.Unlock()

	db.storeMu.RLock()
	defer db.storeMu.RUnlock()

	for name, s := range db.stores {
		if err := s.WriteSnapshot(); err != nil {
			errs = append(errs, fmt.Errorf("store %s: %w", name, err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	fmt.Printf("DEBUG | Successfully flushed all stores in %s to disk.\n", db.Dir())
	return nil
}

// Creates a new store and adds it to the db. If the store already exists, the existing one is returned.
func AssignStore[T store.Keyed](db *Database, storeDef StoreDefinition[T]) (*store.Store[T], error) {
	db.storeMu.Lock()
	defer db.storeMu.Unlock()

	if s, ok := db.stores[storeDef.Name]; ok {
		existing, ok := s.(*store.Store[T])
		if !ok {
			return nil, fmt.Errorf("store '%s' already assigned with a different type: %T", storeDef.Name, s)
		}

		return existing, nil
	}

	fpath := filepath.Join(db.dirPath, storeDef.Name+".json")
	s, err := store.New[T](fpath)
	if err != nil {
		return nil, fmt.Errorf("failed to create store '%s': %w", storeDef.Name, err)
	}

	db.stores[storeDef.Name] = s
	return s, nil
}

// Retrieves the Store for a specific file/db.
func GetStore[T store.Keyed](db *Database, storeDef StoreDefinition[T]) (*store.Store[T], error) {
	db.storeMu.RLock()
	defer db.storeMu.RUnlock()

	si, ok := db.stores[storeDef.Name]
	if !ok {
		return nil, fmt.Errorf("could not find store '%s' in db %s: %w", storeDef.Name, db.dirPath, ErrStoreMissing)
	}

	s, ok := si.(*store.Store[T])
	if !ok {
		return nil, fmt.Errorf(
			"store '%s' exists but with a different type: expected *Store[%T], got %T",
			storeDef.Name, (*store.Store[T])(nil), si,
		)
	}

	return s, nil
}
