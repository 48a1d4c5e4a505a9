package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	log "github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("not found")

// Opens the badger KV at baseDir/kv which holds everything coordinators or the bot write,
// as opposed to the snapshot stores which are replaced wholesale on every import.
func OpenKV(baseDir string) (*badger.DB, error) {
	dir, err := filepath.Abs(filepath.Join(baseDir, "kv"))
	if err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(dir)
	opts.ZSTDCompressionLevel = 2
	opts.NumLevelZeroTables = 1
	opts.NumVersionsToKeep = 1
	opts.CompactL0OnClose = true
	opts.Logger = nil

	return badger.Open(opts)
}

// Opens a throwaway KV that lives only in memory. Used by tests.
func OpenInMemoryKV() (*badger.DB, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	return badger.Open(opts)
}

func GetInsensitiveTxn[T any](txn *badger.Txn, key string) (*T, error) {
	item, err := txn.Get([]byte(strings.ToLower(key)))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("key '%s': %w", key, ErrNotFound)
		}

		return nil, err
	}

	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}

	out := new(T)
	if err := json.Unmarshal(val, out); err != nil {
		return nil, fmt.Errorf("key '%s' holds malformed value: %w", key, err)
	}

	return out, nil
}

func GetInsensitive[T any](db *badger.DB, key string) (out *T, err error) {
	err = db.View(func(txn *badger.Txn) error {
		start := time.Now()
		out, err = GetInsensitiveTxn[T](txn, key)
		log.WithField("key", key).Debugf("db get took %s", time.Since(start))
		return err
	})

	return
}

// Marshals value and puts it into the DB at the specified key which is automatically lowercased.
//
// This func is a very simple wrapper around db.Update() and txn.Set().
// If any get call or data manipulation is required prior to txn.Set(), prefer a single transaction via db.Update().
func PutInsensitive(db *badger.DB, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("error marshalling value for key '%s': %w", key, err)
	}

	return db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(strings.ToLower(key)), data)
	})
}

// Decodes every value whose key starts with prefix. Values that fail to decode are logged and skipped.
func ScanPrefix[T any](db *badger.DB, prefix string) (map[string]T, error) {
	out := make(map[string]T)
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		p := []byte(strings.ToLower(prefix))
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			item := it.Item()
			key := string(item.KeyCopy(nil))

			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}

			var v T
			if err := json.Unmarshal(val, &v); err != nil {
				log.WithField("key", key).Warnf("skipping malformed value: %v", err)
				continue
			}

			out[strings.TrimPrefix(key, string(p))] = v
		}

		return nil
	})

	return out, err
}
