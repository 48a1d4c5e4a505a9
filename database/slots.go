package database

import (
	"cndash/structs"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"
)

const SLOTS_KEY_PREFIX = "slots/"

func slotsKey(nationID int) string {
	return SLOTS_KEY_PREFIX + strconv.Itoa(nationID)
}

// Retrieves the explicit slot config saved for a nation. Returns ErrNotFound if there is none.
func GetSlotConfig(kv *badger.DB, nationID int) (*structs.AidSlotConfig, error) {
	return GetInsensitive[structs.AidSlotConfig](kv, slotsKey(nationID))
}

// Validates then saves the config, replacing any config previously saved for the same nation.
func PutSlotConfig(kv *badger.DB, cfg structs.AidSlotConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := PutInsensitive(kv, slotsKey(cfg.NationID), cfg); err != nil {
		return fmt.Errorf("error saving slot config for nation %d: %w", cfg.NationID, err)
	}

	return nil
}

func DeleteSlotConfig(kv *badger.DB, nationID int) error {
	return kv.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(slotsKey(nationID)))
	})
}

// Every explicit slot config keyed by nation ID.
// Configs are not re-validated here so data saved before a rule change still loads.
func AllSlotConfigs(kv *badger.DB) (map[int]structs.AidSlotConfig, error) {
	raw, err := ScanPrefix[structs.AidSlotConfig](kv, SLOTS_KEY_PREFIX)
	if err != nil {
		return nil, err
	}

	configs := make(map[int]structs.AidSlotConfig, len(raw))
	for _, cfg := range raw {
		configs[cfg.NationID] = cfg
	}

	return configs, nil
}
