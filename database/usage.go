package database

import (
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const USER_USAGE_KEY_PREFIX = "usage/users/"

type UsageCommandStat struct {
	Name  string
	Count int
}

type UsageCommandEntry struct {
	Type      uint8 `json:"type"` // see discordgo.ApplicationCommandType
	Timestamp int64 `json:"timestamp"`
	Success   bool  `json:"success"`
}

type UserUsage struct {
	CommandHistory map[string][]UsageCommandEntry `json:"slash_command_history"` // key = command name
}

func (u UserUsage) TotalCommandsExecuted() (total int) {
	for _, execs := range u.CommandHistory {
		total += len(execs)
	}

	return
}

// Retrieves the command stats sorted in order of most times executed first, then by name.
func (u UserUsage) GetCommandStats() []UsageCommandStat {
	stats := make([]UsageCommandStat, 0, len(u.CommandHistory))
	for _, name := range slices.Sorted(maps.Keys(u.CommandHistory)) {
		if count := len(u.CommandHistory[name]); count > 0 {
			stats = append(stats, UsageCommandStat{Name: name, Count: count})
		}
	}

	slices.SortStableFunc(stats, func(a, b UsageCommandStat) int {
		return b.Count - a.Count
	})

	return stats
}

// Same as GetCommandStats but only counts executions after t.
func (u UserUsage) GetCommandStatsSince(t time.Time) []UsageCommandStat {
	stats := []UsageCommandStat{}
	for _, name := range slices.Sorted(maps.Keys(u.CommandHistory)) {
		count := 0
		for _, entry := range u.CommandHistory[name] {
			if time.Unix(entry.Timestamp, 0).After(t) {
				count++
			}
		}

		if count > 0 {
			stats = append(stats, UsageCommandStat{Name: name, Count: count})
		}
	}

	slices.SortStableFunc(stats, func(a, b UsageCommandStat) int {
		return b.Count - a.Count
	})

	return stats
}

// ================================== DATABASE INTERACTION ==================================

func GetUserUsage(kv *badger.DB, discordID string) (*UserUsage, error) {
	return GetInsensitive[UserUsage](kv, USER_USAGE_KEY_PREFIX+discordID)
}

// Updates the user's usage using discordID as the key, adding entry to the history slice associated with the cmdName.
//
// All of this is done in a single transaction as opposed to two transactions (View-Get + Update-Set).
func UpdateUserUsage(kv *badger.DB, discordID, cmdName string, entry UsageCommandEntry) error {
	return kv.Update(func(txn *badger.Txn) error {
		key := strings.ToLower(USER_USAGE_KEY_PREFIX + discordID)

		usage, err := GetInsensitiveTxn[UserUsage](txn, key)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				return err
			}

			usage = &UserUsage{}
		}
		if usage.CommandHistory == nil {
			usage.CommandHistory = make(map[string][]UsageCommandEntry)
		}

		usage.CommandHistory[cmdName] = append(usage.CommandHistory[cmdName], entry)

		data, err := json.Marshal(usage)
		if err != nil {
			return err
		}

		return txn.Set([]byte(key), data)
	})
}
