package database

import (
	"cndash/structs"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"
)

// Read access to the latest snapshot plus read/write access to coordinator-owned slot configs.
type Repository struct {
	snapshot *Database
	kv       *badger.DB
}

func NewRepository(snapshot *Database, kv *badger.DB) *Repository {
	return &Repository{snapshot: snapshot, kv: kv}
}

func (r *Repository) Nations() ([]structs.Nation, error) {
	s, err := GetStore(r.snapshot, NATIONS_STORE)
	if err != nil {
		return nil, err
	}

	return s.Values(), nil
}

func (r *Repository) Wars() ([]structs.War, error) {
	s, err := GetStore(r.snapshot, WARS_STORE)
	if err != nil {
		return nil, err
	}

	return s.Values(), nil
}

func (r *Repository) AidOffers() ([]structs.AidOffer, error) {
	s, err := GetStore(r.snapshot, AID_OFFERS_STORE)
	if err != nil {
		return nil, err
	}

	return s.Values(), nil
}

func (r *Repository) Alliances() ([]structs.Alliance, error) {
	s, err := GetStore(r.snapshot, ALLIANCES_STORE)
	if err != nil {
		return nil, err
	}

	return s.Values(), nil
}

// Finds an alliance by numeric ID or by its identifier, ignoring case.
func (r *Repository) Alliance(query string) (*structs.Alliance, error) {
	s, err := GetStore(r.snapshot, ALLIANCES_STORE)
	if err != nil {
		return nil, err
	}

	if id, err := strconv.Atoi(query); err == nil {
		if a, err := s.Get(strconv.Itoa(id)); err == nil {
			return a, nil
		}
	}

	a, err := s.Find(func(a structs.Alliance) bool { return a.Matches(query) })
	if err != nil {
		return nil, fmt.Errorf("alliance '%s': %w", query, ErrNotFound)
	}

	return a, nil
}

func (r *Repository) Nation(id int) (*structs.Nation, error) {
	s, err := GetStore(r.snapshot, NATIONS_STORE)
	if err != nil {
		return nil, err
	}

	n, err := s.Get(strconv.Itoa(id))
	if err != nil {
		return nil, fmt.Errorf("nation %d: %w", id, ErrNotFound)
	}

	return n, nil
}

func (r *Repository) SlotConfigs() (map[int]structs.AidSlotConfig, error) {
	return AllSlotConfigs(r.kv)
}

func (r *Repository) PutSlotConfig(cfg structs.AidSlotConfig) error {
	return PutSlotConfig(r.kv, cfg)
}
