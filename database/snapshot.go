package database

import (
	"cndash/structs"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

// The shape of an ingestion file exported from the game. Numbers and dates arrive as strings
// and are normalised by the structs.Parse* funcs before anything is stored.
type SnapshotFile struct {
	Alliances []structs.Alliance       `json:"alliances"`
	Nations   []structs.NationRecord   `json:"nations"`
	AidOffers []structs.AidOfferRecord `json:"aidOffers"`
	Wars      []structs.WarRecord      `json:"wars"`
}

type ImportResult struct {
	Alliances int
	Nations   int
	AidOffers int
	Wars      int
	Skipped   int
}

// Reads the file at path and imports it into db. See [ImportSnapshot].
func ImportSnapshotFile(db *Database, path string, loc *time.Location) (ImportResult, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{}, err
	}

	var file SnapshotFile
	if err := json.Unmarshal(contents, &file); err != nil {
		return ImportResult{}, fmt.Errorf("malformed snapshot file %s: %w", path, err)
	}

	return ImportSnapshot(db, file, loc)
}

// Parses every record in the snapshot and replaces the contents of the snapshot stores with the result.
//
// A bad record is skipped and reported through the joined error without aborting the rest,
// so a non-nil error alongside a non-zero result means a partial import.
func ImportSnapshot(db *Database, file SnapshotFile, loc *time.Location) (ImportResult, error) {
	nationsStore, err := GetStore(db, NATIONS_STORE)
	if err != nil {
		return ImportResult{}, err
	}
	warsStore, err := GetStore(db, WARS_STORE)
	if err != nil {
		return ImportResult{}, err
	}
	offersStore, err := GetStore(db, AID_OFFERS_STORE)
	if err != nil {
		return ImportResult{}, err
	}
	alliancesStore, err := GetStore(db, ALLIANCES_STORE)
	if err != nil {
		return ImportResult{}, err
	}

	res := ImportResult{}
	errs := []error{}

	nations := make([]structs.Nation, 0, len(file.Nations))
	for _, rec := range file.Nations {
		n, err := structs.ParseNation(rec)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		nations = append(nations, n)
	}

	offers := make([]structs.AidOffer, 0, len(file.AidOffers))
	for _, rec := range file.AidOffers {
		o, err := structs.ParseAidOffer(rec, loc)
		if err != nil {
			errs = append(errs, fmt.Errorf("aid offer %d: %w", rec.ID, err))
			continue
		}

		offers = append(offers, o)
	}

	wars := make([]structs.War, 0, len(file.Wars))
	for _, rec := range file.Wars {
		w, err := structs.ParseWar(rec, loc)
		if err != nil {
			errs = append(errs, fmt.Errorf("war %d: %w", rec.ID, err))
			continue
		}

		wars = append(wars, w)
	}

	now := uint64(time.Now().UnixMilli())
	alliances := make([]structs.Alliance, 0, len(file.Alliances))
	for _, a := range file.Alliances {
		if a.ID <= 0 {
			errs = append(errs, fmt.Errorf("alliance %q: invalid id %d", a.Identifier, a.ID))
			continue
		}

		a.UpdatedTimestamp = &now
		alliances = append(alliances, a)
	}

	nationsStore.Replace(nations)
	offersStore.Replace(offers)
	warsStore.Replace(wars)
	alliancesStore.Replace(alliances)

	res.Nations, res.AidOffers, res.Wars, res.Alliances = len(nations), len(offers), len(wars), len(alliances)
	res.Skipped = len(errs)

	log.WithFields(log.Fields{
		"nations":   res.Nations,
		"aidOffers": res.AidOffers,
		"wars":      res.Wars,
		"alliances": res.Alliances,
		"skipped":   res.Skipped,
	}).Info("imported snapshot")

	if err := db.Flush(); err != nil {
		errs = append(errs, err)
	}

	return res, errors.Join(errs...)
}
