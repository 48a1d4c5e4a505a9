package database

import (
	"cndash/utils/requests"
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// Fetches a snapshot from url and imports it into db.
func RefreshSnapshot(ctx context.Context, db *Database, url string, loc *time.Location) (ImportResult, error) {
	file, err := requests.JsonGet[SnapshotFile](ctx, url)
	if err != nil {
		return ImportResult{}, err
	}

	return ImportSnapshot(db, file, loc)
}

// Refreshes from url immediately and then every interval until ctx is cancelled.
// A failed refresh is logged and the previous snapshot stays in place.
func RefreshLoop(ctx context.Context, db *Database, url string, interval time.Duration, loc *time.Location) error {
	refresh := func() {
		start := time.Now()
		res, err := RefreshSnapshot(ctx, db, url, loc)
		if err != nil {
			log.WithField("url", url).Errorf("snapshot refresh failed: %v", err)
			return
		}

		log.WithFields(log.Fields{
			"nations": res.Nations,
			"wars":    res.Wars,
			"skipped": res.Skipped,
			"took":    time.Since(start),
		}).Debug("snapshot refreshed")
	}

	refresh()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			refresh()
		}
	}
}
