package structs

import (
	"cndash/engine/timewindow"
	"time"

	log "github.com/sirupsen/logrus"
)

// Raw aid offer as exported by the game. Dates are strings in one of timewindow.DATE_LAYOUTS.
type AidOfferRecord struct {
	ID          int     `json:"id"`
	SenderID    int     `json:"senderId"`
	RecipientID int     `json:"recipientId"`
	Money       float64 `json:"money"`
	Technology  float64 `json:"technology"`
	Soldiers    int     `json:"soldiers"`
	Reason      string  `json:"reason"`
	Date        string  `json:"date"`
	Status      string  `json:"status"`
}

// Raw war as exported by the game.
type WarRecord struct {
	ID                  int     `json:"id"`
	DeclaringID         int     `json:"declaringId"`
	ReceivingID         int     `json:"receivingId"`
	DeclaringAllianceID *int    `json:"declaringAllianceId"`
	ReceivingAllianceID *int    `json:"receivingAllianceId"`
	Status              string  `json:"status"`
	StartDate           string  `json:"startDate"`
	EndDate             string  `json:"endDate"`
	AttackPercent       float64 `json:"attackPercent"`
	DefendPercent       float64 `json:"defendPercent"`
}

// Converts the record into an AidOffer. An unparsable date is logged and left as the zero time,
// which keeps the offer from occupying any slots, rather than failing the record.
func ParseAidOffer(rec AidOfferRecord, loc *time.Location) (AidOffer, error) {
	offer := AidOffer{
		ID:          rec.ID,
		SenderID:    rec.SenderID,
		RecipientID: rec.RecipientID,
		Money:       rec.Money,
		Technology:  rec.Technology,
		Soldiers:    rec.Soldiers,
		Reason:      rec.Reason,
		CreatedAt:   parseDateOrZero(rec.Date, loc, "aid offer", rec.ID),
		Status:      NewOfferStatus(rec.Status),
	}

	if err := offer.Validate(); err != nil {
		return AidOffer{}, err
	}

	return offer, nil
}

func ParseWar(rec WarRecord, loc *time.Location) (War, error) {
	war := War{
		ID:                  rec.ID,
		DeclaringID:         rec.DeclaringID,
		ReceivingID:         rec.ReceivingID,
		DeclaringAllianceID: rec.DeclaringAllianceID,
		ReceivingAllianceID: rec.ReceivingAllianceID,
		Status:              NewWarStatus(rec.Status),
		StartDate:           parseDateOrZero(rec.StartDate, loc, "war", rec.ID),
		EndDate:             parseDateOrZero(rec.EndDate, loc, "war", rec.ID),
		AttackPercent:       rec.AttackPercent,
		DefendPercent:       rec.DefendPercent,
	}

	if err := war.Validate(); err != nil {
		return War{}, err
	}

	return war, nil
}

func parseDateOrZero(raw string, loc *time.Location, kind string, id int) time.Time {
	t, err := timewindow.ParseDate(raw, loc)
	if err != nil {
		log.WithFields(log.Fields{"kind": kind, "id": id}).Warnf("treating record as not current: %v", err)
		return time.Time{}
	}

	return t
}
