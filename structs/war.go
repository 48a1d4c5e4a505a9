package structs

import (
	"fmt"
	"strings"
	"time"
)

const MAX_DEFENDING_WARS = 3 // A nation can only be declared on by this many nations at once.

type WarStatus string

const (
	WarStatusActive  WarStatus = "active"
	WarStatusEnded   WarStatus = "ended"
	WarStatusExpired WarStatus = "expired"
)

func NewWarStatus(s string) WarStatus {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "active", "ongoing", "war":
		return WarStatusActive
	case "ended", "peace", "peace declared":
		return WarStatusEnded
	default:
		return WarStatusExpired
	}
}

type War struct {
	ID                  int       `json:"id"`
	DeclaringID         int       `json:"declaringId"`
	ReceivingID         int       `json:"receivingId"`
	DeclaringAllianceID *int      `json:"declaringAllianceId"` // May differ from the nation's live alliance.
	ReceivingAllianceID *int      `json:"receivingAllianceId"`
	Status              WarStatus `json:"status"`
	StartDate           time.Time `json:"startDate"`
	EndDate             time.Time `json:"endDate"` // Zero when unparsable. Such wars are never treated as active.
	AttackPercent       float64   `json:"attackPercent"`
	DefendPercent       float64   `json:"defendPercent"`
}

// Whether the nation declared this war.
func (w War) IsAttacking(nationID int) bool {
	return w.DeclaringID == nationID
}

// Whether the nation was declared on in this war.
func (w War) IsDefending(nationID int) bool {
	return w.ReceivingID == nationID
}

// The ID of the nation on the other side of this war from nationID.
func (w War) Opponent(nationID int) int {
	if w.DeclaringID == nationID {
		return w.ReceivingID
	}

	return w.DeclaringID
}

// Alliance of the declaring side, preferring the per-war override over the nation's live alliance.
func (w War) DeclaringAlliance(fallback int) int {
	if w.DeclaringAllianceID != nil {
		return *w.DeclaringAllianceID
	}

	return fallback
}

func (w War) ReceivingAlliance(fallback int) int {
	if w.ReceivingAllianceID != nil {
		return *w.ReceivingAllianceID
	}

	return fallback
}

func (w War) Validate() error {
	if w.DeclaringID <= 0 || w.ReceivingID <= 0 {
		return fmt.Errorf("war %d: nation ids must be positive", w.ID)
	}
	if w.DeclaringID == w.ReceivingID {
		return fmt.Errorf("war %d: nation %d cannot declare on itself", w.ID, w.DeclaringID)
	}

	return nil
}
