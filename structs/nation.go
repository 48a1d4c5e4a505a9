package structs

import (
	"cndash/utils"
	"errors"
	"fmt"
	"strings"
)

type Activity string

const (
	ActivityRecent   Activity = "recent"    // Active in the last 3 days.
	ActivityThisWeek Activity = "this-week" // Active this week.
	ActivityLastWeek Activity = "last-week" // Active last week.
	ActivityInactive Activity = "inactive"  // Inactive for 3 weeks or more.
)

// Parses the activity label as shown in the game's nation exports.
// Anything unrecognised is treated as inactive, which keeps it out of freshness-dependent logic.
func NewActivity(s string) Activity {
	s = strings.TrimSpace(strings.ToLower(s))

	switch {
	case s == string(ActivityRecent), strings.Contains(s, "3 days"), strings.Contains(s, "three days"):
		return ActivityRecent
	case s == string(ActivityThisWeek), strings.Contains(s, "this week"):
		return ActivityThisWeek
	case s == string(ActivityLastWeek), strings.Contains(s, "last week"):
		return ActivityLastWeek
	default:
		return ActivityInactive
	}
}

type Government string

const GovernmentAnarchy Government = "Anarchy"

func (g Government) IsAnarchy() bool {
	return strings.EqualFold(strings.TrimSpace(string(g)), string(GovernmentAnarchy))
}

type Nation struct {
	ID              int        `json:"id"`
	RulerName       string     `json:"rulerName"`
	NationName      string     `json:"nationName"`
	AllianceID      int        `json:"allianceId"`
	Strength        float64    `json:"strength"`
	Technology      float64    `json:"technology"`
	Infrastructure  float64    `json:"infrastructure"`
	Activity        Activity   `json:"activity"`
	WarMode         bool       `json:"warMode"` // True when the nation is in war posture, false for peace mode.
	Nukes           int        `json:"nukes"`
	Government      Government `json:"government"`
	Warchest        *float64   `json:"warchest,omitempty"`      // Liquid currency reserve, if reported.
	WarchestAgeDays int        `json:"warchestAgeDays"`         // How many days old the warchest figure is.
	DiscordHandle   *string    `json:"discordHandle,omitempty"` // Coordinator-supplied, never from the game export.
}

func (n Nation) InAnarchy() bool {
	return n.Government.IsAnarchy()
}

// Display name in the "Ruler of Nation" form used across embeds and reasons.
func (n Nation) Label() string {
	return fmt.Sprintf("%s of %s", n.RulerName, n.NationName)
}

func (n Nation) Validate() error {
	if n.ID <= 0 {
		return fmt.Errorf("nation has invalid id: %d", n.ID)
	}

	errs := []error{}
	if n.Strength < 0 {
		errs = append(errs, fmt.Errorf("strength must not be negative, got %v", n.Strength))
	}
	if n.Technology < 0 {
		errs = append(errs, fmt.Errorf("technology must not be negative, got %v", n.Technology))
	}
	if n.Infrastructure < 0 {
		errs = append(errs, fmt.Errorf("infrastructure must not be negative, got %v", n.Infrastructure))
	}
	if n.Nukes < 0 {
		errs = append(errs, fmt.Errorf("nukes must not be negative, got %d", n.Nukes))
	}
	if n.Warchest != nil && *n.Warchest < 0 {
		errs = append(errs, fmt.Errorf("warchest must not be negative, got %v", *n.Warchest))
	}

	if len(errs) > 0 {
		return fmt.Errorf("nation %d: %w", n.ID, errors.Join(errs...))
	}

	return nil
}

// The raw shape of a nation as it appears in a game export.
// Economic stats are serialized with grouping separators and must go through ParseNation.
type NationRecord struct {
	ID              int     `json:"id"`
	RulerName       string  `json:"rulerName"`
	NationName      string  `json:"nationName"`
	AllianceID      int     `json:"allianceId"`
	Strength        string  `json:"strength"`
	Technology      string  `json:"technology"`
	Infrastructure  string  `json:"infrastructure"`
	Activity        string  `json:"activity"`
	WarMode         bool    `json:"warMode"`
	Nukes           int     `json:"nukes"`
	Government      string  `json:"government"`
	Warchest        *string `json:"warchest,omitempty"`
	WarchestAgeDays int     `json:"warchestAgeDays"`
	DiscordHandle   *string `json:"discordHandle,omitempty"`
}

// Converts a raw export record into a validated Nation. Numbers like "1,234.56" are parsed here
// so nothing past the ingestion boundary has to deal with strings.
func ParseNation(rec NationRecord) (Nation, error) {
	strength, err := utils.ParseGroupedFloat(rec.Strength)
	if err != nil {
		return Nation{}, fmt.Errorf("nation %d strength: %w", rec.ID, err)
	}

	tech, err := utils.ParseGroupedFloat(rec.Technology)
	if err != nil {
		return Nation{}, fmt.Errorf("nation %d technology: %w", rec.ID, err)
	}

	infra, err := utils.ParseGroupedFloat(rec.Infrastructure)
	if err != nil {
		return Nation{}, fmt.Errorf("nation %d infrastructure: %w", rec.ID, err)
	}

	var warchest *float64
	if rec.Warchest != nil && strings.TrimSpace(*rec.Warchest) != "" {
		wc, err := utils.ParseGroupedFloat(*rec.Warchest)
		if err != nil {
			return Nation{}, fmt.Errorf("nation %d warchest: %w", rec.ID, err)
		}

		warchest = &wc
	}

	n := Nation{
		ID:              rec.ID,
		RulerName:       strings.TrimSpace(rec.RulerName),
		NationName:      strings.TrimSpace(rec.NationName),
		AllianceID:      rec.AllianceID,
		Strength:        strength,
		Technology:      tech,
		Infrastructure:  infra,
		Activity:        NewActivity(rec.Activity),
		WarMode:         rec.WarMode,
		Nukes:           rec.Nukes,
		Government:      Government(strings.TrimSpace(rec.Government)),
		Warchest:        warchest,
		WarchestAgeDays: rec.WarchestAgeDays,
		DiscordHandle:   rec.DiscordHandle,
	}

	if err := n.Validate(); err != nil {
		return Nation{}, err
	}

	return n, nil
}
