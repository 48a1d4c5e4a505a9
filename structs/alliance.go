package structs

import (
	"strconv"
	"strings"
)

type AllianceOptionals struct {
	ImageURL    *string `json:"imageURL,omitempty"`
	DiscordCode *string `json:"discordCode,omitempty"` // Permanent invite code to the alliance's Discord.
}

type Alliance struct {
	ID               int               `json:"id"`
	Identifier       string            `json:"identifier"`       // Case-insensitive short name/acronym for lookup.
	Label            string            `json:"label"`            // Full name for display purposes.
	RepresentativeID *string           `json:"representativeID"` // Discord ID of the aid/war coordinator.
	UpdatedTimestamp *uint64           `json:"updatedTimestamp"` // Unix timestamp (ms) of the last snapshot that touched this alliance.
	Optional         AllianceOptionals `json:"optional"`
}

// Matches the alliance against a numeric ID or its identifier, ignoring case.
func (a Alliance) Matches(query string) bool {
	query = strings.TrimSpace(query)
	if id, err := strconv.Atoi(query); err == nil {
		return a.ID == id
	}

	return strings.EqualFold(a.Identifier, query)
}

// Keys used by the generic JSON stores.

func (a Alliance) StoreKey() string { return strconv.Itoa(a.ID) }
func (n Nation) StoreKey() string   { return strconv.Itoa(n.ID) }
func (o AidOffer) StoreKey() string { return strconv.Itoa(o.ID) }
func (w War) StoreKey() string      { return strconv.Itoa(w.ID) }
