package structs

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Ordinal urgency scale shared by slot configs and recommendations. Lower is more urgent.
//
// PriorityUrgent is reserved for computed cases (e.g. a nation in anarchy) and can never be configured.
type Priority uint8

const (
	PriorityUrgent Priority = 0
	PriorityHigh   Priority = 1
	PriorityNormal Priority = 2
	PriorityLow    Priority = 3
)

func (p Priority) Configurable() bool {
	return p >= PriorityHigh && p <= PriorityLow
}

func (p Priority) String() string {
	switch p {
	case PriorityUrgent:
		return "urgent"
	case PriorityHigh:
		return "high"
	case PriorityNormal:
		return "normal"
	case PriorityLow:
		return "low"
	default:
		return fmt.Sprintf("priority(%d)", uint8(p))
	}
}

const (
	BASE_AID_SLOTS = 5 // Total concurrent aid slots a nation has.
	DRA_AID_SLOTS  = 6 // Total slots once the nation owns a DRA.
)

var (
	ErrSlotsOverLimit  = errors.New("aid slots exceed the nation's limit")
	ErrNegativeSlots   = errors.New("aid slot capacities must not be negative")
	ErrInvalidPriority = errors.New("priority must be between 1 and 3")
)

// Per-nation aid slot allocation set by alliance coordinators.
type AidSlotConfig struct {
	NationID        int      `json:"nationId"`
	SendTech        int      `json:"sendTech"`
	SendCash        int      `json:"sendCash"`
	GetTech         int      `json:"getTech"`
	GetCash         int      `json:"getCash"`
	SendPriority    Priority `json:"send_priority"`
	ReceivePriority Priority `json:"receive_priority"`
	HasDRA          bool     `json:"has_dra"`
}

func (c AidSlotConfig) MaxSlots() int {
	if c.HasDRA {
		return DRA_AID_SLOTS
	}

	return BASE_AID_SLOTS
}

func (c AidSlotConfig) Total() int {
	return c.SendTech + c.SendCash + c.GetTech + c.GetCash
}

// Reports whether fewer slots are assigned than the nation can use. This is only ever a warning.
func (c AidSlotConfig) UnderAssigned() bool {
	return c.Total() < c.MaxSlots()
}

// Capacity for the given aid type and direction.
func (c AidSlotConfig) Capacity(t AidType, dir Direction) int {
	switch {
	case t == AidTypeCash && dir == DirectionSend:
		return c.SendCash
	case t == AidTypeCash && dir == DirectionReceive:
		return c.GetCash
	case t == AidTypeTech && dir == DirectionSend:
		return c.SendTech
	case t == AidTypeTech && dir == DirectionReceive:
		return c.GetTech
	default:
		return 0
	}
}

func (c AidSlotConfig) Priority(dir Direction) Priority {
	if dir == DirectionSend {
		return c.SendPriority
	}

	return c.ReceivePriority
}

// Checks the config can be persisted. Exceeding the slot limit is a hard error,
// whereas being under the limit is allowed (see UnderAssigned).
func (c AidSlotConfig) Validate() error {
	if c.SendTech < 0 || c.SendCash < 0 || c.GetTech < 0 || c.GetCash < 0 {
		return ErrNegativeSlots
	}
	if total, limit := c.Total(), c.MaxSlots(); total > limit {
		return fmt.Errorf("%w: %d assigned but only %d available", ErrSlotsOverLimit, total, limit)
	}
	if !c.SendPriority.Configurable() {
		return fmt.Errorf("send_priority: %w", ErrInvalidPriority)
	}
	if !c.ReceivePriority.Configurable() {
		return fmt.Errorf("receive_priority: %w", ErrInvalidPriority)
	}

	return nil
}

type AidType string

const (
	AidTypeCash  AidType = "cash"
	AidTypeTech  AidType = "tech"
	AidTypeOther AidType = "other" // Soldier-only offers. They occupy no cash or tech slot.
)

// The two matchable types in the order the matcher walks them.
var MATCHABLE_AID_TYPES = [...]AidType{AidTypeCash, AidTypeTech}

type Direction uint8

const (
	DirectionSend Direction = iota
	DirectionReceive
)

type OfferStatus string

const (
	OfferStatusPending   OfferStatus = "pending"
	OfferStatusActive    OfferStatus = "active"
	OfferStatusExpired   OfferStatus = "expired"
	OfferStatusCancelled OfferStatus = "cancelled"
)

func NewOfferStatus(s string) OfferStatus {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "pending":
		return OfferStatusPending
	case "active", "accepted", "approved":
		return OfferStatusActive
	case "cancelled", "canceled", "denied":
		return OfferStatusCancelled
	default:
		return OfferStatusExpired
	}
}

// Whether the persisted status still allows the offer to occupy slots.
// The 10 day window must be checked separately since the status may be stale.
func (s OfferStatus) Open() bool {
	return s == OfferStatusPending || s == OfferStatusActive
}

type AidOffer struct {
	ID          int         `json:"id"`
	SenderID    int         `json:"senderId"`
	RecipientID int         `json:"recipientId"`
	Money       float64     `json:"money"`
	Technology  float64     `json:"technology"`
	Soldiers    int         `json:"soldiers"`
	Reason      string      `json:"reason"`
	CreatedAt   time.Time   `json:"createdAt"` // Zero when the export date could not be parsed.
	Status      OfferStatus `json:"status"`
}

func (o AidOffer) Type() AidType {
	switch {
	case o.Technology > 0:
		return AidTypeTech
	case o.Money > 0:
		return AidTypeCash
	default:
		return AidTypeOther
	}
}

func (o AidOffer) Validate() error {
	if o.SenderID <= 0 || o.RecipientID <= 0 {
		return fmt.Errorf("aid offer %d: sender and recipient ids must be positive", o.ID)
	}
	if o.SenderID == o.RecipientID {
		return fmt.Errorf("aid offer %d: nation %d cannot send aid to itself", o.ID, o.SenderID)
	}
	if o.Money < 0 || o.Technology < 0 || o.Soldiers < 0 {
		return fmt.Errorf("aid offer %d: magnitudes must not be negative", o.ID)
	}
	if o.Money == 0 && o.Technology == 0 && o.Soldiers == 0 {
		return fmt.Errorf("aid offer %d: at least one of money, technology or soldiers must be set", o.ID)
	}

	return nil
}
