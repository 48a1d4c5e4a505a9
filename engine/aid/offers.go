package aid

import (
	"cmp"
	"cndash/engine/timewindow"
	"cndash/structs"
	"slices"
	"time"
)

// Remaining (or used, or configured) slots per category for a single nation or a whole alliance.
type Capacity struct {
	SendCash int `json:"sendCash"`
	SendTech int `json:"sendTech"`
	GetCash  int `json:"getCash"`
	GetTech  int `json:"getTech"`
}

func CapacityOf(cfg structs.AidSlotConfig) Capacity {
	return Capacity{
		SendCash: cfg.SendCash,
		SendTech: cfg.SendTech,
		GetCash:  cfg.GetCash,
		GetTech:  cfg.GetTech,
	}
}

func (c Capacity) Get(t structs.AidType, dir structs.Direction) int {
	if p := c.field(t, dir); p != nil {
		return *p
	}

	return 0
}

func (c *Capacity) add(t structs.AidType, dir structs.Direction, delta int) {
	if p := c.field(t, dir); p != nil {
		*p += delta
	}
}

func (c *Capacity) field(t structs.AidType, dir structs.Direction) *int {
	switch {
	case t == structs.AidTypeCash && dir == structs.DirectionSend:
		return &c.SendCash
	case t == structs.AidTypeCash && dir == structs.DirectionReceive:
		return &c.GetCash
	case t == structs.AidTypeTech && dir == structs.DirectionSend:
		return &c.SendTech
	case t == structs.AidTypeTech && dir == structs.DirectionReceive:
		return &c.GetTech
	default:
		return nil
	}
}

func (c Capacity) Plus(o Capacity) Capacity {
	return Capacity{
		SendCash: c.SendCash + o.SendCash,
		SendTech: c.SendTech + o.SendTech,
		GetCash:  c.GetCash + o.GetCash,
		GetTech:  c.GetTech + o.GetTech,
	}
}

// Configured capacity minus what is already in use, floored at zero per category.
func RemainingCapacity(cfg structs.AidSlotConfig, used Capacity) Capacity {
	return Capacity{
		SendCash: max(cfg.SendCash-used.SendCash, 0),
		SendTech: max(cfg.SendTech-used.SendTech, 0),
		GetCash:  max(cfg.GetCash-used.GetCash, 0),
		GetTech:  max(cfg.GetTech-used.GetTech, 0),
	}
}

// Whether the offer currently occupies a slot on both sides: its status is open and its 10 day window has not run out.
// Offers with an unparsable creation date are never active.
func IsActive(o structs.AidOffer, now time.Time) bool {
	return o.Status.Open() && timewindow.ForAidOffer(o.CreatedAt, now).Current()
}

// Filters offers down to the active ones between nations that are both in `known`.
// Offers referencing a nation outside the snapshot are dropped rather than failing the computation.
func ActiveOffers(offers []structs.AidOffer, known map[int]structs.Nation, now time.Time) []structs.AidOffer {
	active := make([]structs.AidOffer, 0, len(offers))
	for _, o := range offers {
		if _, ok := known[o.SenderID]; !ok {
			continue
		}
		if _, ok := known[o.RecipientID]; !ok {
			continue
		}
		if IsActive(o, now) {
			active = append(active, o)
		}
	}

	return active
}

// Counts the slots each nation has in use, per category and direction. Soldier-only offers are not counted.
func UsedSlots(active []structs.AidOffer) map[int]Capacity {
	used := make(map[int]Capacity)
	for _, o := range active {
		t := o.Type()
		if t == structs.AidTypeOther {
			continue
		}

		s := used[o.SenderID]
		s.add(t, structs.DirectionSend, 1)
		used[o.SenderID] = s

		r := used[o.RecipientID]
		r.add(t, structs.DirectionReceive, 1)
		used[o.RecipientID] = r
	}

	return used
}

type OfferWindow struct {
	Offer  structs.AidOffer  `json:"offer"`
	Type   structs.AidType   `json:"type"`
	Window timewindow.Window `json:"window"`
}

// Returns the active offers whose window is in its final day(s), soonest expiry first.
func ExpiringOffers(offers []structs.AidOffer, known map[int]structs.Nation, now time.Time) []OfferWindow {
	expiring := []OfferWindow{}
	for _, o := range ActiveOffers(offers, known, now) {
		w := timewindow.ForAidOffer(o.CreatedAt, now)
		if w.Status == timewindow.StatusExpiring {
			expiring = append(expiring, OfferWindow{Offer: o, Type: o.Type(), Window: w})
		}
	}

	slices.SortFunc(expiring, func(a, b OfferWindow) int {
		if c := a.Window.Expiration.Compare(b.Window.Expiration); c != 0 {
			return c
		}

		return cmp.Compare(a.Offer.ID, b.Offer.ID)
	})

	return expiring
}
