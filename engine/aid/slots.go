package aid

import (
	"cndash/engine"
	"cndash/structs"

	"github.com/samber/lo"
)

// Alliance-wide slot totals shown next to the recommendations.
type SlotCounts struct {
	Nations       int      `json:"nations"`
	Configured    Capacity `json:"configured"`
	Used          Capacity `json:"used"`
	Open          Capacity `json:"open"`
	UnderAssigned int      `json:"underAssigned"` // Nations with fewer slots assigned than they can use.
}

// Remaining capacity for every nation that has a config, keyed by nation ID.
func RemainingByNation(roster []structs.Nation, configs []structs.AidSlotConfig, offers []structs.AidOffer, opts engine.Options) map[int]Capacity {
	nations := lo.KeyBy(roster, func(n structs.Nation) int { return n.ID })
	used := UsedSlots(ActiveOffers(offers, nations, opts.Clock()))

	remaining := make(map[int]Capacity, len(configs))
	for _, cfg := range configs {
		if _, ok := nations[cfg.NationID]; !ok {
			continue
		}

		remaining[cfg.NationID] = RemainingCapacity(cfg, used[cfg.NationID])
	}

	return remaining
}

// Totals configured, used and open slots over the nations in opts.AllianceID (or all of them when 0).
// Used slots are counted against the same offers Match considers active.
func CountSlots(roster []structs.Nation, configs []structs.AidSlotConfig, offers []structs.AidOffer, opts engine.Options) SlotCounts {
	nations := lo.KeyBy(roster, func(n structs.Nation) int { return n.ID })
	used := UsedSlots(ActiveOffers(offers, nations, opts.Clock()))

	counts := SlotCounts{}
	for _, cfg := range configs {
		n, ok := nations[cfg.NationID]
		if !ok || (opts.AllianceID != 0 && n.AllianceID != opts.AllianceID) {
			continue
		}

		u := used[cfg.NationID]

		counts.Nations++
		counts.Configured = counts.Configured.Plus(CapacityOf(cfg))
		counts.Used = counts.Used.Plus(u)
		counts.Open = counts.Open.Plus(RemainingCapacity(cfg, u))
		if cfg.UnderAssigned() {
			counts.UnderAssigned++
		}
	}

	return counts
}
