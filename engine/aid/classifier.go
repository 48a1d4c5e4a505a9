package aid

import (
	"cndash/structs"
	"slices"
)

// Policy thresholds used to derive a slot allocation for nations without an explicit config.
// These are tuning knobs, not derived values.
const (
	TECH_SENDER_MIN_INFRA = 3000.0 // Infra strictly above this (with low tech) makes a tech sender.
	TECH_BUYER_MIN_TECH   = 500.0  // Tech at or above this makes a tech buyer regardless of infra.

	TECH_SENDER_SEND_TECH  = 6
	CASH_RECEIVER_GET_CASH = 6
	TECH_BUYER_SEND_CASH   = 2
	TECH_BUYER_GET_TECH    = 4

	DERIVED_PRIORITY = structs.PriorityNormal
)

type Role string

const (
	RoleTechSender   Role = "tech-sender"   // Large infra, little tech. Sends tech.
	RoleCashReceiver Role = "cash-receiver" // Small infra, little tech. Gets cash.
	RoleTechBuyer    Role = "tech-buyer"    // Established tech. Sends cash, gets tech.
	RoleConfigured   Role = "configured"    // Allocation set explicitly by a coordinator.
)

// Where a nation's slot allocation comes from. Either Configured or Derived, nothing else.
type SlotSource interface {
	slotSource()
}

// A coordinator-supplied allocation. Always wins over the stat-derived default.
type Configured struct {
	Config structs.AidSlotConfig
}

// No explicit allocation exists, derive one from the nation's stats.
type Derived struct {
	Nation structs.Nation
}

func (Configured) slotSource() {}
func (Derived) slotSource()    {}

type ResolvedSlots struct {
	Config  structs.AidSlotConfig `json:"slots"`
	Role    Role                  `json:"role"`
	Derived bool                  `json:"derived"`
}

// Picks the slot source for a nation: its explicit config if there is one, otherwise its stats.
func SourceFor(n structs.Nation, explicit *structs.AidSlotConfig) SlotSource {
	if explicit != nil {
		return Configured{Config: *explicit}
	}

	return Derived{Nation: n}
}

func Resolve(src SlotSource) ResolvedSlots {
	switch s := src.(type) {
	case Configured:
		return ResolvedSlots{Config: s.Config, Role: RoleConfigured}
	case Derived:
		cfg, role := derive(s.Nation)
		return ResolvedSlots{Config: cfg, Role: role, Derived: true}
	default:
		return ResolvedSlots{}
	}
}

// Returns the slot allocation for the nation. An explicit config is passed through unchanged.
func Classify(n structs.Nation, explicit *structs.AidSlotConfig) structs.AidSlotConfig {
	return Resolve(SourceFor(n, explicit)).Config
}

func derive(n structs.Nation) (structs.AidSlotConfig, Role) {
	cfg := structs.AidSlotConfig{
		NationID:        n.ID,
		SendPriority:    DERIVED_PRIORITY,
		ReceivePriority: DERIVED_PRIORITY,
	}

	switch {
	case n.Technology >= TECH_BUYER_MIN_TECH:
		cfg.SendCash = TECH_BUYER_SEND_CASH
		cfg.GetTech = TECH_BUYER_GET_TECH
		return cfg, RoleTechBuyer
	case n.Infrastructure > TECH_SENDER_MIN_INFRA:
		cfg.SendTech = TECH_SENDER_SEND_TECH
		return cfg, RoleTechSender
	default:
		cfg.GetCash = CASH_RECEIVER_GET_CASH
		return cfg, RoleCashReceiver
	}
}

// Resolves every roster nation once, keyed by nation ID. Configs for nations outside the roster are ignored.
// The returned configs are ordered by nation ID so the result can be fed straight into Match.
func ResolveAll(roster []structs.Nation, explicit []structs.AidSlotConfig) (map[int]ResolvedSlots, []structs.AidSlotConfig) {
	byNation := make(map[int]structs.AidSlotConfig, len(explicit))
	for _, c := range explicit {
		byNation[c.NationID] = c
	}

	resolved := make(map[int]ResolvedSlots, len(roster))
	for _, n := range roster {
		var cfg *structs.AidSlotConfig
		if c, ok := byNation[n.ID]; ok {
			cfg = &c
		}

		resolved[n.ID] = Resolve(SourceFor(n, cfg))
	}

	configs := make([]structs.AidSlotConfig, 0, len(resolved))
	for _, r := range resolved {
		configs = append(configs, r.Config)
	}

	slices.SortFunc(configs, func(a, b structs.AidSlotConfig) int {
		return a.NationID - b.NationID
	})

	return resolved, configs
}
