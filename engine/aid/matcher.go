package aid

import (
	"cmp"
	"cndash/engine"
	"cndash/structs"
	"cndash/utils/sets"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// A suggested aid offer. Never persisted, it only lives for one request.
type Recommendation struct {
	SenderID      int              `json:"senderId"`
	RecipientID   int              `json:"recipientId"`
	Type          structs.AidType  `json:"type"`
	Priority      structs.Priority `json:"priority"`
	CrossAlliance bool             `json:"crossAlliance"` // Fallback match between two different alliances.
	Reason        string           `json:"reason"`
}

type candidate struct {
	nation    structs.Nation
	tier      structs.Priority
	remaining int
}

type pairKey struct {
	sender, recipient int
	aidType           structs.AidType
}

// Matches senders to recipients for every matchable aid type.
//
// Each pairing consumes one unit of remaining capacity on both sides, so no nation is ever recommended
// beyond `configured - active offers` in a category. Cash and tech are matched independently and
// never mixed. Recipients are served most urgent first, each taking the most urgent sender that still has capacity.
// A recipient keeps drawing from the same sender until one side runs out, one recommendation per unit.
// With opts.DistinctPairs a sender/recipient pair is used at most once per type, and never when an active
// offer of that type already links them.
//
// Same-alliance pairs are formed first over all capacity. When opts.CrossAlliance is set, whatever is
// left is then paired across alliances, and those recommendations are ordered after every same-alliance one.
//
// The result is deterministic for identical input. Empty roster or configs give an empty slice.
func Match(roster []structs.Nation, configs []structs.AidSlotConfig, offers []structs.AidOffer, opts engine.Options) []Recommendation {
	recs := []Recommendation{}
	if len(roster) == 0 || len(configs) == 0 {
		return recs
	}

	now := opts.Clock()
	nations := lo.SliceToMap(roster, func(n structs.Nation) (int, structs.Nation) {
		return n.ID, n
	})

	active := ActiveOffers(offers, nations, now)
	used := UsedSlots(active)

	var linked sets.Set[pairKey]
	if opts.DistinctPairs {
		linked = sets.FromSlice(lo.Map(active, func(o structs.AidOffer, _ int) pairKey {
			return pairKey{o.SenderID, o.RecipientID, o.Type()}
		}))
	}

	// Iterate in ID order so output never depends on map order.
	ordered := lo.Values(nations)
	slices.SortFunc(ordered, func(a, b structs.Nation) int {
		return cmp.Compare(a.ID, b.ID)
	})

	cfgs := make(map[int]structs.AidSlotConfig, len(configs))
	for _, c := range configs {
		if _, ok := nations[c.NationID]; ok {
			cfgs[c.NationID] = c
		}
	}

	home := opts.AllianceID
	sameAlliance := func(s, r structs.Nation) bool {
		return s.AllianceID == r.AllianceID && (home == 0 || s.AllianceID == home)
	}
	crossAlliance := func(s, r structs.Nation) bool {
		return s.AllianceID != r.AllianceID && (home == 0 || s.AllianceID == home || r.AllianceID == home)
	}

	for _, t := range structs.MATCHABLE_AID_TYPES {
		senders := buildPool(ordered, cfgs, used, t, structs.DirectionSend, opts)
		recipients := buildPool(ordered, cfgs, used, t, structs.DirectionReceive, opts)

		recs = append(recs, pair(senders, recipients, t, linked, sameAlliance, false)...)
		if opts.CrossAlliance {
			recs = append(recs, pair(senders, recipients, t, linked, crossAlliance, true)...)
		}
	}

	// Cross-alliance matches are only a fallback, keep them after every same-alliance match.
	slices.SortStableFunc(recs, func(a, b Recommendation) int {
		switch {
		case a.CrossAlliance == b.CrossAlliance:
			return 0
		case a.CrossAlliance:
			return 1
		default:
			return -1
		}
	})

	return recs
}

// Builds the candidate pool for a type/direction, sorted by tier then nation ID.
func buildPool(
	ordered []structs.Nation,
	cfgs map[int]structs.AidSlotConfig,
	used map[int]Capacity,
	t structs.AidType, dir structs.Direction,
	opts engine.Options,
) []*candidate {
	pool := []*candidate{}
	for _, n := range ordered {
		cfg, ok := cfgs[n.ID]
		if !ok {
			continue
		}
		if n.WarMode && !opts.IncludePeaceMode {
			continue
		}
		if opts.ExcludeInactive && n.Activity == structs.ActivityInactive {
			continue
		}
		if !opts.CrossAlliance && opts.AllianceID != 0 && n.AllianceID != opts.AllianceID {
			continue
		}

		remaining := RemainingCapacity(cfg, used[n.ID]).Get(t, dir)
		if remaining <= 0 {
			continue
		}

		pool = append(pool, &candidate{
			nation:    n,
			tier:      tierOf(n, cfg, dir),
			remaining: remaining,
		})
	}

	slices.SortStableFunc(pool, func(a, b *candidate) int {
		if c := cmp.Compare(a.tier, b.tier); c != 0 {
			return c
		}

		return cmp.Compare(a.nation.ID, b.nation.ID)
	})

	return pool
}

// Anarchy overrides any configured priority. Priorities outside 1-3 are treated as the lowest tier.
func tierOf(n structs.Nation, cfg structs.AidSlotConfig, dir structs.Direction) structs.Priority {
	if n.InAnarchy() {
		return structs.PriorityUrgent
	}

	p := cfg.Priority(dir)
	if !p.Configurable() {
		return structs.PriorityLow
	}

	return p
}

func pair(
	senders, recipients []*candidate,
	t structs.AidType,
	linked sets.Set[pairKey], // nil unless pairs must be distinct
	allowed func(s, r structs.Nation) bool,
	cross bool,
) []Recommendation {
	recs := []Recommendation{}

	for _, r := range recipients {
		for r.remaining > 0 {
			s, ok := lo.Find(senders, func(s *candidate) bool {
				if s.remaining <= 0 || s.nation.ID == r.nation.ID {
					return false
				}
				if linked.Has(pairKey{s.nation.ID, r.nation.ID, t}) {
					return false
				}

				return allowed(s.nation, r.nation)
			})
			if !ok {
				break
			}

			recs = append(recs, Recommendation{
				SenderID:      s.nation.ID,
				RecipientID:   r.nation.ID,
				Type:          t,
				Priority:      min(s.tier, r.tier),
				CrossAlliance: cross,
				Reason:        reasonFor(s, r, t, cross),
			})

			s.remaining--
			r.remaining--
			if linked != nil {
				linked.Add(pairKey{s.nation.ID, r.nation.ID, t})
			}
		}
	}

	return recs
}

func reasonFor(s, r *candidate, t structs.AidType, cross bool) string {
	var sb strings.Builder

	if cross {
		sb.WriteString("Cross-alliance fallback. ")
	}
	if r.nation.InAnarchy() {
		fmt.Fprintf(&sb, "Urgent: %s is in anarchy. ", r.nation.Label())
	} else if s.nation.InAnarchy() {
		fmt.Fprintf(&sb, "Urgent: %s is in anarchy. ", s.nation.Label())
	}

	fmt.Fprintf(&sb, "%s has %d open %s send slot(s), %s has %d open %s receive slot(s) (%s priority).",
		s.nation.Label(), s.remaining, t,
		r.nation.Label(), r.remaining, t,
		r.tier,
	)

	return sb.String()
}
