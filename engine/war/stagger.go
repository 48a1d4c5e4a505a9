package war

import (
	"cmp"
	"cndash/engine"
	"cndash/structs"
	"cndash/utils/sets"
	"slices"

	"github.com/samber/lo"
)

// Attackers at or above this strength ratio pass the AssignOnlyPositive gate.
const MIN_POSITIVE_RATIO = 1.0

type RankedAttacker struct {
	Nation        structs.Nation `json:"nation"`
	StrengthRatio float64        `json:"strengthRatio"` // attacker strength / defender strength
	InAnarchy     bool           `json:"inAnarchy"`
}

type DefenderEligibility struct {
	Defender          NationWarSummary `json:"defendingNation"`
	EffectiveWars     int              `json:"effectiveWars"` // Defending wars not declared by a nation in anarchy.
	EligibleAttackers []RankedAttacker `json:"eligibleAttackers"`
	TotalEligible     int              `json:"totalEligible"` // Length of the list before truncation.
}

// Strength of the attacker relative to the defender. A defender with no strength is treated as an even match.
func StrengthRatio(attacker, defender structs.Nation) float64 {
	if defender.Strength <= 0 {
		return 1
	}

	return attacker.Strength / defender.Strength
}

// For every defender that needs covering, ranks the attackers that could declare on it, strongest first.
//
// Defenders are skipped when already staggered (with opts.StaggerOnly), at the defending war cap (unless
// opts.ShowForFullTargets) or in anarchy (with opts.HideAnarchy). Only EffectiveWars count toward the cap, so
// roster should hold every nation a defender may be at war with. The attacker pool is always included.
// An attacker is ineligible against a defender when:
//   - it is the defender itself or already at war with it
//   - it is in peace mode and opts.IncludePeaceMode is not set
//   - opts.AssignOnlyPositive is set and its strength ratio is below 1.0
//
// Attackers in anarchy remain eligible. Each list is deduplicated by nation ID and never truncated here, see Truncate.
func Recommend(defenders []NationWarSummary, attackers []structs.Nation, roster map[int]structs.Nation, opts engine.Options) map[int][]RankedAttacker {
	return recommend(defenders, attackers, knownNations(attackers, roster), opts)
}

func recommend(defenders []NationWarSummary, attackers []structs.Nation, known map[int]structs.Nation, opts engine.Options) map[int][]RankedAttacker {
	pool := lo.UniqBy(attackers, func(n structs.Nation) int { return n.ID })
	slices.SortStableFunc(pool, func(a, b structs.Nation) int {
		if c := cmp.Compare(b.Strength, a.Strength); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})

	out := make(map[int][]RankedAttacker)
	for _, d := range lo.UniqBy(defenders, func(s NationWarSummary) int { return s.Nation.ID }) {
		if !needsCover(d, known, opts) {
			continue
		}

		out[d.Nation.ID] = rankFor(d, pool, opts)
	}

	return out
}

// Like Recommend, but returns one entry per defender with the urgency details, ordered with blown
// staggers first, then empty defenders, each group by defender strength (strongest first).
// Attacker lists are truncated to opts.MaxRecommendations.
func Eligibility(defenders []NationWarSummary, attackers []structs.Nation, roster map[int]structs.Nation, opts engine.Options) []DefenderEligibility {
	known := knownNations(attackers, roster)
	ranked := recommend(defenders, attackers, known, opts)

	entries := make([]DefenderEligibility, 0, len(ranked))
	for _, d := range lo.UniqBy(defenders, func(s NationWarSummary) int { return s.Nation.ID }) {
		list, ok := ranked[d.Nation.ID]
		if !ok {
			continue
		}

		entries = append(entries, DefenderEligibility{
			Defender:          d,
			EffectiveWars:     EffectiveWars(d, known),
			EligibleAttackers: Truncate(list, opts.MaxRecommendations),
			TotalEligible:     len(list),
		})
	}

	slices.SortFunc(entries, func(a, b DefenderEligibility) int {
		if c := cmp.Compare(statusRank(a.Defender.StaggerStatus), statusRank(b.Defender.StaggerStatus)); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Defender.Nation.Strength, a.Defender.Nation.Strength); c != 0 {
			return c
		}

		return cmp.Compare(a.Defender.Nation.ID, b.Defender.Nation.ID)
	})

	return entries
}

// Counts the defender's wars that actually pressure it. Wars declared by a known nation in anarchy do not count.
func EffectiveWars(d NationWarSummary, known map[int]structs.Nation) int {
	return lo.CountBy(d.DefendingWars, func(w structs.War) bool {
		declarer, ok := known[w.DeclaringID]
		return !ok || !declarer.InAnarchy()
	})
}

// Returns the first `limit` entries of the ranked list without reordering. limit <= 0 returns the full list.
func Truncate(list []RankedAttacker, limit int) []RankedAttacker {
	if limit <= 0 || limit >= len(list) {
		return list
	}

	return list[:limit]
}

// The attacker pool merged with the roster. Roster entries win on conflicting IDs.
func knownNations(attackers []structs.Nation, roster map[int]structs.Nation) map[int]structs.Nation {
	return lo.Assign(lo.KeyBy(attackers, func(n structs.Nation) int { return n.ID }), roster)
}

func needsCover(d NationWarSummary, known map[int]structs.Nation, opts engine.Options) bool {
	if opts.StaggerOnly && d.StaggerStatus == StaggerStaggered {
		return false
	}
	if EffectiveWars(d, known) >= structs.MAX_DEFENDING_WARS && !opts.ShowForFullTargets {
		return false
	}
	if opts.HideAnarchy && d.Nation.InAnarchy() {
		return false
	}

	return true
}

// Expects pool to already be deduplicated and sorted strongest first.
func rankFor(d NationWarSummary, pool []structs.Nation, opts engine.Options) []RankedAttacker {
	engaged := sets.New[int]()
	for _, w := range d.DefendingWars {
		engaged.Add(w.DeclaringID)
	}
	for _, w := range d.AttackingWars {
		engaged.Add(w.ReceivingID)
	}

	ranked := []RankedAttacker{}
	for _, a := range pool {
		if a.ID == d.Nation.ID {
			continue
		}
		if engaged.Has(a.ID) {
			continue
		}
		if !a.WarMode && !opts.IncludePeaceMode {
			continue
		}

		ratio := StrengthRatio(a, d.Nation)
		if opts.AssignOnlyPositive && ratio < MIN_POSITIVE_RATIO {
			continue
		}

		ranked = append(ranked, RankedAttacker{
			Nation:        a,
			StrengthRatio: ratio,
			InAnarchy:     a.InAnarchy(),
		})
	}

	return ranked
}

func statusRank(s StaggerStatus) int {
	switch s {
	case StaggerSameDay:
		return 0
	case StaggerEmpty:
		return 1
	default:
		return 2
	}
}
