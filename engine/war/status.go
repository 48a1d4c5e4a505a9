package war

import (
	"cmp"
	"cndash/engine/timewindow"
	"cndash/structs"
	"slices"
	"time"

	"github.com/samber/lo"
)

type StaggerStatus string

const (
	StaggerEmpty     StaggerStatus = "empty"     // No defending wars.
	StaggerStaggered StaggerStatus = "staggered" // Defending wars do not all lapse on one day.
	StaggerSameDay   StaggerStatus = "same-day"  // Blown stagger. All defending wars end on one day with nothing queued after it.
)

type NationWarSummary struct {
	Nation        structs.Nation `json:"nation"`
	AttackingWars []structs.War  `json:"attackingWars"`
	DefendingWars []structs.War  `json:"defendingWars"`
	StaggerStatus StaggerStatus  `json:"staggerStatus"`

	// Number of distinct calendar days the defending wars end on.
	DistinctEndDays int `json:"distinctEndDays"`
	// Set when every defending war ends on the same day but an attacking war outlives it.
	// The status is then "staggered" even though the defensive end dates are not actually spread.
	CoveredByAttack bool `json:"coveredByAttack"`
}

func (s NationWarSummary) OpenDefensiveSlots() int {
	return max(structs.MAX_DEFENDING_WARS-len(s.DefendingWars), 0)
}

// Counts every defending war. The recommender gates on EffectiveWars instead.
func (s NationWarSummary) AtDefendingCap() bool {
	return len(s.DefendingWars) >= structs.MAX_DEFENDING_WARS
}

// Whether the war is still being fought: active status and an end date that is valid and not yet reached.
func IsActive(w structs.War, now time.Time) bool {
	return w.Status == structs.WarStatusActive && timewindow.UntilEnd(w.EndDate, now).Current()
}

// Splits the nation's active wars into attacking and defending, and derives its stagger status.
//
//	empty     - no defending wars
//	same-day  - 2+ defending wars all ending on the same day, and no attacking war ending on a later day
//	staggered - anything else
//
// An attacking war that outlives a shared end date only stops the status from being "same-day".
// It does not make the defensive end dates spread out, which is what CoveredByAttack records.
func Evaluate(n structs.Nation, wars []structs.War, now time.Time) NationWarSummary {
	summary := NationWarSummary{
		Nation:        n,
		AttackingWars: []structs.War{},
		DefendingWars: []structs.War{},
	}

	for _, w := range wars {
		if !IsActive(w, now) {
			continue
		}

		switch {
		case w.IsAttacking(n.ID):
			summary.AttackingWars = append(summary.AttackingWars, w)
		case w.IsDefending(n.ID):
			summary.DefendingWars = append(summary.DefendingWars, w)
		}
	}

	sortByEnd(summary.AttackingWars)
	sortByEnd(summary.DefendingWars)

	loc := now.Location()
	endDays := lo.Uniq(lo.Map(summary.DefendingWars, func(w structs.War, _ int) time.Time {
		return timewindow.StartOfDay(w.EndDate, loc)
	}))
	summary.DistinctEndDays = len(endDays)

	switch {
	case len(summary.DefendingWars) == 0:
		summary.StaggerStatus = StaggerEmpty
	case len(summary.DefendingWars) >= 2 && len(endDays) == 1:
		shared := endDays[0]
		outlived := lo.SomeBy(summary.AttackingWars, func(w structs.War) bool {
			return timewindow.DaysBetween(shared, w.EndDate, loc) > 0
		})

		if outlived {
			summary.StaggerStatus = StaggerStaggered
			summary.CoveredByAttack = true
		} else {
			summary.StaggerStatus = StaggerSameDay
		}
	default:
		summary.StaggerStatus = StaggerStaggered
	}

	return summary
}

// Evaluates every roster nation. Wars referencing a nation outside the roster are skipped.
func EvaluateAll(roster []structs.Nation, wars []structs.War, now time.Time) map[int]NationWarSummary {
	known := lo.KeyBy(roster, func(n structs.Nation) int { return n.ID })

	byNation := make(map[int][]structs.War, len(roster))
	for _, w := range wars {
		_, declarerKnown := known[w.DeclaringID]
		_, receiverKnown := known[w.ReceivingID]
		if !declarerKnown || !receiverKnown {
			continue
		}

		byNation[w.DeclaringID] = append(byNation[w.DeclaringID], w)
		byNation[w.ReceivingID] = append(byNation[w.ReceivingID], w)
	}

	summaries := make(map[int]NationWarSummary, len(known))
	for id, n := range known {
		summaries[id] = Evaluate(n, byNation[id], now)
	}

	return summaries
}

func sortByEnd(wars []structs.War) {
	slices.SortFunc(wars, func(a, b structs.War) int {
		if c := a.EndDate.Compare(b.EndDate); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})
}
