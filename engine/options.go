// Package engine holds what the aid matcher and the stagger recommender share.
// The matching itself lives in engine/aid and engine/war. Both packages are pure and never touch storage.
package engine

import "time"

// Options recognised by the matcher and recommender. The zero value is the conservative default:
// same-alliance only, war-posture nations excluded from aid, peace-mode attackers excluded, unbounded lists.
type Options struct {
	AllianceID int // Home alliance for aid matching. 0 means "pair within whatever alliance each nation is in".

	CrossAlliance      bool // Allow cross-alliance aid matches as a fallback for unmet demand.
	IncludePeaceMode   bool // Aid: keep war-mode nations in the pools. Stagger: allow peace-mode attackers.
	ExcludeInactive    bool // Aid: drop nations inactive for 3+ weeks from both pools.
	DistinctPairs      bool // Aid: at most one recommendation per sender/recipient/type, none for pairs an active offer already links.
	AssignOnlyPositive bool // Stagger: only attackers with strength ratio >= 1.0.
	StaggerOnly        bool // Stagger: skip defenders that are already staggered.
	ShowForFullTargets bool // Stagger: still recommend for defenders at the defending war cap.
	HideAnarchy        bool // Stagger: hide defenders that are in anarchy.
	MaxRecommendations int  // Display truncation for ranked lists. <= 0 means unbounded.

	Now time.Time // Reference instant for every window calculation. Zero means time.Now().
}

// The reference instant, falling back to the current time when unset.
func (o Options) Clock() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}

	return o.Now
}

// Default options for stagger lookups: only under-staggered defenders below the war cap.
func DefaultStaggerOptions() Options {
	return Options{StaggerOnly: true}
}
