// Package dashboard answers the questions the API and the bot ask, by loading the latest
// snapshot from a Source and running it through the engine.
package dashboard

import (
	"cmp"
	"cndash/engine"
	"cndash/engine/aid"
	"cndash/engine/war"
	"cndash/structs"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"
	lop "github.com/samber/lo/parallel"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Nations whose warchest was last reported this many days ago (or never) are flagged as stale.
const WARCHEST_STALE_DAYS = 7

var (
	ErrUnknownAlliance = errors.New("no nations found for alliance")
	ErrUnknownNation   = errors.New("nation not found")
	ErrInvalidID       = errors.New("id must be a positive integer")
)

type Source interface {
	Nations() ([]structs.Nation, error)
	Wars() ([]structs.War, error)
	AidOffers() ([]structs.AidOffer, error)
	SlotConfigs() (map[int]structs.AidSlotConfig, error)
	PutSlotConfig(cfg structs.AidSlotConfig) error
}

type Service struct {
	src Source
	loc *time.Location
	now func() time.Time
}

// Creates a service reading from src. Day boundaries for countdowns are taken in loc.
func New(src Source, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}

	return &Service{src: src, loc: loc, now: time.Now}
}

// Overrides the clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Now() time.Time {
	return s.now().In(s.loc)
}

type snapshot struct {
	nations []structs.Nation
	wars    []structs.War
	offers  []structs.AidOffer
	configs []structs.AidSlotConfig
}

// Loads every collection from the source concurrently.
func (s *Service) load(ctx context.Context) (snapshot, error) {
	snap := snapshot{}
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		snap.nations, err = s.src.Nations()
		return
	})
	g.Go(func() (err error) {
		snap.wars, err = s.src.Wars()
		return
	})
	g.Go(func() (err error) {
		snap.offers, err = s.src.AidOffers()
		return
	})
	g.Go(func() error {
		configs, err := s.src.SlotConfigs()
		if err != nil {
			return err
		}

		snap.configs = lo.Values(configs)
		slices.SortFunc(snap.configs, func(a, b structs.AidSlotConfig) int {
			return cmp.Compare(a.NationID, b.NationID)
		})

		return nil
	})

	if err := g.Wait(); err != nil {
		return snapshot{}, fmt.Errorf("error loading snapshot: %w", err)
	}

	return snap, nil
}

func (snap snapshot) members(allianceID int) []structs.Nation {
	return lo.Filter(snap.nations, func(n structs.Nation, _ int) bool {
		return n.AllianceID == allianceID
	})
}

func checkAlliance(snap snapshot, allianceID int) error {
	if allianceID <= 0 {
		return fmt.Errorf("alliance %d: %w", allianceID, ErrInvalidID)
	}
	if len(snap.members(allianceID)) == 0 {
		return fmt.Errorf("alliance %d: %w", allianceID, ErrUnknownAlliance)
	}

	return nil
}

type AidResult struct {
	Recommendations []aid.Recommendation `json:"recommendations"`
	SlotCounts      aid.SlotCounts       `json:"slotCounts"`
}

// Recommends aid pairings for the alliance. Nations without an explicit slot config are
// classified from their stats. With crossAlliance, spare capacity is paired with other alliances as a fallback.
func (s *Service) AidRecommendations(ctx context.Context, allianceID int, crossAlliance bool) (AidResult, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return AidResult{}, err
	}
	if err := checkAlliance(snap, allianceID); err != nil {
		return AidResult{}, err
	}

	_, configs := aid.ResolveAll(snap.nations, snap.configs)
	opts := engine.Options{
		AllianceID:    allianceID,
		CrossAlliance: crossAlliance,
		Now:           s.Now(),
	}

	res := AidResult{
		Recommendations: aid.Match(snap.nations, configs, snap.offers, opts),
		SlotCounts:      aid.CountSlots(snap.nations, configs, snap.offers, opts),
	}

	log.WithFields(log.Fields{
		"alliance":        allianceID,
		"crossAlliance":   crossAlliance,
		"recommendations": len(res.Recommendations),
	}).Debug("computed aid recommendations")

	return res, nil
}

// Active offers involving the alliance that lapse within the next day.
func (s *Service) ExpiringOffers(ctx context.Context, allianceID int) ([]aid.OfferWindow, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkAlliance(snap, allianceID); err != nil {
		return nil, err
	}

	known := lo.KeyBy(snap.nations, func(n structs.Nation) int { return n.ID })
	expiring := aid.ExpiringOffers(snap.offers, known, s.Now())

	return lo.Filter(expiring, func(w aid.OfferWindow, _ int) bool {
		return known[w.Offer.SenderID].AllianceID == allianceID || known[w.Offer.RecipientID].AllianceID == allianceID
	}), nil
}

type CategorizedNation struct {
	ID            int                   `json:"id"`
	RulerName     string                `json:"rulerName"`
	NationName    string                `json:"nationName"`
	Slots         structs.AidSlotConfig `json:"slots"`
	Remaining     aid.Capacity          `json:"remaining"`
	HasDRA        bool                  `json:"has_dra"`
	DiscordHandle *string               `json:"discord_handle,omitempty"`
	WarStatus     war.StaggerStatus     `json:"warStatus"`
	Role          aid.Role              `json:"role"`
	Derived       bool                  `json:"derived"`
	WarchestStale bool                  `json:"warchestStale"`
}

// Every member of the alliance with its resolved slots, role and war status, ordered by nation ID.
func (s *Service) CategorizedNations(ctx context.Context, allianceID int) ([]CategorizedNation, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkAlliance(snap, allianceID); err != nil {
		return nil, err
	}

	now := s.Now()
	members := snap.members(allianceID)
	resolved, configs := aid.ResolveAll(members, snap.configs)
	remaining := aid.RemainingByNation(snap.nations, configs, snap.offers, engine.Options{Now: now})
	summaries := war.EvaluateAll(snap.nations, snap.wars, now)

	out := lop.Map(members, func(n structs.Nation, _ int) CategorizedNation {
		r := resolved[n.ID]
		return CategorizedNation{
			ID:            n.ID,
			RulerName:     n.RulerName,
			NationName:    n.NationName,
			Slots:         r.Config,
			Remaining:     remaining[n.ID],
			HasDRA:        r.Config.HasDRA,
			DiscordHandle: n.DiscordHandle,
			WarStatus:     summaries[n.ID].StaggerStatus,
			Role:          r.Role,
			Derived:       r.Derived,
			WarchestStale: WarchestStale(n),
		}
	})

	slices.SortFunc(out, func(a, b CategorizedNation) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

// Groups categorized nations by role, keeping the input order within each group.
func ByRole(nations []CategorizedNation) map[aid.Role][]CategorizedNation {
	return lo.GroupBy(nations, func(n CategorizedNation) aid.Role { return n.Role })
}

func WarchestStale(n structs.Nation) bool {
	return n.Warchest == nil || n.WarchestAgeDays >= WARCHEST_STALE_DAYS
}

type StaggerRequest struct {
	FriendlyAllianceID int
	TargetAllianceID   int
	HideAnarchy        bool
	HidePeaceMode      bool
	IncludeFullTargets bool
	AssignOnlyPositive bool
	Max                int // Attackers listed per defender. <= 0 lists all of them.
}

func (r StaggerRequest) Options(now time.Time) engine.Options {
	opts := engine.DefaultStaggerOptions()
	opts.HideAnarchy = r.HideAnarchy
	opts.IncludePeaceMode = !r.HidePeaceMode
	opts.ShowForFullTargets = r.IncludeFullTargets
	opts.AssignOnlyPositive = r.AssignOnlyPositive
	opts.MaxRecommendations = r.Max
	opts.Now = now

	return opts
}

type StaggerEntry struct {
	DefendingNation   structs.Nation       `json:"defendingNation"`
	StaggerStatus     war.StaggerStatus    `json:"staggerStatus"`
	EffectiveWars     int                  `json:"effectiveWars"` // Wars from anarchy declarers excluded. Decides the cap.
	OpenSlots         int                  `json:"openSlots"`     // Counts every defending war, anarchy declarers included.
	EligibleAttackers []war.RankedAttacker `json:"eligibleAttackers"`
	TotalEligible     int                  `json:"totalEligible"`
}

// For every under-staggered nation of the target alliance, ranks the friendly nations able to declare on it.
func (s *Service) StaggerEligibility(ctx context.Context, req StaggerRequest) ([]StaggerEntry, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkAlliance(snap, req.FriendlyAllianceID); err != nil {
		return nil, fmt.Errorf("friendly %w", err)
	}
	if err := checkAlliance(snap, req.TargetAllianceID); err != nil {
		return nil, fmt.Errorf("target %w", err)
	}

	now := s.Now()

	// Summaries need every nation so wars against third parties still count.
	summaries := war.EvaluateAll(snap.nations, snap.wars, now)
	defenders := lo.FilterMap(snap.members(req.TargetAllianceID), func(n structs.Nation, _ int) (war.NationWarSummary, bool) {
		sum, ok := summaries[n.ID]
		return sum, ok
	})

	// Declarers may belong to any alliance, so anarchy is looked up across the whole roster.
	known := lo.KeyBy(snap.nations, func(n structs.Nation) int { return n.ID })

	eligibility := war.Eligibility(defenders, snap.members(req.FriendlyAllianceID), known, req.Options(now))
	return lo.Map(eligibility, func(e war.DefenderEligibility, _ int) StaggerEntry {
		return StaggerEntry{
			DefendingNation:   e.Defender.Nation,
			StaggerStatus:     e.Defender.StaggerStatus,
			EffectiveWars:     e.EffectiveWars,
			OpenSlots:         e.Defender.OpenDefensiveSlots(),
			EligibleAttackers: e.EligibleAttackers,
			TotalEligible:     e.TotalEligible,
		}
	}), nil
}

type SaveResult struct {
	Config  structs.AidSlotConfig `json:"config"`
	Warning string                `json:"warning,omitempty"`
}

// Validates and stores an explicit slot config. Assigning more slots than the nation has is an error,
// assigning fewer is allowed but comes back with a warning.
func (s *Service) SaveSlotConfig(ctx context.Context, cfg structs.AidSlotConfig) (SaveResult, error) {
	if cfg.NationID <= 0 {
		return SaveResult{}, fmt.Errorf("nation %d: %w", cfg.NationID, ErrInvalidID)
	}
	if err := cfg.Validate(); err != nil {
		return SaveResult{}, err
	}

	snap, err := s.load(ctx)
	if err != nil {
		return SaveResult{}, err
	}
	if !lo.SomeBy(snap.nations, func(n structs.Nation) bool { return n.ID == cfg.NationID }) {
		return SaveResult{}, fmt.Errorf("nation %d: %w", cfg.NationID, ErrUnknownNation)
	}

	if err := s.src.PutSlotConfig(cfg); err != nil {
		return SaveResult{}, err
	}

	res := SaveResult{Config: cfg}
	if cfg.UnderAssigned() {
		res.Warning = fmt.Sprintf("only %d of %d aid slots are assigned", cfg.Total(), cfg.MaxSlots())
	}

	log.WithFields(log.Fields{"nation": cfg.NationID, "total": cfg.Total()}).Info("saved slot config")
	return res, nil
}
