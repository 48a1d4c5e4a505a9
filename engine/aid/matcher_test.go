package aid

import (
	"cndash/engine"
	"cndash/structs"
	"testing"
	"time"

	"github.com/sanity-io/litter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

func nation(id, alliance int) structs.Nation {
	return structs.Nation{
		ID:         id,
		RulerName:  "Ruler",
		NationName: "Nation",
		AllianceID: alliance,
		Activity:   structs.ActivityRecent,
	}
}

func cfg(id int, sendCash, sendTech, getCash, getTech int, sendPrio, recvPrio structs.Priority) structs.AidSlotConfig {
	return structs.AidSlotConfig{
		NationID:        id,
		SendCash:        sendCash,
		SendTech:        sendTech,
		GetCash:         getCash,
		GetTech:         getTech,
		SendPriority:    sendPrio,
		ReceivePriority: recvPrio,
	}
}

func offer(id, sender, recipient int, money, tech float64, created time.Time) structs.AidOffer {
	return structs.AidOffer{
		ID:          id,
		SenderID:    sender,
		RecipientID: recipient,
		Money:       money,
		Technology:  tech,
		CreatedAt:   created,
		Status:      structs.OfferStatusActive,
	}
}

func opts() engine.Options {
	return engine.Options{Now: testNow}
}

// Asserts nobody is recommended past their remaining capacity in any category.
func assertCapacityRespected(t *testing.T, recs []Recommendation, remaining map[int]Capacity) {
	t.Helper()

	counted := map[int]Capacity{}
	for _, r := range recs {
		s := counted[r.SenderID]
		s.add(r.Type, structs.DirectionSend, 1)
		counted[r.SenderID] = s

		rc := counted[r.RecipientID]
		rc.add(r.Type, structs.DirectionReceive, 1)
		counted[r.RecipientID] = rc
	}

	for id, c := range counted {
		rem := remaining[id]
		assert.LessOrEqual(t, c.SendCash, rem.SendCash, "nation %d sendCash", id)
		assert.LessOrEqual(t, c.SendTech, rem.SendTech, "nation %d sendTech", id)
		assert.LessOrEqual(t, c.GetCash, rem.GetCash, "nation %d getCash", id)
		assert.LessOrEqual(t, c.GetTech, rem.GetTech, "nation %d getTech", id)
	}
}

func TestMatchEmptyInputs(t *testing.T) {
	assert.Empty(t, Match(nil, nil, nil, opts()))
	assert.Empty(t, Match([]structs.Nation{nation(1, 1)}, nil, nil, opts()))
	assert.NotNil(t, Match(nil, []structs.AidSlotConfig{cfg(1, 1, 0, 0, 0, 1, 1)}, nil, opts()))
}

func TestMatchScenarioRemainingCapacity(t *testing.T) {
	a := nation(1, 10)
	a.Infrastructure, a.Technology = 4000, 100
	b := nation(2, 10)
	b.Infrastructure, b.Technology = 1000, 100

	roster := []structs.Nation{a, b}
	_, configs := ResolveAll(roster, nil)

	c := Classify(a, nil)
	require.Equal(t, 6, c.SendTech)
	require.Equal(t, 6, Classify(b, nil).GetCash)

	other := nation(3, 10)
	roster = append(roster, other)
	offers := []structs.AidOffer{offer(1, a.ID, other.ID, 0, 50, testNow.AddDate(0, 0, -2))}

	remaining := RemainingByNation(roster, configs, offers, opts())
	assert.Equal(t, 5, remaining[a.ID].SendTech)
	assert.Equal(t, 6, remaining[b.ID].GetCash)
}

func TestMatchPairsByPriority(t *testing.T) {
	roster := []structs.Nation{nation(1, 10), nation(2, 10), nation(3, 10), nation(4, 10)}
	configs := []structs.AidSlotConfig{
		cfg(1, 1, 0, 0, 0, 3, 3), // low priority cash sender
		cfg(2, 1, 0, 0, 0, 1, 1), // high priority cash sender
		cfg(3, 0, 0, 1, 0, 2, 2), // normal priority receiver
		cfg(4, 0, 0, 1, 0, 1, 1), // high priority receiver
	}

	recs := Match(roster, configs, nil, opts())
	require.Len(t, recs, 2, litter.Sdump(recs))

	assert.Equal(t, 2, recs[0].SenderID)
	assert.Equal(t, 4, recs[0].RecipientID)
	assert.Equal(t, structs.PriorityHigh, recs[0].Priority)

	assert.Equal(t, 1, recs[1].SenderID)
	assert.Equal(t, 3, recs[1].RecipientID)
	assert.Equal(t, structs.PriorityNormal, recs[1].Priority)

	for _, r := range recs {
		assert.Equal(t, structs.AidTypeCash, r.Type)
		assert.NotEmpty(t, r.Reason)
	}
}

func TestMatchNeverCrossesTypes(t *testing.T) {
	roster := []structs.Nation{nation(1, 10), nation(2, 10)}
	configs := []structs.AidSlotConfig{
		cfg(1, 3, 0, 0, 0, 1, 1), // only sends cash
		cfg(2, 0, 0, 0, 3, 1, 1), // only wants tech
	}

	assert.Empty(t, Match(roster, configs, nil, opts()))
}

func TestMatchRespectsActiveOffers(t *testing.T) {
	roster := []structs.Nation{nation(1, 10), nation(2, 10), nation(3, 10)}
	configs := []structs.AidSlotConfig{
		cfg(1, 0, 2, 0, 0, 1, 1),
		cfg(2, 0, 0, 0, 1, 1, 1),
		cfg(3, 0, 0, 0, 2, 1, 1),
	}
	offers := []structs.AidOffer{
		offer(1, 1, 3, 0, 50, testNow.AddDate(0, 0, -1)),  // active, uses one slot each side
		offer(2, 1, 2, 0, 50, testNow.AddDate(0, 0, -10)), // expired by window
		offer(3, 1, 2, 0, 50, time.Time{}),                // unparsable date
		offer(4, 1, 99, 0, 50, testNow),                   // recipient missing from roster
		{ID: 5, SenderID: 1, RecipientID: 2, Soldiers: 500, CreatedAt: testNow, Status: structs.OfferStatusActive},
	}

	recs := Match(roster, configs, offers, opts())
	require.Len(t, recs, 1, litter.Sdump(recs))
	assert.Equal(t, 1, recs[0].SenderID)
	assert.Equal(t, 2, recs[0].RecipientID)
	assert.Equal(t, structs.AidTypeTech, recs[0].Type)

	assertCapacityRespected(t, recs, RemainingByNation(roster, configs, offers, opts()))
}

func TestMatchConsumesCapacityUnitByUnit(t *testing.T) {
	roster := []structs.Nation{nation(1, 10), nation(2, 10)}
	configs := []structs.AidSlotConfig{
		cfg(1, 0, 4, 0, 0, 1, 1),
		cfg(2, 0, 0, 0, 4, 1, 1),
	}

	recs := Match(roster, configs, nil, opts())
	require.Len(t, recs, 4, litter.Sdump(recs))
	for _, r := range recs {
		assert.Equal(t, 1, r.SenderID)
		assert.Equal(t, 2, r.RecipientID)
		assert.Equal(t, structs.AidTypeTech, r.Type)
	}

	// An existing offer between the pair only uses up one unit on each side.
	offers := []structs.AidOffer{offer(1, 1, 2, 0, 50, testNow)}
	recs = Match(roster, configs, offers, opts())
	assert.Len(t, recs, 3)

	assertCapacityRespected(t, recs, RemainingByNation(roster, configs, offers, opts()))
}

func TestMatchDistinctPairs(t *testing.T) {
	roster := []structs.Nation{nation(1, 10), nation(2, 10), nation(3, 10)}
	configs := []structs.AidSlotConfig{
		cfg(1, 4, 0, 0, 0, 1, 1),
		cfg(2, 0, 0, 4, 0, 1, 1),
		cfg(3, 1, 0, 0, 0, 2, 2),
	}

	o := opts()
	o.DistinctPairs = true

	recs := Match(roster, configs, nil, o)
	require.Len(t, recs, 2, litter.Sdump(recs))
	assert.Equal(t, 1, recs[0].SenderID)
	assert.Equal(t, 3, recs[1].SenderID)

	// Already linked by an active cash offer, so only the other sender is left.
	recs = Match(roster, configs, []structs.AidOffer{offer(1, 1, 2, 1_000_000, 0, testNow)}, o)
	require.Len(t, recs, 1, litter.Sdump(recs))
	assert.Equal(t, 3, recs[0].SenderID)
}

func TestMatchExcludesWarModeUnlessOverridden(t *testing.T) {
	sender := nation(1, 10)
	sender.WarMode = true

	roster := []structs.Nation{sender, nation(2, 10)}
	configs := []structs.AidSlotConfig{
		cfg(1, 1, 0, 0, 0, 1, 1),
		cfg(2, 0, 0, 1, 0, 1, 1),
	}

	assert.Empty(t, Match(roster, configs, nil, opts()))

	o := opts()
	o.IncludePeaceMode = true
	assert.Len(t, Match(roster, configs, nil, o), 1)
}

func TestMatchExcludeInactive(t *testing.T) {
	idle := nation(2, 10)
	idle.Activity = structs.ActivityInactive

	roster := []structs.Nation{nation(1, 10), idle}
	configs := []structs.AidSlotConfig{
		cfg(1, 1, 0, 0, 0, 1, 1),
		cfg(2, 0, 0, 1, 0, 1, 1),
	}

	assert.Len(t, Match(roster, configs, nil, opts()), 1)

	o := opts()
	o.ExcludeInactive = true
	assert.Empty(t, Match(roster, configs, nil, o))
}

func TestMatchCrossAllianceIsFallback(t *testing.T) {
	roster := []structs.Nation{nation(1, 10), nation(2, 10), nation(3, 20), nation(4, 10)}
	configs := []structs.AidSlotConfig{
		cfg(1, 1, 0, 0, 0, 3, 3), // home sender, low priority
		cfg(2, 0, 0, 1, 0, 1, 1), // home recipient
		cfg(3, 1, 0, 0, 0, 1, 1), // foreign sender, high priority
		cfg(4, 0, 0, 1, 0, 2, 2), // home recipient
	}

	o := opts()
	o.AllianceID = 10

	recs := Match(roster, configs, nil, o)
	require.Len(t, recs, 1, litter.Sdump(recs))
	assert.Equal(t, 1, recs[0].SenderID)
	assert.Equal(t, 2, recs[0].RecipientID)

	o.CrossAlliance = true
	recs = Match(roster, configs, nil, o)
	require.Len(t, recs, 2, litter.Sdump(recs))

	// The stronger-priority foreign sender is only used for demand the home alliance could not meet.
	assert.False(t, recs[0].CrossAlliance)
	assert.Equal(t, 1, recs[0].SenderID)
	assert.Equal(t, 2, recs[0].RecipientID)

	assert.True(t, recs[1].CrossAlliance)
	assert.Equal(t, 3, recs[1].SenderID)
	assert.Equal(t, 4, recs[1].RecipientID)
}

func TestMatchAnarchyIsUrgent(t *testing.T) {
	broke := nation(3, 10)
	broke.Government = structs.GovernmentAnarchy

	roster := []structs.Nation{nation(1, 10), nation(2, 10), broke}
	configs := []structs.AidSlotConfig{
		cfg(1, 1, 0, 0, 0, 1, 1),
		cfg(2, 0, 0, 1, 0, 1, 1),
		cfg(3, 0, 0, 1, 0, 3, 3),
	}

	recs := Match(roster, configs, nil, opts())
	require.Len(t, recs, 1)
	assert.Equal(t, 3, recs[0].RecipientID)
	assert.Equal(t, structs.PriorityUrgent, recs[0].Priority)
	assert.Contains(t, recs[0].Reason, "anarchy")
}

func TestMatchToleratesMisconfiguredData(t *testing.T) {
	roster := []structs.Nation{nation(1, 10), nation(2, 10)}
	configs := []structs.AidSlotConfig{
		cfg(1, 9, -2, 0, 0, 0, 7), // over the limit, negative and invalid priorities
		cfg(2, 0, 0, 3, 0, 0, 0),
	}

	recs := Match(roster, configs, nil, opts())
	require.Len(t, recs, 3, "bounded by the recipient's 3 cash slots")
	assert.Equal(t, structs.PriorityLow, recs[0].Priority)
}

func TestMatchIsDeterministicAndCapacitySafe(t *testing.T) {
	roster := []structs.Nation{}
	configs := []structs.AidSlotConfig{}
	for id := 1; id <= 30; id++ {
		roster = append(roster, nation(id, 10+id%2))

		switch id % 3 {
		case 0:
			configs = append(configs, cfg(id, 0, 6, 0, 0, structs.Priority(1+id%3), 2))
		case 1:
			configs = append(configs, cfg(id, 0, 0, 6, 0, 2, structs.Priority(1+id%3)))
		default:
			configs = append(configs, cfg(id, 2, 0, 0, 4, 1, 3))
		}
	}

	offers := []structs.AidOffer{
		offer(1, 3, 2, 0, 50, testNow.AddDate(0, 0, -3)),
		offer(2, 5, 4, 2_000_000, 0, testNow.AddDate(0, 0, -5)),
	}

	o := opts()
	o.CrossAlliance = true

	first := Match(roster, configs, offers, o)
	second := Match(roster, configs, offers, o)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)

	assertCapacityRespected(t, first, RemainingByNation(roster, configs, offers, o))
}

func TestCountSlots(t *testing.T) {
	roster := []structs.Nation{nation(1, 10), nation(2, 10), nation(3, 20)}
	configs := []structs.AidSlotConfig{
		cfg(1, 0, 5, 0, 0, 1, 1),
		cfg(2, 0, 0, 3, 0, 1, 1),
		cfg(3, 0, 0, 5, 0, 1, 1),
	}
	offers := []structs.AidOffer{offer(1, 1, 3, 0, 50, testNow)}

	o := opts()
	o.AllianceID = 10

	counts := CountSlots(roster, configs, offers, o)
	assert.Equal(t, 2, counts.Nations)
	assert.Equal(t, Capacity{SendTech: 5, GetCash: 3}, counts.Configured)
	assert.Equal(t, Capacity{SendTech: 1}, counts.Used)
	assert.Equal(t, Capacity{SendTech: 4, GetCash: 3}, counts.Open)
	assert.Equal(t, 1, counts.UnderAssigned)
}

func TestExpiringOffers(t *testing.T) {
	roster := []structs.Nation{nation(1, 10), nation(2, 10)}
	known := map[int]structs.Nation{1: roster[0], 2: roster[1]}
	offers := []structs.AidOffer{
		offer(1, 1, 2, 0, 50, testNow.AddDate(0, 0, -9)),
		offer(2, 1, 2, 100, 0, testNow.AddDate(0, 0, -2)),
	}

	expiring := ExpiringOffers(offers, known, testNow)
	require.Len(t, expiring, 1)
	assert.Equal(t, 1, expiring[0].Offer.ID)
	assert.Equal(t, 1, expiring[0].Window.DaysRemaining)
}
