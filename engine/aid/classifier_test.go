package aid

import (
	"cndash/structs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyDerivesFromStats(t *testing.T) {
	cases := []struct {
		name     string
		nation   structs.Nation
		expected structs.AidSlotConfig
		role     Role
	}{
		{
			name:     "big infra low tech sends tech",
			nation:   structs.Nation{ID: 1, Infrastructure: 4000, Technology: 100},
			expected: structs.AidSlotConfig{NationID: 1, SendTech: 6, SendPriority: 2, ReceivePriority: 2},
			role:     RoleTechSender,
		},
		{
			name:     "small infra low tech gets cash",
			nation:   structs.Nation{ID: 2, Infrastructure: 1000, Technology: 100},
			expected: structs.AidSlotConfig{NationID: 2, GetCash: 6, SendPriority: 2, ReceivePriority: 2},
			role:     RoleCashReceiver,
		},
		{
			name:     "infra exactly at threshold gets cash",
			nation:   structs.Nation{ID: 3, Infrastructure: 3000, Technology: 499.99},
			expected: structs.AidSlotConfig{NationID: 3, GetCash: 6, SendPriority: 2, ReceivePriority: 2},
			role:     RoleCashReceiver,
		},
		{
			name:     "established tech buys tech",
			nation:   structs.Nation{ID: 4, Infrastructure: 9000, Technology: 500},
			expected: structs.AidSlotConfig{NationID: 4, SendCash: 2, GetTech: 4, SendPriority: 2, ReceivePriority: 2},
			role:     RoleTechBuyer,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resolved := Resolve(SourceFor(tc.nation, nil))
			assert.Equal(t, tc.expected, resolved.Config)
			assert.Equal(t, tc.role, resolved.Role)
			assert.True(t, resolved.Derived)

			// Pure and idempotent.
			assert.Equal(t, Classify(tc.nation, nil), Classify(tc.nation, nil))
		})
	}
}

func TestClassifyExplicitConfigWins(t *testing.T) {
	n := structs.Nation{ID: 1, Infrastructure: 4000, Technology: 100}
	explicit := structs.AidSlotConfig{NationID: 1, GetTech: 3, SendPriority: 1, ReceivePriority: 3, HasDRA: true}

	assert.Equal(t, explicit, Classify(n, &explicit))

	resolved := Resolve(SourceFor(n, &explicit))
	assert.Equal(t, RoleConfigured, resolved.Role)
	assert.False(t, resolved.Derived)
}

func TestResolveAllFallsBackPerNation(t *testing.T) {
	roster := []structs.Nation{
		{ID: 3, Infrastructure: 1000, Technology: 10},
		{ID: 1, Infrastructure: 4000, Technology: 10},
	}
	explicit := []structs.AidSlotConfig{
		{NationID: 3, SendCash: 5, SendPriority: 1, ReceivePriority: 1},
		{NationID: 99, GetCash: 5}, // not in roster
	}

	resolved, configs := ResolveAll(roster, explicit)
	assert.Len(t, resolved, 2)
	assert.False(t, resolved[3].Derived)
	assert.True(t, resolved[1].Derived)

	if assert.Len(t, configs, 2) {
		assert.Equal(t, 1, configs[0].NationID)
		assert.Equal(t, 6, configs[0].SendTech)
		assert.Equal(t, 3, configs[1].NationID)
		assert.Equal(t, 5, configs[1].SendCash)
	}
}
