package discordutil

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 5))
	assert.Equal(t, 1, TotalPages(5, 5))
	assert.Equal(t, 2, TotalPages(6, 5))
	assert.Equal(t, 1, TotalPages(6, 0))
}

func TestPageBounds(t *testing.T) {
	start, end := PageBounds(0, 50, 100)
	assert.Equal(t, [2]int{0, 50}, [2]int{start, end})

	start, end = PageBounds(1, 50, 100)
	assert.Equal(t, [2]int{50, 100}, [2]int{start, end})

	start, end = PageBounds(2, 50, 120)
	assert.Equal(t, [2]int{100, 120}, [2]int{start, end})

	start, end = PageBounds(9, 50, 120)
	assert.Equal(t, start, end, "out of range pages are empty")
}

func TestPaginatorTurnClamps(t *testing.T) {
	p := NewInteractionPaginator(nil, &discordgo.Interaction{User: &discordgo.User{ID: "1"}}, 12, 5)
	assert.Equal(t, 3, p.TotalPages())

	page, ok := p.turn("prev")
	assert.True(t, ok)
	assert.Equal(t, 0, page)

	page, _ = p.turn("last")
	assert.Equal(t, 2, page)

	page, _ = p.turn("next")
	assert.Equal(t, 2, page)

	_, ok = p.turn("bogus")
	assert.False(t, ok)
}

func TestPaginatorPageDataHasButtonsAndCaches(t *testing.T) {
	calls := 0
	p := NewInteractionPaginator(nil, &discordgo.Interaction{User: &discordgo.User{ID: "1"}}, 12, 5)
	p.PageFunc = func(curPage int, data *discordgo.InteractionResponseData) {
		calls++
		data.Content = "page"
	}

	data := p.getPageData(0)
	assert.Len(t, data.Components, 1)
	p.getPageData(0)
	assert.Equal(t, 1, calls)
}

func TestOptionHelpers(t *testing.T) {
	data := discordgo.ApplicationCommandInteractionData{
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "alliance", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(10)},
			{Name: "cross", Type: discordgo.ApplicationCommandOptionBoolean, Value: true},
		},
	}

	opts := OptionMap(data)
	assert.Equal(t, 10, IntOr(opts, "alliance", 0))
	assert.Equal(t, 7, IntOr(opts, "missing", 7))
	assert.True(t, BoolOr(opts, "cross", false))
	assert.False(t, BoolOr(opts, "missing", false))
}
