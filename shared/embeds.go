package shared

import (
	"cndash/dashboard"
	"cndash/database"
	"cndash/engine/aid"
	"cndash/engine/war"
	"cndash/structs"
	"cndash/utils"
	"cndash/utils/discordutil"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
)

func BoolToEmoji(v bool) string {
	return lo.Ternary(v, EMOJIS.CIRCLE_CHECK, EMOJIS.CIRCLE_CROSS)
}

func aidTypeEmoji(t structs.AidType) string {
	return lo.Ternary(t == structs.AidTypeTech, EMOJIS.TECH, EMOJIS.CASH)
}

func capacityLine(c aid.Capacity) string {
	return utils.HumanizedSprintf(
		"%s send `%d` get `%d`\n%s send `%d` get `%d`",
		EMOJIS.CASH, c.SendCash, c.GetCash, EMOJIS.TECH, c.SendTech, c.GetTech,
	)
}

func NewAidEmbed(allianceID int, res dashboard.AidResult) *discordgo.MessageEmbed {
	lines := make([]string, 0, min(len(res.Recommendations), MAX_AID_LINES)+1)
	for idx, r := range res.Recommendations {
		if idx == MAX_AID_LINES {
			lines = append(lines, fmt.Sprintf("...and `%d` more.", len(res.Recommendations)-MAX_AID_LINES))
			break
		}

		lines = append(lines, fmt.Sprintf(
			"%s `#%d` → `#%d` (%s)%s",
			aidTypeEmoji(r.Type), r.SenderID, r.RecipientID, r.Priority,
			lo.Ternary(r.CrossAlliance, " *cross-alliance*", ""),
		))
	}

	desc := strings.Join(lines, "\n")
	if len(lines) == 0 {
		desc = "No pairings available. Every open slot is already matched or has no counterpart."
	}

	counts := res.SlotCounts
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Aid Recommendations | Alliance `%d`", allianceID),
		Description: desc,
		Color:       discordutil.GREEN,
	}

	discordutil.AddField(embed, "Configured", capacityLine(counts.Configured), true)
	discordutil.AddField(embed, "In Use", capacityLine(counts.Used), true)
	discordutil.AddField(embed, "Open", capacityLine(counts.Open), true)
	discordutil.AddField(embed, "Nations", utils.HumanizedSprintf(
		"`%d` tracked, `%d` under-assigned", counts.Nations, counts.UnderAssigned,
	), false)

	return embed
}

func staggerColour(s war.StaggerStatus) int {
	switch s {
	case war.StaggerSameDay:
		return discordutil.RED
	case war.StaggerEmpty:
		return discordutil.ORANGE
	default:
		return discordutil.GREEN
	}
}

// One page of /stagger output: a single defender and a slice of its ranked attackers.
func NewStaggerPageEmbed(entry dashboard.StaggerEntry, attackers []war.RankedAttacker, page, totalPages int) *discordgo.MessageEmbed {
	d := entry.DefendingNation

	lines := lo.Map(attackers, func(a war.RankedAttacker, _ int) string {
		return utils.HumanizedSprintf(
			"`%s` (#%d) strength `%.0f` ratio `%.2f`%s",
			a.Nation.Label(), a.Nation.ID, a.Nation.Strength, a.StrengthRatio,
			lo.Ternary(a.InAnarchy, " "+EMOJIS.ANARCHY, ""),
		)
	})

	desc := strings.Join(lines, "\n")
	if len(lines) == 0 {
		desc = "No eligible attackers."
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Stagger | %s", d.Label()),
		Description: desc,
		Color:       staggerColour(entry.StaggerStatus),
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Defender %d/%d", page+1, totalPages)},
	}

	discordutil.AddField(embed, "Status", string(entry.StaggerStatus), true)
	discordutil.AddField(embed, "Defending Wars", fmt.Sprintf("`%d` effective, `%d` open", entry.EffectiveWars, entry.OpenSlots), true)
	discordutil.AddField(embed, "Strength", utils.HumanizedSprintf("`%.0f`", d.Strength), true)
	discordutil.AddField(embed, "Eligible", fmt.Sprintf("`%d`", entry.TotalEligible), true)

	return embed
}

func NewSlotsEmbed(res dashboard.SaveResult) *discordgo.MessageEmbed {
	cfg := res.Config
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Aid Slots Saved | Nation `%d`", cfg.NationID),
		Color: lo.Ternary(res.Warning == "", discordutil.GREEN, discordutil.GOLD),
		Description: capacityLine(aid.CapacityOf(cfg)) + fmt.Sprintf(
			"\nSend priority `%s`, receive priority `%s`, DRA %s",
			cfg.SendPriority, cfg.ReceivePriority, BoolToEmoji(cfg.HasDRA),
		),
	}

	if res.Warning != "" {
		discordutil.AddField(embed, EMOJIS.WARNING+" Warning", res.Warning, false)
	}

	return embed
}

func commandStatLines(stats []database.UsageCommandStat, top int) string {
	lines := lo.Map(stats[:min(top, len(stats))], func(stat database.UsageCommandStat, _ int) string {
		return utils.HumanizedSprintf("/%s - `%d` %s", stat.Name, stat.Count, utils.Pluralize(stat.Count, "time", "times"))
	})

	return strings.Join(lines, "\n")
}

func NewUsageEmbed(username string, usage database.UserUsage, now time.Time) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Bot Usage Statistics | `%s`", username),
		Color: discordutil.WHITE,
	}

	discordutil.AddField(embed, "Total Commands Executed", utils.HumanizedSprintf("`%d`", usage.TotalCommandsExecuted()), false)
	discordutil.AddField(embed, "Top Commands (All Time)", commandStatLines(usage.GetCommandStats(), 20), true)
	discordutil.AddField(embed, "Top Commands (Last 30 Days)", commandStatLines(usage.GetCommandStatsSince(now.AddDate(0, 0, -30)), 20), true)

	return embed
}
