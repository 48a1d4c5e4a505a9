package discordutil

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Responds to an interaction with a deferred response, allowing more time to process before sending a follow-up message.
//
// Deferred interactions cannot carry data and can only be edited or followed up.
func DeferReply(s *discordgo.Session, i *discordgo.Interaction, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	return s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	})
}

func SendReply(s *discordgo.Session, i *discordgo.Interaction, data *discordgo.InteractionResponseData) error {
	return s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

func EditReply(s *discordgo.Session, i *discordgo.Interaction, data *discordgo.InteractionResponseData) (*discordgo.Message, error) {
	return s.InteractionResponseEdit(i, &discordgo.WebhookEdit{
		Content:         &data.Content,
		Embeds:          &data.Embeds,
		Files:           data.Files,
		Components:      &data.Components,
		AllowedMentions: data.AllowedMentions,
	})
}

// Sends the reply, or edits the existing one if the interaction was already responded to (i.e. deferred).
func EditOrSendReply(s *discordgo.Session, i *discordgo.Interaction, data *discordgo.InteractionResponseData) (*discordgo.Message, error) {
	if err := SendReply(s, i, data); err == nil {
		return nil, nil
	}

	return EditReply(s, i, data)
}

func ReplyWithError(s *discordgo.Session, i *discordgo.Interaction, err any) {
	replyEphemeral(s, i, fmt.Sprintf("Bot encountered a non-fatal error during this command.\n```%v```", err))
}

func ReplyWithPanicError(s *discordgo.Session, i *discordgo.Interaction, err any) {
	replyEphemeral(s, i, fmt.Sprintf("Bot attempted to fatally crash during this command! Please report the following error.\n```%v```", err))
}

func replyEphemeral(s *discordgo.Session, i *discordgo.Interaction, content string) {
	_, err := EditOrSendReply(s, i, &discordgo.InteractionResponseData{
		Flags:   discordgo.MessageFlagsEphemeral,
		Content: content,
	})

	if err != nil {
		// Must be deferred, send follow up.
		FollowupContentEphemeral(s, i, content)
	}
}

// Creates a follow-up message for a previously deferred interaction response.
func Followup(s *discordgo.Session, i *discordgo.Interaction, params *discordgo.WebhookParams) (*discordgo.Message, error) {
	return s.FollowupMessageCreate(i, true, params)
}

// Calls FollowUp with the supplied content which will only be visible to the interaction author.
func FollowupContentEphemeral(s *discordgo.Session, i *discordgo.Interaction, content string) (*discordgo.Message, error) {
	return Followup(s, i, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}

// Attempts to get the author of an interaction.
//
// Regular `User` is only filled for a DM, so this func uses guild-specific `Member.User` otherwise.
func GetInteractionAuthor(i *discordgo.Interaction) *discordgo.User {
	if i.User != nil {
		return i.User
	}
	if i.Member != nil {
		return i.Member.User
	}

	return &discordgo.User{}
}
