package common

import (
	"errors"
	"fmt"

	"github.com/duskdeveloper/discord-level-bot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	UserMessage string // Message shown to Discord user
	LogMessage  string // Internal message for logging
	Err         error  // Underlying error
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

// Unwrap returns the underlying error
func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues such as invalid options
func NewUserError(userMessage string, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
	}
}

// NewSystemError creates an error for storage or transport failures
func NewSystemError(err error, userMessage, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
		Err:         err,
	}
}

// RespondWithError sends an ephemeral error message as an interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// FollowUpWithError sends an error message as a follow-up to a deferred interaction
func FollowUpWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: fmt.Sprintf("❌ %s", message),
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Errorf("Error sending follow-up error message: %v", err)
	}
}

// UserMessage picks the text shown for err. Validation errors carry their own
// message; anything else falls back to the generic one.
func UserMessage(err error, fallback string) string {
	if ve, ok := service.AsValidationError(err); ok {
		return ve.Message
	}
	var botErr *BotError
	if errors.As(err, &botErr) && botErr.UserMessage != "" {
		return botErr.UserMessage
	}
	return fallback
}

func isUserFault(err error) bool {
	if _, ok := service.AsValidationError(err); ok {
		return true
	}
	var botErr *BotError
	return errors.As(err, &botErr) && botErr.Err == nil
}

// HandleError logs err and replies with the matching user message. Rejected
// input is logged at debug.
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, fallback string, deferred bool) {
	fields := log.Fields{
		"guild_id": i.GuildID,
		"error":    err.Error(),
	}
	if i.Type == discordgo.InteractionApplicationCommand {
		fields["command"] = i.ApplicationCommandData().Name
	}
	if i.Member != nil && i.Member.User != nil {
		fields["user_id"] = i.Member.User.ID
	}

	if isUserFault(err) {
		log.WithFields(fields).Debug("Rejected command input")
	} else {
		log.WithFields(fields).Error("Command failed")
	}

	message := UserMessage(err, fallback)
	if deferred {
		FollowUpWithError(s, i, message)
	} else {
		RespondWithError(s, i, message)
	}
}
