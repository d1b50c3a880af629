package common

import (
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// GetDisplayName returns the server-specific display name for a user.
// Falls back to the global name, then the username, then "User <id>".
func GetDisplayName(s *discordgo.Session, guildID, userID string) string {
	member, err := s.State.Member(guildID, userID)
	if err != nil || member == nil {
		member, err = s.GuildMember(guildID, userID)
	}
	if err == nil && member != nil {
		if member.Nick != "" {
			return member.Nick
		}
		if member.User != nil {
			return UserDisplayName(member.User)
		}
	}

	user, err := s.User(userID)
	if err == nil && user != nil {
		return UserDisplayName(user)
	}

	return fmt.Sprintf("User %s", userID)
}

// UserDisplayName prefers the global display name over the username
func UserDisplayName(user *discordgo.User) string {
	if user.GlobalName != "" {
		return user.GlobalName
	}
	return user.Username
}

// InteractionUser returns the invoking user for guild and DM interactions alike
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// IsInteractionAdmin reports whether the invoking member holds the
// administrator or manage-server permission
func IsInteractionAdmin(i *discordgo.InteractionCreate) bool {
	if i.Member == nil {
		return false
	}
	perms := i.Member.Permissions
	return perms&discordgo.PermissionAdministrator != 0 || perms&discordgo.PermissionManageGuild != 0
}

// ParseID converts a Discord snowflake string to int64
func ParseID(id string) (int64, error) {
	parsed, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid snowflake %q: %w", id, err)
	}
	return parsed, nil
}

// FormatID converts an int64 snowflake back to its string form
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func UserMention(id int64) string {
	return fmt.Sprintf("<@%d>", id)
}

func RoleMention(id int64) string {
	return fmt.Sprintf("<@&%d>", id)
}

func ChannelMention(id int64) string {
	return fmt.Sprintf("<#%d>", id)
}
