package leveling

import (
	"slices"

	"github.com/bwmarrin/discordgo"
)

// GuildOps is the slice of the Discord API the notifier needs
type GuildOps interface {
	ChannelExists(channelID string) bool
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) error
	MemberRoles(guildID, userID string) ([]string, error)
	RoleExists(guildID, roleID string) bool
	AddRole(guildID, userID, roleID, reason string) error
	RemoveRole(guildID, userID, roleID, reason string) error
}

// sessionOps implements GuildOps on a live session, reading the state cache
// before falling back to REST
type sessionOps struct {
	s *discordgo.Session
}

// NewSessionOps wraps a session as GuildOps
func NewSessionOps(s *discordgo.Session) GuildOps {
	return &sessionOps{s: s}
}

func (o *sessionOps) ChannelExists(channelID string) bool {
	if ch, err := o.s.State.Channel(channelID); err == nil && ch != nil {
		return true
	}
	ch, err := o.s.Channel(channelID)
	return err == nil && ch != nil
}

func (o *sessionOps) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	_, err := o.s.ChannelMessageSendEmbed(channelID, embed)
	return err
}

func (o *sessionOps) MemberRoles(guildID, userID string) ([]string, error) {
	if member, err := o.s.State.Member(guildID, userID); err == nil && member != nil {
		return member.Roles, nil
	}
	member, err := o.s.GuildMember(guildID, userID)
	if err != nil {
		return nil, err
	}
	return member.Roles, nil
}

func (o *sessionOps) RoleExists(guildID, roleID string) bool {
	if role, err := o.s.State.Role(guildID, roleID); err == nil && role != nil {
		return true
	}
	roles, err := o.s.GuildRoles(guildID)
	if err != nil {
		return false
	}
	return slices.ContainsFunc(roles, func(r *discordgo.Role) bool { return r.ID == roleID })
}

func (o *sessionOps) AddRole(guildID, userID, roleID, reason string) error {
	return o.s.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithAuditLogReason(reason))
}

func (o *sessionOps) RemoveRole(guildID, userID, roleID, reason string) error {
	return o.s.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithAuditLogReason(reason))
}
