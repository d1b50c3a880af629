package common

import (
	"github.com/bwmarrin/discordgo"
)

// OptionMap indexes slash command options by name
type OptionMap map[string]*discordgo.ApplicationCommandInteractionDataOption

// NewOptionMap builds an OptionMap from the interaction's top-level options
func NewOptionMap(options []*discordgo.ApplicationCommandInteractionDataOption) OptionMap {
	m := make(OptionMap, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

// Int returns the integer option and whether it was provided
func (m OptionMap) Int(name string) (int64, bool) {
	opt, ok := m[name]
	if !ok {
		return 0, false
	}
	return opt.IntValue(), true
}

// Bool returns the boolean option and whether it was provided
func (m OptionMap) Bool(name string) (bool, bool) {
	opt, ok := m[name]
	if !ok {
		return false, false
	}
	return opt.BoolValue(), true
}

// String returns the string option and whether it was provided
func (m OptionMap) String(name string) (string, bool) {
	opt, ok := m[name]
	if !ok {
		return "", false
	}
	return opt.StringValue(), true
}

// User resolves a user option from the interaction's resolved data, falling
// back to a bare user carrying only the ID
func (m OptionMap) User(data discordgo.ApplicationCommandInteractionData, name string) (*discordgo.User, bool) {
	opt, ok := m[name]
	if !ok {
		return nil, false
	}
	id, ok := opt.Value.(string)
	if !ok || id == "" {
		return nil, false
	}
	if data.Resolved != nil {
		if user, found := data.Resolved.Users[id]; found && user != nil {
			return user, true
		}
	}
	return &discordgo.User{ID: id}, true
}

// Snowflake returns the raw ID of a user, role or channel option
func (m OptionMap) Snowflake(name string) (int64, bool) {
	opt, ok := m[name]
	if !ok {
		return 0, false
	}
	id, ok := opt.Value.(string)
	if !ok {
		return 0, false
	}
	parsed, err := ParseID(id)
	if err != nil {
		return 0, false
	}
	return parsed, true
}
