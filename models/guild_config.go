package models

import (
	"encoding/json"
	"sort"
	"strconv"
	"time"
)

const (
	DefaultXPPerMessage      = 15
	DefaultXPCooldownSeconds = 60
)

// GuildConfig holds the per-guild leveling settings
type GuildConfig struct {
	GuildID              int64      `db:"guild_id"`
	XPPerMessage         int        `db:"xp_per_message"`
	XPCooldownSeconds    int        `db:"xp_cooldown_seconds"`
	LevelUpChannelID     *int64     `db:"level_up_channel_id"` // nil announces in the originating channel
	LevelRoles           LevelRoles `db:"level_roles"`
	AnnouncementsEnabled bool       `db:"announcements_enabled"`
	CreatedAt            time.Time  `db:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at"`
}

// GuildDefaults are the values written when a guild's config is first created
type GuildDefaults struct {
	XPPerMessage      int
	XPCooldownSeconds int
}

// DefaultGuildDefaults returns the built-in defaults
func DefaultGuildDefaults() GuildDefaults {
	return GuildDefaults{
		XPPerMessage:      DefaultXPPerMessage,
		XPCooldownSeconds: DefaultXPCooldownSeconds,
	}
}

// NewConfig builds a fresh config for guildID from the defaults
func (d GuildDefaults) NewConfig(guildID int64) *GuildConfig {
	return &GuildConfig{
		GuildID:              guildID,
		XPPerMessage:         d.XPPerMessage,
		XPCooldownSeconds:    d.XPCooldownSeconds,
		LevelRoles:           LevelRoles{},
		AnnouncementsEnabled: true,
	}
}

// NewGuildConfig returns the built-in default configuration for a guild
func NewGuildConfig(guildID int64) *GuildConfig {
	return DefaultGuildDefaults().NewConfig(guildID)
}

// Cooldown returns the award cooldown as a duration
func (c *GuildConfig) Cooldown() time.Duration {
	return time.Duration(c.XPCooldownSeconds) * time.Second
}

// LevelRoles maps a level threshold to the role granted at that level
type LevelRoles map[int]int64

// Levels returns the configured thresholds in ascending order
func (r LevelRoles) Levels() []int {
	levels := make([]int, 0, len(r))
	for level := range r {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	return levels
}

// Clone returns an independent copy of the mapping
func (r LevelRoles) Clone() LevelRoles {
	out := make(LevelRoles, len(r))
	for level, roleID := range r {
		out[level] = roleID
	}
	return out
}

// EncodeLevelRoles serialises the mapping for storage. Role IDs are written
// as strings because snowflakes overflow float64 precision.
func EncodeLevelRoles(r LevelRoles) string {
	raw := make(map[string]string, len(r))
	for level, roleID := range r {
		raw[strconv.Itoa(level)] = strconv.FormatInt(roleID, 10)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// DecodeLevelRoles parses a stored mapping. Any malformed content yields an
// empty mapping rather than an error.
func DecodeLevelRoles(data string) LevelRoles {
	if data == "" {
		return LevelRoles{}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return LevelRoles{}
	}

	roles := make(LevelRoles, len(raw))
	for key, value := range raw {
		level, err := strconv.Atoi(key)
		if err != nil || level <= 0 {
			return LevelRoles{}
		}
		roleID, ok := decodeSnowflake(value)
		if !ok {
			return LevelRoles{}
		}
		roles[level] = roleID
	}
	return roles
}

// decodeSnowflake accepts either a quoted or a bare integer ID
func decodeSnowflake(value json.RawMessage) (int64, bool) {
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		id, err := strconv.ParseInt(s, 10, 64)
		return id, err == nil && id > 0
	}

	var n json.Number
	if err := json.Unmarshal(value, &n); err != nil {
		return 0, false
	}
	id, err := n.Int64()
	return id, err == nil && id > 0
}
