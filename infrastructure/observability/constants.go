package observability

// Metric name prefixes
const (
	MetricPrefix = "levelbot"
)

// Metric names
const (
	// Discord metrics
	MessagesProcessedTotal = MetricPrefix + ".messages.processed_total"
	CommandsTotal          = MetricPrefix + ".commands_total"

	// Leveling metrics
	XPAwardedTotal = MetricPrefix + ".xp.awarded_total"
	LevelUpsTotal  = MetricPrefix + ".levelups_total"
	RoleSyncTotal  = MetricPrefix + ".roles.sync_total"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"

	// Database metrics
	DatabaseQueriesTotal  = MetricPrefix + ".database.queries_total"
	DatabaseQueryDuration = MetricPrefix + ".database.query_duration"
)

// Label keys
const (
	LabelOutcome   = "outcome"
	LabelCommand   = "command"
	LabelAction    = "action"
	LabelEventType = "event_type"

	// Database labels
	LabelRepository = "repository"
	LabelMethod     = "method"
)

// Message outcomes
const (
	OutcomeAwarded  = "awarded"
	OutcomeCooldown = "cooldown"
	OutcomeIgnored  = "ignored"
	OutcomeError    = "error"
)

// Role sync actions
const (
	RoleActionGrant  = "grant"
	RoleActionRevoke = "revoke"
	RoleActionError  = "error"
)
