package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	// Operational policy tables. Service types, buffer widths, and
	// placement capacities change by office decision, not by release.
	EnvBufferPolicy          = "BUFFER_POLICY"
	EnvTwoPlacementTypes     = "TWO_PLACEMENT_TYPES"
	EnvSuggestedServiceTimes = "SUGGESTED_SERVICE_TIMES"
	EnvSlotClaimTTL          = "SLOT_CLAIM_TTL"

	EnvEventsEnabled         = "EVENTS_ENABLED"
	EnvBookingEventsTopic    = "BOOKING_EVENTS_TOPIC"
	EnvPrepaymentEventsTopic = "PREPAYMENT_EVENTS_TOPIC"
)
