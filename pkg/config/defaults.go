package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "bayview"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Buffer widths mirror the office's current policy: long setup and
	// teardown for full services, shorter for brief rites, longest for
	// open-ended general use.
	DefaultBufferPolicy = "wedding=2h,memorial=2h,funeral=2h,baptism=1h,general_use=3h"

	// Placement types covering two persons; every other type covers one.
	DefaultTwoPlacementTypes = "self_and_other,two_others"

	// Times offered as alternatives when a requested slot is taken.
	DefaultSuggestedServiceTimes = "10:00,11:00,14:00,15:00,16:00"

	DefaultSlotClaimTTL = 10 * time.Second

	DefaultEventsEnabled         = false
	DefaultBookingEventsTopic    = "bayview.booking-events"
	DefaultPrepaymentEventsTopic = "bayview.prepayment-events"

	DefaultPaginationLimit = 100
)
