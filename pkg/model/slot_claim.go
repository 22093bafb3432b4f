package model

import "time"

// SlotClaim is a short-lived, store-enforced claim on a (date, time)
// chapel slot. The claim's identity is derived from the slot, so two
// concurrent booking requests for the same slot collide on the unique
// _id insert and exactly one proceeds.
type SlotClaim struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
