package memory

import "context"

// LikedPlacesKey is the preference-history key the planner reads and appends.
const LikedPlacesKey = "liked_places"

// StoreStatus reports the outcome of a Store call.
type StoreStatus string

const (
	StatusStored        StoreStatus = "stored"
	StatusAlreadyExists StoreStatus = "already_exists"
	StatusError         StoreStatus = "error"
)

// Store is an append-only, deduplicated key -> list-of-strings log of user
// preferences. Storing a value already present for a key is a no-op that
// reports StatusAlreadyExists.
type Store interface {
	Fetch(ctx context.Context, key string) ([]string, error)
	Store(ctx context.Context, key, value string) (StoreStatus, error)
}
