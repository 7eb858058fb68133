package catalog

import "context"

// Fixed local cache keys. They are process-wide, not per user: switching
// users on one device shows the previous user's data until the remote load
// replaces it.
const (
	KeyFolders   = "folders"
	KeyCreations = "creations"
	KeyAuthState = "authState"
)

// LocalCache is durable key/value string storage on the device.
type LocalCache interface {
	// Get returns the stored value or domain.ErrNotFound when the key is absent
	Get(ctx context.Context, key string) (string, error)

	// Set overwrites the value for key
	Set(ctx context.Context, key, value string) error

	// Remove deletes key; removing an absent key is not an error
	Remove(ctx context.Context, key string) error
}
