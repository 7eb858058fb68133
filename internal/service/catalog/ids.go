package catalog

import "github.com/google/uuid"

const (
	folderIDPrefix   = "f"
	creationIDPrefix = "c"
)

// NewID returns a time-ordered identifier such as "f-0192c3...". UUIDv7
// sorts by creation time and stays unique across devices.
func NewID(prefix string) string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return prefix + "-" + id.String()
}
