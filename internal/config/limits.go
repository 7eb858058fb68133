package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	MaxFolderNameLength = 255

	// MaxCreationTitleLength is the maximum length for creation titles.
	MaxCreationTitleLength = 255

	// MaxNotesLength bounds free-text notes. Imported descriptions are
	// truncated well below this by the import source.
	MaxNotesLength = 10000

	// MaxTagLength is the maximum length of a single tag.
	MaxTagLength = 64

	// MaxRequestBodyBytes limits whole-collection uploads to the remote service.
	MaxRequestBodyBytes = 10 << 20
)
