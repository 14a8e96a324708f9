package validation

// Identifier limits
const (
	// MinUIDLength and MaxUIDLength bound a student identifier, inclusive.
	MinUIDLength = 8
	MaxUIDLength = 12

	// AssetIDPrefix starts every lab asset identifier; digits must follow.
	AssetIDPrefix = "LAB-"
)

// Duration limits, in whole hours, inclusive.
const (
	MinHours = 1
	MaxHours = 6
)

// MaxBodySize is the maximum allowed request body size (64 KB).
const MaxBodySize = 64 * 1024
