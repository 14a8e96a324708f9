package service

import "fmt"

// ClampMode decides what the cable duration clamp affects.
type ClampMode string

const (
	// ClampCosmetic raises the clamp notice but keeps the requested hours on the receipt.
	ClampCosmetic ClampMode = "cosmetic"
	// ClampApplied puts the clamped hours on the receipt.
	ClampApplied ClampMode = "applied"
)

func (m ClampMode) IsValid() bool {
	return m == ClampCosmetic || m == ClampApplied
}

// ParseClampMode parses a configured clamp mode. An empty string selects ClampCosmetic.
func ParseClampMode(s string) (ClampMode, error) {
	if s == "" {
		return ClampCosmetic, nil
	}
	m := ClampMode(s)
	if !m.IsValid() {
		return "", fmt.Errorf("unknown clamp mode %q (want %q or %q)", s, ClampCosmetic, ClampApplied)
	}
	return m, nil
}
