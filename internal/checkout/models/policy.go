package models

import (
	"strings"

	"labcheckout/pkg/validation"
)

const (
	// CableKeyword marks assets subject to CableMaxHours.
	CableKeyword  = "Cable"
	CableMaxHours = 3
)

// Notices emitted by duration policy.
const (
	NoticeMaxDuration = "Max duration selected."
	NoticeCableClamp  = "Cables max 3 hours. Updated to 3."
)

// AdjustDuration applies duration policy to a validated request for asset and
// returns the adjusted hours with any notices, in the order they were raised.
func AdjustDuration(asset Asset, hours int) (int, []string) {
	var notices []string
	if hours == validation.MaxHours {
		notices = append(notices, NoticeMaxDuration)
	}
	if strings.Contains(asset.Name, CableKeyword) && hours > CableMaxHours {
		hours = CableMaxHours
		notices = append(notices, NoticeCableClamp)
	}
	return hours, notices
}
