package models

import "labcheckout/pkg/validation"

// Request asks to check an asset out for a number of hours.
type Request struct {
	UID     string `json:"uid"`
	AssetID string `json:"asset_id"`
	Hours   int    `json:"hours"`
}

// Validate checks that the request is well-formed before any lookup happens.
func (r Request) Validate() error {
	return validation.ValidateRequest(r.UID, r.AssetID, r.Hours)
}

// Receipt is returned for a committed checkout.
type Receipt struct {
	Token          string   `json:"receipt"`
	UID            string   `json:"uid"`
	AssetID        string   `json:"asset_id"`
	RequestedHours int      `json:"requested_hours"`
	Hours          int      `json:"hours"`
	Notices        []string `json:"notices,omitempty"`
}

// ReceiptPrefix starts every receipt token.
const ReceiptPrefix = "TXN"

// ReceiptToken formats the token for a checkout of assetID by uid.
func ReceiptToken(assetID, uid string) string {
	return ReceiptPrefix + "-" + assetID + "-" + uid
}
