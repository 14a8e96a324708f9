package handler

import (
	"time"

	"labcheckout/internal/checkout/models"
	"labcheckout/pkg/platform/audit"
)

type StudentListResponse struct {
	Students []*models.Student `json:"students"`
}

type AssetListResponse struct {
	Assets []*models.Asset `json:"assets"`
}

type AuditEventResponse struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Severity  string    `json:"severity"`
	UID       string    `json:"uid"`
	AssetID   string    `json:"asset_id"`
	Action    string    `json:"action"`
	Decision  string    `json:"decision,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
}

type AuditListResponse struct {
	UID    string               `json:"uid,omitempty"`
	Events []AuditEventResponse `json:"events"`
}

func toAuditListResponse(uid string, events []audit.Event) AuditListResponse {
	resp := AuditListResponse{UID: uid, Events: make([]AuditEventResponse, 0, len(events))}
	for _, e := range events {
		resp.Events = append(resp.Events, AuditEventResponse{
			ID:        e.ID,
			Timestamp: e.Timestamp,
			Severity:  string(e.Severity),
			UID:       e.Subject,
			AssetID:   e.Resource,
			Action:    e.Action,
			Decision:  e.Decision,
			Reason:    e.Reason,
			Message:   e.Message,
			RequestID: e.RequestID,
		})
	}
	return resp
}
