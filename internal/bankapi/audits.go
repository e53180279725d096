package bankapi

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// AuditRecord is one entry in the server-side audit trail.
type AuditRecord struct {
	ID        int       `json:"id"`
	Operation string    `json:"operation"`
	UserID    int       `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// AuditsClient handles audit log operations.
type AuditsClient struct {
	client *Client
}

// ListByUser fetches the audit trail for a user, in server order.
func (a *AuditsClient) ListByUser(ctx context.Context, userID int) ([]AuditRecord, error) {
	resp, err := a.client.request(ctx, http.MethodGet, fmt.Sprintf("/audits/%d", userID), nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, requestError(resp, "Failed to fetch audit logs")
	}
	var records []AuditRecord
	if err := resp.JSON(&records); err != nil {
		return nil, err
	}
	return records, nil
}

// Create appends an audit record.
func (a *AuditsClient) Create(ctx context.Context, record AuditRecord) (*AuditRecord, error) {
	resp, err := a.client.request(ctx, http.MethodPost, "/audits", record)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, requestError(resp, "Failed to create audit log")
	}
	var created AuditRecord
	if err := resp.JSON(&created); err != nil {
		return nil, err
	}
	return &created, nil
}
