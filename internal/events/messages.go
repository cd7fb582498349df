package events

import (
	"encoding/json"
	"time"
)

// AuditMessage is the payload published for every mutating operation.
type AuditMessage struct {
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	Changes      map[string]any `json:"changes,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}

// NewAuditMessage creates a message stamped with the current time.
func NewAuditMessage(action, resourceType, resourceID string, changes map[string]any) *AuditMessage {
	return &AuditMessage{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Changes:      changes,
		Timestamp:    time.Now().UTC(),
	}
}

// RoutingKey is "<resource_type>.<action>", e.g. "expense.CREATE_EXPENSE".
func (m *AuditMessage) RoutingKey() string {
	return m.ResourceType + "." + m.Action
}

// ToJSON converts the message to JSON bytes.
func (m *AuditMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// AuditMessageFromJSON decodes a message published by Publisher. It is the
// consumer-side counterpart of ToJSON for services bound to the audit
// exchange; this API only publishes.
func AuditMessageFromJSON(data []byte) (*AuditMessage, error) {
	var msg AuditMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
