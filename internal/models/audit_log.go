package models

// AuditLog is one persisted record of a write against users or expenses.
// ResourceID keeps the id after the resource itself has been deleted.
type AuditLog struct {
	Base
	Action       string `gorm:"size:32;not null;index" json:"action"`
	ResourceType string `gorm:"size:32;not null;index:idx_audit_logs_resource,priority:1" json:"resource_type"`
	ResourceID   string `gorm:"type:uuid;not null;index:idx_audit_logs_resource,priority:2" json:"resource_id"`
	RequestID    string `gorm:"size:36" json:"request_id,omitempty"`
	Changes      string `json:"changes,omitempty"`
}
