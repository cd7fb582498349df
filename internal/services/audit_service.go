package services

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"expensetracker/internal/logger"
	"expensetracker/internal/models"
)

// auditService persists audit records to the audit_logs table.
type auditService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

// NewAuditService creates an AuditServicer that writes to audit_logs.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db, log: logger.Named("audit")}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(ctx context.Context, action, resourceType, resourceID string, changes map[string]any) {
	log := logger.FromContext(ctx, s.log)

	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			log.Errorw("failed to marshal audit changes", "error", err, "action", action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.AuditLog{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		RequestID:    logger.RequestID(ctx),
		Changes:      changesJSON,
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		log.Errorw("failed to create audit log entry",
			"error", err,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}

// logAuditService writes audit records to the structured log.
type logAuditService struct {
	log *zap.SugaredLogger
}

// NewLogAuditService creates an AuditServicer backed by the "audit" logger.
func NewLogAuditService() AuditServicer {
	return &logAuditService{log: logger.Named("audit")}
}

// NewLogAuditServiceWithLogger is NewLogAuditService with an explicit logger.
func NewLogAuditServiceWithLogger(log *zap.SugaredLogger) AuditServicer {
	return &logAuditService{log: log}
}

func (s *logAuditService) Log(ctx context.Context, action, resourceType, resourceID string, changes map[string]any) {
	fields := make([]any, 0, 6+2*len(changes))
	fields = append(fields,
		"action", action,
		"resource_type", resourceType,
		"resource_id", resourceID,
	)
	for k, v := range changes {
		fields = append(fields, k, v)
	}
	logger.FromContext(ctx, s.log).Infow("audit", fields...)
}

// multiAudit fans a record out to several sinks in order.
type multiAudit []AuditServicer

// NewMultiAudit combines sinks; nil entries are skipped.
func NewMultiAudit(sinks ...AuditServicer) AuditServicer {
	var m multiAudit
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	return m
}

func (m multiAudit) Log(ctx context.Context, action, resourceType, resourceID string, changes map[string]any) {
	for _, s := range m {
		s.Log(ctx, action, resourceType, resourceID, changes)
	}
}

// Audit actions.
const (
	ActionCreateUser    = "CREATE_USER"
	ActionUpdateUser    = "UPDATE_USER"
	ActionDeleteUser    = "DELETE_USER"
	ActionCreateExpense = "CREATE_EXPENSE"
	ActionUpdateExpense = "UPDATE_EXPENSE"
	ActionDeleteExpense = "DELETE_EXPENSE"
)
