package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/frahmantamala/rbac-admin/internal/audit"
	auditDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/audit"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) audit.RepositoryAPI {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Append(ctx context.Context, entry audit.Entry) error {
	model, err := audit.ToDataModel(entry)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(model).Error
}

func (r *AuditRepository) List(ctx context.Context, filter audit.Filter) ([]audit.Entry, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = audit.DefaultLimit
	}
	if limit > audit.MaxLimit {
		limit = audit.MaxLimit
	}

	query := r.db.WithContext(ctx).Order("occurred_at DESC").Limit(limit)
	if filter.Entity != "" {
		query = query.Where("entity = ?", filter.Entity)
	}

	var rows []*auditDatamodel.AuditLog
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]audit.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, audit.FromDataModel(row))
	}
	return entries, nil
}
