package audit

import "time"

type AuditLog struct {
	ID         string    `gorm:"column:id;primaryKey;type:varchar(36)"`
	EventType  string    `gorm:"column:event_type;not null"`
	Entity     string    `gorm:"column:entity;index;not null"`
	EntityID   string    `gorm:"column:entity_id;not null"`
	Action     string    `gorm:"column:action;not null"`
	Details    string    `gorm:"column:details;type:text"`
	OccurredAt time.Time `gorm:"column:occurred_at;index;not null"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
