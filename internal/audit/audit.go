package audit

import (
	"context"
	"encoding/json"
	"time"

	auditDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/audit"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Entry is one line of the activity log. It is illustrative only; nothing
// guarantees it survives a restart or matches the stored collections.
type Entry struct {
	ID         string                 `json:"id"`
	EventType  string                 `json:"event_type"`
	Entity     string                 `json:"entity"`
	EntityID   string                 `json:"entity_id"`
	Action     string                 `json:"action"`
	Details    map[string]interface{} `json:"details,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

type Filter struct {
	Entity string
	Limit  int
}

type RepositoryAPI interface {
	Append(ctx context.Context, entry Entry) error
	List(ctx context.Context, filter Filter) ([]Entry, error)
}

func ToDataModel(e Entry) (*auditDatamodel.AuditLog, error) {
	details := ""
	if len(e.Details) > 0 {
		raw, err := json.Marshal(e.Details)
		if err != nil {
			return nil, err
		}
		details = string(raw)
	}
	return &auditDatamodel.AuditLog{
		ID:         e.ID,
		EventType:  e.EventType,
		Entity:     e.Entity,
		EntityID:   e.EntityID,
		Action:     e.Action,
		Details:    details,
		OccurredAt: e.OccurredAt,
	}, nil
}

func FromDataModel(m *auditDatamodel.AuditLog) Entry {
	e := Entry{
		ID:         m.ID,
		EventType:  m.EventType,
		Entity:     m.Entity,
		EntityID:   m.EntityID,
		Action:     m.Action,
		OccurredAt: m.OccurredAt,
	}
	if m.Details != "" {
		// unreadable details are dropped rather than failing the listing
		_ = json.Unmarshal([]byte(m.Details), &e.Details)
	}
	return e
}

type ListResponse struct {
	AuditLogs []Entry `json:"audit_logs"`
}
