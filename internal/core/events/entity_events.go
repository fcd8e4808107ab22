package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EntityUser = "user"
	EntityRole = "role"

	ActionCreated            = "created"
	ActionUpdated            = "updated"
	ActionDeleted            = "deleted"
	ActionPermissionsUpdated = "permissions_updated"
)

const (
	EventTypeUserCreated            = "user.created"
	EventTypeUserUpdated            = "user.updated"
	EventTypeUserDeleted            = "user.deleted"
	EventTypeRoleCreated            = "role.created"
	EventTypeRoleUpdated            = "role.updated"
	EventTypeRoleDeleted            = "role.deleted"
	EventTypeRolePermissionsUpdated = "role.permissions_updated"
)

// EntityEvent records a fulfilled write against one collection.
type EntityEvent struct {
	BaseEvent
	Entity   string `json:"entity"`
	EntityID string `json:"entity_id"`
	Action   string `json:"action"`
}

func NewEntityEvent(entity, action, entityID string, data map[string]interface{}) *EntityEvent {
	if data == nil {
		data = map[string]interface{}{}
	}
	data["entity_id"] = entityID

	return &EntityEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      entity + "." + action,
			Timestamp: time.Now(),
			Data:      data,
		},
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
	}
}
