package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeRequestCreated      = "maintenance.request.created"
	EventTypeRequestStageChanged = "maintenance.request.stage_changed"
	EventTypeEquipmentScrapped   = "equipment.scrapped"
)

type RequestCreatedEvent struct {
	BaseEvent
	RequestID   int64  `json:"request_id"`
	EquipmentID int64  `json:"equipment_id"`
	RequestType string `json:"request_type"`
	Priority    string `json:"priority"`
}

func NewRequestCreatedEvent(requestID, equipmentID int64, requestType, priority string) *RequestCreatedEvent {
	return &RequestCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventTypeRequestCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_id":   requestID,
				"equipment_id": equipmentID,
				"request_type": requestType,
				"priority":     priority,
			},
		},
		RequestID:   requestID,
		EquipmentID: equipmentID,
		RequestType: requestType,
		Priority:    priority,
	}
}

type RequestStageChangedEvent struct {
	BaseEvent
	RequestID   int64  `json:"request_id"`
	EquipmentID int64  `json:"equipment_id"`
	FromStage   string `json:"from_stage"`
	ToStage     string `json:"to_stage"`
}

func NewRequestStageChangedEvent(requestID, equipmentID int64, from, to string) *RequestStageChangedEvent {
	return &RequestStageChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventTypeRequestStageChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_id":   requestID,
				"equipment_id": equipmentID,
				"from_stage":   from,
				"to_stage":     to,
			},
		},
		RequestID:   requestID,
		EquipmentID: equipmentID,
		FromStage:   from,
		ToStage:     to,
	}
}

type EquipmentScrappedEvent struct {
	BaseEvent
	EquipmentID int64 `json:"equipment_id"`
	RequestID   int64 `json:"request_id"`
}

func NewEquipmentScrappedEvent(equipmentID, requestID int64) *EquipmentScrappedEvent {
	return &EquipmentScrappedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventTypeEquipmentScrapped,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"equipment_id": equipmentID,
				"request_id":   requestID,
			},
		},
		EquipmentID: equipmentID,
		RequestID:   requestID,
	}
}
