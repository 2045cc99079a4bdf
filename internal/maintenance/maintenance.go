package maintenance

import (
	"time"

	"github.com/frahmantamala/gearguard/internal/core/common/refs"
	maintenanceDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/maintenance"
)

const (
	StageNew        = "new"
	StageInProgress = "in_progress"
	StageRepaired   = "repaired"
	StageScrap      = "scrap"

	TypeCorrective = "corrective"
	TypePreventive = "preventive"

	PriorityLow      = "low"
	PriorityNormal   = "normal"
	PriorityHigh     = "high"
	PriorityVeryHigh = "very_high"
)

var (
	Stages       = []string{StageNew, StageInProgress, StageRepaired, StageScrap}
	RequestTypes = []string{TypeCorrective, TypePreventive}
	Priorities   = []string{PriorityLow, PriorityNormal, PriorityHigh, PriorityVeryHigh}
)

// IsTerminal reports whether work on a request in stage has finished.
func IsTerminal(stage string) bool {
	return stage == StageRepaired || stage == StageScrap
}

// IsOverdue is false for finished requests, otherwise true once the
// scheduled date has passed.
func IsOverdue(stage string, scheduledDate, now time.Time) bool {
	if IsTerminal(stage) {
		return false
	}
	return scheduledDate.Before(now)
}

type Request struct {
	ID                 int64           `json:"id"`
	Subject            string          `json:"subject"`
	Description        string          `json:"description"`
	Equipment          *refs.Equipment `json:"equipment"`
	Category           *refs.Named     `json:"category"`
	Team               *refs.Named     `json:"team"`
	RequestType        string          `json:"requestType"`
	Stage              string          `json:"stage"`
	Priority           string          `json:"priority"`
	ScheduledDate      time.Time       `json:"scheduledDate"`
	Duration           float64         `json:"duration"`
	AssignedTechnician *refs.Person    `json:"assignedTechnician"`
	CreatedBy          *refs.Person    `json:"createdBy"`
	CompletedDate      *time.Time      `json:"completedDate"`
	IsActive           bool            `json:"isActive"`
	IsOverdue          bool            `json:"isOverdue"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// Stats are the request counters shown on the dashboard.
type Stats struct {
	Total   int64            `json:"total"`
	ByStage map[string]int64 `json:"byStage"`
	ByType  map[string]int64 `json:"byType"`
	Overdue int64            `json:"overdue"`
}

// Filter narrows List. Zero values are ignored.
type Filter struct {
	Stage        string
	RequestType  string
	TeamID       *int64
	EquipmentID  *int64
	TechnicianID *int64
	// Involving matches requests created by or assigned to the user.
	Involving *int64
	From      *time.Time
	To        *time.Time
}

func FromDataModel(r *maintenanceDatamodel.Request, now time.Time) *Request {
	return &Request{
		ID:                 r.ID,
		Subject:            r.Subject,
		Description:        r.Description,
		Equipment:          refs.FromEquipment(r.Equipment),
		Category:           refs.FromCategory(r.Category),
		Team:               refs.FromTeam(r.Team),
		RequestType:        r.RequestType,
		Stage:              r.Stage,
		Priority:           r.Priority,
		ScheduledDate:      r.ScheduledDate,
		Duration:           r.DurationHours,
		AssignedTechnician: refs.FromUser(r.AssignedTechnician),
		CreatedBy:          refs.FromUser(r.CreatedBy),
		CompletedDate:      r.CompletedDate,
		IsActive:           r.IsActive,
		IsOverdue:          IsOverdue(r.Stage, r.ScheduledDate, now),
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*maintenanceDatamodel.Request, now time.Time) []*Request {
	result := make([]*Request, len(rows))
	for i, r := range rows {
		result[i] = FromDataModel(r, now)
	}
	return result
}

// moveTo sets the stage and keeps completedDate in step with it. Only a
// real transition touches completedDate.
func moveTo(r *maintenanceDatamodel.Request, stage string, now time.Time) bool {
	if r.Stage == stage {
		return false
	}
	r.Stage = stage
	if IsTerminal(stage) {
		completed := now
		r.CompletedDate = &completed
	} else {
		r.CompletedDate = nil
	}
	return true
}
