package digest

import "time"

// ChangeType classifies a route change for a technician.
type ChangeType string

const (
	ChangeRouteAssigned  ChangeType = "ROUTE_ASSIGNED"
	ChangeJobAssigned    ChangeType = "JOB_ASSIGNED"
	ChangeJobUnassigned  ChangeType = "JOB_UNASSIGNED"
	ChangeJobRescheduled ChangeType = "JOB_RESCHEDULED"
	ChangeRouteReordered ChangeType = "ROUTE_REORDERED"
)

func (c ChangeType) Valid() bool {
	switch c {
	case ChangeRouteAssigned, ChangeJobAssigned, ChangeJobUnassigned, ChangeJobRescheduled, ChangeRouteReordered:
		return true
	}
	return false
}

// ClassifyAssignment picks the change type for a newly assigned job: the first
// job on a route date assigns the route, later ones only add a job to it.
func ClassifyAssignment(hadOtherJobsOnDate bool) ChangeType {
	if hadOtherJobsOnDate {
		return ChangeJobAssigned
	}
	return ChangeRouteAssigned
}

// Item is one queued change, consumed later by a batch digest job.
type Item struct {
	ID           string         `json:"id"`
	TechnicianID string         `json:"technicianId"`
	JobID        string         `json:"jobId"`
	RouteDate    time.Time      `json:"routeDate"`
	ChangeType   ChangeType     `json:"changeType"`
	Payload      map[string]any `json:"payload,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// NormalizeRouteDate truncates t to the start of its calendar day in loc.
// Digest consumers group items by this value.
func NormalizeRouteDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
