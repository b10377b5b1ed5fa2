package request

// SchedulerRequest represents the JSON body for scheduler control.
type SchedulerRequest struct {
	// Action controls the scheduler. Allowed values:
	// - "start": start processing ticks
	// - "stop":  stop processing ticks
	Action string `json:"action"`
}

// ParticipantRequest enrolls a new participant.
type ParticipantRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// ParticipantActiveRequest flips a participant's active flag.
type ParticipantActiveRequest struct {
	Active bool `json:"active"`
}

// CampaignRequest creates a new campaign. Dates are YYYY-MM-DD; when both
// are omitted the campaign defaults to a one-year window starting today.
type CampaignRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

// TestSMSRequest triggers an ad hoc survey send to a phone number.
type TestSMSRequest struct {
	Phone string `json:"phone"`
}
