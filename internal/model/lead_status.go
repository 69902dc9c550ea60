package model

import "fmt"

// LeadStatus is the CRM pipeline stage of a lead. The zero value means the
// listing was never promoted; Effective reads it as NEW.
type LeadStatus string

const (
	LeadStatusUnassigned  LeadStatus = ""
	LeadStatusNew         LeadStatus = "NEW"
	LeadStatusContacted   LeadStatus = "CONTACTED"
	LeadStatusVisit       LeadStatus = "VISIT"
	LeadStatusNegotiation LeadStatus = "NEGOTIATION"
	LeadStatusClosed      LeadStatus = "CLOSED"
	LeadStatusLost        LeadStatus = "LOST"
)

// LeadStatuses lists the assignable statuses in board column order.
var LeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusVisit,
	LeadStatusNegotiation,
	LeadStatusClosed,
	LeadStatusLost,
}

func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadStatusNew,
		LeadStatusContacted,
		LeadStatusVisit,
		LeadStatusNegotiation,
		LeadStatusClosed,
		LeadStatusLost:
		return true
	default:
		return false
	}
}

func (s LeadStatus) Assigned() bool {
	return s != LeadStatusUnassigned
}

// IsTerminal returns true for stages a lead does not leave.
func (s LeadStatus) IsTerminal() bool {
	return s == LeadStatusClosed || s == LeadStatusLost
}

func (s LeadStatus) Effective() LeadStatus {
	if s == LeadStatusUnassigned {
		return LeadStatusNew
	}
	return s
}

func ParseLeadStatus(s string) (LeadStatus, error) {
	status := LeadStatus(s)
	if !status.IsValid() {
		return LeadStatusUnassigned, fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}
