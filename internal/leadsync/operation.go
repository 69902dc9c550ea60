package leadsync

import "prophunter_backend/internal/model"

// Operation is one pipeline mutation handed to Repository.Apply.
type Operation interface {
	leadID() string
	name() string
}

// AddLead promotes a listing into the pipeline.
type AddLead struct {
	Listing model.Listing
}

// UpdateStatus moves a lead to another stage.
type UpdateStatus struct {
	ID     string
	Status model.LeadStatus
}

// DeleteLead removes a lead from the pipeline.
type DeleteLead struct {
	ID string
}

func (o AddLead) leadID() string      { return o.Listing.ID }
func (o UpdateStatus) leadID() string { return o.ID }
func (o DeleteLead) leadID() string   { return o.ID }

func (AddLead) name() string      { return "add" }
func (UpdateStatus) name() string { return "update_status" }
func (DeleteLead) name() string   { return "delete" }

// Recovery records what happened to local state after the store refused a
// change.
type Recovery string

const (
	RecoveryNone       Recovery = ""
	RecoveryRolledBack Recovery = "rolled_back"
	RecoveryResynced   Recovery = "resynced"
	RecoveryDiverged   Recovery = "diverged"
)

// Result is the outcome of Apply.
type Result struct {
	Changed  bool           `json:"changed"`
	Lead     *model.Listing `json:"lead,omitempty"`
	Recovery Recovery       `json:"recovery,omitempty"`
}
