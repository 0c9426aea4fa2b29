package application

import (
	"encoding/json"
	"errors"
	"time"
)

// Status is the advisory pipeline stage of an application. Any status
// may move to any other; there is no enforced transition order.
type Status string

const (
	StatusApplied   Status = "APPLIED"
	StatusInterview Status = "INTERVIEW"
	StatusOffer     Status = "OFFER"
	StatusRejected  Status = "REJECTED"
)

func AllStatuses() []Status {
	return []Status{StatusApplied, StatusInterview, StatusOffer, StatusRejected}
}

func (s Status) Valid() bool {
	switch s {
	case StatusApplied, StatusInterview, StatusOffer, StatusRejected:
		return true
	}
	return false
}

type Application struct {
	ID           string     `json:"id"`
	OwnerID      string     `json:"-"` // scoping key, never serialized
	Company      string     `json:"company"`
	Role         string     `json:"role"`
	Location     string     `json:"location"`
	Link         string     `json:"link"`
	SalaryRange  string     `json:"salaryRange"`
	Status       Status     `json:"status"`
	NextActionAt *time.Time `json:"nextActionAt"`
	Notes        string     `json:"notes"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

var ErrNotFound = errors.New("application not found")

type CreateApplicationRequest struct {
	Company      string     `json:"company" binding:"required"`
	Role         string     `json:"role" binding:"required"`
	Location     string     `json:"location" binding:"omitempty,max=200"`
	Link         string     `json:"link" binding:"omitempty,max=500"`
	SalaryRange  string     `json:"salaryRange" binding:"omitempty,max=100"`
	Status       Status     `json:"status" binding:"omitempty,oneof=APPLIED INTERVIEW OFFER REJECTED"`
	NextActionAt *time.Time `json:"nextActionAt"`
	Notes        string     `json:"notes" binding:"omitempty,max=5000"`
}

// UpdateApplicationRequest is a merge patch: only fields present in the
// payload override, so every field is a pointer. Clearing nextActionAt
// is expressed with an explicit JSON null.
type UpdateApplicationRequest struct {
	Company      *string    `json:"company,omitempty" binding:"omitempty,min=1"`
	Role         *string    `json:"role,omitempty" binding:"omitempty,min=1"`
	Location     *string    `json:"location,omitempty" binding:"omitempty,max=200"`
	Link         *string    `json:"link,omitempty" binding:"omitempty,max=500"`
	SalaryRange  *string    `json:"salaryRange,omitempty" binding:"omitempty,max=100"`
	Status       *Status    `json:"status,omitempty" binding:"omitempty,oneof=APPLIED INTERVIEW OFFER REJECTED"`
	NextActionAt *time.Time `json:"nextActionAt,omitempty"`
	Notes        *string    `json:"notes,omitempty" binding:"omitempty,max=5000"`

	// distinguishes {"nextActionAt": null} from the field being absent
	nextActionSet bool
}

// UnmarshalJSON records whether the nextActionAt key was present at
// all, since a nil pointer alone cannot tell "absent" from "null".
func (r *UpdateApplicationRequest) UnmarshalJSON(data []byte) error {
	type alias UpdateApplicationRequest

	aux := (*alias)(r)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}

	_, r.nextActionSet = keys["nextActionAt"]
	return nil
}

// MarshalJSON keeps round trips faithful: absent fields stay absent,
// and a deliberately cleared nextActionAt comes out as an explicit
// null rather than disappearing.
func (r UpdateApplicationRequest) MarshalJSON() ([]byte, error) {
	type alias UpdateApplicationRequest

	raw, err := json.Marshal(alias(r))
	if err != nil {
		return nil, err
	}

	if !r.nextActionSet || r.NextActionAt != nil {
		return raw, nil
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return nil, err
	}

	keys["nextActionAt"] = json.RawMessage("null")
	return json.Marshal(keys)
}

func (r *UpdateApplicationRequest) SetNextActionAt(t *time.Time) {
	r.NextActionAt = t
	r.nextActionSet = true
}

func (r *UpdateApplicationRequest) NextActionAtSet() bool {
	return r.nextActionSet || r.NextActionAt != nil
}

// Apply merges the present fields of the patch onto app and bumps
// UpdatedAt. The persistence layer mirrors this with a dynamic SET
// clause; this in-memory form backs the memory repo and tests.
func (r *UpdateApplicationRequest) Apply(app *Application) {
	if r.Company != nil {
		app.Company = *r.Company
	}
	if r.Role != nil {
		app.Role = *r.Role
	}
	if r.Location != nil {
		app.Location = *r.Location
	}
	if r.Link != nil {
		app.Link = *r.Link
	}
	if r.SalaryRange != nil {
		app.SalaryRange = *r.SalaryRange
	}
	if r.Status != nil {
		app.Status = *r.Status
	}
	if r.NextActionAtSet() {
		app.NextActionAt = r.NextActionAt
	}
	if r.Notes != nil {
		app.Notes = *r.Notes
	}

	app.UpdatedAt = time.Now().UTC()
}
