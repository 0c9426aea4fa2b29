package application

import (
	"time"

	"github.com/google/uuid"
)

func NewFromCreateRequest(ownerID string, req CreateApplicationRequest) Application {
	now := time.Now().UTC()

	status := req.Status
	if status == "" {
		status = StatusApplied
	}

	return Application{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		Company:      req.Company,
		Role:         req.Role,
		Location:     req.Location,
		Link:         req.Link,
		SalaryRange:  req.SalaryRange,
		Status:       status,
		NextActionAt: req.NextActionAt,
		Notes:        req.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
