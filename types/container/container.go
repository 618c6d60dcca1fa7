package container

import (
	"strconv"

	"container-tracker/apperrors"
	containerModel "container-tracker/models/container"
	"container-tracker/utils"
)

// ContainerCreateRequest is the payload for creating a container.
type ContainerCreateRequest struct {
	ContainerNumber     string                         `json:"container_number" validate:"required,min=1,max=255"`
	ContainerTypeID     uint                           `json:"container_type_id" validate:"required"`
	Source              string                         `json:"source" validate:"required,min=1,max=100"`
	Status              containerModel.ContainerStatus `json:"status"`
	PlannedDate         *containerModel.DateOnly       `json:"planned_date"`
	ExpectedArrivalDate *containerModel.DateOnly       `json:"expected_arrival_date"`
	ActualArrivalDate   *containerModel.DateOnly       `json:"actual_arrival_date"`
	DepartureDate       *containerModel.DateOnly       `json:"departure_date"`
	Destination         *string                        `json:"destination" validate:"omitempty,max=255"`
	Notes               *string                        `json:"notes"`
}

func (r ContainerCreateRequest) Validate() *apperrors.ValidationError {
	fields := utils.ValidateStruct(r)
	if fields == nil {
		fields = make(map[string]string)
	}
	if r.Status != "" && !r.Status.IsValid() {
		fields["status"] = "invalid status"
	}
	if len(fields) > 0 {
		return &apperrors.ValidationError{Fields: fields}
	}
	return nil
}

// ContainerUpdateRequest is a partial update payload. Nil pointers mean the
// field was not supplied; an explicit JSON null decodes to nil as well and is
// treated the same way.
type ContainerUpdateRequest struct {
	Status              *containerModel.ContainerStatus `json:"status"`
	PlannedDate         *containerModel.DateOnly        `json:"planned_date"`
	ExpectedArrivalDate *containerModel.DateOnly        `json:"expected_arrival_date"`
	ActualArrivalDate   *containerModel.DateOnly        `json:"actual_arrival_date"`
	DepartureDate       *containerModel.DateOnly        `json:"departure_date"`
	Destination         *string                         `json:"destination" validate:"omitempty,max=255"`
	Notes               *string                         `json:"notes"`

	// Accepted but never written; the update field table freezes these.
	ContainerNumber *string `json:"container_number"`
	ContainerTypeID *uint   `json:"container_type_id"`
	Source          *string `json:"source"`
}

func (r ContainerUpdateRequest) Validate() *apperrors.ValidationError {
	fields := utils.ValidateStruct(r)
	if fields == nil {
		fields = make(map[string]string)
	}
	if r.Status != nil && !r.Status.IsValid() {
		fields["status"] = "invalid status"
	}
	if len(fields) > 0 {
		return &apperrors.ValidationError{Fields: fields}
	}
	return nil
}

// ContainerListQuery carries the list endpoint filters.
type ContainerListQuery struct {
	Status        string `query:"status"`
	Source        string `query:"source"`
	ContainerType string `query:"container_type"`
	DateFrom      string `query:"date_from"`
	DateTo        string `query:"date_to"`
}

func (q ContainerListQuery) Validate() *apperrors.ValidationError {
	fields := make(map[string]string)
	if q.Status != "" && !containerModel.ContainerStatus(q.Status).IsValid() {
		fields["status"] = "invalid status"
	}
	if q.ContainerType != "" {
		if _, err := strconv.ParseUint(q.ContainerType, 10, 64); err != nil {
			fields["container_type"] = "container_type must be numeric"
		}
	}
	if q.DateFrom != "" {
		if _, err := containerModel.ParseDate(q.DateFrom); err != nil {
			fields["date_from"] = "invalid date, expected YYYY-MM-DD"
		}
	}
	if q.DateTo != "" {
		if _, err := containerModel.ParseDate(q.DateTo); err != nil {
			fields["date_to"] = "invalid date, expected YYYY-MM-DD"
		}
	}
	if len(fields) > 0 {
		return &apperrors.ValidationError{Fields: fields}
	}
	return nil
}
