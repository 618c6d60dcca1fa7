package container

import (
	"errors"
	"time"

	"container-tracker/apperrors"
	containerModel "container-tracker/models/container"
	containerTypes "container-tracker/types/container"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service owns all container reads and writes. Every mutation runs as a
// single transaction against the store, so history rows and the container
// row can never diverge.
type Service struct {
	db *gorm.DB
}

// NewService creates a new container service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// UpdateOutcome reports whether an update call wrote anything.
type UpdateOutcome struct {
	Changed bool `json:"changed"`
}

// ContainerRow is a container joined with its type name and the full names
// of the users who created and last updated it.
type ContainerRow struct {
	ID                  uint                           `json:"id"`
	ContainerNumber     string                         `json:"container_number"`
	ContainerTypeID     uint                           `json:"container_type_id"`
	ContainerTypeName   string                         `json:"container_type_name"`
	Source              string                         `json:"source"`
	Status              containerModel.ContainerStatus `json:"status"`
	PlannedDate         *containerModel.DateOnly       `json:"planned_date"`
	ExpectedArrivalDate *containerModel.DateOnly       `json:"expected_arrival_date"`
	ActualArrivalDate   *containerModel.DateOnly       `json:"actual_arrival_date"`
	DepartureDate       *containerModel.DateOnly       `json:"departure_date"`
	Destination         *string                        `json:"destination"`
	Notes               *string                        `json:"notes"`
	CreatedBy           uint                           `json:"created_by"`
	CreatedByName       string                         `json:"created_by_name"`
	UpdatedBy           uint                           `json:"updated_by"`
	UpdatedByName       string                         `json:"updated_by_name"`
	CreatedAt           time.Time                      `json:"created_at"`
	UpdatedAt           time.Time                      `json:"updated_at"`
}

// HistoryRow is a history entry joined with the changing user's full name.
type HistoryRow struct {
	ID            uint      `json:"id"`
	ContainerID   uint      `json:"container_id"`
	FieldName     string    `json:"field_name"`
	OldValue      *string   `json:"old_value"`
	NewValue      *string   `json:"new_value"`
	ChangedBy     uint      `json:"changed_by"`
	ChangedByName string    `json:"changed_by_name"`
	ChangedAt     time.Time `json:"changed_at"`
}

// ContainerDetail is a single container with its history, newest first.
type ContainerDetail struct {
	ContainerRow
	History []HistoryRow `json:"history"`
}

const containerJoins = "containers c"

func (s *Service) joinedContainers() *gorm.DB {
	return s.db.Table(containerJoins).
		Select("c.*, ct.name AS container_type_name, u1.full_name AS created_by_name, u2.full_name AS updated_by_name").
		Joins("JOIN container_types ct ON c.container_type_id = ct.id").
		Joins("JOIN users u1 ON c.created_by = u1.id").
		Joins("JOIN users u2 ON c.updated_by = u2.id")
}

// List returns containers matching the query filters, newest-created first.
func (s *Service) List(q *containerTypes.ContainerListQuery) ([]ContainerRow, error) {
	if verr := q.Validate(); verr != nil {
		return nil, verr
	}

	query := s.joinedContainers()
	if q.Status != "" {
		query = query.Where("c.status = ?", q.Status)
	}
	if q.Source != "" {
		query = query.Where("c.source = ?", q.Source)
	}
	if q.ContainerType != "" {
		query = query.Where("c.container_type_id = ?", q.ContainerType)
	}
	if q.DateFrom != "" {
		query = query.Where("c.expected_arrival_date >= ?", q.DateFrom)
	}
	if q.DateTo != "" {
		query = query.Where("c.expected_arrival_date <= ?", q.DateTo)
	}

	rows := make([]ContainerRow, 0)
	if err := query.Order("c.created_at DESC, c.id DESC").Scan(&rows).Error; err != nil {
		return nil, &apperrors.StorageError{Err: err}
	}
	return rows, nil
}

// Get returns a single container with its history, or NotFoundError.
func (s *Service) Get(id uint) (*ContainerDetail, error) {
	var row ContainerRow
	err := s.joinedContainers().Where("c.id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.NotFoundError{Entity: "container"}
		}
		return nil, &apperrors.StorageError{Err: err}
	}

	history := make([]HistoryRow, 0)
	err = s.db.Table("container_history ch").
		Select("ch.*, u.full_name AS changed_by_name").
		Joins("JOIN users u ON ch.changed_by = u.id").
		Where("ch.container_id = ?", id).
		Order("ch.changed_at DESC, ch.id DESC").
		Scan(&history).Error
	if err != nil {
		return nil, &apperrors.StorageError{Err: err}
	}

	return &ContainerDetail{ContainerRow: row, History: history}, nil
}

// ListTypes returns the container type reference data.
func (s *Service) ListTypes() ([]containerModel.ContainerType, error) {
	types := make([]containerModel.ContainerType, 0)
	if err := s.db.Order("name").Find(&types).Error; err != nil {
		return nil, &apperrors.StorageError{Err: err}
	}
	return types, nil
}

// Create validates the payload and inserts a new container attributed to the
// acting user. A duplicate container number surfaces as ConflictError; the
// unique constraint on the column is the real guard against concurrent
// creators, the in-transaction count only gives the common case a clean
// message.
func (s *Service) Create(req *containerTypes.ContainerCreateRequest, actingUserID uint) (*containerModel.Container, error) {
	if actingUserID == 0 {
		return nil, apperrors.ErrAuthRequired
	}
	if verr := req.Validate(); verr != nil {
		return nil, verr
	}

	status := req.Status
	if status == "" {
		status = containerModel.StatusPlanned
	}

	row := &containerModel.Container{
		ContainerNumber:     req.ContainerNumber,
		ContainerTypeID:     req.ContainerTypeID,
		Source:              req.Source,
		Status:              status,
		PlannedDate:         req.PlannedDate,
		ExpectedArrivalDate: req.ExpectedArrivalDate,
		ActualArrivalDate:   req.ActualArrivalDate,
		DepartureDate:       req.DepartureDate,
		Destination:         req.Destination,
		Notes:               req.Notes,
		CreatedByID:         actingUserID,
		UpdatedByID:         actingUserID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&containerModel.Container{}).
			Where("container_number = ?", req.ContainerNumber).
			Count(&count).Error; err != nil {
			return &apperrors.StorageError{Err: err}
		}
		if count > 0 {
			return &apperrors.ConflictError{Message: "Container number already exists"}
		}
		if err := tx.Create(row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &apperrors.ConflictError{Message: "Container number already exists"}
			}
			return &apperrors.StorageError{Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// Update applies a partial update as one transaction: lock the row, diff the
// patch against it, record one history entry per change, then write the
// changed columns together with updated_by and a fresh updated_at. A patch
// that changes nothing is a no-op and writes nothing.
func (s *Service) Update(id uint, patch *containerTypes.ContainerUpdateRequest, actingUserID uint) (UpdateOutcome, error) {
	if actingUserID == 0 {
		return UpdateOutcome{}, apperrors.ErrAuthRequired
	}
	if verr := patch.Validate(); verr != nil {
		return UpdateOutcome{}, verr
	}

	var outcome UpdateOutcome
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var current containerModel.Container
		if err := s.lockRow(tx).First(&current, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &apperrors.NotFoundError{Entity: "container"}
			}
			return &apperrors.StorageError{Err: err}
		}

		changes := Diff(&current, patch)
		if len(changes) == 0 {
			return nil
		}

		if err := recordChanges(tx, current.ID, changes, actingUserID); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"updated_by": actingUserID,
			"updated_at": time.Now(),
		}
		for _, ch := range changes {
			if ch.spec.updatable {
				updates[ch.spec.column] = ch.spec.value(patch)
			}
		}
		if err := tx.Model(&containerModel.Container{}).
			Where("id = ?", current.ID).
			Updates(updates).Error; err != nil {
			return &apperrors.StorageError{Err: err}
		}

		outcome.Changed = true
		return nil
	})
	return outcome, err
}

// Delete removes a container and all of its history as one transaction.
func (s *Service) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing containerModel.Container
		if err := tx.Select("id").First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &apperrors.NotFoundError{Entity: "container"}
			}
			return &apperrors.StorageError{Err: err}
		}

		if err := tx.Where("container_id = ?", id).
			Delete(&containerModel.ContainerHistory{}).Error; err != nil {
			return &apperrors.StorageError{Err: err}
		}
		if err := tx.Delete(&containerModel.Container{}, id).Error; err != nil {
			return &apperrors.StorageError{Err: err}
		}
		return nil
	})
}

// lockRow adds a row-level lock where the dialect supports it, serializing
// concurrent updates to the same container. SQLite serializes writers on its
// own and rejects FOR UPDATE.
func (s *Service) lockRow(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
