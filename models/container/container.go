package container

import (
	"time"

	"container-tracker/models/user"
)

// Container represents a tracked warehouse container.
type Container struct {
	ID              uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ContainerNumber string `gorm:"type:varchar(255);not null;unique" json:"container_number"`

	// Foreign key for container type relationship
	ContainerTypeID uint          `gorm:"not null" json:"container_type_id"`
	ContainerType   ContainerType `gorm:"foreignKey:ContainerTypeID" json:"-"`

	Source string          `gorm:"type:varchar(100);not null" json:"source"`
	Status ContainerStatus `gorm:"type:varchar(20);not null;default:planned" json:"status"`

	PlannedDate         *DateOnly `gorm:"type:date" json:"planned_date"`
	ExpectedArrivalDate *DateOnly `gorm:"type:date" json:"expected_arrival_date"`
	ActualArrivalDate   *DateOnly `gorm:"type:date" json:"actual_arrival_date"`
	DepartureDate       *DateOnly `gorm:"type:date" json:"departure_date"`

	Destination *string `gorm:"type:varchar(255)" json:"destination"`
	Notes       *string `gorm:"type:text" json:"notes"`

	CreatedByID   uint      `gorm:"column:created_by;not null" json:"created_by"`
	CreatedByUser user.User `gorm:"foreignKey:CreatedByID" json:"-"`
	UpdatedByID   uint      `gorm:"column:updated_by;not null" json:"updated_by"`
	UpdatedByUser user.User `gorm:"foreignKey:UpdatedByID" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
