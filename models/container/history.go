package container

import (
	"time"

	"container-tracker/models/user"
)

// ContainerHistory records one field-level change on a container. Rows are
// append-only: each update call writes exactly one row per tracked field
// whose value actually changed.
type ContainerHistory struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// DO NOT make this unique here (history rows are many per container)
	ContainerID uint      `gorm:"not null;index" json:"container_id"`
	Container   Container `gorm:"foreignKey:ContainerID" json:"-"`

	FieldName string  `gorm:"type:varchar(50);not null" json:"field_name"`
	OldValue  *string `gorm:"type:text" json:"old_value"`
	NewValue  *string `gorm:"type:text" json:"new_value"`

	ChangedByID   uint      `gorm:"column:changed_by;not null" json:"changed_by"`
	ChangedByUser user.User `gorm:"foreignKey:ChangedByID" json:"-"`
	ChangedAt     time.Time `gorm:"autoCreateTime" json:"changed_at"`
}

// TableName sets the table name for the ContainerHistory model.
func (ContainerHistory) TableName() string {
	return "container_history"
}
