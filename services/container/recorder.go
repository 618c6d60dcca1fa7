package container

import (
	"container-tracker/apperrors"
	containerModel "container-tracker/models/container"

	"gorm.io/gorm"
)

// recordChanges persists one container_history row per tracked change,
// attributed to the acting user. It runs on the caller's transaction handle
// so history and the row update commit or roll back together.
func recordChanges(tx *gorm.DB, containerID uint, changes []Change, actingUserID uint) error {
	for _, ch := range changes {
		if !ch.spec.trackable {
			continue
		}
		entry := containerModel.ContainerHistory{
			ContainerID: containerID,
			FieldName:   ch.Field,
			OldValue:    ch.Old,
			NewValue:    ch.New,
			ChangedByID: actingUserID,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return &apperrors.StorageError{Err: err}
		}
	}
	return nil
}
