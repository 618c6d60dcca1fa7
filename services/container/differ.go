package container

import (
	containerModel "container-tracker/models/container"
	containerTypes "container-tracker/types/container"
)

// Change is one detected field-level difference between the stored row and a
// patch. Old and New carry stringified values; nil means NULL.
type Change struct {
	Field string
	Old   *string
	New   *string

	spec *fieldSpec
}

// Diff computes the changes a patch would make to the stored row. Pure: no
// side effects over its inputs. Only fields the caller actually supplied are
// considered, only fields in the update table can produce a change, and
// equal values produce none. Output order follows the field table, which is
// fixed, so a given (row, patch) pair always diffs the same way.
func Diff(current *containerModel.Container, patch *containerTypes.ContainerUpdateRequest) []Change {
	var changes []Change
	for i := range updateFields {
		spec := &updateFields[i]
		if !spec.trackable && !spec.updatable {
			continue
		}
		newValue, supplied := spec.patch(patch)
		if !supplied {
			continue
		}
		oldValue := spec.current(current)
		if stringPtrEqual(oldValue, newValue) {
			continue
		}
		changes = append(changes, Change{
			Field: spec.name,
			Old:   oldValue,
			New:   newValue,
			spec:  spec,
		})
	}
	return changes
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
