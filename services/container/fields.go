package container

import (
	containerModel "container-tracker/models/container"
	containerTypes "container-tracker/types/container"
)

// fieldSpec describes one Container attribute the update path knows about.
// trackable controls whether changes are written to container_history;
// updatable controls whether a PUT may write the column. The two flags are
// independent so the sets can diverge without touching the differ or the
// update applier. Today the seven tracked fields are also the writable ones;
// container_number, container_type_id and source stay frozen, which is the
// behavior the SPA depends on.
type fieldSpec struct {
	name      string
	column    string
	trackable bool
	updatable bool
	// current returns the stored row's value, stringified; nil for NULL.
	current func(c *containerModel.Container) *string
	// patch returns the request value, stringified, and whether the caller
	// supplied the field at all.
	patch func(p *containerTypes.ContainerUpdateRequest) (*string, bool)
	// value returns the typed column value for the SET clause.
	value func(p *containerTypes.ContainerUpdateRequest) interface{}
}

func stringOf(s string) *string {
	return &s
}

func dateString(d *containerModel.DateOnly) *string {
	if d == nil {
		return nil
	}
	return stringOf(d.String())
}

func datePatch(get func(p *containerTypes.ContainerUpdateRequest) *containerModel.DateOnly) func(*containerTypes.ContainerUpdateRequest) (*string, bool) {
	return func(p *containerTypes.ContainerUpdateRequest) (*string, bool) {
		d := get(p)
		if d == nil {
			return nil, false
		}
		return stringOf(d.String()), true
	}
}

func textPatch(get func(p *containerTypes.ContainerUpdateRequest) *string) func(*containerTypes.ContainerUpdateRequest) (*string, bool) {
	return func(p *containerTypes.ContainerUpdateRequest) (*string, bool) {
		s := get(p)
		if s == nil {
			return nil, false
		}
		return s, true
	}
}

// updateFields is the single source of truth for the update path. The differ
// and the SET-clause builder both consult it, so the tracked set and the
// writable set cannot silently drift apart. Order here fixes the order of
// history rows within one update call.
var updateFields = []fieldSpec{
	{
		name: "status", column: "status", trackable: true, updatable: true,
		current: func(c *containerModel.Container) *string { return stringOf(string(c.Status)) },
		patch: func(p *containerTypes.ContainerUpdateRequest) (*string, bool) {
			if p.Status == nil {
				return nil, false
			}
			return stringOf(string(*p.Status)), true
		},
		value: func(p *containerTypes.ContainerUpdateRequest) interface{} { return *p.Status },
	},
	{
		name: "planned_date", column: "planned_date", trackable: true, updatable: true,
		current: func(c *containerModel.Container) *string { return dateString(c.PlannedDate) },
		patch: datePatch(func(p *containerTypes.ContainerUpdateRequest) *containerModel.DateOnly {
			return p.PlannedDate
		}),
		value: func(p *containerTypes.ContainerUpdateRequest) interface{} { return p.PlannedDate },
	},
	{
		name: "expected_arrival_date", column: "expected_arrival_date", trackable: true, updatable: true,
		current: func(c *containerModel.Container) *string { return dateString(c.ExpectedArrivalDate) },
		patch: datePatch(func(p *containerTypes.ContainerUpdateRequest) *containerModel.DateOnly {
			return p.ExpectedArrivalDate
		}),
		value: func(p *containerTypes.ContainerUpdateRequest) interface{} { return p.ExpectedArrivalDate },
	},
	{
		name: "actual_arrival_date", column: "actual_arrival_date", trackable: true, updatable: true,
		current: func(c *containerModel.Container) *string { return dateString(c.ActualArrivalDate) },
		patch: datePatch(func(p *containerTypes.ContainerUpdateRequest) *containerModel.DateOnly {
			return p.ActualArrivalDate
		}),
		value: func(p *containerTypes.ContainerUpdateRequest) interface{} { return p.ActualArrivalDate },
	},
	{
		name: "departure_date", column: "departure_date", trackable: true, updatable: true,
		current: func(c *containerModel.Container) *string { return dateString(c.DepartureDate) },
		patch: datePatch(func(p *containerTypes.ContainerUpdateRequest) *containerModel.DateOnly {
			return p.DepartureDate
		}),
		value: func(p *containerTypes.ContainerUpdateRequest) interface{} { return p.DepartureDate },
	},
	{
		name: "destination", column: "destination", trackable: true, updatable: true,
		current: func(c *containerModel.Container) *string { return c.Destination },
		patch: textPatch(func(p *containerTypes.ContainerUpdateRequest) *string { return p.Destination }),
		value: func(p *containerTypes.ContainerUpdateRequest) interface{} { return p.Destination },
	},
	{
		name: "notes", column: "notes", trackable: true, updatable: true,
		current: func(c *containerModel.Container) *string { return c.Notes },
		patch: textPatch(func(p *containerTypes.ContainerUpdateRequest) *string { return p.Notes }),
		value: func(p *containerTypes.ContainerUpdateRequest) interface{} { return p.Notes },
	},

	// Frozen fields. Listed so the whitelist is explicit rather than implied
	// by omission; supplying them in a patch is recognized and ignored.
	{
		name: "container_number", column: "container_number",
		current: func(c *containerModel.Container) *string { return stringOf(c.ContainerNumber) },
		patch:   textPatch(func(p *containerTypes.ContainerUpdateRequest) *string { return p.ContainerNumber }),
	},
	{
		name: "container_type_id", column: "container_type_id",
		current: func(c *containerModel.Container) *string { return nil },
		patch: func(p *containerTypes.ContainerUpdateRequest) (*string, bool) {
			return nil, p.ContainerTypeID != nil
		},
	},
	{
		name: "source", column: "source",
		current: func(c *containerModel.Container) *string { return stringOf(c.Source) },
		patch:   textPatch(func(p *containerTypes.ContainerUpdateRequest) *string { return p.Source }),
	},
}

// TrackableFields returns the names of the fields whose changes are recorded
// in container_history, in history order.
func TrackableFields() []string {
	names := make([]string, 0, len(updateFields))
	for _, spec := range updateFields {
		if spec.trackable {
			names = append(names, spec.name)
		}
	}
	return names
}
