package container

// ContainerStatus is the lifecycle state of a container.
type ContainerStatus string

const (
	StatusPlanned   ContainerStatus = "planned"
	StatusInTransit ContainerStatus = "in_transit"
	StatusArrived   ContainerStatus = "arrived"
	StatusDeparted  ContainerStatus = "departed"
)

func (cs ContainerStatus) String() string {
	return string(cs)
}

func (cs ContainerStatus) IsValid() bool {
	switch cs {
	case StatusPlanned, StatusInTransit, StatusArrived, StatusDeparted:
		return true
	default:
		return false
	}
}

// IsOpen returns true while the container is still expected to arrive.
func (cs ContainerStatus) IsOpen() bool {
	return cs == StatusPlanned || cs == StatusInTransit
}

// AllContainerStatuses returns every valid container status.
func AllContainerStatuses() []ContainerStatus {
	return []ContainerStatus{
		StatusPlanned,
		StatusInTransit,
		StatusArrived,
		StatusDeparted,
	}
}
