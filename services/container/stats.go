package container

import (
	"container-tracker/apperrors"
	containerModel "container-tracker/models/container"

	"github.com/jinzhu/now"
)

// StatusCount is one row of the status breakdown.
type StatusCount struct {
	Status containerModel.ContainerStatus `json:"status"`
	Count  int64                          `json:"count"`
}

// SourceCount is one row of the source breakdown.
type SourceCount struct {
	Source string `json:"source"`
	Count  int64  `json:"count"`
}

// TypeCount is one row of the type breakdown.
type TypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// StatsOverview is the read-only rollup served by the stats endpoint.
type StatsOverview struct {
	StatusBreakdown    []StatusCount `json:"statusBreakdown"`
	SourceBreakdown    []SourceCount `json:"sourceBreakdown"`
	TypeBreakdown      []TypeCount   `json:"typeBreakdown"`
	UpcomingContainers int64         `json:"upcomingContainers"`
}

// Stats computes the grouped counts and the number of containers still
// expected to arrive today or later. "Today" is evaluated once per call.
func (s *Service) Stats() (*StatsOverview, error) {
	overview := &StatsOverview{
		StatusBreakdown: make([]StatusCount, 0),
		SourceBreakdown: make([]SourceCount, 0),
		TypeBreakdown:   make([]TypeCount, 0),
	}

	err := s.db.Model(&containerModel.Container{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&overview.StatusBreakdown).Error
	if err != nil {
		return nil, &apperrors.StorageError{Err: err}
	}

	err = s.db.Model(&containerModel.Container{}).
		Select("source, COUNT(*) AS count").
		Group("source").
		Scan(&overview.SourceBreakdown).Error
	if err != nil {
		return nil, &apperrors.StorageError{Err: err}
	}

	err = s.db.Table("containers c").
		Select("ct.name AS type, COUNT(*) AS count").
		Joins("JOIN container_types ct ON c.container_type_id = ct.id").
		Group("ct.id, ct.name").
		Scan(&overview.TypeBreakdown).Error
	if err != nil {
		return nil, &apperrors.StorageError{Err: err}
	}

	today := now.BeginningOfDay().Format("2006-01-02")
	err = s.db.Model(&containerModel.Container{}).
		Where("expected_arrival_date >= ? AND status IN ?", today,
			[]containerModel.ContainerStatus{containerModel.StatusPlanned, containerModel.StatusInTransit}).
		Count(&overview.UpcomingContainers).Error
	if err != nil {
		return nil, &apperrors.StorageError{Err: err}
	}

	return overview, nil
}
