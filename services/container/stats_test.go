package container

import (
	"testing"
	"time"

	containerModel "container-tracker/models/container"
	containerTypes "container-tracker/types/container"

	"github.com/stretchr/testify/require"
)

func TestStatsEmptyStore(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	overview, err := svc.Stats()
	require.NoError(t, err)
	require.Empty(t, overview.StatusBreakdown)
	require.Empty(t, overview.SourceBreakdown)
	require.Empty(t, overview.TypeBreakdown)
	require.Zero(t, overview.UpcomingContainers)
}

func TestStatsBreakdownsAndUpcoming(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	userID := seedUser(t, db, "creator")
	mattressID := seedType(t, db, "Mattress")
	sofaID := seedType(t, db, "Sofa")

	future := time.Now().AddDate(0, 0, 5).Format("2006-01-02")
	past := time.Now().AddDate(0, 0, -5).Format("2006-01-02")

	mk := func(number string, typeID uint, source string, expected string) *containerModel.Container {
		req := &containerTypes.ContainerCreateRequest{
			ContainerNumber: number,
			ContainerTypeID: typeID,
			Source:          source,
		}
		if expected != "" {
			req.ExpectedArrivalDate = dateOf(t, expected)
		}
		created, err := svc.Create(req, userID)
		require.NoError(t, err)
		return created
	}

	// Two planned arrivals still ahead, one already overdue, one arrived.
	mk("CONT-A", mattressID, "Shanghai", future)
	mk("CONT-B", mattressID, "Shanghai", future)
	mk("CONT-C", sofaID, "Hamburg", past)
	arrived := mk("CONT-D", sofaID, "Hamburg", future)
	_, err := svc.Update(arrived.ID, &containerTypes.ContainerUpdateRequest{
		Status: statusOf(containerModel.StatusArrived),
	}, userID)
	require.NoError(t, err)

	overview, err := svc.Stats()
	require.NoError(t, err)

	statusCounts := map[containerModel.ContainerStatus]int64{}
	for _, row := range overview.StatusBreakdown {
		statusCounts[row.Status] = row.Count
	}
	require.EqualValues(t, 3, statusCounts[containerModel.StatusPlanned])
	require.EqualValues(t, 1, statusCounts[containerModel.StatusArrived])

	sourceCounts := map[string]int64{}
	for _, row := range overview.SourceBreakdown {
		sourceCounts[row.Source] = row.Count
	}
	require.EqualValues(t, 2, sourceCounts["Shanghai"])
	require.EqualValues(t, 2, sourceCounts["Hamburg"])

	typeCounts := map[string]int64{}
	for _, row := range overview.TypeBreakdown {
		typeCounts[row.Type] = row.Count
	}
	require.EqualValues(t, 2, typeCounts["Mattress"])
	require.EqualValues(t, 2, typeCounts["Sofa"])

	// CONT-A and CONT-B: future expected arrival and still open. CONT-C is
	// overdue, CONT-D already arrived.
	require.EqualValues(t, 2, overview.UpcomingContainers)
}
