package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safestreet-service/config"
	"safestreet-service/models"
)

// mondayNoon is a fixed Monday so day-of-week assertions are deterministic.
var mondayNoon = time.Date(2024, time.April, 1, 14, 30, 5, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *clockwork.FakeClock) {
	t.Helper()

	dir, err := os.MkdirTemp("", "safestreet-service")
	require.NoError(t, err)
	t.Cleanup(func() {
		os.RemoveAll(dir)
	})

	cfg := &config.Config{
		StoreFile:        filepath.Join(dir, "hazards.txt"),
		PredictThreshold: 3,
		RecentLimit:      5,
		TimeZone:         "UTC",
	}

	svc, err := NewService(cfg)
	require.NoError(t, err)

	fakeClock := clockwork.NewFakeClockAt(mondayNoon)
	svc.SetClock(fakeClock)

	return svc, fakeClock
}

func validArgs() models.ReportArgs {
	return models.ReportArgs{
		LocationName:  "Fashion Square",
		HazardType:    "Pothole",
		Accessibility: 2,
		UserType:      "Wheelchair",
	}
}

func TestSubmitReportStampsAndPersists(t *testing.T) {
	svc, _ := newTestService(t)

	report, err := svc.SubmitReport(validArgs())
	require.NoError(t, err)
	assert.Equal(t, "2024-04-01 14:30:05", report.Timestamp)
	assert.Equal(t, "Monday", report.DayOfWeek)

	stored, err := svc.Store().LoadAll()
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, *report, stored[0])
}

func TestSubmitReportRejectsInvalidWithoutWriting(t *testing.T) {
	svc, _ := newTestService(t)

	args := validArgs()
	args.Accessibility = 9

	_, err := svc.SubmitReport(args)
	require.Error(t, err)
	assert.Equal(t, "accessibility must be between 1 and 5", err.Error())

	stored, err := svc.Store().LoadAll()
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestSubmitReportBroadcastsToHub(t *testing.T) {
	svc, _ := newTestService(t)
	require.NoError(t, svc.Start())
	defer svc.Stop()

	_, err := svc.SubmitReport(validArgs())
	require.NoError(t, err)

	_, broadcastCount := svc.Hub().Stats()
	assert.Equal(t, 1, broadcastCount)
}

func TestRecentHazardsRequiresLocation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.RecentHazards("")
	require.Error(t, err)

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "location query parameter is required", verr.Error())
}

func TestRecentHazardsMatchesSubstring(t *testing.T) {
	svc, fakeClock := newTestService(t)

	args := validArgs()
	args.LocationName = "Main St and 5th Ave"
	_, err := svc.SubmitReport(args)
	require.NoError(t, err)

	fakeClock.Advance(time.Minute)
	args.LocationName = "Elm St"
	_, err = svc.SubmitReport(args)
	require.NoError(t, err)

	matches, err := svc.RecentHazards("main st")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Main St and 5th Ave", matches[0].LocationName)
}

func TestRecentHazardsNewestFirst(t *testing.T) {
	svc, fakeClock := newTestService(t)

	args := validArgs()
	for i := 0; i < 3; i++ {
		_, err := svc.SubmitReport(args)
		require.NoError(t, err)
		fakeClock.Advance(time.Minute)
	}

	matches, err := svc.RecentHazards("Fashion")
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "2024-04-01 14:32:05", matches[0].Timestamp)
	assert.Equal(t, "2024-04-01 14:30:05", matches[2].Timestamp)
}

func TestPredictRequiresLocation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.PredictForLocation("")
	require.Error(t, err)

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "location query parameter is required", verr.Error())
}

func TestPredictFlagsRepeatedHazards(t *testing.T) {
	svc, _ := newTestService(t)

	args := validArgs()
	args.LocationName = "Main St"
	for i := 0; i < 3; i++ {
		_, err := svc.SubmitReport(args)
		require.NoError(t, err)
	}

	prediction, err := svc.PredictForLocation("Main St")
	require.NoError(t, err)
	assert.Equal(t, "Main St", prediction.Location)
	assert.Equal(t, "Monday", prediction.Day)
	assert.Equal(t, 3, prediction.Score)
	assert.True(t, prediction.ShouldAvoid)

	quiet, err := svc.PredictForLocation("Elm St")
	require.NoError(t, err)
	assert.Equal(t, 0, quiet.Score)
	assert.False(t, quiet.ShouldAvoid)
}

func TestPredictEmptyHistory(t *testing.T) {
	svc, _ := newTestService(t)

	prediction, err := svc.PredictForLocation("Main St")
	require.NoError(t, err)
	assert.Equal(t, "Main St", prediction.Location)
	assert.Equal(t, "Monday", prediction.Day)
	assert.Equal(t, 0, prediction.Score)
	assert.False(t, prediction.ShouldAvoid)
}

func TestPredictScoresCurrentDayOnly(t *testing.T) {
	svc, fakeClock := newTestService(t)

	args := validArgs()
	args.LocationName = "Main St"
	for i := 0; i < 3; i++ {
		_, err := svc.SubmitReport(args)
		require.NoError(t, err)
	}

	// Same location, next day: Monday's reports do not count for Tuesday.
	fakeClock.Advance(24 * time.Hour)

	prediction, err := svc.PredictForLocation("Main St")
	require.NoError(t, err)
	assert.Equal(t, "Tuesday", prediction.Day)
	assert.Equal(t, 0, prediction.Score)
	assert.False(t, prediction.ShouldAvoid)
}
