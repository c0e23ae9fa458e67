package insights

import (
	"testing"
	"time"

	"github.com/amimagid/ami-super-app/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBPSeries(t *testing.T) {
	entries := []models.HealthEntry{
		{Date: "2024-01-03", BPAMLeft: sp("118/78")},
		{Date: "2024-01-02", BPAMRight: sp("120/80"), BPPMRight: sp("125/82")},
		{Date: "2024-01-01"},
	}
	now := time.Now()

	right := BPSeries(entries, RangeAll, ArmRight, now)
	require.Len(t, right, 1)
	assert.Equal(t, "2024-01-02", right[0].FullDate)
	assert.Equal(t, "Jan 02", right[0].Label)
	assert.Equal(t, 120, *right[0].SystolicRightAM)
	assert.Equal(t, 82, *right[0].DiastolicRightPM)
	assert.Nil(t, right[0].SystolicLeftAM)

	both := BPSeries(entries, RangeAll, ArmBoth, now)
	require.Len(t, both, 2)
	assert.Equal(t, "2024-01-02", both[0].FullDate)
	assert.Equal(t, "2024-01-03", both[1].FullDate)

	left := BPSeries(entries, RangeAll, ArmLeft, now)
	require.Len(t, left, 1)
	assert.Nil(t, left[0].SystolicRightAM)
}

func TestWeightSeries(t *testing.T) {
	entries := []models.HealthEntry{
		{Date: "2024-01-03", Weight: fp(80.5)},
		{Date: "2024-01-02"},
		{Date: "2024-01-01", Weight: fp(81)},
	}

	points := WeightSeries(entries, RangeAll, time.Now())
	require.Len(t, points, 2)
	assert.Equal(t, "2024-01-01", points[0].FullDate)
	assert.Equal(t, 80.5, points[1].Weight)
}

func TestParseArm(t *testing.T) {
	a, err := ParseArm("")
	require.NoError(t, err)
	assert.Equal(t, ArmBoth, a)
	_, err = ParseArm("middle")
	assert.Error(t, err)
}
