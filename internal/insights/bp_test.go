package insights

import (
	"testing"

	"github.com/amimagid/ami-super-app/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sp(s string) *string { return &s }

func fp(v float64) *float64 { return &v }

func TestParseBP(t *testing.T) {
	tests := []struct {
		in   string
		want Reading
		ok   bool
	}{
		{"120/80", Reading{120, 80}, true},
		{"BP 135/88 after coffee", Reading{135, 88}, true},
		{"120 / 80", Reading{}, false},
		{"high", Reading{}, false},
		{"", Reading{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseBP(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestArmAverage(t *testing.T) {
	r, ok := ArmAverage(sp("121/80"), sp("124/83"))
	require.True(t, ok)
	// 122.5 and 81.5 round up.
	assert.Equal(t, Reading{123, 82}, r)

	r, ok = ArmAverage(nil, sp("110/70"))
	require.True(t, ok)
	assert.Equal(t, Reading{110, 70}, r)

	_, ok = ArmAverage(sp("n/a"), nil)
	assert.False(t, ok)
}

func TestReadingAverage(t *testing.T) {
	entries := []models.HealthEntry{
		{Date: "2024-01-02", BPAMRight: sp("120/80"), BPAMLeft: sp("130/90"), BPPMRight: sp("garbage")},
		{Date: "2024-01-01", BPPMLeft: sp("141/85")},
		{Date: "2023-12-31"},
	}

	got := ReadingAverage(entries)
	require.NotNil(t, got)
	// (120+130+141)/3 = 130.33, (80+90+85)/3 = 85
	assert.Equal(t, &models.BPAverage{Systolic: 130, Diastolic: 85}, got)

	assert.Nil(t, ReadingAverage(entries[2:]))
	assert.Nil(t, ReadingAverage(nil))
}

func TestDayAverage_PrefersEvening(t *testing.T) {
	entries := []models.HealthEntry{
		{BPAMRight: sp("150/100"), BPPMRight: sp("120/80"), BPPMLeft: sp("122/82")},
		{BPAMRight: sp("130/85")},
	}

	r, ok := DayReading(&entries[0])
	require.True(t, ok)
	assert.Equal(t, Reading{121, 81}, r)

	// (121+130)/2 = 125.5, (81+85)/2 = 83
	assert.Equal(t, &models.BPAverage{Systolic: 126, Diastolic: 83}, DayAverage(entries))
}

func TestReadingHigh(t *testing.T) {
	assert.True(t, Reading{140, 70}.High())
	assert.True(t, Reading{120, 90}.High())
	assert.False(t, Reading{139, 89}.High())
}
