package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Detect(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name     string
		fileName string
		head     string
		want     string
	}{
		{"xlsx by extension", "log.xlsx", "", "xlsx"},
		{"xlsx by magic", "upload", "PK\x03\x04rest", "xlsx"},
		{"header mapped csv", "log.csv", baseHeader + ",Workout\n", "health_csv"},
		{"positional csv", "log.csv", "a,b,c\n", "legacy_csv"},
		{"bom csv", "log.csv", "\ufeff" + baseHeader + "\n", "health_csv"},
		{"bom txt", "log.txt", "\ufeff" + baseHeader + "\n", "health_csv"},
		{"header without exact date", "log.csv", "date,Weight (kg)\n", "health_csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := r.Detect(tt.fileName, []byte(tt.head))
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Name())
		})
	}

	_, err := r.Detect("notes.pdf", []byte("%PDF"))
	assert.Error(t, err)
}

func TestRegistry_DetectAndParseByteOrderMark(t *testing.T) {
	text := "\ufeff" + baseHeader + "\n" +
		"Workout\n" +
		"2024-01-01,82.5,120/80,118/79,7:15,,,,,,Strength\n" +
		"2024-01-02,abc,,,25:00,,,,,,\n"

	r := NewRegistry()
	for _, name := range []string{"health.csv", "health.txt"} {
		t.Run(name, func(t *testing.T) {
			p, err := r.Detect(name, []byte(text))
			require.NoError(t, err)
			require.Equal(t, "health_csv", p.Name())

			res, err := p.Parse(strings.NewReader(text))
			require.NoError(t, err)
			require.Len(t, res.Entries, 2)
			assert.Equal(t, "2024-01-01", res.Entries[0].Date)
			assert.Equal(t, ptr("Strength"), res.Entries[0].Workout)
			assert.Equal(t, "2024-01-02", res.Entries[1].Date)
			assert.Equal(t, 0, res.Skipped)
		})
	}
}

func TestRegistry_MismatchedHeaderYieldsNoEntries(t *testing.T) {
	text := "date,Weight (kg)\n2024-01-01,80\n"

	p, err := NewRegistry().Detect("log.csv", []byte(text))
	require.NoError(t, err)

	res, err := p.Parse(strings.NewReader(text))
	require.NoError(t, err)
	assert.Empty(t, res.Entries)
	assert.Equal(t, 1, res.Skipped)
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()
	p, err := r.Get("HEALTH_CSV")
	require.NoError(t, err)
	assert.Equal(t, "health_csv", p.Name())

	_, err = r.Get("nope")
	assert.Error(t, err)

	assert.Equal(t, []string{"xlsx", "health_csv", "legacy_csv"}, r.Names())
}
