package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/D-Sokol/schedule-bot/internal/model"
)

func TestFormatArgsExpand(t *testing.T) {
	args := FormatArgs{
		"name": "world",
		"date": time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	}

	out, err := args.Expand("Hello, {name}!")
	require.NoError(t, err)
	assert.Equal(t, "Hello, world!", out)

	out, err = args.Expand("Week of {date:%d.%m}")
	require.NoError(t, err)
	assert.Equal(t, "Week of 31.08", out)

	out, err = args.Expand("{date:%A, %d %B %Y}")
	require.NoError(t, err)
	assert.Equal(t, "Monday, 31 August 2026", out)

	out, err = args.Expand("{date}")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-31", out)
}

func TestFormatArgsExpandEscapes(t *testing.T) {
	args := FormatArgs{"x": "1"}

	out, err := args.Expand("{{literal}} and {x}")
	require.NoError(t, err)
	assert.Equal(t, "{literal} and 1", out)
}

func TestFormatArgsExpandErrors(t *testing.T) {
	args := FormatArgs{"x": "1", "date": time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)}

	_, err := args.Expand("{unknown}")
	assert.Error(t, err)

	_, err = args.Expand("{x")
	assert.Error(t, err)

	_, err = args.Expand("dangling }")
	assert.Error(t, err)

	_, err = args.Expand("{date:%Q}")
	assert.Error(t, err)

	_, err = args.Expand("{date:%}")
	assert.Error(t, err)
}

func TestFormatArgsWithEntry(t *testing.T) {
	entry := model.Entry{
		Time:        model.Time{Hour: 11, Minute: 0},
		Description: "Gym",
		Tags:        model.NewTagSet("b", "a"),
	}
	args := FormatArgs{}.WithEntry(entry)

	out, err := args.Expand("{entry}")
	require.NoError(t, err)
	assert.Equal(t, "11:00 Gym", out)

	out, err = args.Expand("{entry.time} / {entry.description} / {entry.tags}")
	require.NoError(t, err)
	assert.Equal(t, "11:00 / Gym / a,b", out)
}

func TestFormatArgsClone(t *testing.T) {
	args := FormatArgs{"a": "1"}
	clone := args.Clone()
	clone["b"] = "2"
	_, ok := args["b"]
	assert.False(t, ok)
}

func TestStrftimePercentEscape(t *testing.T) {
	out, err := strftime(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), "%d%%")
	require.NoError(t, err)
	assert.Equal(t, "31%", out)
}

func TestTransformCase(t *testing.T) {
	assert.Equal(t, "HELLO", transformCase("hello", CaseUpper))
	assert.Equal(t, "hello", transformCase("HELLO", CaseLower))
	assert.Equal(t, "Hello world", transformCase("hELLO WORLD", CaseCapitalize))
	assert.Equal(t, "Привет", transformCase("приВЕТ", CaseCapitalize))
	assert.Equal(t, "as is", transformCase("as is", CaseNone))
	assert.Equal(t, "", transformCase("", CaseCapitalize))
}

func TestValidTextCase(t *testing.T) {
	assert.True(t, ValidTextCase(""))
	assert.True(t, ValidTextCase("upper"))
	assert.False(t, ValidTextCase("title"))
}
