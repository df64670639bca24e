package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/D-Sokol/schedule-bot/internal/model"
)

func TestParseScheduleText(t *testing.T) {
	text := `
Tuesday 11:00 Gym
Вторник 15:30 Английский
Friday 11:00 (important) Walk
`
	schedule, unparsed := ParseScheduleText(text, DefaultWeekdayNames())
	assert.Empty(t, unparsed)

	tuesday := schedule.Day(model.Tuesday)
	require.Len(t, tuesday, 2)
	assert.Equal(t, "Gym", tuesday[0].Description)
	assert.Equal(t, model.Time{Hour: 11, Minute: 0}, tuesday[0].Time)
	assert.Equal(t, "Английский", tuesday[1].Description)

	friday := schedule.Day(model.Friday)
	require.Len(t, friday, 1)
	assert.True(t, friday[0].Tags.Has("important"))
}

func TestParseScheduleTextNumericWeekday(t *testing.T) {
	schedule, unparsed := ParseScheduleText("5 11:00 Walk", DefaultWeekdayNames())
	assert.Empty(t, unparsed)
	require.Len(t, schedule.Day(model.Friday), 1)
}

func TestParseScheduleTextUnparsedLines(t *testing.T) {
	text := `Tuesday 11:00 Gym
not a schedule line
Someday 12:00 Unknown weekday
8 12:00 Weekday out of range
Friday 25:00 Bad time`
	schedule, unparsed := ParseScheduleText(text, DefaultWeekdayNames())
	require.Len(t, schedule.Day(model.Tuesday), 1)
	assert.Equal(t, []string{
		"not a schedule line",
		"Someday 12:00 Unknown weekday",
		"8 12:00 Weekday out of range",
		"Friday 25:00 Bad time",
	}, unparsed)
}

func TestParseScheduleTextAccountsEveryLine(t *testing.T) {
	text := "Tuesday 11:00 Gym\n\n  \ngarbage line\nFriday 9:15 Run"
	schedule, unparsed := ParseScheduleText(text, DefaultWeekdayNames())

	total := 0
	for _, entries := range schedule.Records {
		total += len(entries)
	}
	// каждая непустая строка либо разобрана, либо возвращена как есть
	nonBlank := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			nonBlank++
		}
	}
	assert.Equal(t, nonBlank, total+len(unparsed))
}

func TestParseScheduleTextSortsEntries(t *testing.T) {
	text := "Tuesday 15:30 Late\nTuesday 9:00 Early"
	schedule, unparsed := ParseScheduleText(text, DefaultWeekdayNames())
	assert.Empty(t, unparsed)

	tuesday := schedule.Day(model.Tuesday)
	require.Len(t, tuesday, 2)
	assert.Equal(t, "Early", tuesday[0].Description)
	assert.Equal(t, "Late", tuesday[1].Description)
}

func TestParseScheduleTextMultipleTags(t *testing.T) {
	schedule, unparsed := ParseScheduleText("Friday 11:00 (important, outdoor) Walk", DefaultWeekdayNames())
	assert.Empty(t, unparsed)

	friday := schedule.Day(model.Friday)
	require.Len(t, friday, 1)
	assert.True(t, friday[0].Tags.Equal(model.NewTagSet("important", "outdoor")))
}

func TestDumpScheduleText(t *testing.T) {
	schedule := model.Schedule{Records: map[model.WeekDay][]model.Entry{
		model.Tuesday: {
			{Time: model.Time{Hour: 11, Minute: 0}, Description: "Gym", Tags: model.NewTagSet()},
		},
		model.Friday: {
			{Time: model.Time{Hour: 11, Minute: 0}, Description: "Walk", Tags: model.NewTagSet("outdoor", "important")},
		},
	}}

	dump := DumpScheduleText(schedule)
	assert.Equal(t, "2 11:00 Gym\n5 11:00 (important,outdoor) Walk", dump)
}

func TestDumpScheduleTextRoundTrip(t *testing.T) {
	text := "Tuesday 11:00 Gym\nTuesday 15:30 English lesson\nFriday 11:00 (important) Walk"
	schedule, unparsed := ParseScheduleText(text, DefaultWeekdayNames())
	require.Empty(t, unparsed)

	dump := DumpScheduleText(schedule)
	// дамп разбирается без остатка даже с пустой таблицей имён
	restored, unparsed := ParseScheduleText(dump, map[string]model.WeekDay{})
	assert.Empty(t, unparsed)
	assert.Equal(t, schedule.Records, restored.Records)
}
