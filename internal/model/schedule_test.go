package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagSet(t *testing.T) {
	s := NewTagSet("b", "a")
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("c"))

	s.Add("c")
	assert.Equal(t, []string{"a", "b", "c"}, s.Sorted())

	clone := s.Clone()
	clone.Add("d")
	assert.False(t, s.Has("d"))
	assert.True(t, s.Equal(NewTagSet("a", "b", "c")))
	assert.False(t, s.Equal(clone))
}

func TestTagSetJSON(t *testing.T) {
	data, err := json.Marshal(NewTagSet("z", "a"))
	require.NoError(t, err)
	assert.JSONEq(t, `["a","z"]`, string(data))

	var s TagSet
	require.NoError(t, json.Unmarshal([]byte(`["x","y"]`), &s))
	assert.True(t, s.Equal(NewTagSet("x", "y")))
}

func TestScheduleSort(t *testing.T) {
	s := Schedule{Records: map[WeekDay][]Entry{
		Monday: {
			{Time: Time{Hour: 15, Minute: 30}, Description: "late"},
			{Time: Time{Hour: 9, Minute: 0}, Description: "early"},
			{Time: Time{Hour: 9, Minute: 45}, Description: "middle"},
		},
	}}
	s.Sort()

	entries := s.Day(Monday)
	require.Len(t, entries, 3)
	assert.Equal(t, "early", entries[0].Description)
	assert.Equal(t, "middle", entries[1].Description)
	assert.Equal(t, "late", entries[2].Description)
}

func TestScheduleIsEmpty(t *testing.T) {
	assert.True(t, Schedule{}.IsEmpty())
	assert.True(t, Schedule{Records: map[WeekDay][]Entry{Friday: {}}}.IsEmpty())
	assert.False(t, Schedule{Records: map[WeekDay][]Entry{
		Friday: {{Time: Time{Hour: 11}, Description: "walk"}},
	}}.IsEmpty())
}

func TestScheduleDayAbsent(t *testing.T) {
	s := Schedule{Records: map[WeekDay][]Entry{}}
	assert.Empty(t, s.Day(Sunday))
}

func TestTimeValid(t *testing.T) {
	assert.True(t, Time{Hour: 0, Minute: 0}.Valid())
	assert.True(t, Time{Hour: 23, Minute: 59}.Valid())
	assert.False(t, Time{Hour: 24, Minute: 0}.Valid())
	assert.False(t, Time{Hour: 11, Minute: 60}.Valid())
	assert.False(t, Time{Hour: -1, Minute: 0}.Valid())
}

func TestTimeString(t *testing.T) {
	assert.Equal(t, "9:05", Time{Hour: 9, Minute: 5}.String())
	assert.Equal(t, "15:30", Time{Hour: 15, Minute: 30}.String())
}

func TestWeekDayValid(t *testing.T) {
	assert.True(t, Monday.Valid())
	assert.True(t, Sunday.Valid())
	assert.False(t, WeekDay(0).Valid())
	assert.False(t, WeekDay(8).Valid())
}
