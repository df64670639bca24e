package model

import (
	"encoding/json"
	"sort"
)

// TagSet множество строковых меток записи
type TagSet map[string]struct{}

// NewTagSet создаёт множество из перечисленных меток
func NewTagSet(tags ...string) TagSet {
	s := make(TagSet, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

// Has проверяет наличие метки
func (s TagSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Add добавляет метку
func (s TagSet) Add(tag string) {
	s[tag] = struct{}{}
}

// Sorted возвращает метки в алфавитном порядке
func (s TagSet) Sorted() []string {
	tags := make([]string, 0, len(s))
	for t := range s {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// Clone возвращает независимую копию множества
func (s TagSet) Clone() TagSet {
	out := make(TagSet, len(s)+1)
	for t := range s {
		out[t] = struct{}{}
	}
	return out
}

// Equal сравнивает множества по содержимому
func (s TagSet) Equal(other TagSet) bool {
	if len(s) != len(other) {
		return false
	}
	for t := range s {
		if !other.Has(t) {
			return false
		}
	}
	return true
}

// MarshalJSON сериализует множество как отсортированный список
func (s TagSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON читает множество из списка строк
func (s *TagSet) UnmarshalJSON(data []byte) error {
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return err
	}
	*s = NewTagSet(tags...)
	return nil
}

// Entry одна запись расписания
type Entry struct {
	Time        Time   `json:"time"`
	Description string `json:"description"`
	Tags        TagSet `json:"tags,omitempty"`
}

// Schedule расписание на неделю: записи, сгруппированные по дням
type Schedule struct {
	Records map[WeekDay][]Entry `json:"records"`
}

// IsEmpty проверяет что ни на один день не запланировано записей
func (s Schedule) IsEmpty() bool {
	for _, entries := range s.Records {
		if len(entries) > 0 {
			return false
		}
	}
	return true
}

// Sort упорядочивает записи каждого дня по (час, минута)
func (s Schedule) Sort() {
	for _, entries := range s.Records {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Time.Before(entries[j].Time)
		})
	}
}

// Day возвращает записи на день; отсутствующий день эквивалентен пустому списку
func (s Schedule) Day(d WeekDay) []Entry {
	return s.Records[d]
}
