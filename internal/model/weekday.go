package model

import "fmt"

// WeekDay день недели, от понедельника (1) до воскресенья (7)
type WeekDay int

const (
	Monday WeekDay = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// WeekLength количество дней в неделе
const WeekLength = 7

var weekDayShortNames = [...]string{"", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}

// Valid проверяет что значение попадает в диапазон 1..7
func (d WeekDay) Valid() bool {
	return d >= Monday && d <= Sunday
}

// String возвращает короткое имя дня недели
func (d WeekDay) String() string {
	if !d.Valid() {
		return fmt.Sprintf("WeekDay(%d)", int(d))
	}
	return weekDayShortNames[d]
}

// Time время записи расписания с точностью до минуты
type Time struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Valid проверяет диапазоны часа и минуты
func (t Time) Valid() bool {
	return t.Hour >= 0 && t.Hour <= 23 && t.Minute >= 0 && t.Minute <= 59
}

// Before сравнивает два времени в рамках одного дня
func (t Time) Before(other Time) bool {
	if t.Hour != other.Hour {
		return t.Hour < other.Hour
	}
	return t.Minute < other.Minute
}

// String форматирует время как "Ч:ММ", без ведущего нуля в часах
func (t Time) String() string {
	return fmt.Sprintf("%d:%02d", t.Hour, t.Minute)
}
