package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/D-Sokol/schedule-bot/internal/model"
)

// Грамматика строки расписания: "<день> <Ч:ММ> [(тег1,тег2)] <описание>".
// Строки, не подходящие под грамматику, возвращаются как есть и не прерывают разбор.
var entryPattern = regexp.MustCompile(`^([\p{L}\p{N}_]+)\s+(\d{1,2}):(\d{1,2})(?:\s+\(([\p{L}\p{N}_, -]+)\))?\s+(.*)$`)

// DefaultWeekdayNames встроенная таблица токенов дней недели.
// Числовые токены "1".."7" принимаются всегда, независимо от таблицы,
// поэтому сохранённый дамп разбирается при любой локали.
func DefaultWeekdayNames() map[string]model.WeekDay {
	names := make(map[string]model.WeekDay)
	add := func(d model.WeekDay, tokens ...string) {
		for _, t := range tokens {
			names[strings.ToLower(t)] = d
		}
	}
	add(model.Monday, "пн", "пон", "понедельник", "mon", "monday")
	add(model.Tuesday, "вт", "вторник", "tue", "tuesday")
	add(model.Wednesday, "ср", "среда", "wed", "wednesday")
	add(model.Thursday, "чт", "четверг", "thu", "thursday")
	add(model.Friday, "пт", "пятница", "fri", "friday")
	add(model.Saturday, "сб", "суббота", "sat", "saturday")
	add(model.Sunday, "вс", "воскресенье", "sun", "sunday")
	return names
}

// ParseScheduleText разбирает пользовательский текст расписания.
// Возвращает расписание и список строк, которые не удалось разобрать.
// Никогда не возвращает ошибку: непонятная строка попадает в unparsed целиком.
func ParseScheduleText(text string, names map[string]model.WeekDay) (model.Schedule, []string) {
	records := make(map[model.WeekDay][]model.Entry)
	var unparsed []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		match := entryPattern.FindStringSubmatch(line)
		if match == nil {
			unparsed = append(unparsed, line)
			continue
		}
		weekdayStr, hourStr, minuteStr, tagsStr, desc := match[1], match[2], match[3], match[4], match[5]

		weekday, ok := names[strings.ToLower(weekdayStr)]
		if !ok {
			n, err := strconv.Atoi(weekdayStr)
			if err != nil || !model.WeekDay(n).Valid() {
				unparsed = append(unparsed, line)
				continue
			}
			weekday = model.WeekDay(n)
		}

		hour, _ := strconv.Atoi(hourStr)
		minute, _ := strconv.Atoi(minuteStr)
		t := model.Time{Hour: hour, Minute: minute}
		if !t.Valid() {
			unparsed = append(unparsed, line)
			continue
		}

		tags := model.NewTagSet()
		if tagsStr != "" {
			for _, tag := range strings.Split(tagsStr, ",") {
				if tag = strings.TrimSpace(tag); tag != "" {
					tags.Add(tag)
				}
			}
		}
		records[weekday] = append(records[weekday], model.Entry{
			Time:        t,
			Description: desc,
			Tags:        tags,
		})
	}

	schedule := model.Schedule{Records: records}
	schedule.Sort()
	return schedule, unparsed
}

// DumpScheduleText сериализует расписание в текстовую форму.
// Дни недели всегда записываются числом, а теги сортируются,
// чтобы сохранённый текст не зависел от локали и порядка множества.
func DumpScheduleText(schedule model.Schedule) string {
	var lines []string
	for d := model.Monday; d <= model.Sunday; d++ {
		for _, entry := range schedule.Records[d] {
			var tags string
			if len(entry.Tags) > 0 {
				tags = fmt.Sprintf("(%s) ", strings.Join(entry.Tags.Sorted(), ","))
			}
			lines = append(lines, fmt.Sprintf("%d %s %s%s", int(d), entry.Time, tags, entry.Description))
		}
	}
	return strings.Join(lines, "\n")
}
