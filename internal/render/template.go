package render

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/D-Sokol/schedule-bot/internal/model"
)

// DayPatch патчи одного дня недели: общие, "записей нет" и по одному набору на запись
type DayPatch struct {
	Always        PatchSet   `json:"always"`
	IfNone        PatchSet   `json:"if_none"`
	RecordPatches []PatchSet `json:"record_patches"`
}

// Apply рисует день. Набор record_patches[i] применяется к i-й записи
// с метками записи плюс неявной total=N; лишние записи патчей не получают.
// Если записей нет, вместо них рисуется if_none.
func (d *DayPatch) Apply(ctx context.Context, c *Canvas, args FormatArgs, entries []model.Entry) error {
	if err := d.Always.Apply(ctx, c, args, nil); err != nil {
		return err
	}
	totalTag := fmt.Sprintf("total=%d", len(entries))
	for i, patches := range d.RecordPatches {
		if i >= len(entries) {
			break
		}
		entry := entries[i]
		tags := entry.Tags.Clone()
		tags.Add(totalTag)
		if err := patches.Apply(ctx, c, args.WithEntry(entry), tags); err != nil {
			return err
		}
	}
	if len(entries) == 0 {
		if err := d.IfNone.Apply(ctx, c, args, nil); err != nil {
			return err
		}
	}
	return nil
}

// Template шаблон недельного расписания.
// День без своего DayPatch при рендере пропускается целиком;
// это не то же самое, что настроенный день без записей — тот рисует if_none.
type Template struct {
	Width  int
	Height int
	Always PatchSet
	Days   [model.WeekLength]*DayPatch
}

type templateJSON struct {
	Width  int       `json:"width,omitempty"`
	Height int       `json:"height,omitempty"`
	Always PatchSet  `json:"always"`
	Day1   *DayPatch `json:"day1,omitempty"`
	Day2   *DayPatch `json:"day2,omitempty"`
	Day3   *DayPatch `json:"day3,omitempty"`
	Day4   *DayPatch `json:"day4,omitempty"`
	Day5   *DayPatch `json:"day5,omitempty"`
	Day6   *DayPatch `json:"day6,omitempty"`
	Day7   *DayPatch `json:"day7,omitempty"`
}

// UnmarshalJSON читает шаблон; ошибки ссылок всплывают здесь, при загрузке
func (t *Template) UnmarshalJSON(data []byte) error {
	var aux templateJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t.Width = aux.Width
	t.Height = aux.Height
	t.Always = aux.Always
	t.Days = [model.WeekLength]*DayPatch{aux.Day1, aux.Day2, aux.Day3, aux.Day4, aux.Day5, aux.Day6, aux.Day7}
	return nil
}

// MarshalJSON сериализует шаблон с ключами day1..day7
func (t *Template) MarshalJSON() ([]byte, error) {
	return json.Marshal(templateJSON{
		Width:  t.Width,
		Height: t.Height,
		Always: t.Always,
		Day1:   t.Days[0],
		Day2:   t.Days[1],
		Day3:   t.Days[2],
		Day4:   t.Days[3],
		Day5:   t.Days[4],
		Day6:   t.Days[5],
		Day7:   t.Days[6],
	})
}

// LoadTemplate разбирает и валидирует шаблон.
// Сломанный шаблон падает здесь, а не посреди рендера очередной задачи.
func LoadTemplate(data []byte) (*Template, error) {
	var t Template
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Apply рендерит неделю расписания начиная с startDate
func (t *Template) Apply(ctx context.Context, c *Canvas, startDate time.Time, schedule model.Schedule) error {
	args := FormatArgs{
		"start": startDate,
		"end":   startDate.AddDate(0, 0, model.WeekLength-1),
	}
	for i := 0; i < model.WeekLength; i++ {
		args[fmt.Sprintf("day%d", i+1)] = startDate.AddDate(0, 0, i)
	}

	if err := t.Always.Apply(ctx, c, args, nil); err != nil {
		return err
	}
	for i, day := range t.Days {
		if day == nil {
			continue
		}
		dayArgs := args.Clone()
		dayArgs["date"] = startDate.AddDate(0, 0, i)
		entries := schedule.Day(model.WeekDay(i + 1))
		if err := day.Apply(ctx, c, dayArgs, entries); err != nil {
			return err
		}
	}
	return nil
}
