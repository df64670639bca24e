package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fogleman/gg"

	"github.com/D-Sokol/schedule-bot/internal/render"
	"github.com/D-Sokol/schedule-bot/internal/service"
)

// Утилита для визуальной проверки рендера: собирает картинку недели
// из образцового шаблона и расписания и сохраняет её в файл.
// Запуск: go run ./cmd/test_render [output.png]

const sampleTemplate = `{
	"width": 800,
	"height": 600,
	"always": {
		"patches": [
			{"type": "text", "text": "{start:%d.%m} - {end:%d.%m}", "xy": [400, 40], "anchor": "ma", "font_size": 36, "color": "black"}
		]
	},
	"day2": {
		"always": {
			"patches": [
				{"type": "text", "text": "{date:%A}", "xy": [120, 120], "font_size": 28, "color": "navy"}
			]
		},
		"if_none": {
			"patches": [
				{"type": "text", "text": "Выходной", "xy": [120, 160], "font_size": 22, "color": "gray"}
			]
		},
		"record_patches": [
			{"patches": [{"type": "text", "text": "{entry}", "xy": [120, 160], "font_size": 22, "color": "black"}]},
			{"patches": [{"type": "text", "text": "{entry}", "xy": [120, 190], "font_size": 22, "color": "black"}]}
		]
	},
	"day5": {
		"always": {
			"patches": [
				{"type": "text", "text": "{date:%A}", "xy": [120, 300], "font_size": 28, "color": "navy"}
			]
		},
		"if_none": {"patches": []},
		"record_patches": [
			{
				"patches": [{"type": "text", "text": "{entry.description}", "xy": [120, 340], "font_size": 22, "color": "darkred", "case": "capitalize"}],
				"required_tags": ["important"]
			},
			{"patches": [{"type": "text", "text": "{entry}", "xy": [120, 370], "font_size": 22, "color": "black"}]}
		]
	}
}`

const sampleSchedule = `Tuesday 11:00 Gym
Tuesday 15:30 English lesson
Friday 11:00 (important) Walk`

func main() {
	output := "week.png"
	if len(os.Args) > 1 {
		output = os.Args[1]
	}

	template, err := render.LoadTemplate([]byte(sampleTemplate))
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load template:", err)
		os.Exit(1)
	}

	schedule, unparsed := service.ParseScheduleText(sampleSchedule, service.DefaultWeekdayNames())
	if len(unparsed) > 0 {
		fmt.Fprintln(os.Stderr, "unparsed schedule lines:", unparsed)
		os.Exit(1)
	}

	dc := gg.NewContext(template.Width, template.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	start := time.Now()
	// Сдвигаем старт на понедельник текущей недели
	for start.Weekday() != time.Monday {
		start = start.AddDate(0, 0, -1)
	}

	canvas := &render.Canvas{DC: dc}
	if err := template.Apply(context.Background(), canvas, start, schedule); err != nil {
		fmt.Fprintln(os.Stderr, "failed to render:", err)
		os.Exit(1)
	}

	if err := dc.SavePNG(output); err != nil {
		fmt.Fprintln(os.Stderr, "failed to save image:", err)
		os.Exit(1)
	}
	fmt.Println("saved", output)
}
