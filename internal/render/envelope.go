package render

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/D-Sokol/schedule-bot/internal/model"
)

// Полезная нагрузка запроса рендера: msgpack-массив из двух JSON-документов,
// шаблона и расписания. Маршрутные данные (владелец, чат, фон, дата начала)
// едут в заголовках сообщения, а не в нагрузке.

// EncodeRenderPayload упаковывает шаблон и расписание для отправки в очередь
func EncodeRenderPayload(t *Template, schedule model.Schedule) ([]byte, error) {
	templateJSON, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("marshal template: %w", err)
	}
	scheduleJSON, err := json.Marshal(schedule)
	if err != nil {
		return nil, fmt.Errorf("marshal schedule: %w", err)
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.EncodeArrayLen(2); err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	if err := enc.EncodeBytes(templateJSON); err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	if err := enc.EncodeBytes(scheduleJSON); err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeRenderPayload распаковывает запрос рендера.
// Шаблон валидируется целиком до начала отрисовки.
func DecodeRenderPayload(data []byte) (*Template, model.Schedule, error) {
	var schedule model.Schedule

	dec := msgpack.NewDecoder(bytes.NewReader(data))
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, schedule, fmt.Errorf("decode payload: %w", err)
	}
	if n != 2 {
		return nil, schedule, fmt.Errorf("decode payload: expected 2 elements, got %d", n)
	}
	templateJSON, err := dec.DecodeBytes()
	if err != nil {
		return nil, schedule, fmt.Errorf("decode payload: %w", err)
	}
	scheduleJSON, err := dec.DecodeBytes()
	if err != nil {
		return nil, schedule, fmt.Errorf("decode payload: %w", err)
	}

	template, err := LoadTemplate(templateJSON)
	if err != nil {
		return nil, schedule, fmt.Errorf("parse template: %w", err)
	}
	if err := json.Unmarshal(scheduleJSON, &schedule); err != nil {
		return nil, schedule, fmt.Errorf("parse schedule: %w", err)
	}
	schedule.Sort()
	return template, schedule, nil
}
