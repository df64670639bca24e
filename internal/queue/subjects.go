package queue

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"
)

// Темы очередей конвейера
const (
	ConvertRawSubject = "asset-convert-raw"
	ConvertRefSubject = "asset-convert-by-reference"

	RenderRequestSubject      = "schedule-render-request"
	RenderReadySubject        = "schedule-render-ready"
	RenderReadyPointerSubject = "schedule-render-ready-pointer"
	RenderErrorSubject        = "schedule-render-error"
)

// Стримы, владеющие темами
const (
	AssetsStream    = "ASSETS"
	SchedulesStream = "SCHEDULES"
)

// Бакеты object store: assets живёт без TTL, rendered чистится сам
const (
	AssetsBucket   = "assets"
	RenderedBucket = "rendered"
	RenderedTTL    = 4 * time.Hour
)

// Заголовки сообщений; значения — типизированные строки
const (
	OwnerIDHeader    = "Sch-Owner-Id"
	ChatIDHeader     = "Sch-Chat-Id"
	SaveNameHeader   = "Sch-Save-Name"
	ResizeModeHeader = "Sch-Resize-Mode"
	TargetSizeHeader = "Sch-Target-Size"
	StartDateHeader  = "Sch-Start-Date"
	BackgroundHeader = "Sch-Element-Name"
)

// Режимы изменения размера при конвертации
const (
	ResizeModeIgnore = "ignore"
	ResizeModeCrop   = "crop"
	ResizeModeResize = "resize"
)

// Формат даты начала недели в заголовке
const startDateLayout = "2006-01-02"

// FormatTargetSize кодирует целевой размер как JSON-пару [w,h]
func FormatTargetSize(width, height int) string {
	return fmt.Sprintf("[%d,%d]", width, height)
}

// TargetSize читает целевой размер из заголовков
func TargetSize(h nats.Header) (width, height int, err error) {
	var pair [2]int
	raw := h.Get(TargetSizeHeader)
	if err := json.Unmarshal([]byte(raw), &pair); err != nil {
		return 0, 0, fmt.Errorf("malformed %s header %q: %w", TargetSizeHeader, raw, err)
	}
	return pair[0], pair[1], nil
}

// ChatID читает идентификатор чата из заголовков
func ChatID(h nats.Header) (int64, error) {
	raw := h.Get(ChatIDHeader)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed %s header %q: %w", ChatIDHeader, raw, err)
	}
	return id, nil
}

// OwnerID читает идентификатор владельца; 0 означает глобальную область
func OwnerID(h nats.Header) (int64, error) {
	raw := h.Get(OwnerIDHeader)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed %s header %q: %w", OwnerIDHeader, raw, err)
	}
	return id, nil
}

// StartDate читает дату начала недели (ISO-8601) из заголовков
func StartDate(h nats.Header) (time.Time, error) {
	raw := h.Get(StartDateHeader)
	date, err := time.Parse(startDateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed %s header %q: %w", StartDateHeader, raw, err)
	}
	return date, nil
}

// FormatStartDate кодирует дату начала недели для заголовка
func FormatStartDate(t time.Time) string {
	return t.Format(startDateLayout)
}
