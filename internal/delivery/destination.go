package delivery

import (
	"context"
	"fmt"
	"time"
)

// Destination получатель готовых изображений и текстовых уведомлений
type Destination interface {
	SendDocument(ctx context.Context, chatID int64, filename string, data []byte) error
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// RateLimitError получатель ограничил частоту отправки.
// Сообщение следует вернуть в очередь с задержкой RetryAfter,
// а не повторять отправку в цикле внутри процесса.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// Fetcher загружает исходное изображение по внешней ссылке
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}
