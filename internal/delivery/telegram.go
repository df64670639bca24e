package delivery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// TelegramDestination отправляет результаты в чат Telegram
type TelegramDestination struct {
	bot *bot.Bot
}

func NewTelegramDestination(b *bot.Bot) *TelegramDestination {
	return &TelegramDestination{bot: b}
}

// SendDocument отправляет изображение документом, чтобы не терять качество
func (d *TelegramDestination) SendDocument(ctx context.Context, chatID int64, filename string, data []byte) error {
	_, err := d.bot.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID:   chatID,
		Document: &models.InputFileUpload{Filename: filename, Data: bytes.NewReader(data)},
	})
	return mapTelegramError(err)
}

// SendMessage отправляет текстовое уведомление
func (d *TelegramDestination) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := d.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	return mapTelegramError(err)
}

// mapTelegramError переводит ограничение частоты Telegram в RateLimitError
func mapTelegramError(err error) error {
	if err == nil {
		return nil
	}
	var tooMany *bot.TooManyRequestsError
	if errors.As(err, &tooMany) {
		return &RateLimitError{RetryAfter: time.Duration(tooMany.RetryAfter) * time.Second}
	}
	return err
}

// TelegramFetcher скачивает файлы Telegram по file_id
type TelegramFetcher struct {
	bot    *bot.Bot
	client *http.Client
}

func NewTelegramFetcher(b *bot.Bot) *TelegramFetcher {
	return &TelegramFetcher{
		bot:    b,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch загружает содержимое файла по file_id
func (f *TelegramFetcher) Fetch(ctx context.Context, fileID string) ([]byte, error) {
	file, err := f.bot.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file %s: %w", fileID, err)
	}

	link := f.bot.FileDownloadLink(file)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, fmt.Errorf("download file %s: %w", fileID, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file %s: unexpected status %s", fileID, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("download file %s: %w", fileID, err)
	}
	return data, nil
}
