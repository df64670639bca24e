package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ImageElement изображение-элемент: фон или картинка для патчей.
// UserID == nil означает глобальный элемент, доступный всем пользователям.
type ImageElement struct {
	ElementID      uuid.UUID
	UserID         *int64
	Name           string
	FileIDPhoto    *string
	FileIDDocument *string
	DisplayOrder   int
}

// OwnerID числовой владелец элемента, 0 для глобальных
func (e *ImageElement) OwnerID() int64 {
	if e.UserID == nil {
		return 0
	}
	return *e.UserID
}

// BotURIPrefix схема внутренних ссылок на элементы
const BotURIPrefix = "bot://"

// FormatBotURI собирает внутреннюю ссылку вида bot://{owner|0}/{element_id}
func FormatBotURI(ownerID int64, elementID string) string {
	return fmt.Sprintf("%s%d/%s", BotURIPrefix, ownerID, elementID)
}

// ParseBotURI разбирает внутреннюю ссылку на владельца и идентификатор элемента
func ParseBotURI(uri string) (ownerID int64, elementID string, err error) {
	if !strings.HasPrefix(uri, BotURIPrefix) {
		return 0, "", fmt.Errorf("not a bot URI: %s", uri)
	}
	rest := strings.TrimPrefix(uri, BotURIPrefix)
	ownerStr, elementID, ok := strings.Cut(rest, "/")
	if !ok || elementID == "" {
		return 0, "", fmt.Errorf("malformed bot URI: %s", uri)
	}
	ownerID, err = strconv.ParseInt(ownerStr, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("malformed bot URI owner: %w", err)
	}
	return ownerID, elementID, nil
}
