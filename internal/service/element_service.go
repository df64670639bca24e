package service

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/D-Sokol/schedule-bot/internal/model"
	"github.com/D-Sokol/schedule-bot/internal/queue"
	"github.com/D-Sokol/schedule-bot/internal/repository"
	"github.com/D-Sokol/schedule-bot/internal/store"
)

// ElementService реестр изображений-элементов и постановка задач конвертации.
// Сама конвертация выполняется воркером асинхронно, чтобы не задерживать
// ответы бота.
type ElementService struct {
	pub      queue.Publisher
	elements *repository.ElementRepository
	logger   *zap.Logger
}

func NewElementService(pub queue.Publisher, elements *repository.ElementRepository, logger *zap.Logger) *ElementService {
	return &ElementService{
		pub:      pub,
		elements: elements,
		logger:   logger,
	}
}

// GetElements возвращает элементы владельца в порядке отображения
func (s *ElementService) GetElements(ctx context.Context, ownerID int64) ([]*model.ImageElement, error) {
	return s.elements.List(ctx, ownerID)
}

// ConvertRaw ставит в очередь конвертацию изображения, переданного байтами
func (s *ElementService) ConvertRaw(
	ctx context.Context,
	ownerID int64,
	assetID string,
	data []byte,
	resizeMode string,
	width, height int,
) error {
	return s.publishConversion(ctx, queue.ConvertRawSubject, ownerID, assetID, data, resizeMode, width, height)
}

// ConvertByReference ставит в очередь конвертацию изображения по внешней ссылке;
// воркер сначала скачает исходник сам
func (s *ElementService) ConvertByReference(
	ctx context.Context,
	ownerID int64,
	assetID string,
	ref string,
	resizeMode string,
	width, height int,
) error {
	return s.publishConversion(ctx, queue.ConvertRefSubject, ownerID, assetID, []byte(ref), resizeMode, width, height)
}

func (s *ElementService) publishConversion(
	ctx context.Context,
	subject string,
	ownerID int64,
	assetID string,
	payload []byte,
	resizeMode string,
	width, height int,
) error {
	headers := nats.Header{}
	headers.Set(queue.SaveNameHeader, store.AssetKey(ownerID, assetID))
	headers.Set(queue.ResizeModeHeader, resizeMode)
	headers.Set(queue.TargetSizeHeader, queue.FormatTargetSize(width, height))

	if _, err := s.pub.PublishMsg(ctx, &nats.Msg{
		Subject: subject,
		Header:  headers,
		Data:    payload,
	}); err != nil {
		return fmt.Errorf("publish conversion request: %w", err)
	}
	s.logger.Info("Conversion request enqueued",
		zap.Int64("owner_id", ownerID), zap.String("asset_id", assetID), zap.String("mode", resizeMode))
	return nil
}
