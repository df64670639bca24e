package service

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/D-Sokol/schedule-bot/internal/model"
	"github.com/D-Sokol/schedule-bot/internal/queue"
	"github.com/D-Sokol/schedule-bot/internal/render"
	"github.com/D-Sokol/schedule-bot/internal/repository"
	"github.com/D-Sokol/schedule-bot/internal/store"
)

// ScheduleService хранит последнее расписание пользователя и ставит
// задачи рендера в очередь. Текст расписания хранится в канонической
// числовой форме, поэтому читается при любой локали.
type ScheduleService struct {
	pub    queue.Publisher
	users  *repository.UserRepository
	logger *zap.Logger
}

func NewScheduleService(pub queue.Publisher, users *repository.UserRepository, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{
		pub:    pub,
		users:  users,
		logger: logger,
	}
}

// GetLastSchedule возвращает последнее сохранённое расписание пользователя
func (s *ScheduleService) GetLastSchedule(ctx context.Context, userID int64) (*model.Schedule, error) {
	if s.users == nil {
		return nil, nil
	}
	text, err := s.users.GetLastSchedule(ctx, userID)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}
	schedule, unparsed := ParseScheduleText(text, DefaultWeekdayNames())
	if len(unparsed) > 0 {
		// сохранённый дамп обязан разбираться без остатка
		return nil, fmt.Errorf("stored schedule for user %d is corrupted: %d unparsed lines", userID, len(unparsed))
	}
	return &schedule, nil
}

// UpdateLastSchedule сохраняет расписание пользователя в текстовой форме
func (s *ScheduleService) UpdateLastSchedule(ctx context.Context, userID int64, schedule model.Schedule) error {
	if s.users == nil {
		return nil
	}
	s.logger.Info("Saving schedule", zap.Int64("user_id", userID))
	return s.users.UpdateLastSchedule(ctx, userID, DumpScheduleText(schedule))
}

// RenderSchedule ставит задачу рендера в очередь.
// Шаблон и расписание уже валидированы вызывающей стороной и после
// постановки в очередь не меняются.
func (s *ScheduleService) RenderSchedule(
	ctx context.Context,
	ownerID, chatID int64,
	schedule model.Schedule,
	backgroundID string,
	template *render.Template,
	start time.Time,
) error {
	payload, err := render.EncodeRenderPayload(template, schedule)
	if err != nil {
		return fmt.Errorf("encode render request: %w", err)
	}

	headers := nats.Header{}
	headers.Set(queue.OwnerIDHeader, fmt.Sprint(ownerID))
	headers.Set(queue.ChatIDHeader, fmt.Sprint(chatID))
	headers.Set(queue.BackgroundHeader, store.AssetKey(ownerID, backgroundID))
	headers.Set(queue.StartDateHeader, queue.FormatStartDate(start))

	if _, err := s.pub.PublishMsg(ctx, &nats.Msg{
		Subject: queue.RenderRequestSubject,
		Header:  headers,
		Data:    payload,
	}); err != nil {
		return fmt.Errorf("publish render request: %w", err)
	}
	s.logger.Info("Render request enqueued",
		zap.Int64("owner_id", ownerID), zap.Int64("chat_id", chatID))
	return nil
}
