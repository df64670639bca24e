package worker

import (
	"context"
	"errors"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/D-Sokol/schedule-bot/internal/delivery"
	"github.com/D-Sokol/schedule-bot/internal/queue"
	"github.com/D-Sokol/schedule-bot/internal/store"
)

const resultFilename = "Schedule.png"

// Sender доставляет результаты рендера пользователю.
// Ограничение частоты со стороны получателя превращается в отложенную
// повторную доставку, чтобы не блокировать очередь, общую для всех чатов.
type Sender struct {
	rendered store.Bucket
	dest     delivery.Destination
	logger   *zap.Logger
}

func NewSender(rendered store.Bucket, dest delivery.Destination, logger *zap.Logger) *Sender {
	return &Sender{
		rendered: rendered,
		dest:     dest,
		logger:   logger,
	}
}

// Run подписывается на все три темы доставки и работает до отмены контекста
func (s *Sender) Run(ctx context.Context, js jetstream.JetStream) error {
	raw, err := queue.Subscribe(ctx, js, queue.SchedulesStream, "sender", queue.RenderReadySubject,
		func(ctx context.Context, msg jetstream.Msg) { s.HandleRaw(ctx, msg) })
	if err != nil {
		return err
	}
	defer raw.Stop()

	stored, err := queue.Subscribe(ctx, js, queue.SchedulesStream, "sender-store", queue.RenderReadyPointerSubject,
		func(ctx context.Context, msg jetstream.Msg) { s.HandleStored(ctx, msg) })
	if err != nil {
		return err
	}
	defer stored.Stop()

	errs, err := queue.Subscribe(ctx, js, queue.SchedulesStream, "sender-err", queue.RenderErrorSubject,
		func(ctx context.Context, msg jetstream.Msg) { s.HandleError(ctx, msg) })
	if err != nil {
		return err
	}
	defer errs.Stop()

	s.logger.Info("Sender started")
	<-ctx.Done()
	s.logger.Warn("Sender stopped")
	return nil
}

// HandleRaw отправляет изображение, пришедшее в теле события
func (s *Sender) HandleRaw(ctx context.Context, msg queue.Message) {
	chatID, err := queue.ChatID(msg.Headers())
	if err != nil {
		s.logger.Error("Got delivery message with bad headers", zap.Error(err))
		return
	}
	s.deliver(msg, chatID, func() error {
		return s.dest.SendDocument(ctx, chatID, resultFilename, msg.Data())
	})
}

// HandleStored сначала забирает артефакт из бакета rendered по идентификатору
func (s *Sender) HandleStored(ctx context.Context, msg queue.Message) {
	chatID, err := queue.ChatID(msg.Headers())
	if err != nil {
		s.logger.Error("Got delivery message with bad headers", zap.Error(err))
		return
	}
	artifactID := string(msg.Data())
	data, err := s.rendered.Get(ctx, artifactID)
	if err != nil {
		s.logger.Error("Failed to fetch rendered artifact",
			zap.String("artifact_id", artifactID), zap.Error(err))
		return
	}
	s.deliver(msg, chatID, func() error {
		return s.dest.SendDocument(ctx, chatID, resultFilename, data)
	})
}

// HandleError пересылает текст ошибки рендера пользователю как уведомление
func (s *Sender) HandleError(ctx context.Context, msg queue.Message) {
	chatID, err := queue.ChatID(msg.Headers())
	if err != nil {
		s.logger.Error("Got delivery message with bad headers", zap.Error(err))
		return
	}
	s.deliver(msg, chatID, func() error {
		return s.dest.SendMessage(ctx, chatID, string(msg.Data()))
	})
}

func (s *Sender) deliver(msg queue.Message, chatID int64, send func() error) {
	err := send()
	if err == nil {
		if err := msg.Ack(); err != nil {
			s.logger.Warn("Failed to ack message", zap.Error(err))
		}
		return
	}

	var rateLimit *delivery.RateLimitError
	if errors.As(err, &rateLimit) {
		s.logger.Info("Destination rate limited, delaying delivery",
			zap.Int64("chat_id", chatID), zap.Duration("retry_after", rateLimit.RetryAfter))
		if err := msg.NakWithDelay(rateLimit.RetryAfter); err != nil {
			s.logger.Warn("Failed to nak message", zap.Error(err))
		}
		return
	}
	s.logger.Error("Failed to deliver message", zap.Int64("chat_id", chatID), zap.Error(err))
}
