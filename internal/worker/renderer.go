package worker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"time"

	"github.com/fogleman/gg"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/D-Sokol/schedule-bot/internal/queue"
	"github.com/D-Sokol/schedule-bot/internal/render"
	"github.com/D-Sokol/schedule-bot/internal/store"
)

// Renderer собирает итоговое изображение расписания.
// Событие об успехе публикуется строго после записи артефакта в бакет,
// поэтому получатель никогда не увидит указатель на ещё не записанный блоб.
type Renderer struct {
	pub      queue.Publisher
	assets   store.Bucket
	rendered store.Bucket
	images   render.ImageResolver
	logger   *zap.Logger
}

func NewRenderer(
	pub queue.Publisher,
	assets store.Bucket,
	rendered store.Bucket,
	images render.ImageResolver,
	logger *zap.Logger,
) *Renderer {
	return &Renderer{
		pub:      pub,
		assets:   assets,
		rendered: rendered,
		images:   images,
		logger:   logger,
	}
}

// Run подписывается на запросы рендера и работает до отмены контекста
func (r *Renderer) Run(ctx context.Context, js jetstream.JetStream) error {
	cc, err := queue.Subscribe(ctx, js, queue.SchedulesStream, "renderer", queue.RenderRequestSubject,
		func(ctx context.Context, msg jetstream.Msg) { r.Handle(ctx, msg) })
	if err != nil {
		return err
	}
	defer cc.Stop()

	r.logger.Info("Renderer started")
	<-ctx.Done()
	r.logger.Warn("Renderer stopped")
	return nil
}

// Handle обрабатывает один запрос рендера.
// Ошибки данных терминальны: публикуется событие об ошибке и сообщение
// подтверждается — повтор воспроизвёл бы ту же ошибку. Инфраструктурные
// ошибки оставляют сообщение неподтверждённым для повторной доставки.
func (r *Renderer) Handle(ctx context.Context, msg queue.Message) {
	headers := msg.Headers()
	ownerID := headers.Get(queue.OwnerIDHeader)
	chatID := headers.Get(queue.ChatIDHeader)
	background := headers.Get(queue.BackgroundHeader)
	startDate, err := queue.StartDate(headers)
	if ownerID == "" || chatID == "" || background == "" || err != nil {
		r.logger.Error("Got render request with bad headers",
			zap.String("owner_id", ownerID), zap.String("chat_id", chatID),
			zap.String("background", background), zap.Error(err))
		return
	}

	r.logger.Info("Rendering schedule",
		zap.String("owner_id", ownerID), zap.String("background", background))

	outHeaders := nats.Header{}
	outHeaders.Set(queue.OwnerIDHeader, ownerID)
	outHeaders.Set(queue.ChatIDHeader, chatID)

	artifactID, err := r.renderArtifact(ctx, background, startDate, msg.Data())
	if err != nil {
		var domainErr *render.DomainError
		if errors.As(err, &domainErr) {
			r.logger.Warn("Cannot render desired image",
				zap.String("owner_id", ownerID), zap.String("reason", domainErr.Reason))
			if _, err := r.pub.PublishMsg(ctx, &nats.Msg{
				Subject: queue.RenderErrorSubject,
				Header:  outHeaders,
				Data:    []byte(domainErr.Reason),
			}); err != nil {
				r.logger.Error("Failed to publish error event", zap.Error(err))
				return
			}
			if err := msg.Ack(); err != nil {
				r.logger.Warn("Failed to ack message", zap.Error(err))
			}
			return
		}
		r.logger.Error("Render failed", zap.String("owner_id", ownerID), zap.Error(err))
		return
	}

	if _, err := r.pub.PublishMsg(ctx, &nats.Msg{
		Subject: queue.RenderReadyPointerSubject,
		Header:  outHeaders,
		Data:    []byte(artifactID),
	}); err != nil {
		r.logger.Error("Failed to publish ready event", zap.Error(err))
		return
	}
	if err := msg.Ack(); err != nil {
		r.logger.Warn("Failed to ack message", zap.Error(err))
	}
	r.logger.Info("Created schedule",
		zap.String("owner_id", ownerID), zap.String("artifact_id", artifactID))
}

// renderArtifact выполняет собственно рендер и возвращает идентификатор
// артефакта в бакете rendered. Возврат происходит только после того,
// как запись блоба завершилась.
func (r *Renderer) renderArtifact(
	ctx context.Context,
	background string,
	startDate time.Time,
	payload []byte,
) (string, error) {
	template, schedule, err := render.DecodeRenderPayload(payload)
	if err != nil {
		return "", render.Domainf("cannot parse render request: %v", err)
	}

	data, err := r.assets.Get(ctx, background)
	if errors.Is(err, store.ErrNotFound) {
		return "", render.Domainf("background image %q is not found", background)
	}
	if err != nil {
		return "", err
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return "", render.Domainf("background image %q is not a valid PNG", background)
	}
	// Частично прозрачный фон не поддерживается: наложение RGBA-патчей
	// на такой фон даёт неожиданную прозрачность результата.
	if op, ok := img.(interface{ Opaque() bool }); ok && !op.Opaque() {
		return "", render.Domainf("background image %q has transparency, which is not supported", background)
	}

	dc := gg.NewContextForImage(img)
	canvas := &render.Canvas{DC: dc, Images: r.images}
	if err := template.Apply(ctx, canvas, startDate, schedule); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return "", fmt.Errorf("encode rendered image: %w", err)
	}

	artifactID := uuid.NewString()
	if err := r.rendered.Put(ctx, artifactID, buf.Bytes()); err != nil {
		return "", err
	}
	return artifactID, nil
}
