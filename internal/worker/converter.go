package worker

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"

	"github.com/D-Sokol/schedule-bot/internal/delivery"
	"github.com/D-Sokol/schedule-bot/internal/queue"
	"github.com/D-Sokol/schedule-bot/internal/store"
)

// Converter приводит пользовательские изображения к размеру шаблона
// и складывает их в бакет assets. Подтверждает сообщение только после записи:
// неудача любого шага приводит к повторной доставке, а повторная конвертация
// безопасна, потому что просто перезаписывает тот же ключ.
type Converter struct {
	assets  store.Bucket
	fetcher delivery.Fetcher
	logger  *zap.Logger
}

func NewConverter(assets store.Bucket, fetcher delivery.Fetcher, logger *zap.Logger) *Converter {
	return &Converter{
		assets:  assets,
		fetcher: fetcher,
		logger:  logger,
	}
}

// Run подписывается на обе темы конвертации и работает до отмены контекста
func (c *Converter) Run(ctx context.Context, js jetstream.JetStream) error {
	raw, err := queue.Subscribe(ctx, js, queue.AssetsStream, "converter-raw", queue.ConvertRawSubject,
		func(ctx context.Context, msg jetstream.Msg) { c.HandleRaw(ctx, msg) })
	if err != nil {
		return err
	}
	defer raw.Stop()

	ref, err := queue.Subscribe(ctx, js, queue.AssetsStream, "converter-ref", queue.ConvertRefSubject,
		func(ctx context.Context, msg jetstream.Msg) { c.HandleRef(ctx, msg) })
	if err != nil {
		return err
	}
	defer ref.Stop()

	c.logger.Info("Converter started")
	<-ctx.Done()
	c.logger.Warn("Converter stopped")
	return nil
}

// HandleRaw конвертирует изображение, пришедшее в теле сообщения
func (c *Converter) HandleRaw(ctx context.Context, msg queue.Message) {
	c.convert(ctx, msg, msg.Data())
}

// HandleRef сначала скачивает изображение по внешней ссылке из тела сообщения
func (c *Converter) HandleRef(ctx context.Context, msg queue.Message) {
	ref := string(msg.Data())
	data, err := c.fetcher.Fetch(ctx, ref)
	if err != nil {
		c.logger.Error("Failed to fetch image by reference", zap.String("ref", ref), zap.Error(err))
		return
	}
	c.convert(ctx, msg, data)
}

func (c *Converter) convert(ctx context.Context, msg queue.Message, data []byte) {
	headers := msg.Headers()
	saveName := headers.Get(queue.SaveNameHeader)
	mode := headers.Get(queue.ResizeModeHeader)
	width, height, err := queue.TargetSize(headers)
	if saveName == "" || mode == "" || err != nil {
		c.logger.Error("Got conversion message with bad headers",
			zap.String("save_name", saveName), zap.String("mode", mode), zap.Error(err))
		return
	}

	c.logger.Info("Converting image",
		zap.String("save_name", saveName), zap.String("mode", mode))

	out, err := convertImage(data, mode, width, height)
	if err != nil {
		c.logger.Error("Failed to convert image", zap.String("save_name", saveName), zap.Error(err))
		return
	}
	if err := c.assets.Put(ctx, saveName, out); err != nil {
		c.logger.Error("Failed to store image", zap.String("save_name", saveName), zap.Error(err))
		return
	}
	if err := msg.Ack(); err != nil {
		c.logger.Warn("Failed to ack message", zap.Error(err))
	}
}

// convertImage приводит изображение к целевому размеру.
// ignore — байты сохраняются как есть; crop — вырезка от начала координат
// с чёрной заливкой недостающего, без передискретизации;
// resize — масштабирование точно в целевой размер без сохранения пропорций.
func convertImage(data []byte, mode string, width, height int) ([]byte, error) {
	switch mode {
	case queue.ResizeModeIgnore:
		return data, nil

	case queue.ResizeModeCrop:
		src, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.Draw(dst, dst.Bounds(), image.Black, image.Point{}, draw.Src)
		draw.Draw(dst, src.Bounds().Sub(src.Bounds().Min), src, src.Bounds().Min, draw.Src)
		return encodePNG(dst)

	case queue.ResizeModeResize:
		src, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
		return encodePNG(dst)

	default:
		return nil, fmt.Errorf("unknown resize mode: %s", mode)
	}
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}
