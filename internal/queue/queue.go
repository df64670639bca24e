package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Message минимальный контракт сообщения рабочей очереди.
// Ему удовлетворяет jetstream.Msg; в тестах воркеры получают фальшивку.
// Неподтверждённое сообщение брокер доставит повторно.
type Message interface {
	Data() []byte
	Headers() nats.Header
	Ack() error
	Nak() error
	NakWithDelay(delay time.Duration) error
	Term() error
}

// Publisher публикация сообщений в стрим; реализуется jetstream.JetStream
type Publisher interface {
	PublishMsg(ctx context.Context, msg *nats.Msg, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// Setup создаёт стримы и бакеты конвейера; безопасно вызывать при каждом старте
func Setup(ctx context.Context, js jetstream.JetStream) error {
	if _, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        AssetsStream,
		Description: "Conversion requests for user and global images",
		Subjects:    []string{ConvertRawSubject, ConvertRefSubject},
		Retention:   jetstream.WorkQueuePolicy,
	}); err != nil {
		return fmt.Errorf("create stream %s: %w", AssetsStream, err)
	}

	if _, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        SchedulesStream,
		Description: "Schedule render requests and their outcomes",
		Subjects: []string{
			RenderRequestSubject,
			RenderReadySubject,
			RenderReadyPointerSubject,
			RenderErrorSubject,
		},
		Retention: jetstream.WorkQueuePolicy,
	}); err != nil {
		return fmt.Errorf("create stream %s: %w", SchedulesStream, err)
	}

	if _, err := js.CreateOrUpdateObjectStore(ctx, jetstream.ObjectStoreConfig{
		Bucket:      AssetsBucket,
		Description: "Images for scheduler bot, both backgrounds and patches",
		Storage:     jetstream.FileStorage,
	}); err != nil {
		return fmt.Errorf("create bucket %s: %w", AssetsBucket, err)
	}

	if _, err := js.CreateOrUpdateObjectStore(ctx, jetstream.ObjectStoreConfig{
		Bucket:      RenderedBucket,
		Description: "Stores rendered schedules before sending them to the user",
		TTL:         RenderedTTL,
		Storage:     jetstream.MemoryStorage,
	}); err != nil {
		return fmt.Errorf("create bucket %s: %w", RenderedBucket, err)
	}
	return nil
}

// Subscribe создаёт устойчивого консьюмера темы и запускает обработку.
// Подтверждение сообщений полностью на обработчике: и ack, и nak с задержкой.
func Subscribe(
	ctx context.Context,
	js jetstream.JetStream,
	stream, durable, subject string,
	handler func(ctx context.Context, msg jetstream.Msg),
) (jetstream.ConsumeContext, error) {
	consumer, err := js.CreateOrUpdateConsumer(ctx, stream, jetstream.ConsumerConfig{
		Durable:       durable,
		FilterSubject: subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("create consumer %s: %w", durable, err)
	}
	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		handler(ctx, msg)
	})
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", subject, err)
	}
	return cc, nil
}
