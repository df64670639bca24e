package app

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// ConnectNATS подключается к NATS с экспоненциальными повторами.
// Брокер при общем старте может подниматься дольше воркера.
func ConnectNATS(ctx context.Context, servers string, logger *zap.Logger) (*nats.Conn, jetstream.JetStream, error) {
	var nc *nats.Conn

	backoff := retry.WithMaxRetries(8, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		conn, err := nats.Connect(servers)
		if err != nil {
			logger.Warn("NATS connect failed, retrying", zap.Error(err))
			return retry.RetryableError(err)
		}
		nc = conn
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("create JetStream context: %w", err)
	}
	logger.Info("Connected to NATS")
	return nc, js, nil
}
