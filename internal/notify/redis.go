// Package notify fans balance updates out across server instances through redis pub/sub.
package notify

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"vtuwallet/internal/websocket"
)

const DefaultPrefix = "wallet:balance:"

func NewClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// Publisher satisfies the services balance hub by publishing instead of delivering locally.
type Publisher struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
	logger  *zap.Logger
}

func NewPublisher(client *redis.Client, prefix string, logger *zap.Logger) *Publisher {
	return &Publisher{client: client, prefix: prefix, timeout: 2 * time.Second, logger: logger}
}

func (p *Publisher) BroadcastBalance(sessionID string, update websocket.BalanceUpdate) {
	payload, err := json.Marshal(update)
	if err != nil {
		p.logger.Error("encode balance update", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.client.Publish(ctx, p.prefix+sessionID, string(payload)).Err(); err != nil {
		p.logger.Warn("publish balance update", zap.String("session_id", sessionID), zap.Error(err))
	}
}

// Relay delivers every published update to this instance's local sockets until ctx ends.
func Relay(ctx context.Context, client *redis.Client, prefix string, hub *websocket.Hub, logger *zap.Logger) error {
	sub := client.PSubscribe(ctx, prefix+"*")
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			sessionID := strings.TrimPrefix(msg.Channel, prefix)
			hub.Deliver(sessionID, []byte(msg.Payload))
			logger.Debug("relayed balance update", zap.String("session_id", sessionID))
		}
	}
}
