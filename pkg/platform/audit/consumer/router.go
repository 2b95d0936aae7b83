package consumer

import (
	"context"
	"log/slog"

	"pulsemarket/internal/platform/kafka/consumer"
)

// TopicHandler processes messages from one audit topic.
type TopicHandler interface {
	Handle(ctx context.Context, msg *consumer.Message) error
}

// TopicHandlerFunc adapts a plain function to the TopicHandler interface.
type TopicHandlerFunc func(ctx context.Context, msg *consumer.Message) error

func (f TopicHandlerFunc) Handle(ctx context.Context, msg *consumer.Message) error {
	return f(ctx, msg)
}

// Router fans consumed messages out to per-topic handlers. The audit
// stream currently runs on a single topic, but stage events and lender
// activity can be split onto their own topics without touching the
// consumer loop.
type Router struct {
	byTopic  map[string]TopicHandler
	fallback TopicHandler
	logger   *slog.Logger
}

// NewRouter builds an empty router. fallback receives messages from
// topics with no registered handler and may be nil.
func NewRouter(logger *slog.Logger, fallback TopicHandler) *Router {
	return &Router{
		byTopic:  map[string]TopicHandler{},
		fallback: fallback,
		logger:   logger,
	}
}

// Register binds a topic to a handler, replacing any previous binding.
func (rt *Router) Register(topic string, handler TopicHandler) {
	rt.byTopic[topic] = handler
}

// Handle dispatches one message. Messages from unrouted topics are
// dropped and committed rather than redelivered.
func (rt *Router) Handle(ctx context.Context, msg *consumer.Message) error {
	if handler, ok := rt.byTopic[msg.Topic]; ok {
		return handler.Handle(ctx, msg)
	}
	if rt.fallback != nil {
		return rt.fallback.Handle(ctx, msg)
	}
	rt.logger.Warn("dropping message from unrouted topic",
		"topic", msg.Topic,
		"key", string(msg.Key),
	)
	return nil
}
