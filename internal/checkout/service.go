// Package checkout hands frozen carts to the payment and booking
// collaborator through a redis list, retrying failed deliveries.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/t0mb36/veloApp-sub001/internal/cart"
	"github.com/t0mb36/veloApp-sub001/internal/logger"
	"github.com/t0mb36/veloApp-sub001/internal/metrics"
)

const (
	DefaultQueue = "checkout:orders"
	maxTries     = 3
	popTimeout   = 2 * time.Second
)

// Processor completes an order: takes payment and confirms the bookings.
type Processor interface {
	Process(ctx context.Context, order Order) error
}

type ProcessorFunc func(ctx context.Context, order Order) error

func (f ProcessorFunc) Process(ctx context.Context, order Order) error {
	return f(ctx, order)
}

// LogProcessor only records the order. It stands in until a payment
// provider is wired.
var LogProcessor = ProcessorFunc(func(_ context.Context, order Order) error {
	logger.Info("order received",
		"order_id", order.ID,
		"session_id", order.SessionID,
		"items", order.TotalItems,
		"scheduled", len(order.ScheduledItems()),
		"total", order.TotalPrice,
	)
	return nil
})

type Service struct {
	redis      *redis.Client
	queue      string
	processor  Processor
	retryDelay time.Duration
	now        func() time.Time
}

func New(rdb *redis.Client, queue string, processor Processor) *Service {
	if queue == "" {
		queue = DefaultQueue
	}
	if processor == nil {
		processor = LogProcessor
	}
	return &Service{
		redis:      rdb,
		queue:      queue,
		processor:  processor,
		retryDelay: 5 * time.Second,
		now:        time.Now,
	}
}

// NewClient opens the redis connection used by the queue.
func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

func (s *Service) failedKey() string {
	return s.queue + ":failed"
}

// Submit freezes snap into an order and queues it. The cart is not touched.
func (s *Service) Submit(ctx context.Context, sessionID string, snap cart.Snapshot) (Order, error) {
	order, err := NewOrder(sessionID, snap, s.now())
	if err != nil {
		metrics.RecordCheckout("rejected")
		return Order{}, err
	}

	if err := s.push(ctx, s.queue, order); err != nil {
		metrics.RecordCheckout("error")
		logger.Errorf("Failed to queue order %s: %v", order.ID, err)
		return Order{}, err
	}

	metrics.RecordCheckout("queued")
	logger.Info("order queued", "order_id", order.ID, "session_id", sessionID, "items", order.TotalItems)
	return order, nil
}

func (s *Service) push(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.redis.LPush(ctx, key, data).Err()
}

// Start consumes the queue until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("Checkout dispatcher started", "queue", s.queue)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Checkout dispatcher stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, popTimeout, s.queue).Result()
	if errors.Is(err, redis.Nil) || ctx.Err() != nil {
		return
	}
	if err != nil {
		logger.Warn("checkout queue unavailable", "queue", s.queue, "error", err)
		s.wait(ctx)
		return
	}

	var order Order
	if err := json.Unmarshal([]byte(result[1]), &order); err != nil {
		logger.Errorf("Bad order data: %v", err)
		return
	}

	order.Tries++
	logger.Infof("Processing order %s (attempt %d)", order.ID, order.Tries)
	if err := s.processor.Process(ctx, order); err != nil {
		logger.Errorf("Failed to process order %s: %v", order.ID, err)

		if order.Tries < maxTries {
			s.wait(ctx)
			if err := s.push(context.Background(), s.queue, order); err != nil {
				logger.Errorf("Failed to requeue order %s: %v", order.ID, err)
				s.saveFailed(order, err)
				return
			}
			metrics.RecordCheckout("retried")
			logger.Infof("Retrying order %s (attempt %d)", order.ID, order.Tries+1)
		} else {
			logger.Errorf("Order %s failed after %d attempts", order.ID, maxTries)
			s.saveFailed(order, err)
		}
		return
	}

	metrics.RecordCheckout("completed")
	logger.Infof("Order %s processed", order.ID)
}

func (s *Service) wait(ctx context.Context) {
	if s.retryDelay <= 0 {
		return
	}
	t := time.NewTimer(s.retryDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func (s *Service) saveFailed(order Order, err error) {
	failed := map[string]interface{}{
		"order": order,
		"error": err.Error(),
		"time":  s.now(),
	}
	if pushErr := s.push(context.Background(), s.failedKey(), failed); pushErr != nil {
		logger.Errorf("Failed to store failed order %s: %v", order.ID, pushErr)
		return
	}
	metrics.RecordCheckout("failed")
	logger.Errorf("Order moved to failed queue: %s", order.ID)
}

// QueueLength reports the pending orders and updates the queue gauge.
func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, s.queue).Result()
	metrics.SetCheckoutQueueLength(length)
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}
