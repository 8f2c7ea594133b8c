package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"moonstore-be/internal/logger"

	"go.uber.org/zap"
)

const (
	defaultQueueSize   = 256
	defaultMaxAttempts = 3
	defaultHTTPTimeout = 10 * time.Second
	drainTimeout       = 5 * time.Second
)

// DiscordSink posts events to a Discord webhook from a single background
// worker. Enqueueing never blocks; when the queue is full the event is
// dropped and counted.
type DiscordSink struct {
	webhookURL string
	httpClient *http.Client

	queue    chan Event
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu      sync.Mutex
	dropped uint64
}

func NewDiscordSink(webhookURL string) *DiscordSink {
	s := &DiscordSink{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		queue:      make(chan Event, defaultQueueSize),
		done:       make(chan struct{}),
	}

	s.wg.Add(1)
	go s.worker()

	return s
}

func (s *DiscordSink) Notify(event Event) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	select {
	case s.queue <- event:
	default:
		s.mu.Lock()
		s.dropped++
		dropped := s.dropped
		s.mu.Unlock()

		logger.L().Warn("discord sink queue full, event dropped",
			zap.String("kind", string(event.Kind)),
			zap.Uint64("dropped_total", dropped),
		)
	}
}

// Dropped reports how many events were discarded because the queue was full.
func (s *DiscordSink) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Close stops the worker after draining pending events, bounded by
// drainTimeout.
func (s *DiscordSink) Close() {
	s.stopOnce.Do(func() {
		close(s.done)

		waited := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(waited)
		}()

		select {
		case <-waited:
		case <-time.After(drainTimeout):
			logger.L().Warn("discord sink drain timed out")
		}
	})
}

func (s *DiscordSink) worker() {
	defer s.wg.Done()

	for {
		select {
		case event := <-s.queue:
			s.deliver(event)
		case <-s.done:
			// drain whatever is left
			for {
				select {
				case event := <-s.queue:
					s.deliver(event)
				default:
					return
				}
			}
		}
	}
}

func (s *DiscordSink) deliver(event Event) {
	log := logger.L().With(
		zap.String("kind", string(event.Kind)),
	)

	backoff := 500 * time.Millisecond

	for attempt := 1; attempt <= defaultMaxAttempts; attempt++ {
		err := s.post(event)
		if err == nil {
			log.Debug("event delivered", zap.Int("attempt", attempt))
			return
		}

		log.Warn("event delivery failed",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if attempt < defaultMaxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}

	log.Error("event dropped after retries")
}

func (s *DiscordSink) post(event Event) error {
	fields := make([]map[string]any, 0, len(event.Fields))
	for name, value := range event.Fields {
		fields = append(fields, map[string]any{
			"name":   name,
			"value":  fmt.Sprint(value),
			"inline": true,
		})
	}

	body := map[string]any{
		"embeds": []map[string]any{
			{
				"title":     string(event.Kind),
				"timestamp": event.At.Format(time.RFC3339),
				"fields":    fields,
			},
		},
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.webhookURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
