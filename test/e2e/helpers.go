package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

// Config holds test configuration
type Config struct {
	SocialURL    string
	KafkaBrokers []string
	EventsTopic  string
}

// DefaultConfig returns default test configuration
func DefaultConfig() Config {
	return Config{
		SocialURL:    getEnv("SOCIAL_URL", "http://localhost:3000"),
		KafkaBrokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
		EventsTopic:  getEnv("SOCIAL_EVENTS_TOPIC", "social-events"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// HTTPClient wraps http.Client with helper methods
type HTTPClient struct {
	client   *http.Client
	baseURL  string
	playerID string
}

// NewHTTPClient creates a new HTTP client acting as the given player
func NewHTTPClient(baseURL, playerID string) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:  baseURL,
		playerID: playerID,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(path string) (*http.Response, error) {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	c.addHeaders(req)
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(path string, body any) (*http.Response, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest("POST", c.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	c.addHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// Put performs a PUT request with JSON body
func (c *HTTPClient) Put(path string, body any) (*http.Response, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest("PUT", c.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	c.addHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// Delete performs a DELETE request
func (c *HTTPClient) Delete(path string) (*http.Response, error) {
	req, err := http.NewRequest("DELETE", c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	c.addHeaders(req)
	return c.client.Do(req)
}

func (c *HTTPClient) addHeaders(req *http.Request) {
	req.Header.Set("X-Player-ID", c.playerID)
}

// ParseResponse parses a JSON response into the given type
func ParseResponse[T any](resp *http.Response) (T, error) {
	var result T
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, err
	}
	defer resp.Body.Close()

	if err := json.Unmarshal(body, &result); err != nil {
		return result, fmt.Errorf("failed to parse response: %w (body: %s)", err, string(body))
	}
	return result, nil
}

// SocialEvent mirrors the wire format published to the events topic
type SocialEvent struct {
	EventType string          `json:"event_type"`
	PlayerID  string          `json:"player_id"`
	TargetID  string          `json:"target_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// KafkaHelper provides Kafka testing utilities
type KafkaHelper struct {
	brokers []string
}

// NewKafkaHelper creates a new Kafka helper
func NewKafkaHelper(brokers []string) *KafkaHelper {
	return &KafkaHelper{brokers: brokers}
}

// ConsumeEventsAfter consumes social events from a topic, keeping only
// messages published after 'afterTime' to filter out stale test runs
func (k *KafkaHelper) ConsumeEventsAfter(ctx context.Context, topic, groupID string, timeout time.Duration, maxMessages int, afterTime time.Time) ([]SocialEvent, error) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  k.brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  500 * time.Millisecond,
	})
	defer reader.Close()

	events := make([]SocialEvent, 0, maxMessages)
	deadline := time.Now().Add(timeout)

	for len(events) < maxMessages && time.Now().Before(deadline) {
		fetchCtx, cancel := context.WithTimeout(ctx, 1*time.Second)
		msg, err := reader.FetchMessage(fetchCtx)
		cancel()

		if err != nil {
			if fetchCtx.Err() != nil {
				continue // Timeout, try again
			}
			return events, err
		}

		// Commit all messages to advance the offset, keep only recent ones
		reader.CommitMessages(context.Background(), msg)

		if !afterTime.IsZero() && msg.Time.Before(afterTime) {
			continue
		}

		var event SocialEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			continue // Not a social event payload
		}
		events = append(events, event)
	}

	return events, nil
}

// FindEvent returns the first event matching the type and player, or nil
func FindEvent(events []SocialEvent, eventType, playerID string) *SocialEvent {
	for i := range events {
		if events[i].EventType == eventType && events[i].PlayerID == playerID {
			return &events[i]
		}
	}
	return nil
}

// RequireService skips the test if the service is not available
// Waits up to 10 seconds for service to become ready (handles 503 during startup)
func RequireService(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(10 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url + "/api/v1/health")
		if err != nil {
			t.Skipf("Skipping: service at %s is not available", url)
			return
		}

		status := resp.StatusCode
		resp.Body.Close()

		if status == http.StatusOK {
			return // Service is ready
		}

		if status == http.StatusServiceUnavailable {
			t.Logf("Service at %s is starting (503), waiting...", url)
			time.Sleep(1 * time.Second)
			continue
		}

		t.Skipf("Skipping: service at %s returned status %d", url, status)
		return
	}

	t.Skipf("Skipping: service at %s did not become ready within 10s", url)
}

// RequireStatus fails the test when the response code differs from want
func RequireStatus(t *testing.T, resp *http.Response, err error, want int) {
	t.Helper()
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Fatalf("expected status %d, got %d (body: %s)", want, resp.StatusCode, string(body))
	}
}

func uniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
