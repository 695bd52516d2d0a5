package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/checkout-service/models"
)

// UpstreamError is a transport level failure talking to the order service:
// connection errors, 5xx responses, undecodable bodies or an open breaker.
// Message is the order service's own error text when it sent one.
type UpstreamError struct {
	Status  int
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("order service: %s: %v", e.Message, e.Err)
	}
	return "order service: " + e.Message
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// OrderClient creates orders through the order service.
type OrderClient struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

// NewOrderClient builds a client for baseURL. Retries are left to the breaker.
func NewOrderClient(baseURL string, timeout time.Duration, log *zap.Logger) *OrderClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderClient{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetRetryCount(0).
			SetHeader("Content-Type", "application/json"),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "order-service",
			MaxRequests: 3,
			Interval:    15 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn("circuit breaker state changed",
					zap.String("circuit", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		}),
		log: log,
	}
}

// CreateOrder posts req to /orders. A business rejection (4xx with
// success=false) comes back as a response with Success false and a nil error;
// it does not count against the breaker.
func (c *OrderClient) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.OrderResponse, error) {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		var body models.OrderResponse
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(req).
			Post("/orders")
		if err != nil {
			return nil, &UpstreamError{Message: "request failed", Err: err}
		}

		decodeErr := json.Unmarshal(resp.Body(), &body)
		if resp.StatusCode() >= http.StatusInternalServerError {
			msg := body.Error
			if decodeErr != nil || msg == "" {
				msg = fmt.Sprintf("unexpected status %d", resp.StatusCode())
			}
			return nil, &UpstreamError{Status: resp.StatusCode(), Message: msg}
		}
		if decodeErr != nil {
			return nil, &UpstreamError{Status: resp.StatusCode(), Message: "invalid response body", Err: decodeErr}
		}
		if !body.Success && body.Error == "" {
			body.Error = fmt.Sprintf("order rejected with status %d", resp.StatusCode())
		}
		return &body, nil
	})
	if err != nil {
		var upErr *UpstreamError
		if errors.As(err, &upErr) {
			return nil, upErr
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.log.Warn("order service circuit open", zap.Error(err))
			return nil, &UpstreamError{Status: http.StatusServiceUnavailable, Message: "Order service temporarily unavailable", Err: err}
		}
		return nil, &UpstreamError{Message: "request failed", Err: err}
	}
	return out.(*models.OrderResponse), nil
}

// State reports the breaker state for health output.
func (c *OrderClient) State() string {
	return c.breaker.State().String()
}
