package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"bakehouse/internal/metrics"
)

// Dispatcher posts order confirmations to the notification endpoint. The
// endpoint is a separate system that flakes independently of us, so calls
// go through a circuit breaker; a tripped breaker sheds the notification
// rather than stalling checkouts.
type Dispatcher struct {
	client  *resty.Client
	breaker *gobreaker.CircuitBreaker
	url     string
}

type payload struct {
	Type      string `json:"type"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
}

func NewDispatcher(url string) *Dispatcher {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "notifications",
		Interval: 15 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(log.Fields{
				"circuit": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Info("Circuit breaker state changed")
		},
	})

	return &Dispatcher{
		client:  resty.New().SetTimeout(5 * time.Second).SetRetryCount(0),
		breaker: breaker,
		url:     url,
	}
}

// OrderConfirmation sends the "order received" email request. The caller
// treats errors as log-and-continue: a committed order stands whether or
// not the customer hears about it immediately.
func (d *Dispatcher) OrderConfirmation(ctx context.Context, recipient, orderNumber, finalAmount string) error {
	body := payload{
		Type:      "email",
		Recipient: recipient,
		Subject:   fmt.Sprintf("Order confirmation %s", orderNumber),
		Message:   fmt.Sprintf("Your order %s has been received. Total: $%s.", orderNumber, finalAmount),
	}

	_, err := d.breaker.Execute(func() (interface{}, error) {
		resp, err := d.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(body).
			Post(d.url)
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("notification endpoint returned %s", resp.Status())
		}
		return nil, nil
	})
	if err != nil {
		metrics.NotifierFailures.Inc()
		return fmt.Errorf("dispatch order confirmation: %w", err)
	}
	return nil
}
