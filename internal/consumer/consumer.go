// Package consumer syncs product stock from the order event stream.
package consumer

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"storefront-service/internal/config"
	"storefront-service/internal/entity"
	"storefront-service/internal/service"
)

type Consumer struct {
	productSvc *service.ProductService
}

func New(productSvc *service.ProductService) *Consumer {
	return &Consumer{productSvc: productSvc}
}

// Start reads order events and adjusts stock: created reserves, cancelled
// releases. Blocks until ctx is cancelled; run it in a goroutine.
func (c *Consumer) Start(ctx context.Context) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  config.KafkaBrokerURLs(),
		Topic:    config.OrderTopic,
		GroupID:  "storefront-stock-sync",
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	defer reader.Close()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Msgf("Error reading message: %v", err)
			continue
		}

		c.processMessage(ctx, msg)
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) {
	var order entity.Order
	if err := json.Unmarshal(msg.Value, &order); err != nil {
		log.Error().Msgf("Error unmarshalling message: %v", err)
		return
	}

	// key -> "order.<event>.<orderID>"
	parts := strings.Split(string(msg.Key), ".")
	if len(parts) < 3 {
		log.Warn().Str("key", string(msg.Key)).Msg("Skipping malformed event key")
		return
	}
	event := parts[1]

	switch event {
	case "created":
		for _, item := range order.Items {
			if err := c.productSvc.ReserveStock(ctx, item.ProductID, item.Quantity); err != nil {
				log.Error().Msgf("Error reserving stock for product %s: %v", item.ProductID, err)
			}
		}
	case "cancelled":
		for _, item := range order.Items {
			if err := c.productSvc.ReleaseStock(ctx, item.ProductID, item.Quantity); err != nil {
				log.Error().Msgf("Error releasing stock for product %s: %v", item.ProductID, err)
			}
		}
	}
}
