// Package event publishes catalog domain events.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Sudhanshu9000/BazzarNet1.1/internal/domain"
	pkgkafka "github.com/Sudhanshu9000/BazzarNet1.1/pkg/kafka"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/logger"
)

// Aggregate types.
const (
	AggregateTypeProduct = "product"
	AggregateTypeReview  = "review"
)

// SourceCatalogService identifies events originating from this service.
const SourceCatalogService = "catalog-service"

// MetadataActorUserID is the metadata key for the user whose request caused
// the event.
const MetadataActorUserID = "actor_user_id"

// ProductData is the payload for product.created and product.updated.
type ProductData struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	StoreID  string `json:"storeId"`
	Category string `json:"category"`
	Price    string `json:"price"`
	Stock    int    `json:"stock"`
	Unit     string `json:"unit"`
	IsActive bool   `json:"isActive"`
}

// ProductDeletedData is the payload for product.deleted.
type ProductDeletedData struct {
	ID      string `json:"id"`
	StoreID string `json:"storeId"`
}

// ReviewCreatedData is the payload for review.created.
type ReviewCreatedData struct {
	ReviewID   string  `json:"reviewId"`
	ProductID  string  `json:"productId"`
	UserID     string  `json:"userId"`
	Rating     int     `json:"rating"`
	NewRating  float64 `json:"productRating"`
	NumReviews int     `json:"numReviews"`
}

type publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes catalog domain events to Kafka.
type Producer struct {
	kafka  publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer. kafka is usually a
// *pkgkafka.Producer.
func NewProducer(kafka publisher, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

func productData(p *domain.Product) ProductData {
	return ProductData{
		ID:       p.ID,
		Name:     p.Name,
		StoreID:  p.StoreID,
		Category: p.Category,
		Price:    p.Price.String(),
		Stock:    p.Stock,
		Unit:     p.Unit,
		IsActive: p.IsActive,
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, domain.TopicProductEvents, domain.EventProductCreated, product.ID, AggregateTypeProduct, productData(product))
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, domain.TopicProductEvents, domain.EventProductUpdated, product.ID, AggregateTypeProduct, productData(product))
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, id, storeID string) error {
	return p.publish(ctx, domain.TopicProductEvents, domain.EventProductDeleted, id, AggregateTypeProduct,
		ProductDeletedData{ID: id, StoreID: storeID})
}

// PublishReviewCreated publishes a review.created event carrying the
// product's recomputed aggregate. It is keyed by product so a product's
// review events stay ordered.
func (p *Producer) PublishReviewCreated(ctx context.Context, review *domain.Review, agg domain.ProductAggregate) error {
	return p.publish(ctx, domain.TopicReviewEvents, domain.EventReviewCreated, review.ProductID, AggregateTypeReview,
		ReviewCreatedData{
			ReviewID:   review.ID,
			ProductID:  review.ProductID,
			UserID:     review.UserID,
			Rating:     review.Rating,
			NewRating:  agg.Rating,
			NumReviews: agg.NumReviews,
		})
}

func (p *Producer) publish(ctx context.Context, topic, eventType, aggregateID, aggregateType string, data any) error {
	evt, err := pkgkafka.NewEvent(eventType, aggregateID, aggregateType, SourceCatalogService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", eventType, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}
	if uid := logger.UserIDFromContext(ctx); uid != "" {
		evt.WithMetadata(MetadataActorUserID, uid)
	}

	if err := p.kafka.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}

	p.logger.DebugContext(ctx, "published "+eventType+" event",
		slog.String("aggregate_id", aggregateID),
	)
	return nil
}
