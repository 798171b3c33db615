package event

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sudhanshu9000/BazzarNet1.1/internal/domain"
	pkgkafka "github.com/Sudhanshu9000/BazzarNet1.1/pkg/kafka"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/logger"
)

type published struct {
	topic string
	event *pkgkafka.Event
}

type recordingPublisher struct {
	sent []published
	err  error
}

func (r *recordingPublisher) Publish(_ context.Context, topic string, evt *pkgkafka.Event) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, published{topic: topic, event: evt})
	return nil
}

func newTestProducer(pub *recordingPublisher) *Producer {
	return NewProducer(pub, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestProducer_ProductEvents(t *testing.T) {
	pub := &recordingPublisher{}
	p := newTestProducer(pub)
	ctx := logger.WithCorrelationID(context.Background(), "corr-1")
	ctx = logger.WithUserID(ctx, "vendor-1")

	product := &domain.Product{
		ID: "p-1", Name: "Milk", StoreID: "s-1", Category: domain.CategoryGroceries,
		Price: decimal.RequireFromString("28.00"), Stock: 40, Unit: domain.UnitLiter, IsActive: true,
	}

	require.NoError(t, p.PublishProductCreated(ctx, product))
	require.NoError(t, p.PublishProductUpdated(ctx, product))
	require.NoError(t, p.PublishProductDeleted(ctx, "p-1", "s-1"))

	require.Len(t, pub.sent, 3)
	for i, want := range []string{domain.EventProductCreated, domain.EventProductUpdated, domain.EventProductDeleted} {
		assert.Equal(t, domain.TopicProductEvents, pub.sent[i].topic)
		assert.Equal(t, want, pub.sent[i].event.EventType)
		assert.Equal(t, "p-1", pub.sent[i].event.AggregateID)
		assert.Equal(t, "corr-1", pub.sent[i].event.CorrelationID)
		assert.Equal(t, SourceCatalogService, pub.sent[i].event.Source)
		assert.Equal(t, map[string]string{MetadataActorUserID: "vendor-1"}, pub.sent[i].event.Metadata)
	}

	var data ProductData
	require.NoError(t, json.Unmarshal(pub.sent[0].event.Data, &data))
	assert.Equal(t, "28", data.Price)
	assert.Equal(t, "s-1", data.StoreID)
}

func TestProducer_ReviewCreated(t *testing.T) {
	pub := &recordingPublisher{}
	p := newTestProducer(pub)

	review := &domain.Review{ID: "r-1", ProductID: "p-1", UserID: "u-1", Rating: 5}
	require.NoError(t, p.PublishReviewCreated(context.Background(), review, domain.ProductAggregate{Rating: 4.5, NumReviews: 4}))

	require.Len(t, pub.sent, 1)
	assert.Equal(t, domain.TopicReviewEvents, pub.sent[0].topic)
	assert.Equal(t, "p-1", pub.sent[0].event.AggregateID)
	assert.Empty(t, pub.sent[0].event.CorrelationID)
	assert.Nil(t, pub.sent[0].event.Metadata, "no actor without an authenticated request")

	var data ReviewCreatedData
	require.NoError(t, json.Unmarshal(pub.sent[0].event.Data, &data))
	assert.Equal(t, ReviewCreatedData{
		ReviewID: "r-1", ProductID: "p-1", UserID: "u-1", Rating: 5, NewRating: 4.5, NumReviews: 4,
	}, data)
}

func TestProducer_PublishError(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker unavailable")}
	p := newTestProducer(pub)

	err := p.PublishProductDeleted(context.Background(), "p-1", "s-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish product.deleted event")
}
