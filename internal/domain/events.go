package domain

// Kafka topics and event types published by the catalog.
const (
	TopicProductEvents = "catalog.product.events"
	TopicReviewEvents  = "catalog.review.events"

	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
	EventReviewCreated  = "review.created"
)
