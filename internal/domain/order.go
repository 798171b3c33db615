package domain

// Order statuses. Only delivered orders entitle the buyer to review.
const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
	OrderStatusRefunded   = "Refunded"
)
