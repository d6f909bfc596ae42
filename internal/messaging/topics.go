package messaging

const (
	TopicOrderCreated   = "order.created"
	TopicOrderFulfilled = "order.fulfilled"
)
