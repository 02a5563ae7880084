package testutil

import (
	"time"

	"github.com/Veraticus/stockroom/internal/model"
)

// DefaultCreatedAt is the creation time of requests built without At.
var DefaultCreatedAt = time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)

// RequestBuilder provides a fluent interface for constructing requests.
// Unset fields default to one pending, medium-priority unit created at
// DefaultCreatedAt.
type RequestBuilder struct {
	req model.Request
}

// NewRequest starts a request with the given ID.
func NewRequest(id string) *RequestBuilder {
	return &RequestBuilder{req: model.Request{
		ID:        id,
		ItemName:  "Item " + id,
		Quantity:  1,
		Priority:  model.PriorityMedium,
		Status:    model.StatusPending,
		CreatedAt: DefaultCreatedAt,
	}}
}

// Item sets the item name and quantity.
func (b *RequestBuilder) Item(name string, quantity int) *RequestBuilder {
	b.req.ItemName = name
	b.req.Quantity = quantity
	return b
}

// Priority sets the priority.
func (b *RequestBuilder) Priority(p model.Priority) *RequestBuilder {
	b.req.Priority = p
	return b
}

// Status sets the status.
func (b *RequestBuilder) Status(s model.RequestStatus) *RequestBuilder {
	b.req.Status = s
	return b
}

// By sets the requester name.
func (b *RequestBuilder) By(name string) *RequestBuilder {
	b.req.RequesterName = name
	return b
}

// At sets the creation time.
func (b *RequestBuilder) At(t time.Time) *RequestBuilder {
	b.req.CreatedAt = t
	return b
}

// Build returns the request.
func (b *RequestBuilder) Build() model.Request {
	return b.req
}
