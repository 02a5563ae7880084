package model

import (
	"fmt"
	"strings"
	"time"
)

// Priority is the urgency of a request.
type Priority string

// Priority values.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// RequestStatus is the lifecycle state of a request.
type RequestStatus string

// Request status values. Records read from storage or imported files may
// carry other values; those are preserved as-is.
const (
	StatusPending   RequestStatus = "pending"
	StatusApproved  RequestStatus = "approved"
	StatusRejected  RequestStatus = "rejected"
	StatusCompleted RequestStatus = "completed"
)

// Request is a single inventory item request.
type Request struct {
	CreatedAt     time.Time     `json:"createdAt" yaml:"created_at"`
	ID            string        `json:"id" yaml:"id"`
	ItemName      string        `json:"itemName" yaml:"item_name"`
	Priority      Priority      `json:"priority" yaml:"priority"`
	Status        RequestStatus `json:"status" yaml:"status"`
	RequesterName string        `json:"requesterName,omitempty" yaml:"requester_name,omitempty"`
	Notes         string        `json:"notes,omitempty" yaml:"notes,omitempty"`
	Quantity      int           `json:"quantity" yaml:"quantity"`
}

// ParsePriority parses a priority case-insensitively.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return p, nil
	default:
		return "", fmt.Errorf("invalid priority %q: must be high, medium, or low", s)
	}
}

// ParseRequestStatus parses one of the four known statuses case-insensitively.
func ParseRequestStatus(s string) (RequestStatus, error) {
	switch st := RequestStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted:
		return st, nil
	default:
		return "", fmt.Errorf("invalid status %q: must be pending, approved, rejected, or completed", s)
	}
}
