// Package report aggregates request records into monthly report summaries.
package report

import (
	"sort"

	"github.com/Veraticus/stockroom/internal/model"
)

// UnknownRequester is the bucket used for requests without a requester name.
const UnknownRequester = "Unknown"

// RankedEntry is one row of a ranked list.
type RankedEntry struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// Summary holds the aggregate statistics for a set of requests.
//
// TotalRequests is the number of records summarized. Records whose status
// is not one of the four known values are included in TotalRequests but in
// none of the status counters, so the counters may sum to less than the
// total.
type Summary struct {
	MostRequestedItems  []RankedEntry `json:"mostRequestedItems" yaml:"most_requested_items"`
	TopRequesters       []RankedEntry `json:"topRequesters" yaml:"top_requesters"`
	TotalRequests       int           `json:"totalRequests" yaml:"total_requests"`
	PendingRequests     int           `json:"pendingRequests" yaml:"pending_requests"`
	ApprovedRequests    int           `json:"approvedRequests" yaml:"approved_requests"`
	RejectedRequests    int           `json:"rejectedRequests" yaml:"rejected_requests"`
	CompletedRequests   int           `json:"completedRequests" yaml:"completed_requests"`
	HighPriority        int           `json:"highPriority" yaml:"high_priority"`
	MediumPriority      int           `json:"mediumPriority" yaml:"medium_priority"`
	LowPriority         int           `json:"lowPriority" yaml:"low_priority"`
	TotalItemsRequested int           `json:"totalItemsRequested" yaml:"total_items_requested"`
}

// Summarize computes a Summary for records already filtered to the
// reporting period. It never fails; an empty input yields a zero Summary
// with empty ranked lists.
func Summarize(records []model.Request) Summary {
	summary := Summary{
		TotalRequests: len(records),
	}

	items := newRanker()
	requesters := newRanker()

	for _, r := range records {
		switch r.Status {
		case model.StatusPending:
			summary.PendingRequests++
		case model.StatusApproved:
			summary.ApprovedRequests++
		case model.StatusRejected:
			summary.RejectedRequests++
		case model.StatusCompleted:
			summary.CompletedRequests++
		}

		switch r.Priority {
		case model.PriorityHigh:
			summary.HighPriority++
		case model.PriorityMedium:
			summary.MediumPriority++
		case model.PriorityLow:
			summary.LowPriority++
		}

		// Quantities are summed as-is, negative values included.
		summary.TotalItemsRequested += r.Quantity

		items.add(r.ItemName, r.Quantity)

		requester := r.RequesterName
		if requester == "" {
			requester = UnknownRequester
		}
		requesters.add(requester, 1)
	}

	summary.MostRequestedItems = items.ranked()
	summary.TopRequesters = requesters.ranked()

	return summary
}

// Top returns at most n entries of a ranked list.
func Top(entries []RankedEntry, n int) []RankedEntry {
	if n < 0 || len(entries) <= n {
		return entries
	}
	return entries[:n]
}

// ranker accumulates counts per name while remembering first-seen order.
type ranker struct {
	index   map[string]int
	entries []RankedEntry
}

func newRanker() *ranker {
	return &ranker{index: make(map[string]int)}
}

func (r *ranker) add(name string, n int) {
	if i, ok := r.index[name]; ok {
		r.entries[i].Count += n
		return
	}
	r.index[name] = len(r.entries)
	r.entries = append(r.entries, RankedEntry{Name: name, Count: n})
}

func (r *ranker) ranked() []RankedEntry {
	out := make([]RankedEntry, len(r.entries))
	copy(out, r.entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}
