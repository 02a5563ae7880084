package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Veraticus/stockroom/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRequest(id, item string, qty int, priority model.Priority, status model.RequestStatus, requester string) model.Request {
	return model.Request{
		ID:            id,
		ItemName:      item,
		Quantity:      qty,
		Priority:      priority,
		Status:        status,
		RequesterName: requester,
		CreatedAt:     time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestSummarize_Empty(t *testing.T) {
	for _, records := range [][]model.Request{nil, {}} {
		summary := Summarize(records)

		assert.Equal(t, 0, summary.TotalRequests)
		assert.Equal(t, 0, summary.PendingRequests)
		assert.Equal(t, 0, summary.ApprovedRequests)
		assert.Equal(t, 0, summary.RejectedRequests)
		assert.Equal(t, 0, summary.CompletedRequests)
		assert.Equal(t, 0, summary.HighPriority)
		assert.Equal(t, 0, summary.MediumPriority)
		assert.Equal(t, 0, summary.LowPriority)
		assert.Equal(t, 0, summary.TotalItemsRequested)
		require.NotNil(t, summary.MostRequestedItems)
		require.NotNil(t, summary.TopRequesters)
		assert.Empty(t, summary.MostRequestedItems)
		assert.Empty(t, summary.TopRequesters)
	}
}

func TestSummarize_EmptyListsEncodeAsArrays(t *testing.T) {
	data, err := json.Marshal(Summarize(nil))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"mostRequestedItems":[]`)
	assert.Contains(t, string(data), `"topRequesters":[]`)
}

func TestSummarize_StatusCounts(t *testing.T) {
	records := []model.Request{
		makeRequest("1", "Pen", 1, model.PriorityLow, model.StatusPending, "Alice"),
		makeRequest("2", "Pen", 1, model.PriorityLow, model.StatusPending, "Alice"),
		makeRequest("3", "Pen", 1, model.PriorityLow, model.StatusApproved, "Alice"),
		makeRequest("4", "Pen", 1, model.PriorityLow, model.StatusRejected, "Alice"),
		makeRequest("5", "Pen", 1, model.PriorityLow, model.StatusCompleted, "Alice"),
	}

	summary := Summarize(records)

	assert.Equal(t, 5, summary.TotalRequests)
	assert.Equal(t, 2, summary.PendingRequests)
	assert.Equal(t, 1, summary.ApprovedRequests)
	assert.Equal(t, 1, summary.RejectedRequests)
	assert.Equal(t, 1, summary.CompletedRequests)
}

// Unknown statuses count toward the total but toward no status counter.
func TestSummarize_UnknownStatusCountedInTotalOnly(t *testing.T) {
	records := []model.Request{
		makeRequest("1", "Pen", 1, model.PriorityHigh, model.StatusPending, ""),
		makeRequest("2", "Pen", 1, model.PriorityHigh, model.RequestStatus("cancelled"), ""),
		makeRequest("3", "Pen", 1, model.PriorityHigh, model.RequestStatus("PENDING"), ""),
	}

	summary := Summarize(records)

	assert.Equal(t, 3, summary.TotalRequests)
	assert.Equal(t, 1, summary.PendingRequests)
	statusSum := summary.PendingRequests + summary.ApprovedRequests + summary.RejectedRequests + summary.CompletedRequests
	assert.Equal(t, 1, statusSum)
	assert.Equal(t, 3, summary.HighPriority)
}

func TestSummarize_PriorityCountsAndQuantity(t *testing.T) {
	records := []model.Request{
		makeRequest("1", "Monitor", 2, model.PriorityHigh, model.StatusPending, "A"),
		makeRequest("2", "Paper", 10, model.PriorityMedium, model.StatusApproved, "B"),
		makeRequest("3", "Chair", 1, model.PriorityLow, model.StatusApproved, "C"),
		makeRequest("4", "Desk", 1, model.Priority("urgent"), model.StatusApproved, "C"),
		makeRequest("5", "Glitch", -3, model.PriorityLow, model.StatusApproved, "C"),
	}

	summary := Summarize(records)

	assert.Equal(t, 1, summary.HighPriority)
	assert.Equal(t, 1, summary.MediumPriority)
	assert.Equal(t, 2, summary.LowPriority)
	// negative quantities are summed, not clamped
	assert.Equal(t, 11, summary.TotalItemsRequested)
}

func TestSummarize_MostRequestedItems(t *testing.T) {
	records := []model.Request{
		makeRequest("1", "Stapler", 3, model.PriorityLow, model.StatusPending, "A"),
		makeRequest("2", "Paper", 5, model.PriorityLow, model.StatusPending, "A"),
		makeRequest("3", "Stapler", 4, model.PriorityLow, model.StatusPending, "A"),
		makeRequest("4", "stapler", 1, model.PriorityLow, model.StatusPending, "A"),
	}

	summary := Summarize(records)

	require.Len(t, summary.MostRequestedItems, 3)
	assert.Equal(t, RankedEntry{Name: "Stapler", Count: 7}, summary.MostRequestedItems[0])
	assert.Equal(t, RankedEntry{Name: "Paper", Count: 5}, summary.MostRequestedItems[1])
	assert.Equal(t, RankedEntry{Name: "stapler", Count: 1}, summary.MostRequestedItems[2])
}

func TestSummarize_RankingTiesKeepFirstSeenOrder(t *testing.T) {
	records := []model.Request{
		makeRequest("1", "Cable", 2, model.PriorityLow, model.StatusPending, "Zed"),
		makeRequest("2", "Mouse", 5, model.PriorityLow, model.StatusPending, "Amy"),
		makeRequest("3", "Adapter", 2, model.PriorityLow, model.StatusPending, "Bob"),
		makeRequest("4", "Battery", 2, model.PriorityLow, model.StatusPending, "Amy"),
	}

	summary := Summarize(records)

	names := make([]string, 0, len(summary.MostRequestedItems))
	for _, e := range summary.MostRequestedItems {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Mouse", "Cable", "Adapter", "Battery"}, names)

	assert.Equal(t, []RankedEntry{
		{Name: "Amy", Count: 2},
		{Name: "Zed", Count: 1},
		{Name: "Bob", Count: 1},
	}, summary.TopRequesters)
}

func TestSummarize_UnknownRequesterBucket(t *testing.T) {
	records := []model.Request{
		makeRequest("1", "Pen", 1, model.PriorityLow, model.StatusPending, ""),
		makeRequest("2", "Pen", 1, model.PriorityLow, model.StatusPending, "Alice"),
		makeRequest("3", "Pen", 1, model.PriorityLow, model.StatusPending, ""),
	}

	summary := Summarize(records)

	require.Len(t, summary.TopRequesters, 2)
	assert.Equal(t, RankedEntry{Name: UnknownRequester, Count: 2}, summary.TopRequesters[0])
	assert.Equal(t, RankedEntry{Name: "Alice", Count: 1}, summary.TopRequesters[1])
}

func TestSummarize_DoesNotMutateInput(t *testing.T) {
	records := []model.Request{
		makeRequest("1", "B", 1, model.PriorityLow, model.StatusPending, ""),
		makeRequest("2", "A", 9, model.PriorityLow, model.StatusPending, ""),
	}
	before := append([]model.Request(nil), records...)

	_ = Summarize(records)

	assert.Equal(t, before, records)
}

func TestTop(t *testing.T) {
	entries := []RankedEntry{{Name: "a", Count: 3}, {Name: "b", Count: 2}, {Name: "c", Count: 1}}

	assert.Len(t, Top(entries, 2), 2)
	assert.Len(t, Top(entries, 5), 3)
	assert.Len(t, Top(entries, -1), 3)
	assert.Empty(t, Top(entries, 0))
	assert.Empty(t, Top(nil, 5))
}
