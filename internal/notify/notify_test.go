package notify

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/stockroom/internal/common"
	"github.com/Veraticus/stockroom/internal/export"
	"github.com/Veraticus/stockroom/internal/service"
)

type upload struct {
	Params slack.UploadFileV2Parameters
	Body   []byte
}

// fakeUploader records uploads and returns queued errors in order.
type fakeUploader struct {
	errs    []error
	uploads []upload
	mu      sync.Mutex

	// noSummary makes successful uploads return a nil summary.
	noSummary bool
}

func (f *fakeUploader) UploadFileV2Context(_ context.Context, params slack.UploadFileV2Parameters) (*slack.FileSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	body, _ := io.ReadAll(params.Reader)
	f.uploads = append(f.uploads, upload{Params: params, Body: body})

	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	if f.noSummary {
		return nil, nil
	}
	return &slack.FileSummary{ID: "F123", Title: params.Title}, nil
}

var fastRetry = service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}

func testDoc() *export.Document {
	return &export.Document{
		FileName:    "monthly_report_january_2024.pdf",
		ContentType: export.ContentTypePDF,
		Format:      export.FormatPDF,
		Data:        []byte("%PDF-1.3 test"),
	}
}

func TestSlackNotifier_DeliverWithoutFileSummary(t *testing.T) {
	fake := &fakeUploader{noSummary: true}
	n, err := NewSlackNotifierWithClient(fake, "C0REPORTS", nil)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		assert.NoError(t, n.Deliver(context.Background(), testDoc(), "January report"))
	})
	assert.Len(t, fake.uploads, 1)
}

func TestSlackNotifier_Deliver(t *testing.T) {
	fake := &fakeUploader{}
	n, err := NewSlackNotifierWithClient(fake, "C0REPORTS", nil)
	require.NoError(t, err)

	require.NoError(t, n.Deliver(context.Background(), testDoc(), "January report"))

	require.Len(t, fake.uploads, 1)
	got := fake.uploads[0]
	assert.Equal(t, "C0REPORTS", got.Params.Channel)
	assert.Equal(t, "monthly_report_january_2024.pdf", got.Params.Filename)
	assert.Equal(t, "January report", got.Params.InitialComment)
	assert.Equal(t, len(testDoc().Data), got.Params.FileSize)
	assert.Equal(t, testDoc().Data, got.Body)
}

func TestSlackNotifier_RetriesTransientFailures(t *testing.T) {
	fake := &fakeUploader{errs: []error{
		errors.New("connection reset"),
		&slack.RateLimitedError{RetryAfter: time.Second},
		nil,
	}}
	n, err := NewSlackNotifierWithClient(fake, "C0REPORTS", nil)
	require.NoError(t, err)
	n.WithRetryOptions(fastRetry)

	require.NoError(t, n.Deliver(context.Background(), testDoc(), ""))
	assert.Len(t, fake.uploads, 3)

	// every attempt re-sends the full body
	for _, u := range fake.uploads {
		assert.Equal(t, testDoc().Data, u.Body)
	}
}

func TestSlackNotifier_PermanentFailure(t *testing.T) {
	fake := &fakeUploader{errs: []error{slack.SlackErrorResponse{Err: "channel_not_found"}}}
	n, err := NewSlackNotifierWithClient(fake, "C0MISSING", nil)
	require.NoError(t, err)
	n.WithRetryOptions(fastRetry)

	err = n.Deliver(context.Background(), testDoc(), "")
	assert.ErrorIs(t, err, common.ErrDeliveryFailed)
	assert.Contains(t, err.Error(), "channel_not_found")
	assert.Len(t, fake.uploads, 1)
}

func TestSlackNotifier_EmptyDocument(t *testing.T) {
	n, err := NewSlackNotifierWithClient(&fakeUploader{}, "C0REPORTS", nil)
	require.NoError(t, err)

	assert.ErrorIs(t, n.Deliver(context.Background(), nil, ""), common.ErrDeliveryFailed)
	assert.ErrorIs(t, n.Deliver(context.Background(), &export.Document{}, ""), common.ErrDeliveryFailed)
}

func TestNewSlackNotifier_MissingConfig(t *testing.T) {
	_, err := NewSlackNotifier("", "C0REPORTS", nil)
	assert.ErrorIs(t, err, common.ErrMissingConfig)

	_, err = NewSlackNotifier("xoxb-token", " ", nil)
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestClassifySlackError(t *testing.T) {
	assert.NoError(t, classifySlackError(nil))
	rateLimited := classifySlackError(&slack.RateLimitedError{RetryAfter: time.Second})
	assert.ErrorIs(t, rateLimited, common.ErrRateLimit)
	var retryable *common.RetryableError
	require.ErrorAs(t, rateLimited, &retryable)
	assert.Equal(t, time.Second, retryable.After)
	assert.False(t, common.IsRetryable(classifySlackError(slack.SlackErrorResponse{Err: "not_authed"})))

	plain := errors.New("timeout")
	assert.Equal(t, plain, classifySlackError(plain))
}
