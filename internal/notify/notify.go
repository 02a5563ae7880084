// Package notify delivers exported reports to people.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/slack-go/slack"

	"github.com/Veraticus/stockroom/internal/common"
	"github.com/Veraticus/stockroom/internal/export"
	"github.com/Veraticus/stockroom/internal/service"
)

// Notifier delivers a rendered document.
type Notifier interface {
	Deliver(ctx context.Context, doc *export.Document, comment string) error
}

// FileUploader is the part of the Slack client used for delivery.
type FileUploader interface {
	UploadFileV2Context(ctx context.Context, params slack.UploadFileV2Parameters) (*slack.FileSummary, error)
}

// SlackNotifier uploads documents to a Slack channel.
type SlackNotifier struct {
	client  FileUploader
	logger  *slog.Logger
	channel string
	retry   service.RetryOptions
}

var _ Notifier = (*SlackNotifier)(nil)

// NewSlackNotifier creates a notifier posting to channel with a bot token.
func NewSlackNotifier(token, channel string, logger *slog.Logger) (*SlackNotifier, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: slack.token", common.ErrMissingConfig)
	}
	return NewSlackNotifierWithClient(slack.New(token), channel, logger)
}

// NewSlackNotifierWithClient creates a notifier around an existing client.
func NewSlackNotifierWithClient(client FileUploader, channel string, logger *slog.Logger) (*SlackNotifier, error) {
	if strings.TrimSpace(channel) == "" {
		return nil, fmt.Errorf("%w: slack.channel", common.ErrMissingConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SlackNotifier{
		client:  client,
		logger:  logger,
		channel: channel,
		retry:   common.DefaultRetryOptions(),
	}, nil
}

// WithRetryOptions replaces the upload retry policy.
func (n *SlackNotifier) WithRetryOptions(opts service.RetryOptions) *SlackNotifier {
	n.retry = opts
	return n
}

// Deliver uploads doc with comment as the initial message.
func (n *SlackNotifier) Deliver(ctx context.Context, doc *export.Document, comment string) error {
	if doc == nil || len(doc.Data) == 0 {
		return fmt.Errorf("%w: empty document", common.ErrDeliveryFailed)
	}

	var summary *slack.FileSummary
	err := common.WithRetry(ctx, func() error {
		var uploadErr error
		summary, uploadErr = n.client.UploadFileV2Context(ctx, slack.UploadFileV2Parameters{
			Reader:         bytes.NewReader(doc.Data),
			FileSize:       len(doc.Data),
			Filename:       doc.FileName,
			Title:          doc.FileName,
			Channel:        n.channel,
			InitialComment: comment,
		})
		return classifySlackError(uploadErr)
	}, n.retry)
	if err != nil {
		common.LogError(n.logger, err, "report upload failed", common.Fields{
			"channel": n.channel,
			"file":    doc.FileName,
		})
		return fmt.Errorf("%w: %s to %s: %v", common.ErrDeliveryFailed, doc.FileName, n.channel, err)
	}

	fileID := ""
	if summary != nil {
		fileID = summary.ID
	}
	n.logger.Info("delivered report", "channel", n.channel, "file", doc.FileName, "file_id", fileID, "bytes", len(doc.Data))
	return nil
}

// classifySlackError marks rate limits as retryable and API-level
// rejections (bad channel, missing scope) as permanent.
func classifySlackError(err error) error {
	if err == nil {
		return nil
	}

	var rateLimited *slack.RateLimitedError
	if errors.As(err, &rateLimited) {
		return &common.RetryableError{
			Err:       fmt.Errorf("%w: retry after %s", common.ErrRateLimit, rateLimited.RetryAfter),
			After:     rateLimited.RetryAfter,
			Retryable: true,
		}
	}

	var slackErr slack.SlackErrorResponse
	if errors.As(err, &slackErr) {
		return &common.RetryableError{Err: err, Retryable: false}
	}

	return err
}
