package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

// Notifier delivers short operational messages to the team channel.
type Notifier interface {
	HelpRequestOpened(ctx context.Context, employeeName, requestType, message string) error
	HandoverStalled(ctx context.Context, employeeName, department string, progress int) error
}

// SlackNotifier posts to a fixed channel using a bot token.
type SlackNotifier struct {
	api     *slack.Client
	channel string
	logger  *zap.Logger
}

func NewSlackNotifier(botToken, channel string, logger *zap.Logger) *SlackNotifier {
	return &SlackNotifier{
		api:     slack.New(botToken),
		channel: channel,
		logger:  logger,
	}
}

func (n *SlackNotifier) HelpRequestOpened(ctx context.Context, employeeName, requestType, message string) error {
	text := fmt.Sprintf(":raising_hand: *New help request* on %s's handover (routed to %s)\n> %s",
		employeeName, requestType, message)
	return n.post(ctx, text)
}

func (n *SlackNotifier) HandoverStalled(ctx context.Context, employeeName, department string, progress int) error {
	text := fmt.Sprintf(":hourglass_flowing_sand: *Handover stalled*: %s (%s) is stuck at %d%% progress.",
		employeeName, department, progress)
	return n.post(ctx, text)
}

func (n *SlackNotifier) post(ctx context.Context, text string) error {
	_, _, err := n.api.PostMessageContext(ctx, n.channel,
		slack.MsgOptionText(text, false),
		slack.MsgOptionDisableLinkUnfurl(),
	)
	if err != nil {
		n.logger.Warn("Slack post failed", zap.Error(err))
		return err
	}
	return nil
}

// NoopNotifier is used when no bot token is configured.
type NoopNotifier struct{}

func (NoopNotifier) HelpRequestOpened(context.Context, string, string, string) error { return nil }

func (NoopNotifier) HandoverStalled(context.Context, string, string, int) error { return nil }
