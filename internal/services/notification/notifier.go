package notification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	"github.com/Tomas-vilte/brainlift/internal/domain/ports"
	appErrors "github.com/Tomas-vilte/brainlift/internal/errors"
	"github.com/Tomas-vilte/brainlift/internal/logger"
)

// Notifier applies the configured rule and posts the formatted report.
type Notifier struct {
	newClient ports.ChatClientFactory
	now       func() time.Time
}

func NewNotifier(factory ports.ChatClientFactory) *Notifier {
	return &Notifier{
		newClient: factory,
		now:       time.Now,
	}
}

// Notify reports what happened to the message. A suppressed or disabled
// notification is a normal outcome with a nil error; dispatch failures return
// NotifyFailed together with ErrUnauthorized or ErrChannelUnreachable.
func (n *Notifier) Notify(ctx context.Context, settings models.GlobalSettings, report models.ParsedReport, projectName string) (models.NotifyOutcome, error) {
	if !settings.SlackConfigured() {
		return models.NotifyDisabled, nil
	}

	rule := ParseRule(settings.SlackNotifyRule)
	if !ShouldNotify(rule, report) {
		logger.Debug(ctx, "notification suppressed by rule",
			"rule", string(rule),
			"overall", report.OverallScore,
			"issues", len(report.CriticalIssues))
		return models.NotifySuppressed, nil
	}

	msg := Format(report, projectName, n.now())
	if err := n.Dispatch(ctx, n.newClient(settings.SlackToken), channelOrDefault(settings.SlackChannel), msg); err != nil {
		return models.NotifyFailed, err
	}

	logger.Info(ctx, "notification sent", slog.String("channel", settings.SlackChannel))
	return models.NotifySent, nil
}

// Dispatch posts msg and normalizes failures into the notification error kinds.
func (n *Notifier) Dispatch(ctx context.Context, client ports.ChatClient, channel string, msg models.ChatMessage) error {
	err := client.PostMessage(ctx, channel, msg.Blocks, msg.Text)
	if err == nil {
		return nil
	}
	if errors.Is(err, appErrors.ErrUnauthorized) || errors.Is(err, appErrors.ErrChannelUnreachable) {
		return err
	}
	return appErrors.ErrChannelUnreachable.WithError(err).WithContext("channel", channel)
}

// TestConnection checks a token against the chat service.
func (n *Notifier) TestConnection(ctx context.Context, token string) (*models.ConnectionInfo, error) {
	if token == "" {
		return nil, appErrors.ErrUnauthorized.WithMessage("Slack token is not configured")
	}
	return n.newClient(token).TestConnection(ctx)
}

func channelOrDefault(channel string) string {
	if channel == "" {
		return models.DefaultSlackChannel
	}
	return channel
}
