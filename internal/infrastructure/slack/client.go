// Package slack posts report summaries through the Slack Web API.
package slack

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	"github.com/Tomas-vilte/brainlift/internal/domain/ports"
	appErrors "github.com/Tomas-vilte/brainlift/internal/errors"
	"github.com/Tomas-vilte/brainlift/internal/infrastructure/httpclient"
	slackapi "github.com/slack-go/slack"
)

var authErrors = map[string]bool{
	"invalid_auth":     true,
	"not_authed":       true,
	"token_revoked":    true,
	"token_expired":    true,
	"account_inactive": true,
	"missing_scope":    true,
}

type Client struct {
	api *slackapi.Client
}

type clientOptions struct {
	http    httpclient.HTTPClient
	baseURL string
}

type Option func(*clientOptions)

func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		o.baseURL = baseURL
	}
}

func WithHTTPClient(h httpclient.HTTPClient) Option {
	return func(o *clientOptions) {
		o.http = h
	}
}

func NewClient(token string, opts ...Option) *Client {
	o := &clientOptions{http: httpclient.NewBearerClient(token)}
	for _, opt := range opts {
		opt(o)
	}

	apiOpts := []slackapi.Option{slackapi.OptionHTTPClient(o.http)}
	if o.baseURL != "" {
		apiOpts = append(apiOpts, slackapi.OptionAPIURL(o.baseURL))
	}
	return &Client{api: slackapi.New(token, apiOpts...)}
}

// Factory binds options to a ChatClientFactory for the notifier.
func Factory(opts ...Option) ports.ChatClientFactory {
	return func(token string) ports.ChatClient {
		return NewClient(token, opts...)
	}
}

var _ ports.ChatClient = (*Client)(nil)

func (c *Client) TestConnection(ctx context.Context) (*models.ConnectionInfo, error) {
	resp, err := c.api.AuthTestContext(ctx)
	if err != nil {
		return nil, mapError("auth.test", err)
	}
	return &models.ConnectionInfo{Team: resp.Team, User: resp.User, UserID: resp.UserID}, nil
}

func (c *Client) PostMessage(ctx context.Context, channel string, blocks []models.MessageBlock, fallbackText string) error {
	_, _, err := c.api.PostMessageContext(ctx, channel,
		slackapi.MsgOptionBlocks(toBlocks(blocks)...),
		slackapi.MsgOptionText(fallbackText, false),
	)
	if err != nil {
		return mapError("chat.postMessage", err).WithContext("channel", channel)
	}
	return nil
}

// mapError splits failures into credential problems and everything else.
func mapError(method string, err error) *appErrors.AppError {
	var apiErr slackapi.SlackErrorResponse
	if errors.As(err, &apiErr) {
		if authErrors[apiErr.Err] {
			return appErrors.ErrUnauthorized.WithError(err).WithContext("slack_error", apiErr.Err)
		}
		return appErrors.ErrChannelUnreachable.WithError(err).
			WithContext("method", method).
			WithContext("slack_error", apiErr.Err)
	}

	var statusErr slackapi.StatusCodeError
	if errors.As(err, &statusErr) {
		if statusErr.Code == http.StatusUnauthorized || statusErr.Code == http.StatusForbidden {
			return appErrors.ErrUnauthorized.WithError(err).WithContext("status", statusErr.Code)
		}
		return appErrors.ErrChannelUnreachable.WithError(err).
			WithContext("method", method).
			WithContext("status", statusErr.Code)
	}

	return appErrors.ErrChannelUnreachable.WithError(err).WithContext("method", method)
}

func toBlocks(blocks []models.MessageBlock) []slackapi.Block {
	out := make([]slackapi.Block, 0, len(blocks))
	for _, b := range blocks {
		switch slackapi.MessageBlockType(b.Type) {
		case slackapi.MBTHeader:
			out = append(out, slackapi.NewHeaderBlock(textObject(b.Text)))
		case slackapi.MBTSection:
			fields := make([]*slackapi.TextBlockObject, 0, len(b.Fields))
			for i := range b.Fields {
				fields = append(fields, textObject(&b.Fields[i]))
			}
			if len(fields) == 0 {
				fields = nil
			}
			out = append(out, slackapi.NewSectionBlock(textObject(b.Text), fields, nil))
		case slackapi.MBTDivider:
			out = append(out, slackapi.NewDividerBlock())
		case slackapi.MBTContext:
			elements := make([]slackapi.MixedElement, 0, len(b.Elements))
			for i := range b.Elements {
				elements = append(elements, textObject(&b.Elements[i]))
			}
			out = append(out, slackapi.NewContextBlock("", elements...))
		}
	}
	return out
}

func textObject(t *models.TextObject) *slackapi.TextBlockObject {
	if t == nil {
		return nil
	}
	return slackapi.NewTextBlockObject(t.Type, t.Text, t.Emoji, false)
}
