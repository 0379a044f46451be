package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	appErrors "github.com/Tomas-vilte/brainlift/internal/errors"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("xoxb-test", WithBaseURL(srv.URL))
}

func TestClient_TestConnection(t *testing.T) {
	ctx := context.Background()

	t.Run("should send the bearer token and return the identity", func(t *testing.T) {
		// Arrange
		var gotAuth, gotPath string
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotPath = r.URL.Path
			_, _ = w.Write([]byte(`{"ok":true,"team":"acme","user":"brainlift","user_id":"U123"}`))
		})

		// Act
		info, err := client.TestConnection(ctx)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Bearer xoxb-test", gotAuth)
		assert.Equal(t, "/auth.test", gotPath)
		assert.Equal(t, &models.ConnectionInfo{Team: "acme", User: "brainlift", UserID: "U123"}, info)
	})

	t.Run("should map invalid_auth to unauthorized", func(t *testing.T) {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":false,"error":"invalid_auth"}`))
		})

		_, err := client.TestConnection(ctx)

		assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
	})

	t.Run("should map other API errors to unreachable", func(t *testing.T) {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":false,"error":"ratelimited_by_workspace"}`))
		})

		_, err := client.TestConnection(ctx)

		assert.ErrorIs(t, err, appErrors.ErrChannelUnreachable)
		assert.NotErrorIs(t, err, appErrors.ErrUnauthorized)
	})

	t.Run("should map HTTP 401 to unauthorized", func(t *testing.T) {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := client.TestConnection(ctx)

		assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
	})
}

func TestClient_PostMessage(t *testing.T) {
	ctx := context.Background()
	text := models.Markdown("*Overall Score:* 🟢 92/100")
	blocks := []models.MessageBlock{
		{Type: "header", Text: models.PlainText("🧠 Brainlift Summary: api")},
		{Type: "section", Text: &text},
	}

	t.Run("should post channel, blocks and fallback text", func(t *testing.T) {
		// Arrange
		var channel, fallback string
		var posted []models.MessageBlock
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat.postMessage", r.URL.Path)
			assert.NoError(t, r.ParseForm())
			channel = r.PostForm.Get("channel")
			fallback = r.PostForm.Get("text")
			assert.NoError(t, json.Unmarshal([]byte(r.PostForm.Get("blocks")), &posted))
			_, _ = w.Write([]byte(`{"ok":true,"channel":"C123","ts":"1700000000.000100"}`))
		})

		// Act
		err := client.PostMessage(ctx, "#dev-updates", blocks, "New brainlift for api: 92/100")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "#dev-updates", channel)
		assert.Equal(t, "New brainlift for api: 92/100", fallback)
		require.Len(t, posted, 2)
		assert.Equal(t, "header", posted[0].Type)
		assert.Equal(t, "🧠 Brainlift Summary: api", posted[0].Text.Text)
		assert.Equal(t, "section", posted[1].Type)
		assert.Equal(t, "mrkdwn", posted[1].Text.Type)
		assert.Equal(t, "*Overall Score:* 🟢 92/100", posted[1].Text.Text)
	})

	t.Run("should map channel_not_found to unreachable", func(t *testing.T) {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":false,"error":"channel_not_found"}`))
		})

		err := client.PostMessage(ctx, "#missing", blocks, "x")

		assert.ErrorIs(t, err, appErrors.ErrChannelUnreachable)
		var appErr *appErrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "#missing", appErr.Context["channel"])
	})

	t.Run("should map server errors to unreachable", func(t *testing.T) {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		err := client.PostMessage(ctx, "#dev-updates", blocks, "x")

		assert.ErrorIs(t, err, appErrors.ErrChannelUnreachable)
	})

	t.Run("should map a closed server to unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		client := NewClient("xoxb-test", WithBaseURL(srv.URL))
		srv.Close()

		err := client.PostMessage(ctx, "#dev-updates", blocks, "x")

		assert.ErrorIs(t, err, appErrors.ErrChannelUnreachable)
	})
}

func TestToBlocks(t *testing.T) {
	t.Run("should convert every block kind and skip unknown ones", func(t *testing.T) {
		// Arrange
		commit := models.Markdown("*Commit:* `abc1234`")
		blocks := []models.MessageBlock{
			{Type: "header", Text: models.PlainText("Summary")},
			{Type: "section", Fields: []models.TextObject{models.Markdown("*Security:* 90/100"), models.Markdown("*Quality:* 80/100")}},
			{Type: "section", Text: &commit},
			{Type: "divider"},
			{Type: "context", Elements: []models.TextObject{models.Markdown("Generated at now")}},
			{Type: "carousel"},
		}

		// Act
		got := toBlocks(blocks)

		// Assert
		require.Len(t, got, 5)
		assert.Equal(t, slackapi.MBTHeader, got[0].BlockType())
		section, ok := got[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Nil(t, section.Text)
		require.Len(t, section.Fields, 2)
		assert.Equal(t, "*Quality:* 80/100", section.Fields[1].Text)
		assert.Equal(t, "*Commit:* `abc1234`", got[2].(*slackapi.SectionBlock).Text.Text)
		assert.Equal(t, slackapi.MBTDivider, got[3].BlockType())
		contextBlock, ok := got[4].(*slackapi.ContextBlock)
		require.True(t, ok)
		assert.Len(t, contextBlock.ContextElements.Elements, 1)
	})
}
