package webhook_test

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/dchubs/hub/pkg/webhook"
	"github.com/stretchr/testify/require"
)

func mustURL(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	require.NoError(t, err)
	return u
}

func TestIsDiscordWebhook(t *testing.T) {
	tests := map[string]bool{
		"https://discord.com/api/webhooks/123/abc":        true,
		"https://discordapp.com/api/webhooks/123/abc":     true,
		"https://canary.discord.com/api/webhooks/123/abc": true,
		"https://PTB.Discord.com/api/webhooks/123/abc":    true,
		"https://discord.com/api/v10/channels/1":          false,
		"http://discord.com/api/webhooks/123/abc":         false,
		"https://discord.com.evil.example/api/webhooks/1": false,
		"https://evil.example/api/webhooks/123/abc":       false,
		"https://example.com/hooks/vote":                  false,
	}

	for raw, want := range tests {
		t.Run(raw, func(t *testing.T) {
			require.Equal(t, want, webhook.IsDiscordWebhook(mustURL(t, raw)))
		})
	}
	require.False(t, webhook.IsDiscordWebhook(nil))
}

func TestParseCallback(t *testing.T) {
	_, err := webhook.ParseCallback("https://example.com/hook")
	require.NoError(t, err)

	for _, bad := range []string{"", "example.com/hook", "ftp://example.com", "javascript:alert(1)", "https://"} {
		_, err := webhook.ParseCallback(bad)
		require.ErrorIs(t, err, webhook.ErrInvalidCallback, bad)
	}
}

var testEvent = webhook.Event{
	Target: webhook.Target{ID: "42", Type: "bot", Name: "Helper"},
	User:   webhook.User{ID: "1001", Username: "alice_*", Avatar: "a_abc"},
	At:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
}

func TestGeneric(t *testing.T) {
	body, err := webhook.Generic(testEvent)
	require.NoError(t, err)

	require.JSONEq(t, `{
		"type": "vote",
		"targetType": "bot",
		"targetId": "42",
		"targetName": "Helper",
		"user": {"id": "1001", "username": "alice_*", "avatar": "a_abc"},
		"timestamp": "2026-01-02T03:04:05Z"
	}`, string(body))
}

func TestDiscord(t *testing.T) {
	body, err := webhook.Discord(testEvent, "https://dchubs.org/")
	require.NoError(t, err)

	var p webhook.DiscordPayload
	require.NoError(t, json.Unmarshal(body, &p))
	require.Len(t, p.Embeds, 1)
	require.NotNil(t, p.AllowedMentions.Parse)
	require.Empty(t, p.AllowedMentions.Parse)

	e := p.Embeds[0]
	require.Equal(t, "New vote for Helper", e.Title)
	require.Contains(t, e.Description, `alice\_\*`)
	require.Equal(t, "https://dchubs.org/bots/42", e.URL)
	require.Equal(t, "https://cdn.discordapp.com/avatars/1001/a_abc.gif", e.Thumbnail.URL)
	require.Equal(t, "2026-01-02T03:04:05Z", e.Timestamp)
}

func TestDiscord_Minimal(t *testing.T) {
	ev := testEvent
	ev.Target.Name = ""
	ev.User.Avatar = ""

	body, err := webhook.Discord(ev, "")
	require.NoError(t, err)

	var p webhook.DiscordPayload
	require.NoError(t, json.Unmarshal(body, &p))
	require.Equal(t, "New vote for 42", p.Embeds[0].Title)
	require.Empty(t, p.Embeds[0].URL)
	require.Nil(t, p.Embeds[0].Thumbnail)
}
