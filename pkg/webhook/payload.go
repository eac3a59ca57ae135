package webhook

import (
	"encoding/json"
	"net/url"
	"strings"
	"time"
)

// EventVote is the only event type emitted today.
const EventVote = "vote"

// User is the member who acted.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

// Target is the listing that was acted upon.
type Target struct {
	ID   string
	Type string // "bot" or "server"
	Name string
}

// Event is a single vote.
type Event struct {
	Target Target
	User   User
	At     time.Time
}

// GenericPayload is the body sent to non-Discord callbacks.
type GenericPayload struct {
	Type       string `json:"type"`
	TargetType string `json:"targetType"`
	TargetID   string `json:"targetId"`
	TargetName string `json:"targetName,omitempty"`
	User       User   `json:"user"`
	Timestamp  string `json:"timestamp"`
}

// DiscordPayload is a Discord "execute webhook" body.
type DiscordPayload struct {
	Username        string                 `json:"username,omitempty"`
	Embeds          []DiscordEmbed         `json:"embeds"`
	AllowedMentions DiscordAllowedMentions `json:"allowed_mentions"`
}

// DiscordAllowedMentions with an empty Parse list stops user supplied names
// from pinging roles or @everyone.
type DiscordAllowedMentions struct {
	Parse []string `json:"parse"`
}

type DiscordEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	URL         string         `json:"url,omitempty"`
	Color       int            `json:"color"`
	Timestamp   string         `json:"timestamp"`
	Thumbnail   *DiscordImage  `json:"thumbnail,omitempty"`
	Footer      *DiscordFooter `json:"footer,omitempty"`
}

type DiscordImage struct {
	URL string `json:"url"`
}

type DiscordFooter struct {
	Text string `json:"text"`
}

const (
	discordBlurple = 0x5865F2
	discordCDN     = "https://cdn.discordapp.com"
	embedFooter    = "DCHubs"
)

var discordHosts = map[string]struct{}{
	"discord.com":        {},
	"discordapp.com":     {},
	"canary.discord.com": {},
	"ptb.discord.com":    {},
}

// IsDiscordWebhook reports whether u is a Discord channel webhook URL.
func IsDiscordWebhook(u *url.URL) bool {
	if u == nil || u.Scheme != "https" {
		return false
	}
	if _, ok := discordHosts[strings.ToLower(u.Hostname())]; !ok {
		return false
	}
	return strings.HasPrefix(u.Path, "/api/webhooks/")
}

// ParseCallback validates a callback URL. Only absolute http(s) URLs are
// accepted.
func ParseCallback(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, ErrInvalidCallback
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidCallback
	}
	return u, nil
}

// Generic builds and serializes the generic payload.
func Generic(ev Event) ([]byte, error) {
	return json.Marshal(GenericPayload{
		Type:       EventVote,
		TargetType: ev.Target.Type,
		TargetID:   ev.Target.ID,
		TargetName: ev.Target.Name,
		User:       ev.User,
		Timestamp:  ev.At.UTC().Format(time.RFC3339Nano),
	})
}

// Discord builds and serializes an embed message. siteURL, when set, links
// the embed title to the target's listing page.
func Discord(ev Event, siteURL string) ([]byte, error) {
	name := ev.Target.Name
	if name == "" {
		name = ev.Target.ID
	}

	embed := DiscordEmbed{
		Title:       "New vote for " + name,
		Description: "**" + escapeMarkdown(ev.User.Username) + "** voted for this " + ev.Target.Type + ".",
		Color:       discordBlurple,
		Timestamp:   ev.At.UTC().Format(time.RFC3339),
		Footer:      &DiscordFooter{Text: embedFooter},
	}
	if siteURL != "" {
		embed.URL = strings.TrimSuffix(siteURL, "/") + "/" + ev.Target.Type + "s/" + url.PathEscape(ev.Target.ID)
	}
	if av := avatarURL(ev.User); av != "" {
		embed.Thumbnail = &DiscordImage{URL: av}
	}

	return json.Marshal(DiscordPayload{
		Username:        embedFooter,
		Embeds:          []DiscordEmbed{embed},
		AllowedMentions: DiscordAllowedMentions{Parse: []string{}},
	})
}

// avatarURL resolves a Discord avatar hash to its CDN URL. Values that are
// already absolute URLs pass through.
func avatarURL(u User) string {
	switch {
	case u.Avatar == "":
		return ""
	case strings.HasPrefix(u.Avatar, "https://"):
		return u.Avatar
	case u.ID == "":
		return ""
	}
	ext := ".png"
	if strings.HasPrefix(u.Avatar, "a_") {
		ext = ".gif"
	}
	return discordCDN + "/avatars/" + url.PathEscape(u.ID) + "/" + url.PathEscape(u.Avatar) + ext
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "~", `\~`, "`", "\\`", "|", `\|`, ">", `\>`,
)

func escapeMarkdown(s string) string { return markdownEscaper.Replace(s) }
