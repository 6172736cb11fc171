package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"NewsRater/internal/domain"
	"NewsRater/internal/ports"
)

const defaultAPIBase = "https://api.telegram.org"

// Notifier renders rated-article digests and posts them to a Telegram chat
// through the bot API. Each digest entry carries the article title, its
// overall bias score, and the link.
type Notifier struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier.
func NewNotifier(botToken, chatID string) *Notifier {
	return &Notifier{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  defaultAPIBase,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// PublishDigest formats the rated articles into one Markdown message and
// sends it. An empty batch sends nothing.
func (n *Notifier) PublishDigest(ctx context.Context, rated []domain.ArticleWithRating) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}
	if len(rated) == 0 {
		return nil
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", formatDigest(rated))
	form.Set("parse_mode", "Markdown")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}

func formatDigest(rated []domain.ArticleWithRating) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rated %d new article(s):\n\n", len(rated))
	for _, item := range rated {
		overall := "n/a"
		if item.Rating != nil && item.Rating.OverallScore != nil {
			overall = fmt.Sprintf("%.2f", *item.Rating.OverallScore)
		}
		fmt.Fprintf(&b, "- %s\nBias: %s\n%s\n\n", item.Article.Title, overall, item.Article.URL)
	}
	return strings.TrimRight(b.String(), "\n")
}
