package email

import (
	"context"
	"testing"

	"StockNews/internal/config"
)

func TestPublishDigestMisconfigured(t *testing.T) {
	t.Parallel()

	n := NewNotifier(config.EmailConfig{SMTPHost: "smtp.gmail.com", SMTPPort: 587})
	if err := n.PublishDigest(context.Background(), "subject", "body"); err == nil {
		t.Fatalf("missing credentials should fail fast")
	}
}

func TestPublishDigestCancelledContext(t *testing.T) {
	t.Parallel()

	n := NewNotifier(config.EmailConfig{
		SMTPHost:  "smtp.gmail.com",
		SMTPPort:  587,
		Sender:    "bot@example.com",
		Password:  "secret",
		Receivers: []string{"ops@example.com"},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := n.PublishDigest(ctx, "subject", "body"); err == nil {
		t.Fatalf("cancelled context should abort before dialing")
	}
}
