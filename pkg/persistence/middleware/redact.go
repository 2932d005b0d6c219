package middleware

import (
	"context"
	"regexp"
	"strings"

	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/aretw0/walkthrough/pkg/ports"
)

// Mask replaces the secret part of a redacted token.
const Mask = "***"

// DefaultSecretPatterns match the provider keys a user is asked to paste into
// .env during the walkthrough. The stub's "sk-..." placeholders do not match.
var DefaultSecretPatterns = []string{
	`sk-ant-[A-Za-z0-9_-]{8,}`,
	`sk-[A-Za-z0-9_-]{16,}`,
	`tvly-[A-Za-z0-9_-]{8,}`,
	`lsv2_[A-Za-z0-9_]{8,}`,
}

type redactMiddleware struct {
	next     ports.SessionStore
	patterns []*regexp.Regexp
}

// NewRedactMiddleware masks message content matching any pattern before it is
// stored. The token prefix up to its first separator is kept so the reader can
// tell which key it was.
func NewRedactMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		patterns[i] = re
	}
	return func(next ports.SessionStore) ports.SessionStore {
		return &redactMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *redactMiddleware) Save(ctx context.Context, session *domain.Session) error {
	// Work on a copy; the caller keeps using its session.
	cloned := session.Snapshot()

	var masked domain.Transcript
	for _, msg := range cloned.Transcript.Messages() {
		msg.Content = m.redact(msg.Content)
		masked.Append(msg)
	}
	cloned.Transcript = masked

	return m.next.Save(ctx, cloned)
}

func (m *redactMiddleware) redact(content string) string {
	for _, p := range m.patterns {
		content = p.ReplaceAllStringFunc(content, maskToken)
	}
	return content
}

func maskToken(token string) string {
	if i := strings.IndexAny(token, "-_"); i >= 0 {
		return token[:i+1] + Mask
	}
	return Mask
}

func (m *redactMiddleware) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *redactMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *redactMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
