package company

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"StockNews/internal/ports"
)

const narrativePromptTemplate = `你是一位財經新聞分析助手。以下是今日與「%s」相關的新聞摘要整合，請用繁體中文寫出一段不超過五句話的公司盤前總結，並遵守以下規範：
1. 直接產出總結內容，不需要說明或引言。
2. 聚焦於對投資人有意義的資訊，包含營運、訂單、展望與風險。

新聞整合內容：%s`

const validationPromptTemplate = `你是一位內容審核助手。請判斷以下總結是否確實在討論「%s」這間公司，且內容完整通順。只回答 YES 或 NO，不需要其他說明。

總結內容：%s`

// minNarrativeLength is the shortest narrative worth validating, in runes.
const minNarrativeLength = 5

// Narrator generates the per-company narrative and runs it through the
// validation gate. A narrative that fails generation, validation, or the
// gate itself yields the empty string: the deliberate policy is to drop a
// company rather than publish an unrelated or degenerate narrative.
type Narrator struct {
	chat   ports.ChatClient
	logger *slog.Logger
}

// NewNarrator wires the generation service used for both calls.
func NewNarrator(chat ports.ChatClient, logger *slog.Logger) *Narrator {
	return &Narrator{chat: chat, logger: logger}
}

// Narrate produces a validated narrative for the record, or "" when the
// record should be dropped.
func (n *Narrator) Narrate(ctx context.Context, companyKey, combinedContent string) string {
	resp, err := n.chat.Chat(ctx, fmt.Sprintf(narrativePromptTemplate, companyKey, combinedContent))
	if err != nil {
		n.warn("narrative generation failed", "company", companyKey, "error", err)
		return ""
	}

	narrative := strings.TrimSpace(resp)
	if !n.validate(ctx, companyKey, narrative) {
		return ""
	}
	return narrative
}

// validate asks the generation service for a YES/NO verdict. Errors fail
// closed: a broken gate must not let unchecked narratives through.
func (n *Narrator) validate(ctx context.Context, companyKey, narrative string) bool {
	if utf8.RuneCountInString(narrative) < minNarrativeLength {
		n.warn("narrative too short", "company", companyKey)
		return false
	}

	resp, err := n.chat.Chat(ctx, fmt.Sprintf(validationPromptTemplate, companyKey, narrative))
	if err != nil {
		n.warn("narrative validation errored, dropping record", "company", companyKey, "error", err)
		return false
	}

	verdict := strings.ToUpper(strings.TrimSpace(resp))
	if !strings.Contains(verdict, "YES") {
		n.warn("narrative rejected by validation", "company", companyKey, "verdict", verdict)
		return false
	}
	return true
}

func (n *Narrator) warn(msg string, args ...any) {
	if n.logger != nil {
		n.logger.Warn(msg, args...)
	}
}
