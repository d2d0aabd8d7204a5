package sentiment

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"StockNews/internal/company"
	"StockNews/internal/domain"
	"StockNews/internal/ports"
)

// Analyzer runs the summarization and dual-classifier scoring stages for a
// single article. Failures of either collaborator degrade to the documented
// neutral defaults; they never abort the batch.
type Analyzer struct {
	chat       ports.ChatClient
	classifier ports.TextClassifier
	wPrimary   float64
	wSecondary float64
	logger     *slog.Logger
}

// NewAnalyzer wires the generation service and the secondary classifier.
func NewAnalyzer(chat ports.ChatClient, classifier ports.TextClassifier, wPrimary, wSecondary float64, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		chat:       chat,
		classifier: classifier,
		wPrimary:   wPrimary,
		wSecondary: wSecondary,
		logger:     logger,
	}
}

// Summarize produces the bounded free-text summary ending with the
// mentioned-companies clause. On service failure the article keeps an empty
// summary, which later yields a company-less expanded row.
func (a *Analyzer) Summarize(ctx context.Context, title, content string) string {
	resp, err := a.chat.Chat(ctx, SummaryPrompt(title, content))
	if err != nil {
		a.warn("summary generation failed", "title", title, "error", err)
		return ""
	}
	return strings.TrimSpace(resp)
}

// Score runs the primary classification and the translation plus secondary
// classification concurrently, joins both branches and fuses the two scores
// into article.FinalScore. Both branches must resolve, to a real verdict or
// the neutral default, before fusion.
func (a *Analyzer) Score(ctx context.Context, article *domain.Article) {
	primary := domain.Classification{Label: domain.LabelNeutral, Confidence: 0.5}
	secondary := domain.Classification{Label: domain.LabelNeutral, Confidence: 0.5}
	translation := ""

	if strings.TrimSpace(article.Summary) != "" {
		var g errgroup.Group

		g.Go(func() error {
			resp, err := a.chat.Chat(ctx, LabelPrompt(article.Summary))
			if err != nil {
				a.warn("primary classification failed", "article", article.ID, "error", err)
				return nil
			}
			primary.Label, primary.Confidence = ParseClassification(resp)
			return nil
		})

		g.Go(func() error {
			content := company.StripMentionClause(article.Summary)
			resp, err := a.chat.Chat(ctx, TranslatePrompt(content))
			if err != nil {
				a.warn("translation failed", "article", article.ID, "error", err)
				return nil
			}
			translation = strings.TrimSpace(resp)
			if translation == "" {
				return nil
			}
			secondary.Label, secondary.Confidence = a.classifier.Classify(translation)
			return nil
		})

		_ = g.Wait()
	}

	primary.Score = Score(primary.Label, primary.Confidence)
	secondary.Score = Score(secondary.Label, secondary.Confidence)

	article.Translation = translation
	article.Primary = primary
	article.Secondary = secondary
	article.FinalScore = Fuse(primary.Score, secondary.Score, a.wPrimary, a.wSecondary)
}

func (a *Analyzer) warn(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}
