package company

import (
	"fmt"
	"regexp"
	"strings"
)

// The summarization prompt asks the model to close with a literal
// mentioned-companies clause. The clause runs from a recognized label to the
// end of its line; within it, mentions repeat as Name(Code) separated by
// 「、」. The model is allowed to hallucinate names or mis-render codes, so
// extraction is a correctness gate: only mentions whose code matches the
// reference table survive.
var (
	mentionClauseExpr = regexp.MustCompile(`(?:新聞提及公司|mentioned companies)[:：](.*)`)
	mentionExpr       = regexp.MustCompile(`([^(]+)\((\d+)\)`)
)

// NormalizeName canonicalizes a raw company name: trims, removes interior
// whitespace and separator punctuation, strips the -TW market suffix.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	replacer := strings.NewReplacer(
		"、", "",
		",", "",
		"　", "",
		" ", "",
		"-TW", "",
	)
	return replacer.Replace(name)
}

// Extract parses the first mentioned-companies clause in text and returns
// the accepted "Name(Code)" keys. Mentions whose normalized name is unknown
// or whose code disagrees with the table are silently dropped.
func (r *Reference) Extract(text string) []string {
	if r.Empty() {
		return nil
	}

	clause := mentionClauseExpr.FindStringSubmatch(text)
	if clause == nil {
		return nil
	}

	var accepted []string
	for _, m := range mentionExpr.FindAllStringSubmatch(clause[1], -1) {
		name := NormalizeName(m[1])
		code := m[2]

		correct, ok := r.CodeFor(name)
		if !ok || code != correct {
			continue
		}
		accepted = append(accepted, fmt.Sprintf("%s(%s)", name, code))
	}

	return accepted
}

// StripMentionClause returns text with the mentioned-companies clause and
// everything after it removed; used for translation and combined content.
func StripMentionClause(text string) string {
	if loc := mentionClauseExpr.FindStringIndex(text); loc != nil {
		return strings.TrimSpace(text[:loc[0]])
	}
	return strings.TrimSpace(text)
}
