package company

import (
	"testing"

	"StockNews/internal/domain"
)

func TestExpandOneRowPerAcceptedCompany(t *testing.T) {
	t.Parallel()

	ref := NewReference([]string{"台積電", "鴻海"}, []string{"2330", "2317"})
	articles := []domain.Article{
		{Summary: "供應鏈齊揚。新聞提及公司:台積電(2330)、鴻海(2317)", FinalScore: 0.8},
	}

	rows := Expand(articles, ref)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Company != "台積電(2330)" || rows[1].Company != "鴻海(2317)" {
		t.Fatalf("companies = %q, %q", rows[0].Company, rows[1].Company)
	}
	for _, row := range rows {
		if row.Article.FinalScore != 0.8 {
			t.Fatalf("article not carried into row: %+v", row)
		}
	}
}

func TestExpandCompanylessRow(t *testing.T) {
	t.Parallel()

	ref := NewReference([]string{"台積電"}, []string{"2330"})
	articles := []domain.Article{
		{Summary: "大盤觀望氣氛濃。"},
		{Summary: "新聞提及公司:幻影公司(0000)"},
	}

	rows := Expand(articles, ref)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	for _, row := range rows {
		if row.Company != "" {
			t.Fatalf("expected company-less row, got %q", row.Company)
		}
	}
}

func TestExpandDeduplicates(t *testing.T) {
	t.Parallel()

	ref := NewReference([]string{"台積電"}, []string{"2330"})
	articles := []domain.Article{
		{Summary: "先進製程滿載。新聞提及公司:台積電(2330)、台積電(2330)"},
		{Summary: "先進製程滿載。新聞提及公司:台積電(2330)、台積電(2330)"},
	}

	rows := Expand(articles, ref)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1 after dedup", len(rows))
	}
}
