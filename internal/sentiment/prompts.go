package sentiment

import "fmt"

// Prompts sent to the generation service. They match the production wording
// the model was tuned against; keep edits minimal and in Traditional
// Chinese.

const summaryPromptTemplate = `你是一位財經新聞摘要助手。請閱讀以下新聞，並用繁體中文寫出不超過四句話的總結,並遵守以下規範：
1. 直接產出總結內容，不需要說明或引言。
2. 總結內容請聚焦於投資相關資訊，並強調新聞中提及的股票公司。
3. 於總結最後條列出這個新聞報導的所有股票公司，格式範例如下：「新聞提及公司:台積電(2330)、鴻海(2317)」，並使用「、」隔開公司。若無提及公司則不需列出。

標題：%s
內文：%s`

const labelPromptTemplate = `你是一位財經新聞閱讀助手。請閱讀以下新聞摘要，判斷這段新聞的資訊，以投資的角度而言是正面訊息還是負面訊息，並遵守以下規範：
1. 僅輸出兩行，格式為「標籤:正面」與「信心:0.85」，不需要說明或引言。
2. 標籤只能是「正面」、「負面」或「中性」，若沒有明顯的正面或負面資訊才輸出「中性」，但請盡量避免此種判斷。
3. 信心為 0 到 1 之間的數值，代表你對標籤的把握程度。

新聞摘要：%s`

const translatePromptTemplate = `你是一位財經新聞翻譯助手。請用英文翻譯以下新聞摘要，並遵守以下規範：
1. 直接輸出翻譯結果，不需要說明或引言。
2. 請不要改變新聞原意與使用某些偏正向的詞彙。

新聞摘要：%s`

// SummaryPrompt builds the article summarization prompt.
func SummaryPrompt(title, content string) string {
	return fmt.Sprintf(summaryPromptTemplate, title, content)
}

// LabelPrompt builds the primary-classification prompt.
func LabelPrompt(summary string) string {
	return fmt.Sprintf(labelPromptTemplate, summary)
}

// TranslatePrompt builds the summary translation prompt.
func TranslatePrompt(content string) string {
	return fmt.Sprintf(translatePromptTemplate, content)
}
