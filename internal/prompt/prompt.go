// Package prompt builds the summary and suggestion prompts for one analysis run.
package prompt

import (
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/meeting-assistant/internal/domain"
)

// DefaultPersona is the system prompt for the suggestion call when no override is given.
const DefaultPersona = "あなたは信頼できるパートナーとして、会話の流れを大切にしながら、素晴らしい視点には共感を示し、議論に足りない視点には誰もがハッとするような問いをユーモアを交えて提示できます。\n" +
	"問いを出すときは、なぜその問いが必要なのか、答えなければ起こり得るリスクや未来のズレを具体例で示してください。\n" +
	"たとえば「これが話されていないと、後から〇〇で揉める可能性がある」といった視点を添えてください。\n" +
	"問いのトーンは柔らかく、それでいて鋭く。「確かに…それ、大事ですね」と思わせる問いを目指してください。"

const summaryTemplate = "以下は会議の文字起こしです。以下の4点を遵守し、事実のみをビジネス向けの丁寧な文章でまとめてください。\n" +
	"1. 議論のポイントを漏れなく\n" +
	"2. 読みやすく\n" +
	"3. 簡潔に\n" +
	"4. 構造的に\n" +
	"\n" +
	"《アジェンダ》\n" +
	"%s\n" +
	"\n" +
	"《文字起こし》\n" +
	"%s"

const suggestionTemplate = "以下は会議の文字起こしです。\n" +
	"《アジェンダ》\n" +
	"%s\n" +
	"\n" +
	"《文字起こし》\n" +
	"%s\n" +
	"\n" +
	"この内容をもとに、参加者の気づきを促すような\n" +
	"- 改善点\n" +
	"- 問い\n" +
	"- リスクとその回避策\n" +
	"\n" +
	"を具体例や理由を添えて、深い共感が得られる形で提案してください。"

// Prompts is the output of Build. Summary is sent without a system prompt;
// Suggestion is sent with SystemPersona.
type Prompts struct {
	Summary       string
	Suggestion    string
	SystemPersona string
}

// Build renders both prompts. An empty agenda renders as an empty section.
func Build(req domain.AnalysisRequest) Prompts {
	return Prompts{
		Summary:       fmt.Sprintf(summaryTemplate, req.AgendaText, req.Transcript),
		Suggestion:    fmt.Sprintf(suggestionTemplate, req.AgendaText, req.Transcript),
		SystemPersona: Persona(req.Persona),
	}
}

// Persona returns the trimmed override, or DefaultPersona when the override is blank.
func Persona(override string) string {
	if p := strings.TrimSpace(override); p != "" {
		return p
	}
	return DefaultPersona
}
