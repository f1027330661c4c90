package report

import (
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/meeting-assistant/internal/domain"
)

const (
	fontName = "Yu Gothic"
	fontSize = 11
)

var (
	reHeading = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet  = regexp.MustCompile(`^(?:[\-\*]\s+|・\s*)(.+)$`)
	reNumbered = regexp.MustCompile(`^(\d+)[\.．)]\s*(.+)$`)
)

type lineKind int

const (
	lineText lineKind = iota
	lineHeading
	lineBullet
	lineNumbered
)

// markdownLine is one non-empty line of model output, classified.
type markdownLine struct {
	kind   lineKind
	level  int
	marker string
	text   string
}

// parseLine classifies a trimmed markdown line. ok is false for blank lines
// and horizontal rules.
func parseLine(trimmed string) (markdownLine, bool) {
	if trimmed == "" || trimmed == "---" {
		return markdownLine{}, false
	}
	if m := reHeading.FindStringSubmatch(trimmed); m != nil {
		return markdownLine{kind: lineHeading, level: len(m[1]), text: m[2]}, true
	}
	if m := reBullet.FindStringSubmatch(trimmed); m != nil {
		return markdownLine{kind: lineBullet, marker: "•", text: m[1]}, true
	}
	if m := reNumbered.FindStringSubmatch(trimmed); m != nil {
		return markdownLine{kind: lineNumbered, marker: m[1] + ".", text: m[2]}, true
	}
	return markdownLine{kind: lineText, text: trimmed}, true
}

// WriteDocx renders the summary and suggestion into one styled document.
// Model output is markdown; headings, bullets and bold runs are kept.
func WriteDocx(path, title string, result domain.AnalysisResult) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), title, true, 16)
	if !result.FinishedAt.IsZero() {
		addStyledRun(doc.AddParagraph(""), result.FinishedAt.Format("2006-01-02 15:04"), false, fontSize)
	}

	addSection(doc, "要約", result.Summary)
	addSection(doc, "提案", result.Suggestion)

	return doc.SaveTo(path)
}

func addSection(doc *docx.RootDoc, heading, markdown string) {
	doc.AddParagraph("")
	addStyledRun(doc.AddParagraph(""), heading, true, 15)

	for _, raw := range strings.Split(markdown, "\n") {
		line, ok := parseLine(strings.TrimSpace(raw))
		if !ok {
			continue
		}

		switch line.kind {
		case lineHeading:
			addStyledRun(doc.AddParagraph(""), line.text, true, headingSize(line.level))
		case lineBullet:
			addRichText(doc.AddParagraph(""), line.marker+" "+line.text)
		case lineNumbered:
			// bold number, then the item text
			p := doc.AddParagraph("")
			p.AddText(line.marker+" ").Font(fontName).Size(fontSize).Color("000000").Bold(true)
			addRichText(p, line.text)
		default:
			addRichText(doc.AddParagraph(""), line.text)
		}
	}
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 14
	case 2:
		return 13
	case 3:
		return 12
	default:
		return fontSize
	}
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	text = cleanMarkdownInline(text)
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanMarkdownInline(part)).Font(fontName).Size(fontSize).Color("000000")
		}
		if i < len(matches) {
			p.AddText(cleanMarkdownInline(matches[i][1])).Font(fontName).Size(fontSize).Color("000000").Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
