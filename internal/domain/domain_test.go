package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeExt(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{".PDF", "pdf"},
		{"docx", "docx"},
		{" .Txt ", "txt"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeExt(tt.in), tt.in)
	}
}

func TestAgendaBundleCombinedText(t *testing.T) {
	b := NewAgendaBundle([]ExtractionResult{
		Text("a.txt", "議題: 予算"),
		Failure("b.pdf", errors.New("broken xref")),
		Text("c.txt", "議題: 人員"),
	})

	assert.Equal(t, "議題: 予算\n\n(読み込みエラー: b.pdf)\n\n議題: 人員", b.CombinedText())
	assert.Equal(t, 3, b.Len())
}

func TestAgendaBundleIsImmutable(t *testing.T) {
	in := []ExtractionResult{Text("a.txt", "one")}
	b := NewAgendaBundle(in)

	in[0].Text = "changed"
	out := b.Results()
	out[0].Text = "changed again"

	assert.Equal(t, "one", b.Results()[0].Text)
}

func TestEmptyBundle(t *testing.T) {
	b := NewAgendaBundle(nil)
	assert.Equal(t, "", b.CombinedText())
	assert.Equal(t, 0, b.Len())
}
