package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{"simple", "<p>學而時習之</p>", "學而時習之"},
		{"collapses whitespace", "<h1>標題</h1>\n\n<p>第一段\n  第二行</p>", "標題 第一段 第二行"},
		{"tags separate words", "<li>one</li><li>two</li>", "one two"},
		{"entities", "<p>A &amp; B &lt;tag&gt; &#34;q&#34;</p>", `A & B <tag> "q"`},
		{"literal less-than", "<p>1 < 2 and 3 <= 4</p>", "1 < 2 and 3 <= 4"},
		{"comments", "before<!-- QUIZ:0 -->after", "before after"},
		{"unterminated tag", "text <span class=\"x", `text <span class="x`},
		{"unterminated after closed tag", "<p>一</p> 二 <b 三", "一 二 <b 三"},
		{"script and style", "<script>var x = 1;</script><style>p{}</style><p>body</p>", "body"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.markup))
		})
	}
}
