package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"citations", "John Doe[1][2] won the Premier League[3] in 2010.", "John Doe won the Premier League in 2010."},
		{"parentheticals", "John Doe (born 1985) is a footballer (midfielder) from England.", "John Doe is a footballer from England."},
		{"footnote words", "Chelsea[a] and Arsenal[note][12b]", "Chelsea and Arsenal"},
		{"remaining brackets", "Total [citation needed] 477", "Total 477"},
		{"whitespace", "  1.85 m\n\t(6 ft 1 in)  ", "1.85 m"},
		{"tags", "<b>England</b> U21", "England U21"},
		{"glyphs", "Arsenal† 98*", "Arsenal 98"},
		{"compatibility forms", "ﬁnal", "final"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestClean_NestedParenthesesStopAtFirstClose(t *testing.T) {
	// The inner close paren ends the strip; the tail survives.
	assert.Equal(t, "Doe tail) rest", Clean("Doe (outer (inner) tail) rest"))
}
