package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/hunky/internal/diff"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single word", "hello", []string{"hello"}},
		{"words and spaces", "a b", []string{"a", " ", "b"}},
		{"punctuation splits", "foo.bar()", []string{"foo", ".", "bar", "(", ")"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenize(tt.input))
		})
	}
}

func TestComputeWordDiff(t *testing.T) {
	t.Run("both empty", func(t *testing.T) {
		wd := computeWordDiff("", "")
		assert.Empty(t, wd.OldSegments)
		assert.Empty(t, wd.NewSegments)
	})

	t.Run("pure addition", func(t *testing.T) {
		wd := computeWordDiff("", "new line")
		require.Len(t, wd.NewSegments, 1)
		assert.Equal(t, segmentAdded, wd.NewSegments[0].Type)
	})

	t.Run("single word change", func(t *testing.T) {
		wd := computeWordDiff("count := 1", "count := 2")

		var oldChanged, newChanged strings.Builder
		for _, s := range wd.OldSegments {
			if s.Type == segmentDeleted {
				oldChanged.WriteString(s.Text)
			}
		}
		for _, s := range wd.NewSegments {
			if s.Type == segmentAdded {
				newChanged.WriteString(s.Text)
			}
		}
		assert.Equal(t, "1", oldChanged.String())
		assert.Equal(t, "2", newChanged.String())
	})

	t.Run("segments reassemble original lines", func(t *testing.T) {
		oldLine, newLine := "func foo(a int) error {", "func foo(a, b int) error {"
		wd := computeWordDiff(oldLine, newLine)

		var oldText, newText strings.Builder
		for _, s := range wd.OldSegments {
			oldText.WriteString(s.Text)
		}
		for _, s := range wd.NewSegments {
			newText.WriteString(s.Text)
		}
		assert.Equal(t, oldLine, oldText.String())
		assert.Equal(t, newLine, newText.String())
	})
}

func TestFindLinePairs(t *testing.T) {
	hunk := diff.Hunk{Lines: []diff.Line{
		{Kind: diff.LineContext, Content: "ctx"},
		{Kind: diff.LineDeletion, Content: "old"},
		{Kind: diff.LineAddition, Content: "new"},
		{Kind: diff.LineAddition, Content: "extra"},
		{Kind: diff.LineDeletion, Content: "lonely"},
	}}

	pairs := findLinePairs(hunk)
	require.Len(t, pairs, 1)
	assert.Equal(t, 1, pairs[0].DeletedIdx)
	assert.Equal(t, 2, pairs[0].AddedIdx)
}

func TestComputeHunkWordDiff(t *testing.T) {
	hunk := diff.NewHunk("f.go", 1, 2, 1, 2, "", []diff.Line{
		{Kind: diff.LineDeletion, Content: "x := 1"},
		{Kind: diff.LineAddition, Content: "x := 2"},
	})

	wd := computeHunkWordDiff(hunk)
	require.Len(t, wd.Results, 2)

	oldSegs := wd.segmentsForLine(0, diff.LineDeletion)
	newSegs := wd.segmentsForLine(1, diff.LineAddition)
	assert.NotEmpty(t, oldSegs)
	assert.NotEmpty(t, newSegs)

	assert.Nil(t, wd.segmentsForLine(0, diff.LineContext))
	assert.Nil(t, wd.segmentsForLine(5, diff.LineAddition))
}

func TestComputeHunkWordDiff_SkipsLongLines(t *testing.T) {
	long := strings.Repeat("x", wordDiffMaxLineLength+1)
	hunk := diff.NewHunk("f.go", 1, 1, 1, 1, "", []diff.Line{
		{Kind: diff.LineDeletion, Content: long},
		{Kind: diff.LineAddition, Content: long + "y"},
	})

	wd := computeHunkWordDiff(hunk)
	assert.Empty(t, wd.Results)
}
