package ui

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/zjrosen/hunky/internal/diff"
)

// Word diff constants for performance bounds.
const (
	// wordDiffMaxLineLength skips word diff for lines exceeding this length.
	wordDiffMaxLineLength = 500
	// wordDiffMaxPairs limits word diff computation to first N pairs per hunk.
	wordDiffMaxPairs = 100
	// wordDiffTimeout is the maximum time allowed for word diff per hunk.
	wordDiffTimeout = 50 * time.Millisecond
)

// wordSegmentType indicates whether a segment is unchanged, added, or deleted.
type wordSegmentType int

const (
	segmentUnchanged wordSegmentType = iota
	segmentAdded
	segmentDeleted
)

// wordSegment represents a segment of text with its diff status.
type wordSegment struct {
	Type wordSegmentType
	Text string
}

// wordDiffResult contains the word-level diff results for a line pair.
type wordDiffResult struct {
	OldSegments []wordSegment // Segments for the deleted line
	NewSegments []wordSegment // Segments for the added line
}

// linePair represents an adjacent deletion+addition pair for word diffing.
type linePair struct {
	DeletedIdx int
	AddedIdx   int
}

// tokenize splits a line into tokens (words, whitespace, punctuation).
func tokenize(line string) []string {
	if line == "" {
		return nil
	}

	var tokens []string
	var current strings.Builder

	for _, r := range line {
		switch {
		case unicode.IsSpace(r):
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
			tokens = append(tokens, string(r))
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
			tokens = append(tokens, string(r))
		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// computeWordDiff computes word-level diff between two lines.
// Returns segments for both the old (deleted) and new (added) line.
func computeWordDiff(oldLine, newLine string) wordDiffResult {
	if oldLine == "" && newLine == "" {
		return wordDiffResult{}
	}
	if oldLine == "" {
		return wordDiffResult{
			NewSegments: []wordSegment{{Type: segmentAdded, Text: newLine}},
		}
	}
	if newLine == "" {
		return wordDiffResult{
			OldSegments: []wordSegment{{Type: segmentDeleted, Text: oldLine}},
		}
	}

	oldTokens := tokenize(oldLine)
	newTokens := tokenize(newLine)

	dmp := diffmatchpatch.New()

	// Join with a delimiter so the diff operates at token granularity.
	oldText := strings.Join(oldTokens, "\x00")
	newText := strings.Join(newTokens, "\x00")

	diffs := dmp.DiffMain(oldText, newText, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var oldSegments, newSegments []wordSegment

	for _, d := range diffs {
		text := strings.ReplaceAll(d.Text, "\x00", "")
		if text == "" {
			continue
		}

		switch d.Type {
		case diffmatchpatch.DiffEqual:
			oldSegments = append(oldSegments, wordSegment{Type: segmentUnchanged, Text: text})
			newSegments = append(newSegments, wordSegment{Type: segmentUnchanged, Text: text})
		case diffmatchpatch.DiffDelete:
			oldSegments = append(oldSegments, wordSegment{Type: segmentDeleted, Text: text})
		case diffmatchpatch.DiffInsert:
			newSegments = append(newSegments, wordSegment{Type: segmentAdded, Text: text})
		}
	}

	return wordDiffResult{OldSegments: oldSegments, NewSegments: newSegments}
}

// findLinePairs finds adjacent deletion+addition line pairs in a hunk.
// These pairs are candidates for word-level diff highlighting.
func findLinePairs(hunk diff.Hunk) []linePair {
	var pairs []linePair

	for i := 0; i < len(hunk.Lines)-1; i++ {
		if hunk.Lines[i].Kind == diff.LineDeletion && hunk.Lines[i+1].Kind == diff.LineAddition {
			pairs = append(pairs, linePair{DeletedIdx: i, AddedIdx: i + 1})
			i++ // skip the addition since it is now paired
		}
	}

	return pairs
}

// hunkWordDiff maps line index within a hunk to its word diff result.
// For a deletion line index, read OldSegments; for an addition, NewSegments.
type hunkWordDiff struct {
	Results map[int]wordDiffResult
}

// computeHunkWordDiff computes word-level diffs for a hunk, respecting
// performance bounds: max line length, max pairs, and a timeout.
func computeHunkWordDiff(hunk diff.Hunk) hunkWordDiff {
	result := hunkWordDiff{Results: make(map[int]wordDiffResult)}

	pairs := findLinePairs(hunk)
	if len(pairs) == 0 {
		return result
	}
	if len(pairs) > wordDiffMaxPairs {
		pairs = pairs[:wordDiffMaxPairs]
	}

	ctx, cancel := context.WithTimeout(context.Background(), wordDiffTimeout)
	defer cancel()

	for _, pair := range pairs {
		select {
		case <-ctx.Done():
			return result
		default:
		}

		oldLine := hunk.Lines[pair.DeletedIdx].Content
		newLine := hunk.Lines[pair.AddedIdx].Content
		if len(oldLine) > wordDiffMaxLineLength || len(newLine) > wordDiffMaxLineLength {
			continue
		}

		wd := computeWordDiff(oldLine, newLine)
		result.Results[pair.DeletedIdx] = wd
		result.Results[pair.AddedIdx] = wd
	}

	return result
}

// segmentsForLine returns word segments for a line if a word diff was
// computed for it, nil otherwise.
func (h hunkWordDiff) segmentsForLine(lineIdx int, kind diff.LineKind) []wordSegment {
	wd, ok := h.Results[lineIdx]
	if !ok {
		return nil
	}

	switch kind {
	case diff.LineDeletion:
		return wd.OldSegments
	case diff.LineAddition:
		return wd.NewSegments
	default:
		return nil
	}
}
