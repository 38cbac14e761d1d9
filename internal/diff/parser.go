package diff

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	diffHeaderRegex = regexp.MustCompile(`^diff --git a/(.*) b/(.*)$`)
	hunkHeaderRegex = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@(.*)$`)
	binaryRegex     = regexp.MustCompile(`^Binary files .* differ$`)
	renameFromRegex = regexp.MustCompile(`^rename from (.*)$`)
	renameToRegex   = regexp.MustCompile(`^rename to (.*)$`)
	newFileRegex    = regexp.MustCompile(`^new file mode`)
	deletedRegex    = regexp.MustCompile(`^deleted file mode`)
)

// Parse converts raw `git diff` output into FileChanges with classified
// lines and content-derived hunk IDs. Returns an empty slice for empty
// input. Lines that cannot be classified (corrupt or truncated output) are
// skipped rather than failing the whole parse.
func Parse(raw string) []FileChange {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var files []FileChange

	var (
		current    *FileChange
		curLines   []Line
		curOldStr  int
		curOldCnt  int
		curNewStr  int
		curNewCnt  int
		curHeader  string
		inHunk     bool
		oldLineNum int
		newLineNum int
	)

	flushHunk := func() {
		if !inHunk || current == nil {
			return
		}
		current.Hunks = append(current.Hunks, NewHunk(
			current.Path, curOldStr, curOldCnt, curNewStr, curNewCnt, curHeader, curLines,
		))
		curLines = nil
		inHunk = false
	}

	flushFile := func() {
		flushHunk()
		if current != nil {
			files = append(files, *current)
			current = nil
		}
	}

	// git output ends in a newline; splitting without trimming it would
	// leave a trailing "" that the empty-context-line branch below would
	// append to the final hunk, corrupting its content hash.
	lines := strings.Split(strings.TrimSuffix(raw, "\n"), "\n")
	for _, line := range lines {
		if m := diffHeaderRegex.FindStringSubmatch(line); m != nil {
			flushFile()
			current = &FileChange{
				Path:    m[2],
				OldPath: m[1],
				Status:  StatusModified,
			}
			continue
		}

		if current == nil {
			continue
		}

		switch {
		case newFileRegex.MatchString(line):
			current.Status = StatusAdded
			continue
		case deletedRegex.MatchString(line):
			current.Status = StatusDeleted
			current.Path = current.OldPath
			continue
		case binaryRegex.MatchString(line):
			current.IsBinary = true
			continue
		}
		if m := renameFromRegex.FindStringSubmatch(line); m != nil {
			current.Status = StatusRenamed
			current.OldPath = m[1]
			continue
		}
		if m := renameToRegex.FindStringSubmatch(line); m != nil {
			current.Status = StatusRenamed
			current.Path = m[1]
			continue
		}
		if strings.HasPrefix(line, "--- ") || strings.HasPrefix(line, "+++ ") ||
			strings.HasPrefix(line, "index ") || strings.HasPrefix(line, "similarity index") ||
			strings.HasPrefix(line, "old mode") || strings.HasPrefix(line, "new mode") {
			continue
		}

		if m := hunkHeaderRegex.FindStringSubmatch(line); m != nil {
			flushHunk()
			curOldStr = atoiOr(m[1], 0)
			curOldCnt = atoiOr(m[2], 1)
			curNewStr = atoiOr(m[3], 0)
			curNewCnt = atoiOr(m[4], 1)
			curHeader = strings.TrimSpace(m[5])
			oldLineNum = curOldStr
			newLineNum = curNewStr
			inHunk = true
			continue
		}

		if !inHunk {
			continue
		}

		switch {
		case strings.HasPrefix(line, "+"):
			curLines = append(curLines, Line{
				Kind:       LineAddition,
				NewLineNum: newLineNum,
				Content:    line[1:],
			})
			current.Additions++
			newLineNum++
		case strings.HasPrefix(line, "-"):
			curLines = append(curLines, Line{
				Kind:       LineDeletion,
				OldLineNum: oldLineNum,
				Content:    line[1:],
			})
			current.Deletions++
			oldLineNum++
		case strings.HasPrefix(line, " "):
			curLines = append(curLines, Line{
				Kind:       LineContext,
				OldLineNum: oldLineNum,
				NewLineNum: newLineNum,
				Content:    line[1:],
			})
			oldLineNum++
			newLineNum++
		case strings.HasPrefix(line, `\`):
			// "\ No newline at end of file" - metadata, not content
		case line == "":
			// Some git versions emit context lines with the leading
			// space stripped when the line itself is empty.
			curLines = append(curLines, Line{
				Kind:       LineContext,
				OldLineNum: oldLineNum,
				NewLineNum: newLineNum,
			})
			oldLineNum++
			newLineNum++
		}
	}

	flushFile()
	return files
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
