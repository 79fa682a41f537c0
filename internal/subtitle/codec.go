package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ParseError reports a malformed track entry with the offending line.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed track at line %d: %s", e.Line, e.Reason)
}

// Parse reads SRT content into a track. Entries are blank-line separated
// blocks of index, time range, and one or more text lines.
func Parse(r io.Reader) (Track, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read track: %w", err)
	}

	var track Track
	i := 0
	for i < len(lines) {
		// skip blank separator lines
		for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
			i++
		}
		if i >= len(lines) {
			break
		}

		indexLine := strings.TrimSpace(lines[i])
		index, err := strconv.Atoi(indexLine)
		if err != nil {
			return nil, &ParseError{Line: i + 1, Reason: fmt.Sprintf("invalid subtitle index %q", indexLine)}
		}
		i++

		if i >= len(lines) {
			return nil, &ParseError{Line: i, Reason: "expected time range"}
		}
		timeLine := strings.TrimSpace(lines[i])
		parts := strings.Split(timeLine, " --> ")
		if len(parts) != 2 {
			return nil, &ParseError{Line: i + 1, Reason: fmt.Sprintf("invalid time range %q", timeLine)}
		}
		start, err := ParseTime(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, &ParseError{Line: i + 1, Reason: err.Error()}
		}
		end, err := ParseTime(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, &ParseError{Line: i + 1, Reason: err.Error()}
		}
		i++

		var textLines []string
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			textLines = append(textLines, strings.TrimRight(lines[i], " \t"))
			i++
		}

		track = append(track, Caption{
			Index: index,
			Start: start,
			End:   end,
			Text:  strings.Join(textLines, "\n"),
		})
	}

	return track, nil
}

// ParseFile reads and parses an SRT file from disk.
func ParseFile(path string) (Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open subtitle file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Write serializes a track in SRT form, one blank-line separated block per
// caption.
func Write(w io.Writer, track Track) error {
	bw := bufio.NewWriter(w)

	for _, c := range track {
		fmt.Fprintf(bw, "%d\n", c.Index)
		fmt.Fprintf(bw, "%s --> %s\n", FormatTime(c.Start), FormatTime(c.End))
		fmt.Fprintf(bw, "%s\n\n", c.Text)
	}

	return bw.Flush()
}

// WriteFile serializes a track to the given path.
func WriteFile(path string, track Track) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create subtitle file: %w", err)
	}
	defer f.Close()

	return Write(f, track)
}
