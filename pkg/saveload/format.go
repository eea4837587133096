// Package saveload persists core state to a line-oriented UTF-8 text file:
// a version tag, then each component's lines in a fixed order, consumed in
// the same order on load. The manager/logger shape is adapted from the
// host engine's save manager; the wire format itself is the spec's own,
// since the engine's JSON blob format does not fit a line-oriented store.
package saveload

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/duskward/core/pkg/errs"
)

// FormatVersion is written as the save file's first line.
const FormatVersion = "duskward-save-v1"

// Writer appends lines to a save file in the fixed component order.
type Writer struct {
	w     *bufio.Writer
	count int
}

// NewWriter wraps an io.Writer and immediately writes the version line.
func NewWriter(w io.Writer) *Writer {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, FormatVersion)
	return &Writer{w: bw}
}

// Line writes one raw line verbatim.
func (w *Writer) Line(s string) {
	fmt.Fprintln(w.w, s)
	w.count++
}

// Int writes an integer as its own line.
func (w *Writer) Int(n int) { w.Line(strconv.Itoa(n)) }

// Bool writes 0 or 1.
func (w *Writer) Bool(b bool) {
	if b {
		w.Line("1")
	} else {
		w.Line("0")
	}
}

// Str writes a string, length-prefixed: "<byte-length>:<bytes>". The string
// must not contain a newline: one would split the line, and Reader.Str then
// reports a length mismatch.
func (w *Writer) Str(s string) {
	w.Line(fmt.Sprintf("%d:%s", len(s), s))
}

// Flush flushes the underlying buffered writer.
func (w *Writer) Flush() error { return w.w.Flush() }

// Reader consumes lines in the same fixed order a Writer produced them.
type Reader struct {
	lines []string
	pos   int
}

// NewReader reads every line from r, validating the version tag.
func NewReader(r io.Reader) (*Reader, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		return nil, errs.SaveCorrupt("empty save file")
	}
	if scanner.Text() != FormatVersion {
		return nil, errs.SaveCorrupt("unrecognized save version: " + scanner.Text())
	}

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.Wrap(errs.CodeSaveCorrupt, err, "reading save file")
	}
	return &Reader{lines: lines}, nil
}

// Line consumes and returns the next raw line.
func (r *Reader) Line() (string, error) {
	if r.pos >= len(r.lines) {
		return "", errs.SaveCorrupt("unexpected end of save file")
	}
	line := r.lines[r.pos]
	r.pos++
	return line, nil
}

// Int consumes the next line as an integer.
func (r *Reader) Int() (int, error) {
	line, err := r.Line()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		return 0, errs.Wrap(errs.CodeSaveCorrupt, err, "parsing integer field")
	}
	return n, nil
}

// Bool consumes the next line as a 0/1 boolean.
func (r *Reader) Bool() (bool, error) {
	line, err := r.Line()
	if err != nil {
		return false, err
	}
	switch line {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, errs.SaveCorrupt("expected 0/1 boolean, got: " + line)
	}
}

// Str consumes the next line as a length-prefixed string.
func (r *Reader) Str() (string, error) {
	line, err := r.Line()
	if err != nil {
		return "", err
	}
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return "", errs.SaveCorrupt("malformed length-prefixed string: " + line)
	}
	n, err := strconv.Atoi(line[:idx])
	if err != nil {
		return "", errs.Wrap(errs.CodeSaveCorrupt, err, "parsing string length prefix")
	}
	body := line[idx+1:]
	if len(body) != n {
		return "", errs.SaveCorrupt("string length mismatch")
	}
	return body, nil
}

// Remaining reports how many unconsumed lines are left; trailing unknown
// lines are tolerated by callers rather than treated as corruption.
func (r *Reader) Remaining() int {
	return len(r.lines) - r.pos
}
