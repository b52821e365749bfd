package tuitest

import (
	"regexp"
	"strings"
)

// Frame is one screen's worth of output between clears. Plain has escape
// sequences removed and trailing blanks trimmed.
type Frame struct {
	Index int
	ANSI  string
	Plain string
}

var (
	clearPattern = regexp.MustCompile(`\x1b\[[0-9;]*J`)
	csiPattern   = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)
	oscPattern   = regexp.MustCompile(`\x1b\][^\x07]*(\x07|\x1b\\)`)
	shiftPattern = regexp.MustCompile("[\x0e\x0f]")
)

// parseFrames cuts the raw stream at every erase-display sequence. A stream
// with no clears becomes a single frame.
func parseFrames(raw []byte) []Frame {
	stream := strings.ReplaceAll(string(raw), "\r", "")
	var frames []Frame
	for _, chunk := range clearPattern.Split(stream, -1) {
		chunk = strings.TrimPrefix(strings.Trim(chunk, "\x00"), "\x1b[H")
		plain := normalizeLines(stripANSI(chunk))
		if strings.TrimSpace(plain) == "" {
			continue
		}
		frames = append(frames, Frame{Index: len(frames), ANSI: chunk, Plain: plain})
	}
	if len(frames) == 0 && stream != "" {
		frames = append(frames, Frame{ANSI: stream, Plain: normalizeLines(stripANSI(stream))})
	}
	return frames
}

// FinalFrame returns the last captured frame. The second return value is false
// when no frames were recorded.
func (r *Recording) FinalFrame() (Frame, bool) {
	if r == nil || len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}

// Contains reports whether any frame's plain text contains text.
func (r *Recording) Contains(text string) bool {
	_, ok := r.LastFrameContaining(text)
	return ok
}

// LastFrameContaining returns the latest frame whose plain text contains
// text.
func (r *Recording) LastFrameContaining(text string) (Frame, bool) {
	if r == nil {
		return Frame{}, false
	}
	for i := len(r.Frames) - 1; i >= 0; i-- {
		if strings.Contains(r.Frames[i].Plain, text) {
			return r.Frames[i], true
		}
	}
	return Frame{}, false
}

func stripANSI(s string) string {
	s = oscPattern.ReplaceAllString(s, "")
	s = csiPattern.ReplaceAllString(s, "")
	return shiftPattern.ReplaceAllString(s, "")
}

func normalizeLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n \t")
}
