package tuitest

import (
	"bytes"
	"io"
)

// terminalQuery is a control sequence the program under test sends to learn
// about the terminal, and the reply a real emulator would give.
type terminalQuery struct {
	ask   []byte
	reply []byte
}

// Colour queries come in BEL and ST terminated forms; replies use the same
// terminator.
var terminalQueries = []terminalQuery{
	{ask: []byte("\x1b[6n"), reply: []byte("\x1b[1;1R")},
	{ask: []byte("\x1b[c"), reply: []byte("\x1b[?62;22c")},
	{ask: []byte("\x1b]10;?\x07"), reply: []byte("\x1b]10;rgb:cccc/cccc/cccc\x07")},
	{ask: []byte("\x1b]10;?\x1b\\"), reply: []byte("\x1b]10;rgb:cccc/cccc/cccc\x1b\\")},
	{ask: []byte("\x1b]11;?\x07"), reply: []byte("\x1b]11;rgb:0000/0000/0000\x07")},
	{ask: []byte("\x1b]11;?\x1b\\"), reply: []byte("\x1b]11;rgb:0000/0000/0000\x1b\\")},
}

const (
	pendingLimit = 256
	pendingKeep  = 64
)

// terminalResponder answers terminalQueries found in the program's output,
// in the order they were sent. Queries split across reads are still seen.
type terminalResponder struct {
	w       io.Writer
	pending []byte
}

func newTerminalResponder(w io.Writer) *terminalResponder {
	return &terminalResponder{w: w, pending: make([]byte, 0, pendingLimit)}
}

func (tr *terminalResponder) Process(chunk []byte) {
	tr.pending = append(tr.pending, chunk...)
	for {
		q, end, ok := tr.nextQuery()
		if !ok {
			break
		}
		tr.pending = tr.pending[end:]
		_, _ = tr.w.Write(q.reply)
	}
	if len(tr.pending) > pendingLimit {
		tr.pending = append(tr.pending[:0], tr.pending[len(tr.pending)-pendingKeep:]...)
	}
}

// nextQuery finds the earliest known query in the pending bytes and the
// offset just past it.
func (tr *terminalResponder) nextQuery() (terminalQuery, int, bool) {
	best, end := -1, 0
	var found terminalQuery
	for _, q := range terminalQueries {
		idx := bytes.Index(tr.pending, q.ask)
		if idx < 0 || (best >= 0 && idx >= best) {
			continue
		}
		best, end, found = idx, idx+len(q.ask), q
	}
	return found, end, best >= 0
}
