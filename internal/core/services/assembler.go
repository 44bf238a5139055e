package services

import (
	"bytes"
	"encoding/json"
	"unicode/utf8"

	"github.com/custodia-labs/finqa-cli/internal/core/domain"
	"github.com/custodia-labs/finqa-cli/internal/logger"
)

// MetaSentinel separates streamed answer text from the trailing JSON
// metadata document on the chat stream. The backend guarantees it
// appears at most once; it is assumed never to occur naturally inside
// generated answer text.
const MetaSentinel = "[END_META]"

// AnswerAssembler decodes the interleaved answer/metadata byte
// stream. Bytes pushed before the sentinel are answer text, emitted
// incrementally; bytes after it accumulate until Finalise parses them
// as metadata.
//
// The assembler keeps one rolling buffer across the whole stream, so
// a sentinel (or a multi-byte rune) split across chunk boundaries is
// still recognised. Chunk boundaries carry no meaning.
type AnswerAssembler struct {
	pending []byte       // answer bytes not yet safe to emit
	meta    bytes.Buffer // bytes after the sentinel
	inMeta  bool
	done    bool
}

// NewAnswerAssembler creates an assembler for one answer stream.
func NewAnswerAssembler() *AnswerAssembler {
	return &AnswerAssembler{}
}

// Push consumes one chunk and returns the answer text that is now
// final. The return value is empty once the sentinel has been seen.
func (a *AnswerAssembler) Push(chunk []byte) string {
	if a.done || len(chunk) == 0 {
		return ""
	}
	if a.inMeta {
		a.meta.Write(chunk)
		return ""
	}

	a.pending = append(a.pending, chunk...)

	if i := bytes.Index(a.pending, []byte(MetaSentinel)); i >= 0 {
		answer := string(a.pending[:i])
		a.meta.Write(a.pending[i+len(MetaSentinel):])
		a.pending = nil
		a.inMeta = true
		return answer
	}

	// Hold back any suffix that could be the start of a sentinel
	// split across this chunk boundary, then back off further so an
	// incomplete UTF-8 sequence is never emitted.
	cut := len(a.pending) - sentinelOverlap(a.pending)
	cut -= incompleteRuneTail(a.pending[:cut])
	if cut <= 0 {
		return ""
	}

	answer := string(a.pending[:cut])
	a.pending = append(a.pending[:0:0], a.pending[cut:]...)
	return answer
}

// InMetadata reports whether the sentinel has been observed.
func (a *AnswerAssembler) InMetadata() bool {
	return a.inMeta
}

// Finalise ends the stream. It returns any answer text still held in
// the rolling buffer (the stream may end without a sentinel, or with
// a partial sentinel match that turned out to be ordinary text) and
// the parsed metadata.
//
// A malformed metadata payload is not fatal: the answer has already
// been delivered, so parsing degrades to empty metadata.
func (a *AnswerAssembler) Finalise() (string, domain.StreamMetadata) {
	if a.done {
		return "", domain.StreamMetadata{}
	}
	a.done = true

	tail := string(a.pending)
	a.pending = nil

	var meta domain.StreamMetadata
	if !a.inMeta {
		return tail, meta
	}
	if err := json.Unmarshal(a.meta.Bytes(), &meta); err != nil {
		logger.Warn("Discarding malformed answer metadata: %v", err)
		return tail, domain.StreamMetadata{}
	}
	meta.Normalise()
	return tail, meta
}

// sentinelOverlap returns the length of the longest suffix of b that
// is a proper prefix of the sentinel.
func sentinelOverlap(b []byte) int {
	max := len(MetaSentinel) - 1
	if max > len(b) {
		max = len(b)
	}
	for n := max; n > 0; n-- {
		if bytes.HasSuffix(b, []byte(MetaSentinel[:n])) {
			return n
		}
	}
	return 0
}

// incompleteRuneTail returns how many trailing bytes of b form an
// incomplete UTF-8 sequence, 0 when b ends on a rune boundary.
func incompleteRuneTail(b []byte) int {
	for i := 1; i <= utf8.UTFMax && i <= len(b); i++ {
		c := b[len(b)-i]
		if !utf8.RuneStart(c) {
			continue
		}
		if c < utf8.RuneSelf || utf8.FullRune(b[len(b)-i:]) {
			return 0
		}
		return i
	}
	return 0
}
