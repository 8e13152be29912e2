// Package input implements the decoded input buffer and byte-stream decoder
// described in spec.md §3 ("Decoded input buffer", "Span") and §4.2 ("Input
// decoder").
package input

import (
	"unicode/utf8"
)

// Span is a byte range [Start, End) into a Buffer. Both offsets must land on
// UTF-8 scalar boundaries of the buffer that produced the span.
type Span struct {
	Start int
	End   int
}

// Len returns the span's length in bytes.
func (s Span) Len() int { return s.End - s.Start }

// IsEmpty reports whether the span is zero-width.
func (s Span) IsEmpty() bool { return s.Start == s.End }

// Buffer is the append-only decoded input buffer. Once a byte position
// exists, its content never changes; spans into the buffer remain valid for
// as long as the buffer is not compacted (Buffer never compacts itself —
// compaction, if ever added, is the caller's responsibility and must first
// convert live spans to owned text, per spec.md §9).
type Buffer struct {
	id   uint64
	data []byte
}

// NewBuffer creates an empty buffer bound to the given document-scoped id
// (see atom.Table.ID for the analogous binding concept).
func NewBuffer(id uint64) *Buffer {
	return &Buffer{id: id}
}

// ID returns the buffer's binding id.
func (b *Buffer) ID() uint64 { return b.id }

// Len returns the number of decoded bytes currently in the buffer.
func (b *Buffer) Len() int { return len(b.data) }

// Bytes returns the full decoded buffer contents. The returned slice aliases
// Buffer's storage and must be treated as read-only by the caller.
func (b *Buffer) Bytes() []byte { return b.data }

// String returns the full decoded buffer contents as a string.
func (b *Buffer) String() string { return string(b.data) }

// IsCharBoundary reports whether offset lies on a UTF-8 scalar boundary.
func (b *Buffer) IsCharBoundary(offset int) bool {
	if offset == 0 || offset == len(b.data) {
		return true
	}
	if offset < 0 || offset > len(b.data) {
		return false
	}
	// A byte is a scalar boundary unless it is a UTF-8 continuation byte
	// (10xxxxxx).
	return b.data[offset]&0xC0 != 0x80
}

// Slice resolves span against the buffer, returning the substring and true,
// or ("", false) if the span is out of range or not on scalar boundaries —
// which spec.md §7 treats as an engine invariant violation at the call site.
func (b *Buffer) Slice(span Span) (string, bool) {
	if span.Start < 0 || span.End < span.Start || span.End > len(b.data) {
		return "", false
	}
	if !b.IsCharBoundary(span.Start) || !b.IsCharBoundary(span.End) {
		return "", false
	}
	return string(b.data[span.Start:span.End]), true
}

// appendDecoded appends already-decoded, valid UTF-8 text and returns the
// span covering it.
func (b *Buffer) appendDecoded(text string) Span {
	start := len(b.data)
	b.data = append(b.data, text...)
	return Span{Start: start, End: len(b.data)}
}

// DecodeResult reports the outcome of pushing a chunk of bytes into a
// Decoder, per spec.md §4.2/§4.3.
type DecodeResult int

const (
	// Progress indicates decoded text was appended to the buffer.
	Progress DecodeResult = iota
	// NeedMoreInput indicates the chunk ended mid-scalar and no new decoded
	// text was appended (the incomplete prefix is carried internally).
	NeedMoreInput
)

// maxUTF8CarryLen is the longest an incomplete UTF-8 prefix can be: a 4-byte
// scalar missing its last byte.
const maxUTF8CarryLen = 3

// Decoder accepts arbitrary byte chunks and appends their decoded Unicode
// scalars to a Buffer without losing characters split across chunk
// boundaries. Invalid bytes are replaced with U+FFFD (lossy, forward-progress
// guaranteed) per spec.md §4.2.
type Decoder struct {
	carry []byte // at most maxUTF8CarryLen bytes of an incomplete UTF-8 prefix
}

// NewDecoder returns a ready-to-use Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Write decodes chunk and appends the result to buf, carrying any trailing
// incomplete UTF-8 prefix for the next call.
func (d *Decoder) Write(chunk []byte, buf *Buffer) DecodeResult {
	data := chunk
	if len(d.carry) > 0 {
		data = append(append([]byte(nil), d.carry...), chunk...)
		d.carry = nil
	}
	if len(data) == 0 {
		return NeedMoreInput
	}

	var out []byte
	i := 0
	for i < len(data) {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			// Either truly invalid, or an incomplete sequence at the very
			// end of the chunk that might be completed by the next Write.
			if i+maxUTF8CarryLen >= len(data) && isIncompleteTail(data[i:]) {
				d.carry = append([]byte(nil), data[i:]...)
				break
			}
			out = append(out, 0xEF, 0xBF, 0xBD) // U+FFFD
			i++
			continue
		}
		out = append(out, data[i:i+size]...)
		i += size
	}

	if len(out) == 0 {
		return NeedMoreInput
	}
	buf.appendDecoded(string(out))
	return Progress
}

// Finish flushes any remaining carried bytes lossily (as U+FFFD) and must be
// called exactly once, after the last Write, before the buffer is considered
// complete.
func (d *Decoder) Finish(buf *Buffer) {
	if len(d.carry) == 0 {
		return
	}
	// The whole carried prefix represents one truncated scalar: it collapses
	// to a single U+FFFD, not one per carried byte.
	buf.appendDecoded("�")
	d.carry = nil
}

// isIncompleteTail reports whether b looks like the valid-so-far prefix of a
// multi-byte UTF-8 sequence that was simply cut short by the chunk boundary,
// as opposed to being outright invalid.
func isIncompleteTail(b []byte) bool {
	if len(b) == 0 || len(b) > maxUTF8CarryLen {
		return false
	}
	lead := b[0]
	var wantLen int
	switch {
	case lead&0xE0 == 0xC0:
		wantLen = 2
	case lead&0xF0 == 0xE0:
		wantLen = 3
	case lead&0xF8 == 0xF0:
		wantLen = 4
	default:
		return false
	}
	if len(b) >= wantLen {
		return false // would have decoded already if it were complete/valid
	}
	for _, c := range b[1:] {
		if c&0xC0 != 0x80 {
			return false
		}
	}
	return true
}
