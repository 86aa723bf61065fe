package sandbox

import "bytes"

// DefaultOutputLimit caps each captured stream.
const DefaultOutputLimit = 64 * 1024

const truncatedMarker = "\n[output truncated]\n"

// cappedBuffer keeps the first limit bytes written and discards the rest
// while still reporting full writes, so the child never sees EPIPE.
type cappedBuffer struct {
	limit     int
	buf       bytes.Buffer
	truncated bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	remaining := b.limit - b.buf.Len()
	if remaining <= 0 {
		b.truncated = b.truncated || len(p) > 0
		return len(p), nil
	}
	if len(p) > remaining {
		b.buf.Write(p[:remaining])
		b.truncated = true
		return len(p), nil
	}
	b.buf.Write(p)
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	if b.truncated {
		return b.buf.String() + truncatedMarker
	}
	return b.buf.String()
}
