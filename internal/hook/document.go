package hook

import (
	"fmt"
	"strings"

	"github.com/conn-castle/jdk-pulse/internal/messages"
)

// Markers delimiting the managed region. They are literal whole lines.
const (
	StartMarker = "# >>> jdk-pulse shell integration >>>"
	EndMarker   = "# <<< jdk-pulse shell integration <<<"
	// AddedNewlineStartMarker opens a block that install appended to a file whose last line
	// had no newline. The newline before it belongs to the managed region.
	AddedNewlineStartMarker = "# >>> jdk-pulse shell integration (added newline) >>>"
)

// BlockState describes what Parse found.
type BlockState int

// Block states.
const (
	BlockAbsent BlockState = iota
	BlockPresent
	BlockMalformed
)

// Document splits a startup file around the managed region.
// Prefix + Separator + Block + Suffix always reproduces the parsed content exactly.
type Document struct {
	Prefix string
	// Separator is the newline install added after an unterminated last line.
	Separator string
	Block     string
	Suffix    string
	State     BlockState
	// Problem explains a malformed state.
	Problem string
}

// Parse locates the managed region in content. Anything other than zero markers or exactly
// one start line followed by one end line is malformed.
func Parse(content string) Document {
	starts, ends := markerLines(content)
	switch {
	case len(starts) == 0 && len(ends) == 0:
		return Document{Prefix: content, State: BlockAbsent}
	case len(starts) != 1 || len(ends) != 1:
		return Document{
			Prefix:  content,
			State:   BlockMalformed,
			Problem: fmt.Sprintf(messages.HookMarkersUnbalancedFmt, len(starts), len(ends)),
		}
	case ends[0].start < starts[0].start:
		return Document{Prefix: content, State: BlockMalformed, Problem: messages.HookMarkersOutOfOrder}
	}
	begin := starts[0].start
	end := ends[0].end
	doc := Document{
		Prefix: content[:begin],
		Block:  content[begin:end],
		Suffix: content[end:],
		State:  BlockPresent,
	}
	if starts[0].addedNewline && strings.HasSuffix(doc.Prefix, "\n") {
		doc.Prefix = strings.TrimSuffix(doc.Prefix, "\n")
		doc.Separator = "\n"
	}
	return doc
}

// String reassembles the document.
func (d Document) String() string {
	return d.Prefix + d.Separator + d.Block + d.Suffix
}

// CanonicalBlock returns the block with its start marker in the plain form.
func (d Document) CanonicalBlock() string {
	if d.Separator == "" {
		return d.Block
	}
	return strings.Replace(d.Block, AddedNewlineStartMarker, StartMarker, 1)
}

// WithBlock returns the content with the managed region replaced by block, or appended
// when absent. After an unterminated last line the block opens with a newline and the
// AddedNewlineStartMarker, so WithoutBlock can take that newline back.
func (d Document) WithBlock(block string) string {
	if d.Prefix != "" && !strings.HasSuffix(d.Prefix, "\n") {
		block = "\n" + strings.Replace(block, StartMarker, AddedNewlineStartMarker, 1)
	}
	if d.State == BlockPresent {
		return d.Prefix + block + d.Suffix
	}
	return d.Prefix + block
}

// WithoutBlock returns the content with the managed region deleted. The added newline is
// kept only when user content follows the block.
func (d Document) WithoutBlock() string {
	if d.Separator != "" && d.Suffix != "" {
		return d.Prefix + d.Separator + d.Suffix
	}
	return d.Prefix + d.Suffix
}

type lineSpan struct {
	start        int
	end          int
	addedNewline bool
}

// markerLines returns the byte spans (including the trailing newline) of marker lines.
func markerLines(content string) (starts []lineSpan, ends []lineSpan) {
	offset := 0
	for offset < len(content) {
		next := strings.IndexByte(content[offset:], '\n')
		lineEnd := len(content)
		if next >= 0 {
			lineEnd = offset + next + 1
		}
		line := strings.TrimRight(content[offset:lineEnd], "\r\n")
		switch strings.TrimSpace(line) {
		case StartMarker:
			starts = append(starts, lineSpan{start: offset, end: lineEnd})
		case AddedNewlineStartMarker:
			starts = append(starts, lineSpan{start: offset, end: lineEnd, addedNewline: true})
		case EndMarker:
			ends = append(ends, lineSpan{start: offset, end: lineEnd})
		}
		offset = lineEnd
	}
	return starts, ends
}
