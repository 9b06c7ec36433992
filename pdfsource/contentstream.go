package pdfsource

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/tsawler/lectio/model"
)

// streamState tracks the subset of the PDF text state needed to group shown
// text into blocks: the current font size and the text position.
type streamState struct {
	fontSize float64
	fontName string
	x, y     float64
	leading  float64
}

// blockBuilder accumulates text shown at roughly the same vertical position
// into one block, flushing when the cursor moves far enough to start a new
// visual block.
type blockBuilder struct {
	page    int
	blocks  []model.TextBlock
	current strings.Builder
	state   streamState
	startX  float64
	startY  float64
	started bool
}

func (b *blockBuilder) write(text string) {
	if text == "" {
		return
	}
	if !b.started {
		b.startX, b.startY = b.state.x, b.state.y
		b.started = true
	}
	if b.current.Len() > 0 && !strings.HasSuffix(b.current.String(), " ") {
		b.current.WriteByte(' ')
	}
	b.current.WriteString(text)
}

func (b *blockBuilder) flush() {
	text := cleanText(b.current.String())
	b.current.Reset()
	started := b.started
	b.started = false
	if !started || text == "" {
		return
	}

	size := b.state.fontSize
	if size <= 0 {
		size = 12
	}
	fontLower := strings.ToLower(b.state.fontName)

	b.blocks = append(b.blocks, model.TextBlock{
		Text:     text,
		Page:     b.page,
		FontSize: size,
		FontName: b.state.fontName,
		Bold:     strings.Contains(fontLower, "bold") || strings.Contains(fontLower, "black") || strings.Contains(fontLower, "heavy"),
		Italic:   strings.Contains(fontLower, "italic") || strings.Contains(fontLower, "oblique"),
		BBox:     model.NewBBox(b.startX, b.startY, float64(len(text))*size*0.5, size),
		Case:     model.DetectCase(text),
	})
}

// moveTo repositions the cursor, flushing the current block when the
// vertical move is larger than ordinary line leading.
func (b *blockBuilder) moveTo(x, y float64) {
	threshold := b.state.fontSize * 1.6
	if threshold <= 0 {
		threshold = 18
	}
	if b.started && abs(y-b.state.y) > threshold {
		b.flush()
	}
	b.state.x, b.state.y = x, y
}

// parseContentStream scans a page content stream for text-showing and
// positioning operators and groups the shown text into blocks. It covers
// the operator subset ordinary text-layer PDFs use: BT/ET, Tf, Td, TD, Tm,
// T*, Tj, TJ and '.
func parseContentStream(data []byte, page int) []model.TextBlock {
	b := &blockBuilder{page: page}
	b.state.fontSize = 12

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		switch {
		case bytes.HasSuffix(line, []byte("Tf")):
			name, size := parseTf(line)
			if size > 0 && size != b.state.fontSize {
				b.flush()
				b.state.fontSize = size
			}
			if name != "" {
				b.state.fontName = name
			}

		case bytes.HasSuffix(line, []byte("Tm")):
			if nums := operandFloats(line, 6); len(nums) == 6 {
				b.moveTo(nums[4], nums[5])
			}

		case bytes.HasSuffix(line, []byte("TD")):
			if nums := operandFloats(line, 2); len(nums) == 2 {
				b.state.leading = -nums[1]
				b.moveTo(b.state.x+nums[0], b.state.y+nums[1])
			}

		case bytes.HasSuffix(line, []byte("Td")):
			if nums := operandFloats(line, 2); len(nums) == 2 {
				b.moveTo(b.state.x+nums[0], b.state.y+nums[1])
			}

		case bytes.Equal(line, []byte("T*")):
			leading := b.state.leading
			if leading <= 0 {
				leading = b.state.fontSize * 1.2
			}
			b.moveTo(b.state.x, b.state.y-leading)

		case bytes.Equal(line, []byte("BT")):
			b.flush()
			b.state.x, b.state.y = 0, 0

		case bytes.Equal(line, []byte("ET")):
			b.flush()

		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			for _, m := range pdfStringPattern.FindAllSubmatch(line, -1) {
				b.write(decodePDFString(m[1]))
			}

		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			leading := b.state.leading
			if leading <= 0 {
				leading = b.state.fontSize * 1.2
			}
			b.moveTo(b.state.x, b.state.y-leading)
			for _, m := range pdfStringPattern.FindAllSubmatch(line, -1) {
				b.write(decodePDFString(m[1]))
			}
		}
	}
	b.flush()

	return b.blocks
}

// parseTf extracts the font resource name and size from a Tf operator line
// such as "/F1 12 Tf".
func parseTf(line []byte) (string, float64) {
	fields := strings.Fields(string(line))
	if len(fields) < 3 {
		return "", 0
	}
	name := strings.TrimPrefix(fields[len(fields)-3], "/")
	size, err := strconv.ParseFloat(fields[len(fields)-2], 64)
	if err != nil {
		return name, 0
	}
	return name, size
}

// operandFloats parses the n numeric operands preceding the operator at the
// end of the line.
func operandFloats(line []byte, n int) []float64 {
	fields := strings.Fields(string(line))
	if len(fields) < n+1 {
		return nil
	}
	out := make([]float64, 0, n)
	for _, f := range fields[len(fields)-1-n : len(fields)-1] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil
		}
		out = append(out, v)
	}
	return out
}
