package report

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/so2liu/imgsize/internal/format"
	"github.com/so2liu/imgsize/internal/runtime"
)

const (
	// noHistoryMessage is returned verbatim for images without history.
	noHistoryMessage = "No history entries found."

	// missingLayerID stands in for entries with no addressable layer.
	missingLayerID = "<missing>"

	// metadataInstruction stands in for entries with no recorded command.
	metadataInstruction = "<metadata>"

	// shortDigestLen is how many characters of a layer digest are shown.
	shortDigestLen = 12
)

// TableLayout holds the column widths of the layer history table.
type TableLayout struct {
	IndexWidth       int
	LayerWidth       int
	SizeWidth        int
	InstructionWidth int
}

// DefaultTableLayout is the layout used by the CLI.
var DefaultTableLayout = TableLayout{
	IndexWidth:       4,
	LayerWidth:       14,
	SizeWidth:        10,
	InstructionWidth: 80,
}

// RenderHistory formats the build history of an image as an aligned table,
// one row per instruction in build order, with a running cumulative size.
//
// The runtime reports history newest first, so entries are reversed before
// being paired positionally with the filesystem layer digests. The pairing
// is best effort: when layers is shorter than the history, rows beyond its
// length fall back to the entry's own ID.
func RenderHistory(entries []runtime.HistoryEntry, layers []string, layout TableLayout) string {
	if len(entries) == 0 {
		return noHistoryMessage
	}

	ordered := make([]runtime.HistoryEntry, len(entries))
	for i, entry := range entries {
		ordered[len(entries)-1-i] = entry
	}

	header := fmt.Sprintf("%s %s %s %s",
		format.Pad("#", layout.IndexWidth),
		format.Pad("Layer", layout.LayerWidth),
		format.Pad("Size", layout.SizeWidth),
		"Instruction",
	)

	lines := make([]string, 0, len(ordered)+2)
	lines = append(lines, header)
	lines = append(lines, strings.Repeat("-", utf8.RuneCountInString(header)))

	var cumulative int64
	for i, entry := range ordered {
		size := int64(entry.Size)
		cumulative += size
		lines = append(lines, fmt.Sprintf("%s %s %s %s (cumulative: %s)",
			format.Pad(strconv.Itoa(i+1), layout.IndexWidth),
			format.Pad(format.Truncate(layerLabel(entry, layers, i), layout.LayerWidth), layout.LayerWidth),
			format.Pad(format.HumanBytes(float64(size)), layout.SizeWidth),
			format.Truncate(instructionLabel(entry), layout.InstructionWidth),
			format.HumanBytes(float64(cumulative)),
		))
	}

	return strings.Join(lines, "\n")
}

// layerLabel derives the short layer identifier for the row at index: the
// filesystem layer digest when one exists, otherwise the history entry's own
// ID, otherwise a placeholder.
func layerLabel(entry runtime.HistoryEntry, layers []string, index int) string {
	id := ""
	if index < len(layers) {
		id = layers[index]
	}
	if id == "" {
		id = entry.ID
	}
	id = strings.TrimPrefix(id, "sha256:")
	if utf8.RuneCountInString(id) > shortDigestLen {
		id = string([]rune(id)[:shortDigestLen])
	}
	if id == "" {
		id = missingLayerID
	}
	return id
}

func instructionLabel(entry runtime.HistoryEntry) string {
	instruction := format.CollapseSpace(entry.CreatedBy)
	if instruction == "" {
		instruction = metadataInstruction
	}
	if comment := format.CollapseSpace(entry.Comment); comment != "" {
		instruction += " (" + comment + ")"
	}
	return instruction
}
