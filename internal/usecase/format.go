package usecase

import (
	"strings"

	"github.com/google/uuid"

	"NewsIntake/internal/domain"
)

// BlockDelimiter separates paragraphs in draft text.
const BlockDelimiter = "\n\n"

// FormatBlocks splits draft text on blank-line boundaries and emits one
// portable-text block per non-empty paragraph. Keys are unique only;
// ordering is carried by the slice.
func FormatBlocks(draft string) []domain.Block {
	paragraphs := strings.Split(draft, BlockDelimiter)

	blocks := make([]domain.Block, 0, len(paragraphs))
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		blocks = append(blocks, domain.Block{
			Type:     "block",
			Key:      blockKey(),
			Style:    "normal",
			MarkDefs: []string{},
			Children: []domain.Span{
				{Type: "span", Key: blockKey(), Text: p},
			},
		})
	}

	return blocks
}

// JoinBlocks reassembles block texts with the split delimiter.
func JoinBlocks(blocks []domain.Block) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		parts = append(parts, b.Text())
	}
	return strings.Join(parts, BlockDelimiter)
}

func blockKey() string {
	// Short random key, same shape the store UI generates.
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
