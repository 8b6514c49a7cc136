package retriever

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hupe1980/intentmesh/core"
)

// chunkSeparator splits a markdown bullet list into chunks.
const chunkSeparator = "\n- "

// SplitMarkdown cuts text into one document per top-level bullet. Chunks are
// trimmed, empty chunks dropped and ids numbered from 1.
func SplitMarkdown(text, source string) []core.Document {
	docs := make([]core.Document, 0)
	id := 0
	for _, chunk := range strings.Split(text, chunkSeparator) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		id++
		docs = append(docs, core.Document{Content: chunk, Source: source, ChunkID: id})
	}
	return docs
}

// LoadMarkdown reads every path in order and concatenates their chunks.
// Missing files are skipped; any other read error aborts loading.
func LoadMarkdown(paths ...string) ([]core.Document, error) {
	docs := make([]core.Document, 0)
	for _, p := range paths {
		raw, err := os.ReadFile(p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("read corpus %s: %w", p, err)
		}
		docs = append(docs, SplitMarkdown(string(raw), filepath.Base(p))...)
	}
	return docs, nil
}
