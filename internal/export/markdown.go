// Package export writes the region tree in formats meant for reading
// outside the annotator
package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pstuifzand/tui-annotator/internal/model"
	"github.com/pstuifzand/tui-annotator/internal/outliner"
)

// ExportToMarkdown writes the region tree of store, grouped and ordered the
// way the outliner shows it, to a markdown file as a nested bullet list
func ExportToMarkdown(store *model.RegionStore, grouping model.Grouping, ordering model.Ordering, filePath string) error {
	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create markdown file: %w", err)
	}
	nodes := outliner.Project(store, "", grouping, ordering)
	if err := WriteMarkdown(f, nodes); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write markdown file: %w", err)
	}
	return nil
}

// WriteMarkdown writes nodes as bullets indented two spaces per level.
// Group headers are bold; regions carry their id, score and visibility.
func WriteMarkdown(w io.Writer, nodes []*outliner.DisplayNode) error {
	var sb strings.Builder
	for _, n := range nodes {
		writeNode(&sb, n, 0)
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write markdown: %w", err)
	}
	return nil
}

func writeNode(sb *strings.Builder, n *outliner.DisplayNode, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString("- ")
	if n.Classification {
		sb.WriteString("**" + n.Title + "**")
	} else {
		sb.WriteString(n.Title)
		sb.WriteString(" `" + n.Key + "`")
		if n.Score != nil {
			fmt.Fprintf(sb, " %.2f", *n.Score)
		}
		if n.Prediction {
			sb.WriteString(" (prediction)")
		}
		if n.Hidden {
			sb.WriteString(" (hidden)")
		}
	}
	sb.WriteString("\n")

	for _, child := range n.Children {
		writeNode(sb, child, depth+1)
	}
}
