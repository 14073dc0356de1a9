package meta

import (
	"context"
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Detector parses source files with tree-sitter and extracts code blocks.
type Detector struct {
	registry *Registry
}

// NewDetector creates a detector backed by the given registry.
func NewDetector(r *Registry) *Detector {
	return &Detector{registry: r}
}

// Blocks parses the source and returns its top-level blocks in line order.
// If no grammar is registered for the extension, it returns a single
// module-level block spanning the whole file.
func (d *Detector) Blocks(ext string, src []byte) ([]BlockMeta, error) {
	spec := d.registry.Lookup(ext)
	if spec == nil {
		lines := countLines(src)
		if lines == 0 {
			return nil, nil
		}
		return []BlockMeta{{Kind: KindModule, Name: "", Lines: [2]int{1, lines}}}, nil
	}

	parser := sitter.NewParser()
	parser.SetLanguage(spec.Language)
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	defer tree.Close()

	q, err := sitter.NewQuery([]byte(spec.Query), spec.Language)
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, tree.RootNode())

	var caps []capture
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		var blockNode *sitter.Node
		var name string
		for _, cap := range m.Captures {
			switch q.CaptureNameForId(cap.Index) {
			case "block":
				blockNode = cap.Node
			case "name":
				name = cap.Node.Content(src)
			}
		}
		if blockNode == nil {
			continue
		}
		caps = append(caps, capture{
			name:      name,
			kind:      kindOf(blockNode.Type()),
			startLine: int(blockNode.StartPoint().Row) + 1,
			endLine:   int(blockNode.EndPoint().Row) + 1,
			startByte: blockNode.StartByte(),
			endByte:   blockNode.EndByte(),
		})
	}

	caps = dedup(caps)

	blocks := make([]BlockMeta, 0, len(caps))
	for _, c := range caps {
		blocks = append(blocks, BlockMeta{
			Kind:  c.kind,
			Name:  c.name,
			Lines: [2]int{c.startLine, c.endLine},
		})
	}
	return blocks, nil
}

type capture struct {
	name      string
	kind      BlockKind
	startLine int
	endLine   int
	startByte uint32
	endByte   uint32
}

// kindOf maps a tree-sitter node type to a block kind.
func kindOf(nodeType string) BlockKind {
	switch {
	case strings.Contains(nodeType, "class"):
		return KindClass
	case strings.Contains(nodeType, "method"):
		return KindMethod
	case strings.Contains(nodeType, "function"):
		return KindFunction
	default:
		return KindBlock
	}
}

// dedup removes captures fully contained within a larger capture, keeping
// only the outer node.
func dedup(caps []capture) []capture {
	if len(caps) <= 1 {
		return caps
	}
	sort.Slice(caps, func(i, j int) bool {
		if caps[i].startByte != caps[j].startByte {
			return caps[i].startByte < caps[j].startByte
		}
		return (caps[i].endByte - caps[i].startByte) > (caps[j].endByte - caps[j].startByte)
	})

	var result []capture
	var lastEnd uint32
	for _, c := range caps {
		if c.startByte >= lastEnd || lastEnd == 0 {
			result = append(result, c)
			if c.endByte > lastEnd {
				lastEnd = c.endByte
			}
		}
	}
	return result
}

func countLines(src []byte) int {
	if len(src) == 0 {
		return 0
	}
	n := strings.Count(string(src), "\n")
	if src[len(src)-1] != '\n' {
		n++
	}
	return n
}
