package splendir

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// TreeNode is one entry of a directory tree. Children are sorted by name
// case-insensitively and contain only entries retained by the filter.
type TreeNode struct {
	Name        string
	Path        string
	IsDirectory bool
	Children    []*TreeNode
}

// CountNodes returns the number of nodes in the subtree, including n
func (n *TreeNode) CountNodes() int {
	count := 1
	for _, c := range n.Children {
		count += c.CountNodes()
	}
	return count
}

// Walk calls fn for n and every descendant in pre-order
func (n *TreeNode) Walk(fn func(node *TreeNode, depth int)) {
	n.walk(fn, 0)
}

func (n *TreeNode) walk(fn func(*TreeNode, int), depth int) {
	fn(n, depth)
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

type nodeOutcome int

const (
	nodeBuilt nodeOutcome = iota
	nodeSkipped
	nodeCancelled
)

// ScanTree builds the directory tree below root. Progress counts completed
// direct children of the root, so a root holding one large subdirectory
// reports little between 0 and 1.
func (s *DirectoryScanner) ScanTree(root string, progress ProgressCallback) (*TreeNode, error) {
	defer VerboseEnter()()

	w, rootEntry, err := s.prepare(root)
	if err != nil {
		return nil, err
	}

	emitter := newProgressEmitter(progress, s.config.Cancel)
	emitter.emit(0, "Building tree...")

	if w.cancelled() {
		return nil, cancelledError(w.root)
	}

	rootNode := &TreeNode{Name: rootEntry.name, Path: rootEntry.path, IsDirectory: true}
	children, err := w.listChildren(rootEntry)
	if err != nil {
		return nil, classifyError(rootEntry.path, fmt.Errorf("failed to read directory: %w", err))
	}

	if w.cfg.depthAllowed(0) {
		total := len(children)
		for i, child := range children {
			node, outcome := w.buildNode(child)
			switch outcome {
			case nodeCancelled:
				return nil, cancelledError(w.root)
			case nodeBuilt:
				rootNode.Children = append(rootNode.Children, node)
			}
			emitter.emit(float64(i+1)/float64(total), fmt.Sprintf("Building tree: %d/%d", i+1, total))
		}
		sortTreeChildren(rootNode.Children)
	}

	if w.cancelled() {
		return nil, cancelledError(w.root)
	}
	emitter.emit(1.0, StatusComplete)
	return rootNode, nil
}

// buildNode builds the subtree for e. An unreadable directory is skipped
// with a warning; cancellation aborts the whole build.
func (w *walker) buildNode(e walkEntry) (*TreeNode, nodeOutcome) {
	if w.cancelled() {
		return nil, nodeCancelled
	}

	node := &TreeNode{Name: e.name, Path: e.path, IsDirectory: e.isDir}
	if !w.canDescend(e) {
		return node, nodeBuilt
	}

	children, err := w.listChildren(e)
	if err != nil {
		Logger().Warn("Error reading directory", zap.String("path", e.path), zap.Error(err))
		return nil, nodeSkipped
	}

	for _, child := range children {
		if w.cancelled() {
			return nil, nodeCancelled
		}
		c, outcome := w.buildNode(child)
		switch outcome {
		case nodeCancelled:
			return nil, nodeCancelled
		case nodeBuilt:
			node.Children = append(node.Children, c)
		}
	}
	sortTreeChildren(node.Children)
	return node, nodeBuilt
}

// sortTreeChildren orders nodes by case-folded, NFC-normalised name; names
// equal under folding fall back to byte order so the result is stable.
func sortTreeChildren(nodes []*TreeNode) {
	if len(nodes) < 2 {
		return
	}
	fold := cases.Fold()
	keys := make(map[*TreeNode]string, len(nodes))
	for _, n := range nodes {
		keys[n] = fold.String(norm.NFC.String(n.Name))
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		ki, kj := keys[nodes[i]], keys[nodes[j]]
		if ki != kj {
			return ki < kj
		}
		return nodes[i].Name < nodes[j].Name
	})
}
