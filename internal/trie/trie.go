package trie

// Index is a prefix index over airport codes. It is built once at
// startup and is read-only afterwards; a refresh builds a new Index
// and swaps it in.
type Index struct {
	root *node
}

type node struct {
	children map[byte]*node
	// order records the sequence in which child branches were first
	// created, so Suggestions walks them in insertion order rather
	// than map order.
	order    []byte
	terminal bool
	word     string
}

func newNode() *node {
	return &node{children: make(map[byte]*node)}
}

// NewIndex creates an empty Index.
func NewIndex() *Index {
	return &Index{root: newNode()}
}

// Insert adds an airport code to the index. Inserting the same code
// twice is a no-op.
func (ix *Index) Insert(code string) {
	n := ix.root
	for i := 0; i < len(code); i++ {
		c := code[i]
		child, ok := n.children[c]
		if !ok {
			child = newNode()
			n.children[c] = child
			n.order = append(n.order, c)
		}
		n = child
	}
	n.terminal = true
	n.word = code
}

// Suggestions returns every inserted code having prefix as a prefix,
// in depth-first insertion order. An empty prefix returns all codes.
func (ix *Index) Suggestions(prefix string) []string {
	n := ix.root
	for i := 0; i < len(prefix); i++ {
		child, ok := n.children[prefix[i]]
		if !ok {
			return nil
		}
		n = child
	}
	var out []string
	collect(n, &out)
	return out
}

func collect(n *node, out *[]string) {
	if n.terminal {
		*out = append(*out, n.word)
	}
	for _, c := range n.order {
		collect(n.children[c], out)
	}
}
