package doctree

import "strings"

// DocTree is the root of a parsed document.
type DocTree struct {
	Title    string     // Document title (from metadata or filename)
	Author   string     // Author from document metadata, if any
	Created  string     // Creation date from document metadata, if any
	Modified string     // Modification date from document metadata, if any
	Children []*DocNode // Top-level sections
}

// DocNode is a recursive section in the document tree.
type DocNode struct {
	Title    string     // Section heading (empty for leaf text)
	Text     string     // Paragraphs and pipe-delimited table rows
	Children []*DocNode // Subsections
}

// PlainText flattens the tree into document text. Headings sit on their own
// line directly above their section text, and blocks are separated by a
// blank line, so a heading stays adjacent to a table that follows it.
func (t *DocTree) PlainText() string {
	var blocks []string
	var walk func(n *DocNode)
	walk = func(n *DocNode) {
		var b strings.Builder
		if n.Title != "" {
			b.WriteString(n.Title)
		}
		if n.Text != "" {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(n.Text)
		}
		if b.Len() > 0 {
			blocks = append(blocks, b.String())
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, c := range t.Children {
		walk(c)
	}
	return strings.Join(blocks, "\n\n")
}

// PipeRow renders table cells as one pipe-delimited line.
func PipeRow(cells []string) string {
	out := make([]string, len(cells))
	for i, c := range cells {
		c = strings.Join(strings.Fields(c), " ")
		out[i] = strings.ReplaceAll(c, "|", "/")
	}
	return strings.Join(out, " | ")
}

// Builder assembles a DocTree from a flat stream of headings and text
// blocks, nesting sections by heading level.
type Builder struct {
	tree    *DocTree
	root    *DocNode
	stack   []level
	pending strings.Builder
}

type level struct {
	node  *DocNode
	depth int
}

func NewBuilder(title string) *Builder {
	root := &DocNode{Title: title}
	return &Builder{
		tree:  &DocTree{Title: title},
		root:  root,
		stack: []level{{node: root, depth: 0}},
	}
}

// Meta returns the tree under construction so parsers can set metadata.
func (b *Builder) Meta() *DocTree { return b.tree }

// Heading opens a section at depth (1 for h1). Sections at the same or a
// deeper depth are closed first.
func (b *Builder) Heading(depth int, title string) {
	b.flush()
	n := &DocNode{Title: title}
	for len(b.stack) > 1 && b.stack[len(b.stack)-1].depth >= depth {
		b.stack = b.stack[:len(b.stack)-1]
	}
	parent := b.stack[len(b.stack)-1].node
	parent.Children = append(parent.Children, n)
	b.stack = append(b.stack, level{node: n, depth: depth})
}

// Text appends a block to the current section.
func (b *Builder) Text(t string) {
	t = strings.TrimSpace(t)
	if t == "" {
		return
	}
	if b.pending.Len() > 0 {
		b.pending.WriteString("\n\n")
	}
	b.pending.WriteString(t)
}

func (b *Builder) flush() {
	t := b.pending.String()
	b.pending.Reset()
	if t == "" {
		return
	}
	top := b.stack[len(b.stack)-1].node
	if top.Text != "" {
		top.Text += "\n\n" + t
	} else {
		top.Text = t
	}
}

// Tree finishes the document. Text that appeared before any heading
// becomes a leading untitled section.
func (b *Builder) Tree() *DocTree {
	b.flush()
	children := b.root.Children
	if b.root.Text != "" {
		children = append([]*DocNode{{Text: b.root.Text}}, children...)
	}
	b.tree.Children = children
	return b.tree
}
