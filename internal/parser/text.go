package parser

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/dgallion1/findoc/internal/doctree"
)

var blankLineRe = regexp.MustCompile(`\n(?:[ \t]*\n)+`)

// TextParser handles plain text files. Each blank-line separated block
// becomes one node, with its lines kept as they are so column-aligned
// tables survive.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	body := strings.ReplaceAll(string(src), "\r\n", "\n")

	tree := &doctree.DocTree{Title: baseTitle(filename)}
	for _, block := range blankLineRe.Split(body, -1) {
		block = strings.TrimRight(strings.TrimLeft(block, "\n"), " \t\n")
		if strings.TrimSpace(block) == "" {
			continue
		}
		tree.Children = append(tree.Children, &doctree.DocNode{Text: block})
	}
	return tree, nil
}
