package formatter

import (
	"github.com/yildizm/SiteLens/internal/element"
	"github.com/yildizm/go-termfmt"
)

// TreeView renders an element tree with go-termfmt tree drawing
type TreeView struct {
	opts *termfmt.TerminalOptions
}

// NewTreeView creates a tree renderer
func NewTreeView(color, emoji bool) *TreeView {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = emoji
	return &TreeView{opts: opts}
}

// Render draws every node of tree, ids included
func (v *TreeView) Render(tree *element.Tree) string {
	header := termfmt.GetEmoji("summary", v.opts) + " Elements\n"
	if tree.Len() == 0 {
		return header + "(empty)\n"
	}
	return header + termfmt.TreeViewWithOptions(treeItems(tree.Roots), v.opts) + "\n"
}

func treeItems(nodes []*element.Node) []termfmt.TreeItem {
	items := make([]termfmt.TreeItem, 0, len(nodes))
	for i, node := range nodes {
		value := node.Type + " #" + node.ID
		if node.HasURL() {
			value += " " + node.URL
		}
		items = append(items, termfmt.TreeItem{
			Label:    node.Name,
			Value:    value,
			Last:     i == len(nodes)-1,
			Children: treeItems(node.Children),
		})
	}
	return items
}
