package internal

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ContentNode is a node of a course content tree: either a Leaf or a Grouping
type ContentNode interface {
	contentNode()
}

// Leaf is a single line of planned content
type Leaf struct {
	Text string
}

// Grouping is an ordered list of content nodes
type Grouping struct {
	Children []ContentNode
}

func (Leaf) contentNode()     {}
func (Grouping) contentNode() {}

// NewGrouping builds a Grouping whose children are leaves with the given texts
func NewGrouping(texts ...string) Grouping {
	g := Grouping{Children: make([]ContentNode, 0, len(texts))}
	for _, text := range texts {
		g.Children = append(g.Children, Leaf{Text: text})
	}
	return g
}

// Len returns the number of top-level children
func (g Grouping) Len() int {
	return len(g.Children)
}

// Enumerate prefixes every leaf with its position label. Within a grouping only leaf
// children advance the counter; a nested grouping is labelled with the counter of the leaf
// before it, so [a, b, [c, d], e] becomes 1.a, 2.b, 2.1.c, 2.2.d, 3.e.
func Enumerate(node ContentNode, prefix string) ContentNode {
	switch n := node.(type) {
	case Leaf:
		return Leaf{Text: prefix + n.Text}
	case Grouping:
		counter := 0
		out := Grouping{Children: make([]ContentNode, 0, len(n.Children))}
		for _, child := range n.Children {
			if _, ok := child.(Leaf); ok {
				counter++
			}
			out.Children = append(out.Children, Enumerate(child, prefix+strconv.Itoa(counter)+"."))
		}
		return out
	default:
		panic(fmt.Sprintf("unknown content node %T", node))
	}
}

// Flatten returns the leaf texts of the tree in depth-first order. A bare leaf yields a
// single element.
func Flatten(node ContentNode) []string {
	switch n := node.(type) {
	case Leaf:
		return []string{n.Text}
	case Grouping:
		flat := make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			flat = append(flat, Flatten(child)...)
		}
		return flat
	default:
		panic(fmt.Sprintf("unknown content node %T", node))
	}
}

// FlatText renders the enumerated content on a single line
func FlatText(node ContentNode) string {
	return strings.Join(Flatten(Enumerate(node, "")), " ")
}

// UnmarshalYAML decodes a content list. Scalars become leaves, sequences become nested
// groupings and a mapping {title: [items]} becomes the leaf title followed by a grouping
// of its items. When the list itself is a mapping, every title with its items is one
// top-level entry.
func (g *Grouping) UnmarshalYAML(value *yaml.Node) error {
	root := value
	for root.Kind == yaml.AliasNode || (root.Kind == yaml.DocumentNode && len(root.Content) > 0) {
		if root.Kind == yaml.AliasNode {
			root = root.Alias
		} else {
			root = root.Content[0]
		}
	}
	if root.Kind == yaml.MappingNode {
		entries, err := decodeHeadings(root)
		if err != nil {
			return err
		}
		out := Grouping{Children: make([]ContentNode, 0, len(entries))}
		for i := 0; i+1 < len(entries); i += 2 {
			out.Children = append(out.Children, Grouping{Children: []ContentNode{entries[i], entries[i+1]}})
		}
		*g = out
		return nil
	}

	node, err := decodeContent(root)
	if err != nil {
		return err
	}
	switch n := node.(type) {
	case Grouping:
		*g = n
	case Leaf:
		*g = Grouping{Children: []ContentNode{n}}
	}
	return nil
}

func decodeContent(value *yaml.Node) (ContentNode, error) {
	switch value.Kind {
	case yaml.AliasNode:
		return decodeContent(value.Alias)
	case yaml.DocumentNode:
		if len(value.Content) == 0 {
			return Grouping{}, nil
		}
		return decodeContent(value.Content[0])
	case yaml.ScalarNode:
		return Leaf{Text: value.Value}, nil
	case yaml.SequenceNode:
		g := Grouping{Children: make([]ContentNode, 0, len(value.Content))}
		for _, item := range value.Content {
			child, err := decodeContent(item)
			if err != nil {
				return nil, err
			}
			g.Children = append(g.Children, child)
		}
		return g, nil
	case yaml.MappingNode:
		children, err := decodeHeadings(value)
		if err != nil {
			return nil, err
		}
		return Grouping{Children: children}, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported content node", value.Line)
	}
}

// decodeHeadings turns {title: items, ...} into title, items, title, items, ... where every
// items value is a grouping
func decodeHeadings(value *yaml.Node) ([]ContentNode, error) {
	children := make([]ContentNode, 0, len(value.Content))
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: content heading must be text", key.Line)
		}
		child, err := decodeContent(val)
		if err != nil {
			return nil, err
		}
		if leaf, ok := child.(Leaf); ok {
			child = Grouping{Children: []ContentNode{leaf}}
		}
		children = append(children, Leaf{Text: key.Value}, child)
	}
	return children, nil
}
