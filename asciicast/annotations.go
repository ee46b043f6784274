package asciicast

import "errors"

// MaxAnnotationDepth caps the nesting of annotation children. Real trees
// are human-authored and shallow; anything deeper is treated as malformed
// input rather than risking unbounded recursion.
const MaxAnnotationDepth = 100

var ErrAnnotationDepth = errors.New("annotation nesting exceeds maximum depth")

// AnnotationSet is the librecode_annotations structure embedded in the
// recording header: an ordered list of layers, each holding an ordered list
// of annotation trees.
type AnnotationSet struct {
	Layers []AnnotationLayer `json:"layers"`
}

type AnnotationLayer struct {
	Name        string           `json:"name,omitempty"`
	Annotations []AnnotationNode `json:"annotations"`
}

type AnnotationNode struct {
	Text      string           `json:"text"`
	Beginning float64          `json:"beginning"`
	End       float64          `json:"end"`
	Children  []AnnotationNode `json:"children,omitempty"`
}

// Node is one extracted annotation. Beginning and End are milliseconds, as
// authored in the header.
type Node struct {
	Text      string
	Beginning float64
	End       float64
	Children  []Node
}

// ExtractAnnotations walks every layer of the header's annotation set and
// returns the forest of annotation trees in source order: layer order, then
// within-layer order, then child order. A missing annotation set, missing
// layers or empty layers all yield an empty forest.
func ExtractAnnotations(header *Header) ([]Node, error) {
	forest := []Node{}
	if header == nil || header.Annotations == nil {
		return forest, nil
	}
	for _, layer := range header.Annotations.Layers {
		for _, annotation := range layer.Annotations {
			node, err := extractNode(annotation, 1)
			if err != nil {
				return nil, err
			}
			forest = append(forest, node)
		}
	}
	return forest, nil
}

func extractNode(annotation AnnotationNode, depth int) (Node, error) {
	if depth > MaxAnnotationDepth {
		return Node{}, ErrAnnotationDepth
	}
	node := Node{
		Text:      annotation.Text,
		Beginning: annotation.Beginning,
		End:       annotation.End,
		Children:  []Node{},
	}
	for _, child := range annotation.Children {
		childNode, err := extractNode(child, depth+1)
		if err != nil {
			return Node{}, err
		}
		node.Children = append(node.Children, childNode)
	}
	return node, nil
}

// CountNodes returns the total number of nodes in the forest, children
// included. This is the convention used for Recording.AnnotationsCount.
func CountNodes(forest []Node) int {
	count := 0
	for _, node := range forest {
		count += 1 + CountNodes(node.Children)
	}
	return count
}
