package serde

import (
	"github.com/goccy/go-yaml"

	"github.com/CAD97/sorbus"
)

// textElement is the YAML-mapping shape every element round-trips
// through: a token carries Text, a node carries Children. Exactly one of
// the two is set, matching which field is present in the decoded
// mapping.
type textElement struct {
	Kind     uint16        `yaml:"kind"`
	Text     *string       `yaml:"text,omitempty"`
	Children []textElement `yaml:"children,omitempty"`
}

// EncodeText renders root as a self-describing YAML document: every
// element becomes a mapping with its kind and either its text or its
// children, recursively. Unlike EncodeBinary, the result is diffable and
// hand-editable.
func EncodeText(root sorbus.ElementRef) ([]byte, error) {
	return yaml.Marshal(toTextElement(root))
}

func toTextElement(ref sorbus.ElementRef) textElement {
	if tok, ok := ref.AsToken(); ok {
		text := tok.Text()
		return textElement{Kind: uint16(tok.Kind()), Text: &text}
	}

	node, _ := ref.AsNode()
	children := node.Children()
	out := textElement{Kind: uint16(node.Kind()), Children: make([]textElement, len(children))}
	for i, c := range children {
		out.Children[i] = toTextElement(c.Ref)
	}
	return out
}

// DecodeText parses a YAML document produced by EncodeText, reconstructing
// it through b so the result is interned.
func DecodeText(data []byte, b *sorbus.Builder) (sorbus.ElementRef, error) {
	var te textElement
	if err := yaml.Unmarshal(data, &te); err != nil {
		return sorbus.ElementRef{}, err
	}
	return fromTextElement(te, b)
}

func fromTextElement(te textElement, b *sorbus.Builder) (sorbus.ElementRef, error) {
	if te.Text != nil {
		return b.Token(sorbus.Kind(te.Kind), *te.Text)
	}

	children := make([]sorbus.ElementRef, 0, len(te.Children))
	for _, c := range te.Children {
		child, err := fromTextElement(c, b)
		if err != nil {
			for _, built := range children {
				built.Drop()
			}
			return sorbus.ElementRef{}, err
		}
		children = append(children, child)
	}
	return b.Node(sorbus.Kind(te.Kind), children)
}
