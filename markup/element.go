package markup

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the document syntax.
type Format uint8

const (
	FormatXML Format = iota
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "xml"
}

// FormatForPath picks the format from a file extension. Anything other than
// .yaml or .yml is XML.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatXML
	}
}

// Attr is one element attribute.
type Attr struct {
	Name  string
	Value string
}

// Element is a parsed document node, independent of the source syntax.
type Element struct {
	Tag      string
	Attrs    []Attr // document order
	Children []*Element
}

// Attr returns the value of the named attribute.
func (el *Element) Attr(name string) (string, bool) {
	for _, a := range el.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Decode reads one document and returns its root element.
func Decode(r io.Reader, format Format) (*Element, error) {
	if format == FormatYAML {
		return decodeYAML(r)
	}
	return decodeXML(r)
}

func decodeXML(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)
	var root *Element
	var stack []*Element
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Tag: t.Name.Local}
			for _, a := range t.Attr {
				el.Attrs = append(el.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("decode xml: multiple root elements")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}
	if root == nil {
		return nil, fmt.Errorf("decode xml: no root element")
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("decode xml: unclosed <%s>", stack[len(stack)-1].Tag)
	}
	return root, nil
}

// childrenKey holds the child element sequence in YAML documents.
const childrenKey = "children"

func decodeYAML(r io.Reader) (*Element, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml: empty document")
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("decode yaml: empty document")
	}
	return yamlElement(doc.Content[0])
}

// yamlElement converts a single-key mapping {tag: body} to an Element.
func yamlElement(n *yaml.Node) (*Element, error) {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return nil, fmt.Errorf("decode yaml: line %d: element must be a single-key mapping", n.Line)
	}
	el := &Element{Tag: n.Content[0].Value}
	body := n.Content[1]
	switch {
	case body.Kind == yaml.ScalarNode && body.Tag == "!!null":
		return el, nil
	case body.Kind != yaml.MappingNode:
		return nil, fmt.Errorf("decode yaml: line %d: body of %q must be a mapping", body.Line, el.Tag)
	}
	for i := 0; i+1 < len(body.Content); i += 2 {
		key, val := body.Content[i], body.Content[i+1]
		if key.Value == childrenKey {
			if val.Kind != yaml.SequenceNode {
				return nil, fmt.Errorf("decode yaml: line %d: children of %q must be a sequence", val.Line, el.Tag)
			}
			for _, c := range val.Content {
				child, err := yamlElement(c)
				if err != nil {
					return nil, err
				}
				el.Children = append(el.Children, child)
			}
			continue
		}
		if val.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("decode yaml: line %d: attribute %q of %q must be a scalar", val.Line, key.Value, el.Tag)
		}
		el.Attrs = append(el.Attrs, Attr{Name: key.Value, Value: val.Value})
	}
	return el, nil
}
