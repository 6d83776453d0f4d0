package markup

import (
	"strings"
	"testing"
)

func TestDecodeXML(t *testing.T) {
	doc := `<?xml version="1.0"?>
<scene id="root">
  <!-- comment -->
  <entity id="a" position="1 2 3">
    <entity id="a1"/>
  </entity>
  <entity id="b"/>
</scene>`
	el, err := Decode(strings.NewReader(doc), FormatXML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if el.Tag != "scene" || len(el.Children) != 2 {
		t.Fatalf("root = <%s> with %d children", el.Tag, len(el.Children))
	}
	a := el.Children[0]
	if len(a.Attrs) != 2 || a.Attrs[0].Name != "id" || a.Attrs[1].Name != "position" {
		t.Errorf("attrs = %v, want id then position", a.Attrs)
	}
	if v, _ := a.Attr("position"); v != "1 2 3" {
		t.Errorf("position = %q", v)
	}
	if len(a.Children) != 1 {
		t.Errorf("a has %d children, want 1", len(a.Children))
	}
}

func TestDecodeXMLErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"empty":      ``,
		"unclosed":   `<scene><entity>`,
		"two roots":  `<scene/><scene/>`,
		"mismatched": `<scene></entity>`,
	} {
		if _, err := Decode(strings.NewReader(doc), FormatXML); err == nil {
			t.Errorf("%s: Decode succeeded, want error", name)
		}
	}
}

func TestDecodeYAML(t *testing.T) {
	doc := `
scene:
  id: root
  children:
    - entity:
        id: a
        opacity: 0.5
        children:
          - entity:
    - entity:
        id: b
`
	el, err := Decode(strings.NewReader(doc), FormatYAML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if el.Tag != "scene" || len(el.Children) != 2 {
		t.Fatalf("root = <%s> with %d children", el.Tag, len(el.Children))
	}
	if v, _ := el.Attr("id"); v != "root" {
		t.Errorf("id = %q, want root", v)
	}
	a := el.Children[0]
	if v, _ := a.Attr("opacity"); v != "0.5" {
		t.Errorf("opacity = %q", v)
	}
	if len(a.Children) != 1 || a.Children[0].Tag != "entity" || len(a.Children[0].Attrs) != 0 {
		t.Error("empty child body should decode to a bare element")
	}
}

func TestDecodeYAMLErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"empty":         ``,
		"two keys":      "scene: {}\nentity: {}\n",
		"scalar body":   "scene: 3\n",
		"bad children":  "scene:\n  children: nope\n",
		"mapping value": "scene:\n  position: {x: 1}\n",
	} {
		if _, err := Decode(strings.NewReader(doc), FormatYAML); err == nil {
			t.Errorf("%s: Decode succeeded, want error", name)
		}
	}
}

func TestFormatForPath(t *testing.T) {
	cases := map[string]Format{
		"scene.xml":  FormatXML,
		"scene.YAML": FormatYAML,
		"a/b.yml":    FormatYAML,
		"noext":      FormatXML,
	}
	for path, want := range cases {
		if got := FormatForPath(path); got != want {
			t.Errorf("FormatForPath(%q) = %v, want %v", path, got, want)
		}
	}
}
