package xsd

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// The decode structs below mirror the subset of the <xs:schema> grammar
// this package understands. Namespace prefixes used in type references
// must be declared on the <schema> element itself; prefixes declared on
// nested elements are not visible to the reader.

type schemaDoc struct {
	XMLName      xml.Name         `xml:"http://www.w3.org/2001/XMLSchema schema"`
	TargetNS     string           `xml:"targetNamespace,attr"`
	Attrs        []xml.Attr       `xml:",any,attr"`
	Annotation   *annotationDoc   `xml:"annotation"`
	Elements     []elementDoc     `xml:"element"`
	ComplexTypes []complexTypeDoc `xml:"complexType"`
	SimpleTypes  []simpleTypeDoc  `xml:"simpleType"`
}

type complexTypeDoc struct {
	Name           string         `xml:"name,attr"`
	Abstract       bool           `xml:"abstract,attr"`
	Annotation     *annotationDoc `xml:"annotation"`
	Sequence       []elementDoc   `xml:"sequence>element"`
	ComplexContent *contentDoc    `xml:"complexContent"`
	SimpleContent  *contentDoc    `xml:"simpleContent"`
}

type contentDoc struct {
	Extension   *derivationDoc `xml:"extension"`
	Restriction *derivationDoc `xml:"restriction"`
}

type derivationDoc struct {
	Base     string       `xml:"base,attr"`
	Sequence []elementDoc `xml:"sequence>element"`
}

type simpleTypeDoc struct {
	Name        string         `xml:"name,attr"`
	Annotation  *annotationDoc `xml:"annotation"`
	Restriction *struct {
		Base string `xml:"base,attr"`
	} `xml:"restriction"`
}

type elementDoc struct {
	Name       string         `xml:"name,attr"`
	Type       string         `xml:"type,attr"`
	MinOccurs  string         `xml:"minOccurs,attr"`
	MaxOccurs  string         `xml:"maxOccurs,attr"`
	Annotation *annotationDoc `xml:"annotation"`
}

// An <xs:annotation> element may contain zero or more <xs:documentation>
// children. Their content is joined, separated with blank lines.
type annotationDoc struct {
	Documentation []string `xml:"documentation"`
}

func (a *annotationDoc) text() string {
	if a == nil {
		return ""
	}
	parts := make([]string, 0, len(a.Documentation))
	for _, doc := range a.Documentation {
		if doc = strings.TrimSpace(doc); doc != "" {
			parts = append(parts, doc)
		}
	}
	return strings.Join(parts, "\n\n")
}

// A scope maps namespace prefixes to namespace URIs, so that prefixed
// type references such as "xs:string" can be turned into canonical
// names.
type scope struct {
	prefixes map[string]string
}

func (d *schemaDoc) scope() scope {
	sc := scope{prefixes: make(map[string]string)}
	for _, attr := range d.Attrs {
		switch {
		case attr.Name.Space == "xmlns":
			sc.prefixes[attr.Name.Local] = attr.Value
		case attr.Name.Space == "" && attr.Name.Local == "xmlns":
			sc.prefixes[""] = attr.Value
		}
	}
	return sc
}

func (s scope) resolve(ref string) xml.Name {
	if i := strings.Index(ref, ":"); i >= 0 {
		return xml.Name{Space: s.prefixes[ref[:i]], Local: ref[i+1:]}
	}
	return xml.Name{Space: s.prefixes[""], Local: ref}
}

// Parse reads XML documents each containing one <schema> element. The
// returned slice has one Schema per document, in argument order. Type
// references may point forward, and may cross documents; they are
// resolved in a second pass once every declaration has been seen. A
// reference to a type that is neither declared nor built-in is an
// error.
func Parse(docs ...[]byte) ([]Schema, error) {
	roots := make([]*schemaDoc, 0, len(docs))
	for _, data := range docs {
		root := new(schemaDoc)
		if err := xml.NewDecoder(bytes.NewReader(data)).Decode(root); err != nil {
			return nil, errors.Wrap(err, "decode schema document")
		}
		roots = append(roots, root)
	}

	index := make(map[xml.Name]Type)
	schemas := make([]Schema, 0, len(roots))
	for _, root := range roots {
		s, err := root.schema()
		if err != nil {
			return nil, err
		}
		for k, v := range s.Types {
			if _, ok := index[k]; ok {
				return nil, errors.Errorf("duplicate declaration of type %s", FormatName(k))
			}
			index[k] = v
		}
		schemas = append(schemas, s)
	}

	for i := range schemas {
		if err := schemas[i].link(index); err != nil {
			return nil, err
		}
	}
	return schemas, nil
}

func (d *schemaDoc) schema() (Schema, error) {
	s := Schema{
		TargetNS: d.TargetNS,
		Types:    make(map[xml.Name]Type),
		Doc:      d.Annotation.text(),
	}
	sc := d.scope()
	for i := range d.ComplexTypes {
		t, err := d.ComplexTypes[i].complexType(d.TargetNS, sc)
		if err != nil {
			return s, err
		}
		if _, ok := s.Types[t.Name]; ok {
			return s, errors.Errorf("duplicate declaration of type %s", FormatName(t.Name))
		}
		s.Types[t.Name] = t
	}
	for i := range d.SimpleTypes {
		t, err := d.SimpleTypes[i].simpleType(d.TargetNS, sc)
		if err != nil {
			return s, err
		}
		if _, ok := s.Types[t.Name]; ok {
			return s, errors.Errorf("duplicate declaration of type %s", FormatName(t.Name))
		}
		s.Types[t.Name] = t
	}
	for i := range d.Elements {
		e, err := d.Elements[i].element(sc)
		if err != nil {
			return s, err
		}
		s.Elements = append(s.Elements, e)
	}
	return s, nil
}

func (d *complexTypeDoc) complexType(tns string, sc scope) (*ComplexType, error) {
	if d.Name == "" {
		return nil, errors.New("top-level complexType missing name attribute")
	}
	t := &ComplexType{
		Name:     xml.Name{Space: tns, Local: d.Name},
		Abstract: d.Abstract,
		Doc:      d.Annotation.text(),
	}
	elements := d.Sequence
	for _, content := range []*contentDoc{d.ComplexContent, d.SimpleContent} {
		if content == nil {
			continue
		}
		deriv, extends := content.Extension, true
		if deriv == nil {
			deriv, extends = content.Restriction, false
		}
		if deriv == nil || deriv.Base == "" {
			return nil, errors.Errorf("complexType %s: derivation without base type", d.Name)
		}
		t.Base = linkedType(sc.resolve(deriv.Base))
		t.Extends = extends
		if content == d.ComplexContent {
			elements = deriv.Sequence
		}
	}
	for i := range elements {
		e, err := elements[i].element(sc)
		if err != nil {
			return nil, errors.Wrapf(err, "complexType %s", d.Name)
		}
		t.Elements = append(t.Elements, e)
	}
	return t, nil
}

func (d *simpleTypeDoc) simpleType(tns string, sc scope) (*SimpleType, error) {
	if d.Name == "" {
		return nil, errors.New("top-level simpleType missing name attribute")
	}
	if d.Restriction == nil || d.Restriction.Base == "" {
		return nil, errors.Errorf("simpleType %s: only restrictions of a named base type are supported", d.Name)
	}
	return &SimpleType{
		Name: xml.Name{Space: tns, Local: d.Name},
		Base: linkedType(sc.resolve(d.Restriction.Base)),
		Doc:  d.Annotation.text(),
	}, nil
}

func (d *elementDoc) element(sc scope) (Element, error) {
	var e Element
	if d.Name == "" {
		return e, errors.New("element missing name attribute")
	}
	if d.Type == "" {
		return e, errors.Errorf("element %s: inline type declarations are not supported", d.Name)
	}
	e.Name = xml.Name{Local: d.Name}
	e.Type = linkedType(sc.resolve(d.Type))
	e.Doc = d.Annotation.text()
	e.Optional = d.MinOccurs == "0"
	switch d.MaxOccurs {
	case "", "0", "1":
	case "unbounded":
		e.Plural = true
	default:
		n, err := strconv.Atoi(d.MaxOccurs)
		if err != nil {
			return e, errors.Errorf("element %s: invalid maxOccurs %q", d.Name, d.MaxOccurs)
		}
		e.Plural = n > 1
	}
	return e, nil
}

// link replaces every stub reference in the schema with the declared or
// built-in type it names.
func (s *Schema) link(index map[xml.Name]Type) error {
	for name, t := range s.Types {
		switch t := t.(type) {
		case *ComplexType:
			if t.Base != nil {
				base, err := resolveRef(t.Base, index)
				if err != nil {
					return errors.Wrapf(err, "type %s", FormatName(name))
				}
				t.Base = base
			}
			for i := range t.Elements {
				typ, err := resolveRef(t.Elements[i].Type, index)
				if err != nil {
					return errors.Wrapf(err, "type %s element %s", FormatName(name), t.Elements[i].Name.Local)
				}
				t.Elements[i].Type = typ
			}
		case *SimpleType:
			base, err := resolveRef(t.Base, index)
			if err != nil {
				return errors.Wrapf(err, "type %s", FormatName(name))
			}
			t.Base = base
		}
	}
	for i := range s.Elements {
		typ, err := resolveRef(s.Elements[i].Type, index)
		if err != nil {
			return errors.Wrapf(err, "element %s", s.Elements[i].Name.Local)
		}
		s.Elements[i].Type = typ
	}
	return nil
}

func resolveRef(t Type, index map[xml.Name]Type) (Type, error) {
	ref, ok := t.(linkedType)
	if !ok {
		return t, nil
	}
	name := xml.Name(ref)
	if b, err := ParseBuiltin(name); err == nil {
		return b, nil
	}
	if t, ok := index[name]; ok {
		return t, nil
	}
	return nil, errors.Errorf("reference to undeclared type %s", FormatName(name))
}
