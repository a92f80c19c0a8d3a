// Package modelinfo defines the resolved type catalog produced by the
// importer: one entry per emitted class, with its base type, short
// label, and resolved properties. The catalog is serialized as an XML
// document for downstream type checkers.
package modelinfo

import (
	"encoding/xml"
	"io"
)

// ModelInfo is a complete, self-consistent type catalog. Every
// non-primitive base type or element type named by an entry refers to
// another entry in the same catalog, or to a built-in of the target
// system.
type ModelInfo struct {
	XMLName xml.Name `xml:"modelInfo"`
	// Name of the data model described by the catalog.
	Name string `xml:"name,attr,omitempty"`
	// URL is the target namespace of the schema the catalog was
	// imported from.
	URL string `xml:"url,attr,omitempty"`
	// TypeInfos holds one entry per emitted class, base types ahead of
	// the classes derived from them.
	TypeInfos []ClassInfo `xml:"typeInfo"`
}

// A ClassInfo describes one emitted class of the model.
type ClassInfo struct {
	// The qualified name of the class within the model.
	Name string `xml:"name,attr"`
	// The XML namespace the class was declared in.
	Namespace string `xml:"namespace,attr,omitempty"`
	// Label is the short name the class may be referenced by, present
	// when a normalize prefix was configured and matched.
	Label string `xml:"label,attr,omitempty"`
	// BaseType names the class or target-system type this class
	// derives from. Empty for root types.
	BaseType string `xml:"baseType,attr,omitempty"`
	// Retrievable is set when a top-level schema element declares an
	// instance of this class.
	Retrievable bool `xml:"retrievable,attr"`
	// Elements holds the resolved properties, in declaration order.
	Elements []ClassInfoElement `xml:"element"`
}

// A ClassInfoElement describes one resolved property of a class.
type ClassInfoElement struct {
	Name string `xml:"name,attr"`
	Type string `xml:"type,attr"`
	// Collection is set when the schema allowed more than one
	// occurrence of the element.
	Collection bool `xml:"collection,attr,omitempty"`
	Optional   bool `xml:"optional,attr,omitempty"`
}

// Class returns the entry with the given qualified name, or nil.
func (m *ModelInfo) Class(name string) *ClassInfo {
	for i := range m.TypeInfos {
		if m.TypeInfos[i].Name == name {
			return &m.TypeInfos[i]
		}
	}
	return nil
}

// ClassByLabel returns the entry carrying the given short label, or
// nil. Labels are unique within a catalog.
func (m *ModelInfo) ClassByLabel(label string) *ClassInfo {
	for i := range m.TypeInfos {
		if m.TypeInfos[i].Label == label {
			return &m.TypeInfos[i]
		}
	}
	return nil
}

// Encode writes the catalog as an indented XML document.
func (m *ModelInfo) Encode(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "\t")
	if err := enc.Encode(m); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
