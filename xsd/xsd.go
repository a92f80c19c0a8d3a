// Package xsd models type declarations in XML Schema documents.
//
// The xsd package implements a reader for the subset of the XML Schema
// standard needed to describe a data model: named complex and simple
// types, their base-type derivations, and the elements they may contain.
// It does not validate schema documents, and it does not record
// restriction facets (patterns, ranges, enumerations) beyond the base
// type reference; consumers of this package decide how restrictions
// collapse into their own type system.
package xsd

import (
	"encoding/xml"
	"fmt"
)

const schemaNS = "http://www.w3.org/2001/XMLSchema"

// Types in XML Schema Documents are derived from one of the built-in
// types defined by the standard, by restricting or extending the range
// of values a type may contain. A Type may be one of *SimpleType,
// *ComplexType, or Builtin.
type Type interface {
	// just for compile-time type checking
	isType()
}

// An Element describes an XML element that may appear as part of a
// complex type, or at the top level of a schema document.
type Element struct {
	// Annotations for this element
	Doc string
	// The canonical name of this element
	Name xml.Name
	// Type of this element.
	Type Type
	// True if maxOccurs > 1 or maxOccurs == "unbounded"
	Plural bool
	// True if the element is optional (minOccurs == 0).
	Optional bool
}

// A Schema is the decoded form of an XSD <schema> element. It contains
// a collection of all types declared in the schema, along with the
// top-level element declarations.
type Schema struct {
	// The target namespace of the schema. All types defined in this
	// schema will be in this name space.
	TargetNS string
	// Types defined in this schema declaration
	Types map[xml.Name]Type
	// Top-level element declarations.
	Elements []Element
	// Any annotations declared at the top-level of the schema.
	Doc string
}

// FindType looks for a type by its canonical name. In addition to the
// types declared in a Schema, FindType will also search through the
// types that a Schema's top-level types are derived from. FindType
// returns nil if a type could not be found with the given name.
func (s *Schema) FindType(name xml.Name) Type {
	for _, t := range s.Types {
		if t := findType(t, name); t != nil {
			return t
		}
	}
	return nil
}

func findType(t Type, name xml.Name) Type {
	if XMLName(t) == name {
		return t
	}
	if b := Base(t); b != nil {
		return findType(b, name)
	}
	return nil
}

// An XSD type can reference other types when deriving new types or
// describing elements. These types don't have to appear in-order; a
// type may be declared before its dependencies. To handle this, we
// use a "stub" Type, resolved in a second pass.
type linkedType xml.Name

func (linkedType) isType() {}

// A ComplexType describes an XML element that may contain other
// elements in its content. Complex types are derived by extending or
// restricting another type.
type ComplexType struct {
	// Annotations provided by the schema author.
	Doc string
	// The canonical name of this type.
	Name xml.Name
	// The type this type is derived from, or nil if the type is not
	// derived from another type.
	Base Type
	// XML elements that this type may contain in its content, in
	// declaration order.
	Elements []Element
	// An abstract type does not appear in xml documents, but is
	// "implemented" by other types in its substitution group.
	Abstract bool
	// If true, this type is an extension to Base. Otherwise, this
	// type is derived by restricting Base.
	Extends bool
}

func (*ComplexType) isType() {}

// A SimpleType describes an XML element that does not contain elements
// or attributes. A named SimpleType is always declared as a restriction
// of another simple type, and its Base chain is guaranteed to end in a
// Builtin value.
type SimpleType struct {
	// The canonical name of this type
	Name xml.Name
	// Any annotations for this type, as provided by the schema
	// author.
	Doc string
	// The simple or built-in type this type restricts.
	Base Type
}

func (*SimpleType) isType() {}

// XMLName returns the canonical xml name of a Type.
func XMLName(t Type) xml.Name {
	switch t := t.(type) {
	case *SimpleType:
		return t.Name
	case *ComplexType:
		return t.Name
	case Builtin:
		return t.Name()
	case linkedType:
		return xml.Name(t)
	}
	panic(fmt.Sprintf("xsd: unexpected xsd.Type %[1]T %[1]v passed to XMLName", t))
}

// Base returns the base type that a Type is derived from, or nil if the
// type is not derived from another type. Builtin types always return
// nil.
func Base(t Type) Type {
	switch t := t.(type) {
	case *ComplexType:
		return t.Base
	case *SimpleType:
		return t.Base
	case Builtin:
		return nil
	case linkedType:
		return nil
	}
	panic(fmt.Sprintf("xsd: unexpected xsd.Type %[1]T %[1]v passed to Base", t))
}
