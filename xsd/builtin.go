package xsd

import (
	"encoding/xml"
	"fmt"
)

// A Builtin represents one of the built-in xml schema types, as defined
// in the W3C specification, "XML Schema Part 2: Datatypes".
//
// http://www.w3.org/TR/xmlschema-2/#built-in-datatypes
type Builtin int

func (Builtin) isType() {}

const (
	AnyType Builtin = iota
	AnySimpleType
	AnyURI
	Base64Binary
	Boolean
	Byte
	Date
	DateTime
	Decimal
	Double
	Duration
	Float
	HexBinary
	ID
	IDREF
	Int
	Integer
	Language
	Long
	NCName
	NMTOKEN
	Name
	NegativeInteger
	NonNegativeInteger
	NonPositiveInteger
	NormalizedString
	PositiveInteger
	QName
	Short
	String
	Time
	Token
	UnsignedByte
	UnsignedInt
	UnsignedLong
	UnsignedShort
)

var builtinNames = [...]string{
	AnyType:            "anyType",
	AnySimpleType:      "anySimpleType",
	AnyURI:             "anyURI",
	Base64Binary:       "base64Binary",
	Boolean:            "boolean",
	Byte:               "byte",
	Date:               "date",
	DateTime:           "dateTime",
	Decimal:            "decimal",
	Double:             "double",
	Duration:           "duration",
	Float:              "float",
	HexBinary:          "hexBinary",
	ID:                 "ID",
	IDREF:              "IDREF",
	Int:                "int",
	Integer:            "integer",
	Language:           "language",
	Long:               "long",
	NCName:             "NCName",
	NMTOKEN:            "NMTOKEN",
	Name:               "Name",
	NegativeInteger:    "negativeInteger",
	NonNegativeInteger: "nonNegativeInteger",
	NonPositiveInteger: "nonPositiveInteger",
	NormalizedString:   "normalizedString",
	PositiveInteger:    "positiveInteger",
	QName:              "QName",
	Short:              "short",
	String:             "string",
	Time:               "time",
	Token:              "token",
	UnsignedByte:       "unsignedByte",
	UnsignedInt:        "unsignedInt",
	UnsignedLong:       "unsignedLong",
	UnsignedShort:      "unsignedShort",
}

// String returns the local name of the built-in type, as it appears in
// schema documents.
func (b Builtin) String() string {
	if b < 0 || int(b) >= len(builtinNames) {
		return fmt.Sprintf("Builtin(%d)", int(b))
	}
	return builtinNames[b]
}

// Name returns the canonical xml name of the built-in type. All
// built-in types are in the standard XML schema namespace,
// http://www.w3.org/2001/XMLSchema.
func (b Builtin) Name() xml.Name {
	return xml.Name{Space: schemaNS, Local: b.String()}
}

// ParseBuiltin looks up a Builtin by its canonical name. If qname does
// not name a built-in type, ParseBuiltin returns a non-nil error.
func ParseBuiltin(qname xml.Name) (Builtin, error) {
	if qname.Space == schemaNS {
		for i := range builtinNames {
			if builtinNames[i] == qname.Local {
				return Builtin(i), nil
			}
		}
	}
	return -1, fmt.Errorf("xsd:%s is not a built-in", qname.Local)
}
