package importer

import "github.com/modelmap/xsd2model/xsd"

// builtinTbl maps each XSD built-in type to the primitive the target
// system represents it with.
var builtinTbl = map[xsd.Builtin]string{
	xsd.AnyType:            "System.Any",
	xsd.AnySimpleType:      "System.Any",
	xsd.AnyURI:             "System.String",
	xsd.Base64Binary:       "System.String",
	xsd.Boolean:            "System.Boolean",
	xsd.Byte:               "System.Integer",
	xsd.Date:               "System.Date",
	xsd.DateTime:           "System.DateTime",
	xsd.Decimal:            "System.Decimal",
	xsd.Double:             "System.Decimal",
	xsd.Duration:           "System.String",
	xsd.Float:              "System.Decimal",
	xsd.HexBinary:          "System.String",
	xsd.ID:                 "System.String",
	xsd.IDREF:              "System.String",
	xsd.Int:                "System.Integer",
	xsd.Integer:            "System.Integer",
	xsd.Language:           "System.String",
	xsd.Long:               "System.Integer",
	xsd.NCName:             "System.String",
	xsd.NMTOKEN:            "System.String",
	xsd.Name:               "System.String",
	xsd.NegativeInteger:    "System.Integer",
	xsd.NonNegativeInteger: "System.Integer",
	xsd.NonPositiveInteger: "System.Integer",
	xsd.NormalizedString:   "System.String",
	xsd.PositiveInteger:    "System.Integer",
	xsd.QName:              "System.String",
	xsd.Short:              "System.Integer",
	xsd.String:             "System.String",
	xsd.Time:               "System.Time",
	xsd.Token:              "System.String",
	xsd.UnsignedByte:       "System.Integer",
	xsd.UnsignedInt:        "System.Integer",
	xsd.UnsignedLong:       "System.Integer",
	xsd.UnsignedShort:      "System.Integer",
}

// builtinName returns the target-system primitive for a built-in schema
// type.
func builtinName(b xsd.Builtin) string {
	if s, ok := builtinTbl[b]; ok {
		return s
	}
	return "System.Any"
}
