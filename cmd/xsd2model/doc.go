/*
xsd2model is a tool to convert XML Schema type declarations into a
model-info catalog for a query-language type checker.

Usage:

	xsd2model [-o file] [--options file] [--model name] [--prefix str] [--policy policy] file ...

Given a set of XML files containing <xsd:schema> declarations,
xsd2model resolves every named type into a catalog entry and writes the
catalog as a single XML document. The first file is the primary schema;
its target namespace becomes the catalog URL. Additional files supply
types referenced across namespaces.

The --options flag names a flat .properties file of import options.
Recognized keys:

	model                             name of the data model
	normalize-prefix                  class name prefix stripped into labels
	simpletype-restriction-policy     USE_BASETYPE, EXTEND_BASETYPE or IGNORE
	retype.<QName>                    replace the schema type with the value
	extend.<QName>                    re-parent the schema type under the value
	extend.<QName>[<element>]         rename an element of an extended type

Qualified names use the conventional "{namespace}localname" form, or a
bare local name when the type has no namespace.

The --model, --prefix and --policy flags override the corresponding
option keys. The default output file is "modelinfo.xml" and can be
overridden by the -o flag. Inputs and the options file may be local
paths or URLs.
*/
package main
