package xsd

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// FormatName renders a qualified name in its conventional textual form,
// "{namespace}localname". A name with an empty namespace is rendered as
// the bare local name. FormatName and ParseName are exact inverses.
func FormatName(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return "{" + name.Space + "}" + name.Local
}

// ParseName parses the textual form of a qualified name, as produced by
// FormatName. A string without a "{namespace}" prefix parses as a local
// name with an empty namespace.
func ParseName(s string) (xml.Name, error) {
	var name xml.Name
	if strings.HasPrefix(s, "{") {
		end := strings.Index(s, "}")
		if end < 0 {
			return name, fmt.Errorf("malformed qualified name %q: missing closing brace", s)
		}
		name.Space = s[1:end]
		name.Local = s[end+1:]
	} else {
		name.Local = s
	}
	if name.Local == "" {
		return xml.Name{}, fmt.Errorf("malformed qualified name %q: empty local name", s)
	}
	if strings.ContainsAny(name.Local, "{}") {
		return xml.Name{}, fmt.Errorf("malformed qualified name %q: braces in local name", s)
	}
	return name, nil
}
