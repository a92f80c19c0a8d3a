package importer

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/modelmap/xsd2model/xsd"
)

// A Kind classifies import failures.
type Kind int

const (
	// Configuration marks bad or inconsistent override rules.
	Configuration Kind = iota
	// Schema marks a malformed or self-referential input graph.
	Schema
)

func (k Kind) String() string {
	switch k {
	case Configuration:
		return "configuration"
	case Schema:
		return "schema"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// An Error describes why an import was rejected. Name identifies the
// offending qualified type when one is known.
type Error struct {
	Kind   Kind
	Name   xml.Name
	Reason string
}

func (e *Error) Error() string {
	if e.Name == (xml.Name{}) {
		return fmt.Sprintf("%s error: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("%s error: %s: %s", e.Kind, xsd.FormatName(e.Name), e.Reason)
}

func configErrorf(name xml.Name, format string, v ...interface{}) *Error {
	return &Error{Kind: Configuration, Name: name, Reason: fmt.Sprintf(format, v...)}
}

func schemaErrorf(name xml.Name, format string, v ...interface{}) *Error {
	return &Error{Kind: Schema, Name: name, Reason: fmt.Sprintf(format, v...)}
}

// IsConfiguration reports whether any error in err's chain is a
// configuration Error.
func IsConfiguration(err error) bool {
	return hasKind(err, Configuration)
}

// IsSchema reports whether any error in err's chain is a schema Error.
func IsSchema(err error) bool {
	return hasKind(err, Schema)
}

func hasKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	var list errorList
	if errors.As(err, &list) {
		for _, err := range list {
			if hasKind(err, kind) {
				return true
			}
		}
	}
	return false
}

type errorList []error

func (l errorList) Error() string {
	var buf bytes.Buffer
	for _, err := range l {
		io.WriteString(&buf, err.Error()+"\n")
	}
	return buf.String()
}
