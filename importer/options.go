package importer

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/magiconair/properties"
	"github.com/pkg/errors"

	"github.com/modelmap/xsd2model/xsd"
)

// A Relationship is the kind of override a TypeMapping declares.
type Relationship int

const (
	// Retype replaces a schema type with a target-system type,
	// erasing the original from the catalog.
	Retype Relationship = iota
	// Extend keeps the schema type but re-parents it under a
	// target-system base type, with optional per-element renaming.
	Extend
)

func (r Relationship) String() string {
	switch r {
	case Retype:
		return "retype"
	case Extend:
		return "extend"
	}
	return fmt.Sprintf("Relationship(%d)", int(r))
}

// A RestrictionPolicy governs how simple types declared as restrictions
// of other simple types are represented in the catalog.
type RestrictionPolicy int

const (
	// UseBaseType replaces every use of a restricted simple type with
	// its ultimate base primitive, and emits no entry for the
	// restricted type itself. The default.
	UseBaseType RestrictionPolicy = iota + 1
	// ExtendBaseType emits an entry for the restricted type whose
	// base is its immediate base type. The restriction constraints
	// themselves are still not retained.
	ExtendBaseType
	// Ignore emits an entry for the restricted type with no relation
	// to its base. This is rarely the intended behavior.
	Ignore
)

var policyNames = map[RestrictionPolicy]string{
	UseBaseType:    "USE_BASETYPE",
	ExtendBaseType: "EXTEND_BASETYPE",
	Ignore:         "IGNORE",
}

func (p RestrictionPolicy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("RestrictionPolicy(%d)", int(p))
}

// ParseRestrictionPolicy parses the wire form of a restriction policy.
// The match is exact and case-sensitive; anything else is a
// configuration error.
func ParseRestrictionPolicy(s string) (RestrictionPolicy, error) {
	for p, name := range policyNames {
		if name == s {
			return p, nil
		}
	}
	return 0, configErrorf(xml.Name{}, "unknown simpletype-restriction-policy %q", s)
}

// A TypeMapping is one override rule for exactly one qualified schema
// type: it either retypes the schema type onto a target-system type, or
// extends the target-system type, optionally renaming individual
// elements. TypeMappings are created by configuration parsing and are
// read-only afterwards.
type TypeMapping struct {
	Relationship Relationship
	// Target names the built-in target-system type the schema type is
	// retyped to or extended from.
	Target string
	// source element name -> target property name; only ever set on
	// Extend mappings.
	elements map[string]string
}

func newRetype(target string) *TypeMapping {
	return &TypeMapping{Relationship: Retype, Target: target}
}

func newExtend(target string) *TypeMapping {
	return &TypeMapping{Relationship: Extend, Target: target, elements: make(map[string]string)}
}

// MappedName returns the property name a source element is emitted
// under. Elements with no mapping keep their own name.
func (m *TypeMapping) MappedName(element string) string {
	if mapped, ok := m.elements[element]; ok {
		return mapped
	}
	return element
}

// ElementNames returns the source element names this mapping renames,
// sorted.
func (m *TypeMapping) ElementNames() []string {
	names := make([]string, 0, len(m.elements))
	for name := range m.elements {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Options is the aggregate import configuration: the model name, the
// simple-type restriction policy, the label normalization prefix, and
// the full table of type mappings. The zero value is ready to use.
// Options are populated by configuration parsing or option setters, and
// must not be modified once an import run has started.
type Options struct {
	model           string
	normalizePrefix string
	policy          RestrictionPolicy
	typeMap         map[xml.Name]*TypeMapping
}

// Model returns the configured model name, or "" when unset.
func (o *Options) Model() string { return o.model }

// NormalizePrefix returns the prefix stripped from qualified class
// names to form short labels, or "" when label normalization is off.
func (o *Options) NormalizePrefix() string { return o.normalizePrefix }

// RestrictionPolicy returns the configured policy, defaulting to
// UseBaseType when none was set.
func (o *Options) RestrictionPolicy() RestrictionPolicy {
	if o.policy == 0 {
		return UseBaseType
	}
	return o.policy
}

// Mapping looks up the override declared for a qualified type name.
func (o *Options) Mapping(name xml.Name) (*TypeMapping, bool) {
	m, ok := o.typeMap[name]
	return m, ok
}

// MappingNames returns the qualified names carrying overrides, sorted
// by their textual form.
func (o *Options) MappingNames() []xml.Name {
	names := make([]xml.Name, 0, len(o.typeMap))
	for name := range o.typeMap {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return xsd.FormatName(names[i]) < xsd.FormatName(names[j])
	})
	return names
}

var (
	retypePattern   = regexp.MustCompile(`^\s*retype\.(.+?)\s*$`)
	extendPattern   = regexp.MustCompile(`^\s*extend\.([^\[\]]+?)\s*$`)
	extendElPattern = regexp.MustCompile(`^\s*extend\.([^\[\]]+?)\[([^\]]+)\]\s*$`)
)

// ApplyProperties merges a flat key/value configuration into the
// options. The dedicated keys "model", "normalize-prefix" and
// "simpletype-restriction-policy" set the corresponding fields; keys of
// the form "retype.<QName>", "extend.<QName>" and
// "extend.<QName>[<element>]" populate the mapping table. All other
// keys are ignored.
//
// Class-level mappings are applied before any element-level mapping,
// regardless of the order keys appear in the document, so an element
// mapping can never precede the class mapping it refines. An element
// mapping without a class mapping, or on a retyped class, is a
// configuration error.
func (o *Options) ApplyProperties(p *properties.Properties) error {
	if v, ok := p.Get("model"); ok && v != "" {
		o.model = v
	}
	if v, ok := p.Get("normalize-prefix"); ok && v != "" {
		o.normalizePrefix = v
	}
	if v, ok := p.Get("simpletype-restriction-policy"); ok && v != "" {
		policy, err := ParseRestrictionPolicy(v)
		if err != nil {
			return err
		}
		o.policy = policy
	}

	keys := append([]string(nil), p.Keys()...)
	sort.Strings(keys)

	for _, k := range keys {
		if m := retypePattern.FindStringSubmatch(k); m != nil {
			name, err := parseMappingName(k, m[1])
			if err != nil {
				return err
			}
			o.setMapping(name, newRetype(p.MustGet(k)))
			continue
		}
		if m := extendPattern.FindStringSubmatch(k); m != nil {
			name, err := parseMappingName(k, m[1])
			if err != nil {
				return err
			}
			o.setMapping(name, newExtend(p.MustGet(k)))
		}
	}
	for _, k := range keys {
		m := extendElPattern.FindStringSubmatch(k)
		if m == nil {
			continue
		}
		name, err := parseMappingName(k, m[1])
		if err != nil {
			return err
		}
		mapping, ok := o.typeMap[name]
		if !ok {
			return configErrorf(name, "element mapping %q declared before class mapping", k)
		}
		if mapping.Relationship == Retype {
			return configErrorf(name, "cannot map elements of a retyped class: %q", k)
		}
		mapping.elements[strings.TrimSpace(m[2])] = p.MustGet(k)
	}
	return nil
}

func parseMappingName(key, text string) (xml.Name, error) {
	name, err := xsd.ParseName(strings.TrimSpace(text))
	if err != nil {
		return xml.Name{}, configErrorf(xml.Name{}, "mapping key %q: %v", key, err)
	}
	return name, nil
}

func (o *Options) setMapping(name xml.Name, m *TypeMapping) {
	if o.typeMap == nil {
		o.typeMap = make(map[xml.Name]*TypeMapping)
	}
	o.typeMap[name] = m
}

// ExportProperties renders the options back into the flat key/value
// form read by ApplyProperties. Export is deterministic: mappings are
// emitted sorted by qualified name, element mappings sorted by element
// name. ApplyProperties(ExportProperties()) round-trips to equal
// options.
func (o *Options) ExportProperties() *properties.Properties {
	p := properties.NewProperties()
	p.DisableExpansion = true
	if o.model != "" {
		p.Set("model", o.model)
	}
	if o.normalizePrefix != "" {
		p.Set("normalize-prefix", o.normalizePrefix)
	}
	if o.policy != 0 {
		p.Set("simpletype-restriction-policy", o.policy.String())
	}
	for _, name := range o.MappingNames() {
		m := o.typeMap[name]
		qname := xsd.FormatName(name)
		switch m.Relationship {
		case Retype:
			p.Set("retype."+qname, m.Target)
		case Extend:
			p.Set("extend."+qname, m.Target)
			for _, el := range m.ElementNames() {
				p.Set(fmt.Sprintf("extend.%s[%s]", qname, el), m.elements[el])
			}
		}
	}
	return p
}

// LoadOptions parses a .properties document into a fresh Options
// value. Value expansion is disabled; "${...}" stays literal.
func LoadOptions(data []byte) (*Options, error) {
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := loader.LoadBytes(data)
	if err != nil {
		return nil, errors.Wrap(err, "load import options")
	}
	o := new(Options)
	if err := o.ApplyProperties(p); err != nil {
		return nil, err
	}
	return o, nil
}
