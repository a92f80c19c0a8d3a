package importer

import (
	"encoding/xml"
	"sort"
	"strings"

	"github.com/modelmap/xsd2model/internal/dependency"
	"github.com/modelmap/xsd2model/modelinfo"
	"github.com/modelmap/xsd2model/xsd"
)

// A Config holds the import options plus the run-time collaborators of
// one import run. Configs must not be shared between concurrent import
// runs; each run gets its own Config.
type Config struct {
	opts     Options
	logger   Logger
	loglevel int
}

// Types implementing the Logger interface can receive debug information
// from the import process. The Logger interface is implemented by
// *log.Logger.
type Logger interface {
	Printf(format string, v ...interface{})
}

func (cfg *Config) errorf(format string, v ...interface{}) {
	if cfg.logger != nil {
		cfg.logger.Printf(format, v...)
	}
}

func (cfg *Config) logf(format string, v ...interface{}) {
	if cfg.logger != nil && cfg.loglevel > 0 {
		cfg.logger.Printf(format, v...)
	}
}

func (cfg *Config) debugf(format string, v ...interface{}) {
	if cfg.logger != nil && cfg.loglevel > 1 {
		cfg.logger.Printf(format, v...)
	}
}

// An Option is used to customize a Config.
type Option func(*Config) Option

// The Option method is used to configure an existing configuration.
// The return value of the Option method can be used to revert the
// final option to its previous setting.
func (cfg *Config) Option(opts ...Option) (previous Option) {
	for _, opt := range opts {
		previous = opt(cfg)
	}
	return previous
}

// Options exposes the import options held by the Config, for loading
// and exporting .properties configuration.
func (cfg *Config) Options() *Options {
	return &cfg.opts
}

// ModelName sets the name of the data model described by the catalog.
func ModelName(name string) Option {
	return func(cfg *Config) Option {
		prev := cfg.opts.model
		cfg.opts.model = name
		return ModelName(prev)
	}
}

// NormalizePrefix enables short labels: every class whose qualified
// name starts with prefix is additionally labeled with the name minus
// the prefix. The prefix must include the model name (e.g.
// "CDA.POCD_MT000040." for a model named CDA).
func NormalizePrefix(prefix string) Option {
	return func(cfg *Config) Option {
		prev := cfg.opts.normalizePrefix
		cfg.opts.normalizePrefix = prefix
		return NormalizePrefix(prev)
	}
}

// SimpleTypeRestrictionPolicy sets how simple-type restrictions are
// collapsed into the catalog.
func SimpleTypeRestrictionPolicy(policy RestrictionPolicy) Option {
	return func(cfg *Config) Option {
		prev := cfg.opts.policy
		cfg.opts.policy = policy
		return SimpleTypeRestrictionPolicy(prev)
	}
}

// ImportOptions replaces the entire option set of the Config, usually
// with options loaded through LoadOptions.
func ImportOptions(o *Options) Option {
	return func(cfg *Config) Option {
		prev := cfg.opts
		cfg.opts = *o
		return ImportOptions(&prev)
	}
}

// LogOutput specifies an optional Logger for warnings and debug
// information about the import process.
func LogOutput(l Logger) Option {
	return func(cfg *Config) Option {
		prev := cfg.logger
		cfg.logger = l
		return LogOutput(prev)
	}
}

// LogLevel sets the verbosity of messages sent to the error log
// configured with the LogOutput option.
func LogLevel(level int) Option {
	return func(cfg *Config) Option {
		prev := cfg.loglevel
		cfg.loglevel = level
		return LogLevel(prev)
	}
}

// Import resolves a parsed schema graph against the configured options
// and produces the model catalog. The first schema is the primary one;
// its target namespace becomes the catalog URL. Types declared in the
// extra schemas are available for reference resolution and are emitted
// into the same catalog.
//
// Import never emits a partial catalog: any configuration conflict or
// schema defect fails the whole run.
func (cfg *Config) Import(schema xsd.Schema, extra ...xsd.Schema) (*modelinfo.ModelInfo, error) {
	types := make(map[xml.Name]xsd.Type, len(schema.Types))
	for k, v := range schema.Types {
		types[k] = v
	}
	retrievable := make(map[xml.Name]bool)
	cfg.markRetrievable(retrievable, schema)
	for _, s := range extra {
		for k, v := range s.Types {
			if _, ok := types[k]; !ok {
				types[k] = v
			}
		}
		cfg.markRetrievable(retrievable, s)
	}

	r := &resolver{cfg: cfg, opts: &cfg.opts, types: types, retrievable: retrievable}

	graph := r.baseGraph()
	if err := r.checkCycles(graph); err != nil {
		return nil, err
	}
	if err := r.checkMappings(); err != nil {
		return nil, err
	}

	model := &modelinfo.ModelInfo{
		Name: cfg.opts.Model(),
		URL:  schema.TargetNS,
	}

	// Each type is resolved independently over the read-only graph, so
	// traversal order cannot leak into the result; entries are emitted
	// with base types ahead of the types derived from them, and
	// alphabetically otherwise.
	byName := make(map[string]xml.Name, len(types))
	names := make([]string, 0, len(types))
	for name := range types {
		q := xsd.FormatName(name)
		byName[q] = name
		names = append(names, q)
	}
	sort.Strings(names)

	order := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	graph.Flatten(func(v string) {
		if _, ok := byName[v]; ok && !seen[v] {
			seen[v] = true
			order = append(order, v)
		}
	})
	for _, q := range names {
		if !seen[q] {
			seen[q] = true
			order = append(order, q)
		}
	}

	var errs errorList
	labels := make(map[string]xml.Name)
	for _, q := range order {
		name := byName[q]
		entry, err := r.classInfo(name, types[name])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if entry == nil {
			continue
		}
		if entry.Label != "" {
			if prev, ok := labels[entry.Label]; ok {
				errs = append(errs, configErrorf(name,
					"label %q collides with %s", entry.Label, xsd.FormatName(prev)))
				continue
			}
			labels[entry.Label] = name
		}
		model.TypeInfos = append(model.TypeInfos, *entry)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	cfg.logf("imported %d classes from %q", len(model.TypeInfos), schema.TargetNS)
	return model, nil
}

func (cfg *Config) markRetrievable(set map[xml.Name]bool, s xsd.Schema) {
	for _, el := range s.Elements {
		t, ok := el.Type.(*xsd.ComplexType)
		if !ok {
			cfg.errorf("element %s: type %s is not a class and cannot be retrieved",
				el.Name.Local, xsd.FormatName(xsd.XMLName(el.Type)))
			continue
		}
		set[t.Name] = true
	}
}

type resolver struct {
	cfg         *Config
	opts        *Options
	types       map[xml.Name]xsd.Type
	retrievable map[xml.Name]bool
}

// baseGraph collects the base-type references between declared types.
// References to builtins are leaves and stay out of the graph.
func (r *resolver) baseGraph() *dependency.Graph {
	var g dependency.Graph
	for name, t := range r.types {
		base := xsd.Base(t)
		if base == nil {
			continue
		}
		if _, ok := base.(xsd.Builtin); ok {
			continue
		}
		g.Add(xsd.FormatName(name), xsd.FormatName(xsd.XMLName(base)))
	}
	return &g
}

// checkCycles rejects schema graphs whose base-type references form a
// cycle. Every later chain walk relies on chains being finite.
func (r *resolver) checkCycles(g *dependency.Graph) error {
	r.cfg.debugf("checking %d derived types for base type cycles", g.Len())
	if cycle := g.Cycle(); cycle != nil {
		name, err := xsd.ParseName(cycle[0])
		if err != nil {
			name = xml.Name{}
		}
		return schemaErrorf(name, "base type cycle: %s", strings.Join(cycle, " -> "))
	}
	return nil
}

// checkMappings rejects overrides that reference a qualified name
// declared nowhere in the schema graph; such a mapping is almost
// certainly a configuration typo, and silently ignoring it would hide
// the mistake.
func (r *resolver) checkMappings() error {
	var errs errorList
	for _, name := range r.opts.MappingNames() {
		if _, ok := r.types[name]; !ok {
			errs = append(errs, configErrorf(name, "mapping does not match any schema type"))
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *resolver) classInfo(name xml.Name, t xsd.Type) (*modelinfo.ClassInfo, error) {
	switch t := t.(type) {
	case *xsd.SimpleType:
		return r.simpleClassInfo(name, t)
	case *xsd.ComplexType:
		return r.complexClassInfo(name, t)
	}
	return nil, nil
}

func (r *resolver) simpleClassInfo(name xml.Name, t *xsd.SimpleType) (*modelinfo.ClassInfo, error) {
	if m, ok := r.opts.Mapping(name); ok {
		if m.Relationship == Retype {
			r.cfg.debugf("simpleType %s retyped to %s", xsd.FormatName(name), m.Target)
			return nil, nil
		}
		ci := r.newClassInfo(name)
		ci.BaseType = m.Target
		return ci, nil
	}
	switch r.opts.RestrictionPolicy() {
	case ExtendBaseType:
		base, err := r.typeName(t.Base)
		if err != nil {
			return nil, err
		}
		ci := r.newClassInfo(name)
		ci.BaseType = base
		return ci, nil
	case Ignore:
		return r.newClassInfo(name), nil
	default:
		// UseBaseType: the restricted type is erased; typeName
		// rewrites every reference to the root primitive.
		r.cfg.debugf("simpleType %s collapsed to its base type", xsd.FormatName(name))
		return nil, nil
	}
}

func (r *resolver) complexClassInfo(name xml.Name, t *xsd.ComplexType) (*modelinfo.ClassInfo, error) {
	mapping, mapped := r.opts.Mapping(name)
	if mapped && mapping.Relationship == Retype {
		r.cfg.debugf("complexType %s retyped to %s", xsd.FormatName(name), mapping.Target)
		return nil, nil
	}
	ci := r.newClassInfo(name)
	if mapped {
		ci.BaseType = mapping.Target
	} else if t.Base != nil {
		base, err := r.typeName(t.Base)
		if err != nil {
			return nil, err
		}
		ci.BaseType = base
	}
	var errs errorList
	for _, el := range t.Elements {
		elName := el.Name.Local
		if mapped {
			elName = mapping.MappedName(elName)
		}
		typeName, err := r.typeName(el.Type)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		ci.Elements = append(ci.Elements, modelinfo.ClassInfoElement{
			Name:       elName,
			Type:       typeName,
			Collection: el.Plural,
			Optional:   el.Optional,
		})
	}
	if mapped {
		for _, orig := range mapping.ElementNames() {
			if !hasElement(t, orig) {
				errs = append(errs, configErrorf(name, "no element named %q to rename", orig))
			}
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return ci, nil
}

func hasElement(t *xsd.ComplexType, name string) bool {
	for _, el := range t.Elements {
		if el.Name.Local == name {
			return true
		}
	}
	return false
}

func (r *resolver) newClassInfo(name xml.Name) *modelinfo.ClassInfo {
	qual := r.className(name)
	ci := &modelinfo.ClassInfo{
		Name:        qual,
		Namespace:   name.Space,
		Retrievable: r.retrievable[name],
	}
	if prefix := r.opts.NormalizePrefix(); prefix != "" {
		if label := strings.TrimPrefix(qual, prefix); label != qual && label != "" {
			ci.Label = label
		}
	}
	return ci
}

// className returns the qualified name a schema type carries in the
// target system.
func (r *resolver) className(name xml.Name) string {
	if model := r.opts.Model(); model != "" {
		return model + "." + name.Local
	}
	return name.Local
}

// typeName resolves a type reference to the name it carries in the
// target system, rewriting references to retyped classes and to
// collapsed simple types.
func (r *resolver) typeName(t xsd.Type) (string, error) {
	switch t := t.(type) {
	case xsd.Builtin:
		return builtinName(t), nil
	case *xsd.SimpleType:
		if m, ok := r.opts.Mapping(t.Name); ok {
			if m.Relationship == Retype {
				return m.Target, nil
			}
			return r.className(t.Name), nil
		}
		if r.opts.RestrictionPolicy() == UseBaseType {
			if t.Base == nil {
				return "", schemaErrorf(t.Name, "restricted simple type has no base type")
			}
			// applied at every link of a restriction chain, so chains
			// collapse all the way down to the root primitive
			return r.typeName(t.Base)
		}
		return r.className(t.Name), nil
	case *xsd.ComplexType:
		if m, ok := r.opts.Mapping(t.Name); ok && m.Relationship == Retype {
			return m.Target, nil
		}
		return r.className(t.Name), nil
	}
	return "", schemaErrorf(xsd.XMLName(t), "unexpected type reference")
}
