package importer

import (
	"bytes"
	"context"

	"github.com/jessevdk/go-flags"
	"github.com/magiconair/properties"
	"github.com/pkg/errors"
	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"github.com/modelmap/xsd2model/modelinfo"
	"github.com/modelmap/xsd2model/xsd"
)

// GenModelInfo reads one or more XSD documents and resolves them into a
// model catalog. Inputs are file paths or URLs; the first document is
// the primary schema, and its target namespace becomes the catalog URL.
func (cfg *Config) GenModelInfo(ctx context.Context, files ...string) (*modelinfo.ModelInfo, error) {
	fs := afs.New()
	data := make([][]byte, 0, len(files))
	for _, f := range files {
		b, err := fs.DownloadWithURL(ctx, f)
		if err != nil {
			return nil, errors.Wrapf(err, "read %v", f)
		}
		cfg.debugf("read %s", f)
		data = append(data, b)
	}
	schemas, err := xsd.Parse(data...)
	if err != nil {
		return nil, err
	}
	if len(schemas) == 0 {
		return nil, errors.New("no schema documents found")
	}
	return cfg.Import(schemas[0], schemas[1:]...)
}

// LoadOptionsURL reads a .properties document from a file path or URL
// and parses it into a fresh Options value.
func LoadOptionsURL(ctx context.Context, url string) (*Options, error) {
	data, err := afs.New().DownloadWithURL(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "read %v", url)
	}
	return LoadOptions(data)
}

type arguments struct {
	Output  string `short:"o" long:"output" default:"modelinfo.xml" description:"name of the output file"`
	Options string `long:"options" description:"import options .properties file or URL"`
	Model   string `long:"model" description:"name of the data model"`
	Prefix  string `long:"prefix" description:"class name prefix to strip into labels"`
	Policy  string `long:"policy" description:"simple type restriction policy (USE_BASETYPE|EXTEND_BASETYPE|IGNORE)"`
	Verbose []bool `short:"v" long:"verbose" description:"increase log verbosity"`
}

// Generate runs a complete import from command-line arguments and
// writes the encoded catalog. Generate is meant to be called as part of
// a command, and can be used to change the behavior of the xsd2model
// command in ways that its command-line arguments do not allow.
func (cfg *Config) Generate(args ...string) error {
	var opts arguments
	files, err := flags.ParseArgs(&opts, args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("usage: xsd2model [options] file.xsd ...")
	}

	ctx := context.Background()
	fs := afs.New()
	if opts.Options != "" {
		data, err := fs.DownloadWithURL(ctx, opts.Options)
		if err != nil {
			return errors.Wrapf(err, "read %v", opts.Options)
		}
		loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
		p, err := loader.LoadBytes(data)
		if err != nil {
			return errors.Wrapf(err, "parse %v", opts.Options)
		}
		if err := cfg.opts.ApplyProperties(p); err != nil {
			return err
		}
	}
	if opts.Model != "" {
		cfg.Option(ModelName(opts.Model))
	}
	if opts.Prefix != "" {
		cfg.Option(NormalizePrefix(opts.Prefix))
	}
	if opts.Policy != "" {
		policy, err := ParseRestrictionPolicy(opts.Policy)
		if err != nil {
			return err
		}
		cfg.Option(SimpleTypeRestrictionPolicy(policy))
	}
	if n := len(opts.Verbose); n > 0 {
		cfg.Option(LogLevel(n))
	}

	model, err := cfg.GenModelInfo(ctx, files...)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := model.Encode(&buf); err != nil {
		return err
	}
	err = fs.Upload(ctx, opts.Output, file.DefaultFileOsMode, bytes.NewReader(buf.Bytes()))
	return errors.Wrapf(err, "write %v", opts.Output)
}
