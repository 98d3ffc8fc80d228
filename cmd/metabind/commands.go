package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"

	"metabind"
	"metabind/internal/analyze"
	"metabind/internal/bind"
	"metabind/internal/config"
	"metabind/internal/model"
	"metabind/internal/schema"
	"metabind/internal/validate"
)

var errUsage = errors.New("usage")

func parse(fs *flag.FlagSet, g *globalFlags, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments %v", errUsage, fs.Args())
	}

	if err := g.validate(); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	return nil
}

// required takes flag name and value pairs and reports the first empty one.
func required(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return fmt.Errorf("%w: -%s is required", errUsage, pairs[i])
		}
	}

	return nil
}

// engine builds an Engine from the configuration file and flag overrides.
// Schemas named in the configuration are discovered before it is returned.
func (c *cli) engine(g *globalFlags) (*metabind.Engine, error) {
	cfg := config.Default()

	if g.ConfigPath != "" {
		loaded, err := config.LoadFile(g.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}

	if g.LogFormat != "" {
		cfg.Log.Format = g.LogFormat
	}

	logger := cfg.Log.Logger(c.stderr)

	e, err := metabind.New(
		metabind.WithConfig(cfg),
		metabind.WithLogger(logger),
		metabind.WithMetrics(prometheus.NewRegistry()),
	)
	if err != nil {
		return nil, err
	}

	if err := e.LoadSchemas(context.Background()); err != nil {
		return nil, err
	}

	return e, nil
}

// typeSource is the set of types a command can model: a schema file or Go
// source packages.
type typeSource struct {
	names []string
	graph *analyze.TypeGraph
}

// sourceFlags select where a command's types come from.
type sourceFlags struct {
	schema string
	pkg    string
}

func (src *sourceFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&src.schema, "schema", "", "Schema file")
	fs.StringVar(&src.pkg, "pkg", "", "Comma-separated Go package patterns, instead of -schema")
}

func (src *sourceFlags) validate() error {
	switch {
	case src.schema == "" && src.pkg == "":
		return fmt.Errorf("%w: -schema or -pkg is required", errUsage)
	case src.schema != "" && src.pkg != "":
		return fmt.Errorf("%w: -schema and -pkg are exclusive", errUsage)
	}

	return nil
}

func (src *sourceFlags) load() (*typeSource, error) {
	if src.schema != "" {
		f, err := schema.LoadFile(src.schema)
		if err != nil {
			return nil, err
		}

		cat, err := schema.Build(f)
		if err != nil {
			return nil, err
		}

		ts := &typeSource{graph: cat.Graph}
		for _, t := range f.Types {
			ts.names = append(ts.names, t.Name)
		}

		return ts, nil
	}

	graph, err := analyze.NewSourceLoader("").LoadPackages(strings.Split(src.pkg, ",")...)
	if err != nil {
		return nil, err
	}

	ts := &typeSource{graph: graph}
	for _, t := range graph.All() {
		if t.Kind == analyze.TypeKindStruct {
			ts.names = append(ts.names, t.ID.Short())
		}
	}

	return ts, nil
}

func (ts *typeSource) model(e *metabind.Engine, name string) (*model.ComponentModel, error) {
	info := ts.graph.Lookup(name)
	if info == nil {
		return nil, fmt.Errorf("type %q is not declared or is ambiguous", name)
	}

	return e.Registry().GetOrDerive(info)
}

func runDescribe(c *cli, args []string) error {
	var (
		g        globalFlags
		src      sourceFlags
		typeName string
	)

	fs := newFlagSet("describe", usageDescribe, c.stderr, &g)
	src.register(fs)
	fs.StringVar(&typeName, "type", "", "Type to describe; every type when empty")

	if err := parse(fs, &g, args); err != nil {
		return err
	}

	if err := src.validate(); err != nil {
		return err
	}

	e, err := c.engine(&g)
	if err != nil {
		return err
	}

	ts, err := src.load()
	if err != nil {
		return err
	}

	names := ts.names
	if typeName != "" {
		names = []string{typeName}
	}

	for i, name := range names {
		m, err := ts.model(e, name)
		if err != nil {
			return err
		}

		if i > 0 {
			_, _ = fmt.Fprintln(c.stdout)
		}
		_, _ = fmt.Fprint(c.stdout, metabind.Describe(m))
	}

	return nil
}

func runCheck(c *cli, args []string) error {
	var (
		g          globalFlags
		schemaPath string
	)

	fs := newFlagSet("check", usageCheck, c.stderr, &g)
	fs.StringVar(&schemaPath, "schema", "", "Schema file")

	if err := parse(fs, &g, args); err != nil {
		return err
	}

	if err := required("schema", schemaPath); err != nil {
		return err
	}

	f, err := schema.LoadFile(schemaPath)
	if err != nil {
		return err
	}

	diags := schema.Validate(f)
	for _, d := range diags.Errors {
		_, _ = fmt.Fprintf(c.stdout, "error: %s\n", d)
	}
	for _, d := range diags.Warnings {
		_, _ = fmt.Fprintf(c.stdout, "warning: %s\n", d)
	}

	if diags.HasErrors() {
		return errInvalid
	}

	e, err := c.engine(&g)
	if err != nil {
		return err
	}

	cat, err := schema.Build(f)
	if err != nil {
		return err
	}

	// Deriving every type surfaces codec and constraint problems the file
	// itself cannot show.
	var errs []error
	for _, t := range f.Types {
		info, _ := cat.Type(t.Name)
		if _, err := e.Registry().GetOrDerive(info); err != nil {
			_, _ = fmt.Fprintf(c.stdout, "error: %s: %v\n", t.Name, err)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errInvalid
	}

	_, _ = fmt.Fprintf(c.stdout, "ok: %d types, %d enums, %d domains\n",
		len(f.Types), len(f.Enums), len(f.Domains))

	return nil
}

func runBind(c *cli, args []string) error {
	var (
		g        globalFlags
		src      sourceFlags
		typeName string
		dataPath string
		outPath  string
		charset  string
	)

	fs := newFlagSet("bind", usageBind, c.stderr, &g)
	src.register(fs)
	fs.StringVar(&typeName, "type", "", "Type the document is bound to")
	fs.StringVar(&dataPath, "data", "", "YAML document, - for stdin")
	fs.StringVar(&outPath, "out", "", "Write the bound data as a framed record")
	fs.StringVar(&charset, "charset", "", "Charset used to print sparse data (default UTF-8)")

	if err := parse(fs, &g, args); err != nil {
		return err
	}

	if err := src.validate(); err != nil {
		return err
	}

	if err := required("type", typeName, "data", dataPath); err != nil {
		return err
	}

	e, err := c.engine(&g)
	if err != nil {
		return err
	}

	ts, err := src.load()
	if err != nil {
		return err
	}

	m, err := ts.model(e, typeName)
	if err != nil {
		return err
	}

	data, err := c.readInput(dataPath)
	if err != nil {
		return err
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse document %s: %w", dataPath, err)
	}

	if doc == nil {
		return fmt.Errorf("document %s is empty", dataPath)
	}

	bd, err := e.BindTo(m, doc)
	if err != nil {
		return err
	}

	if outPath != "" {
		out, err := os.Create(outPath)
		if err != nil {
			return err
		}

		if err := e.WriteStream(bd, out); err != nil {
			_ = out.Close()
			return err
		}

		if err := out.Close(); err != nil {
			return err
		}
	}

	return report(c.stdout, bd, metabind.Check(m, bd), charset)
}

func runDecode(c *cli, args []string) error {
	var (
		g        globalFlags
		src      sourceFlags
		typeName string
		inPath   string
		charset  string
	)

	fs := newFlagSet("decode", usageDecode, c.stderr, &g)
	src.register(fs)
	fs.StringVar(&typeName, "type", "", "Type the record is bound to")
	fs.StringVar(&inPath, "in", "", "Framed record, - for stdin")
	fs.StringVar(&charset, "charset", "", "Charset used to print sparse data (default UTF-8)")

	if err := parse(fs, &g, args); err != nil {
		return err
	}

	if err := src.validate(); err != nil {
		return err
	}

	if err := required("type", typeName, "in", inPath); err != nil {
		return err
	}

	e, err := c.engine(&g)
	if err != nil {
		return err
	}

	ts, err := src.load()
	if err != nil {
		return err
	}

	m, err := ts.model(e, typeName)
	if err != nil {
		return err
	}

	var r io.Reader = c.stdin
	if inPath != "-" {
		f, err := os.Open(inPath)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	bd, err := e.BindStream(m, r)
	if err != nil {
		return err
	}

	return report(c.stdout, bd, metabind.Check(m, bd), charset)
}

func (c *cli) readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(c.stdin)
	}

	return os.ReadFile(path)
}

// report prints bound data and the validation outcome. It returns errInvalid
// when validation failed.
func report(w io.Writer, bd *bind.BoundData, checkErr error, charset string) error {
	_, _ = fmt.Fprintf(w, "model: %s\n", bd.Model().Name())
	_, _ = fmt.Fprintf(w, "identity: %s\n", bd.Identity())

	if v, ok := bd.Version(); ok {
		_, _ = fmt.Fprintf(w, "version: %s\n", v)
	}

	_, _ = fmt.Fprintln(w, "components:")
	for _, path := range bd.Paths() {
		for _, c := range bd.Get(path) {
			_, _ = fmt.Fprintf(w, "  %s = %v\n", location(c.Path, c.Key, c.Ordinal), c.Value)
		}
	}

	if sparse := bd.Sparse(); len(sparse) > 0 {
		_, _ = fmt.Fprintln(w, "sparse:")
		for _, sf := range sparse {
			text, err := sf.String(charset)
			if err != nil {
				text = fmt.Sprintf("<%d bytes: %v>", len(sf.Bytes()), err)
			}

			line := fmt.Sprintf("  %s = %s", location(sf.Path, sf.Key, bind.NoOrdinal), text)
			if sf.Suggestion != "" {
				line += fmt.Sprintf(" (did you mean %s?)", sf.Suggestion)
			}
			_, _ = fmt.Fprintln(w, line)
		}
	}

	diags := bd.Diagnostics()
	if len(diags.Errors)+len(diags.Warnings) > 0 {
		_, _ = fmt.Fprintln(w, "diagnostics:")
		for _, d := range diags.Errors {
			_, _ = fmt.Fprintf(w, "  error: %s\n", d)
		}
		for _, d := range diags.Warnings {
			_, _ = fmt.Fprintf(w, "  warning: %s\n", d)
		}
	}

	if checkErr == nil {
		_, _ = fmt.Fprintln(w, "result: valid")
		return nil
	}

	_, _ = fmt.Fprintln(w, "violations:")

	var mce *validate.ModelConstraintError
	if errors.As(checkErr, &mce) {
		if mce.Mismatch != "" {
			_, _ = fmt.Fprintf(w, "  bound against %s\n", mce.Mismatch)
		}
		for _, p := range mce.Missing {
			_, _ = fmt.Fprintf(w, "  %s: missing\n", p)
		}
	}

	var dce *validate.DataConstraintError
	if errors.As(checkErr, &dce) {
		for _, v := range dce.Violations {
			_, _ = fmt.Fprintf(w, "  %s\n", v)
		}
	}

	_, _ = fmt.Fprintln(w, "result: invalid")

	return errInvalid
}

func location(path, key string, ordinal int) string {
	var sb strings.Builder
	sb.WriteString(path)

	switch {
	case key != "":
		sb.WriteString("[" + key + "]")
	case ordinal != bind.NoOrdinal:
		fmt.Fprintf(&sb, "[%d]", ordinal)
	}

	return sb.String()
}
