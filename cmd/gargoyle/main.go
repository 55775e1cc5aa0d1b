package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/invopop/jsonschema"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/gargoyle/config"
	"github.com/wippyai/gargoyle/extract"
	"github.com/wippyai/gargoyle/host"
	"github.com/wippyai/gargoyle/memvm"
)

func main() {
	var (
		classPath   = flag.String("classpath", "", "Extra classpath entries (path-list separated)")
		classes     = flag.String("class", "", "Classes to describe (comma-separated)")
		asJSON      = flag.Bool("json", false, "Print descriptors as JSON")
		schema      = flag.Bool("schema", false, "Print the JSON schema of a class descriptor and exit")
		interactive = flag.Bool("i", false, "Interactive class browser")
		verbose     = flag.Bool("v", false, "Verbose logging")
		envFile     = flag.String("env-file", "", "Load options from this .env file instead of ./.env")
		javaBase    = flag.Bool("java-base", false, "Add the installed JDK's java.base.jmod to the classpath")
	)
	flag.Parse()

	if *schema {
		if err := printSchema(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger = l
	}
	defer func() { _ = logger.Sync() }()
	memvm.SetLogger(logger)

	opts, err := loadOptions(*envFile, *classPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	launcher := &memvm.Launcher{Logger: logger, JavaBase: *javaBase}

	names := splitNames(*classes, flag.Args())
	if *interactive || (len(names) == 0 && term.IsTerminal(int(os.Stdout.Fd()))) {
		if err := runInteractive(launcher, opts, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if len(names) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: gargoyle [-classpath path] -class name[,name...] [-json]")
		fmt.Fprintln(os.Stderr, "       gargoyle [-classpath path] name...")
		fmt.Fprintln(os.Stderr, "       gargoyle -i  (interactive mode)")
		fmt.Fprintln(os.Stderr, "       gargoyle -schema")
		os.Exit(1)
	}

	if err := run(launcher, opts, logger, names, *asJSON); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadOptions(envFile, classPath string) (config.Options, error) {
	var (
		opts config.Options
		err  error
	)
	if envFile != "" {
		opts, err = config.LoadFile(envFile)
	} else {
		opts, err = config.Load()
	}
	if err != nil {
		return opts, err
	}
	if classPath != "" {
		opts.ClassPath = append(opts.ClassPath, config.SplitClassPath(classPath)...)
	}
	return opts, opts.Validate()
}

func splitNames(list string, args []string) []string {
	var names []string
	for _, n := range strings.Split(list, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return append(names, args...)
}

func run(launcher *memvm.Launcher, opts config.Options, logger *zap.Logger, names []string, asJSON bool) error {
	ctx := context.Background()

	m := host.NewModule(launcher, host.WithLogger(logger))
	if _, err := m.Start(ctx, opts); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	defer func() { _, _ = m.Stop(ctx) }()

	if !asJSON {
		for _, name := range names {
			desc, err := m.ClassStructure(m.Interner().Intern(name))
			if err != nil {
				return err
			}
			fmt.Println(host.Print(desc))
		}
		return nil
	}

	s, err := m.Runtime().Session()
	if err != nil {
		return err
	}
	descs := make([]*extract.ClassDescriptor, 0, len(names))
	for _, name := range names {
		d, err := extract.Extract(s, name)
		if err != nil {
			return err
		}
		descs = append(descs, d)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if len(descs) == 1 {
		return enc.Encode(descs[0])
	}
	return enc.Encode(descs)
}

func printSchema() error {
	reflector := jsonschema.Reflector{ExpandedStruct: true}
	s := reflector.Reflect(&extract.ClassDescriptor{})

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
