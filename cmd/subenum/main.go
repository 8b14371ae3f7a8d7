package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/scott-cotton/cli"
	"github.com/signadot/subenum/config"
	"github.com/signadot/subenum/diag"
	"github.com/signadot/subenum/generate"
)

func main() {
	cli.MainContext(context.Background(), MainCommand())
}

func MainCommand() *cli.Command {
	cfg := &Config{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}

	return cli.NewCommandAt(&cfg.Main, "subenum").
		WithSynopsis("subenum [opts] [files or packages]").
		WithDescription("Generate narrowed subsets of enumerated types from //subenum:enum and //subenum:in directives, in files built with the subenum tag.").
		WithOpts(sOpts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return run(cfg, cc, args)
		})
}

type Config struct {
	Dir       string `cli:"name=dir desc='directory to scan for input files (default: current directory)'"`
	Recursive bool   `cli:"name=recursive desc='scan subdirectories recursively'"`
	File      string `cli:"name=config desc='configuration file (default: .subenum.yaml in -dir, if present)'"`
	Tag       string `cli:"name=tag desc='build tag marking input files (default: subenum)'"`
	Suffix    string `cli:"name=suffix desc='suffix replacing .go in output file names (default: _gen.go)'"`
	Jobs      int    `cli:"name=j desc='number of files processed at once (default: GOMAXPROCS)'"`
	Check     bool   `cli:"name=check desc='check that generated files are up to date instead of writing them'"`
	Verbose   bool   `cli:"name=v desc='log debug messages'"`

	Main *cli.Command
}

func run(cfg *Config, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		cfg.Main.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	dir := cfg.Dir
	if dir == "" {
		dir, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
	}
	if cfg.Recursive && len(args) > 0 {
		return fmt.Errorf("%w: -recursive applies to -dir, not to arguments", cli.ErrUsage)
	}

	conf, err := loadConfig(cfg, dir)
	if err != nil {
		return err
	}
	log := newLogger(os.Stderr, cfg.Verbose)
	gen, err := generate.New(conf, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	files, err := inputs(ctx, conf, dir, cfg.Recursive, args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files with //go:build %s found in %q", conf.Tag, dir)
	}
	log.Debug("inputs", "files", files)

	if err := gen.Run(ctx, files, cfg.Check); err != nil {
		diag.ForFile(os.Stderr).Print(err)
		return cli.ExitCodeErr(1)
	}
	return nil
}

// loadConfig reads the configuration file and applies the options given
// on the command line over it.
func loadConfig(cfg *Config, dir string) (*config.Config, error) {
	var (
		conf *config.Config
		err  error
	)
	if cfg.File != "" {
		conf, err = config.Load(cfg.File)
	} else {
		conf, err = config.Find(dir)
	}
	if err != nil {
		return nil, err
	}
	for _, opt := range cfg.Main.Opts {
		if opt.Value == nil {
			continue
		}
		switch opt.Name {
		case "tag":
			conf.Tag = cfg.Tag
		case "suffix":
			conf.Suffix = cfg.Suffix
		case "j":
			conf.Jobs = cfg.Jobs
		}
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return conf, nil
}

// inputs resolves the arguments: .go files are taken as they are, anything
// else is a package pattern. Without arguments, dir is scanned.
func inputs(ctx context.Context, conf *config.Config, dir string, recursive bool, args []string) ([]string, error) {
	if len(args) == 0 {
		pkgs, err := generate.DiscoverPackages(dir, recursive, conf.Tag)
		if err != nil {
			return nil, err
		}
		var files []string
		for _, pkg := range pkgs {
			files = append(files, pkg.Files...)
		}
		return files, nil
	}
	var files, patterns []string
	for _, arg := range args {
		if strings.HasSuffix(arg, ".go") {
			if !filepath.IsAbs(arg) {
				arg = filepath.Join(dir, arg)
			}
			files = append(files, arg)
			continue
		}
		patterns = append(patterns, arg)
	}
	if len(patterns) > 0 {
		pkgs, err := generate.LoadPackages(ctx, dir, conf.Tag, patterns...)
		if err != nil {
			return nil, err
		}
		for _, pkg := range pkgs {
			files = append(files, pkg.Files...)
		}
	}
	return files, nil
}
