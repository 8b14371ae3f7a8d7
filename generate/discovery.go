package generate

import (
	"context"
	"errors"
	"fmt"
	"go/build"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/signadot/subenum/syntax"
	"golang.org/x/tools/go/packages"
)

// PackageInfo is a package directory holding input files.
type PackageInfo struct {
	Path  string
	Dir   string
	Name  string
	Files []string
}

// DiscoverPackages finds the packages in dir holding files constrained by
// tag. If recursive is true, it scans subdirectories too, skipping hidden
// ones and vendor.
func DiscoverPackages(dir string, recursive bool, tag string) ([]*PackageInfo, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %q: %w", dir, err)
	}
	bctx := build.Default
	bctx.BuildTags = append(append([]string(nil), bctx.BuildTags...), tag)

	var res []*PackageInfo
	err = filepath.WalkDir(absDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		base := filepath.Base(path)
		if path != absDir && (strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") || base == "vendor" || base == "testdata") {
			return filepath.SkipDir
		}
		if !recursive && path != absDir {
			return filepath.SkipDir
		}
		pkg, err := bctx.ImportDir(path, 0)
		if err != nil {
			var noGo *build.NoGoError
			if errors.As(err, &noGo) {
				return nil
			}
			return fmt.Errorf("failed to read package in %q: %w", path, err)
		}
		files, err := InputFiles(path, pkg.GoFiles, tag)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return nil
		}
		res = append(res, &PackageInfo{
			Path:  pkg.ImportPath,
			Dir:   path,
			Name:  pkg.Name,
			Files: files,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %q: %w", dir, err)
	}
	return res, nil
}

// LoadPackages resolves package patterns such as ./... relative to dir
// and returns those holding files constrained by tag.
func LoadPackages(ctx context.Context, dir, tag string, patterns ...string) ([]*PackageInfo, error) {
	cfg := &packages.Config{
		Context:    ctx,
		Mode:       packages.NeedName | packages.NeedFiles,
		Dir:        dir,
		BuildFlags: []string{"-tags=" + tag},
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages %v: %w", patterns, err)
	}
	var res []*PackageInfo
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
		if len(pkg.GoFiles) == 0 {
			continue
		}
		pdir := filepath.Dir(pkg.GoFiles[0])
		names := make([]string, len(pkg.GoFiles))
		for i, f := range pkg.GoFiles {
			names[i] = filepath.Base(f)
		}
		files, err := InputFiles(pdir, names, tag)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			continue
		}
		res = append(res, &PackageInfo{
			Path:  pkg.PkgPath,
			Dir:   pdir,
			Name:  pkg.Name,
			Files: files,
		})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return res, nil
}

// InputFiles returns the paths of the named files in dir whose build
// constraint mentions tag. Test files are never inputs.
func InputFiles(dir string, names []string, tag string) ([]string, error) {
	var res []string
	for _, name := range names {
		if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		path := filepath.Join(dir, name)
		file, err := parser.ParseFile(token.NewFileSet(), path, nil, parser.ParseComments|parser.PackageClauseOnly)
		if err != nil {
			return nil, fmt.Errorf("failed to parse file %q: %w", path, err)
		}
		if syntax.HasBuildTag(file, tag) {
			res = append(res, path)
		}
	}
	return res, nil
}
