// Copyright 2020-2023 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package protocore is a self-contained Protocol Buffers toolchain: a
// recursive-descent .proto parser, a cross-file resolver, and a Go code
// generator emitting single-allocation writers and zero-allocation lazy
// readers. Generate is the externally-facing entry point (spec.md §6).
package protocore

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/outwire/protocore/ast"
	"github.com/outwire/protocore/discover"
	"github.com/outwire/protocore/gen"
	"github.com/outwire/protocore/goformat"
	"github.com/outwire/protocore/parser"
	"github.com/outwire/protocore/reporter"
	"github.com/outwire/protocore/resolver"
)

// Config configures one Generate run (spec.md §6 "External interfaces").
type Config struct {
	ProtoRoot      string
	OutputRoot     string
	IgnoreGlobs    []string
	MaxParallelism int
	// ModulePath is the Go import-path prefix generated packages are
	// rooted under; a file at "<ProtoRoot>/a/b.proto" is generated to
	// "<OutputRoot>/a/b.pb.go" and imported by sibling-generated files as
	// "<ModulePath>/a".
	ModulePath string
	Reporter   reporter.Reporter
}

// Generate wires discover -> parser -> resolver -> gen -> goformat,
// writing one "<name>.pb.go" per discovered "<name>.proto" under
// cfg.OutputRoot, preserving the input-relative directory structure.
func Generate(cfg Config) error {
	discovered, err := discover.Walk(cfg.ProtoRoot, cfg.IgnoreGlobs, cfg.MaxParallelism)
	if err != nil {
		return fmt.Errorf("protocore: discover: %w", err)
	}
	slog.Info("discovered proto files", "count", len(discovered))

	var reporterFn reporter.ErrorReporter
	if cfg.Reporter != nil {
		reporterFn = cfg.Reporter.HandleError
	}

	// Parsing is single-threaded per spec.md §5; a parse error aborts only
	// the file it occurred in; sibling files still get parsed.
	files := make([]*ast.ProtoFile, 0, len(discovered))
	var parseErrs []error
	for _, df := range discovered {
		h := reporter.NewHandler(reporterFn)
		f, err := parser.Parse(df.Path, df.Data, h)
		if err != nil {
			parseErrs = append(parseErrs, fmt.Errorf("%s: %w", df.Path, err))
			continue
		}
		if err := h.Error(); err != nil {
			parseErrs = append(parseErrs, fmt.Errorf("%s: %w", df.Path, err))
			continue
		}
		files = append(files, f)
	}
	if len(parseErrs) > 0 {
		return fmt.Errorf("protocore: %d file(s) failed to parse: %w", len(parseErrs), joinErrs(parseErrs))
	}

	// Resolution is fatal to the whole run on error (spec.md §7).
	resolveHandler := reporter.NewHandler(reporterFn)
	if err := resolver.Resolve(files, resolveHandler); err != nil {
		return fmt.Errorf("protocore: resolve: %w", err)
	}

	byPath := make(map[string]*ast.ProtoFile, len(files))
	for _, f := range files {
		byPath[f.Path] = f
	}
	importer := func(from, to *ast.ProtoFile) (string, string) {
		if to == nil || to.WellKnownAs != "" {
			return "", ""
		}
		dir := path.Dir(filepath.ToSlash(to.Path))
		alias := goPackageName(to)
		importPath := path.Join(cfg.ModulePath, dir)
		return importPath, alias
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	for _, f := range files {
		if f.WellKnownAs != "" {
			continue // well-known types are embedded, never generated into OutputRoot
		}
		src, err := gen.Generate(f, goPackageName(f), importer)
		if err != nil {
			return fmt.Errorf("protocore: generate %s: %w", f.Path, err)
		}
		formatted, err := goformat.Source(src)
		if err != nil {
			return fmt.Errorf("protocore: format %s: %w", f.Path, err)
		}
		outPath := filepath.Join(cfg.OutputRoot, strings.TrimSuffix(filepath.FromSlash(f.Path), ".proto")+".pb.go")
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return fmt.Errorf("protocore: mkdir for %s: %w", outPath, err)
		}
		if err := os.WriteFile(outPath, []byte(formatted), 0o644); err != nil {
			return fmt.Errorf("protocore: write %s: %w", outPath, err)
		}
		slog.Info("generated", "proto", f.Path, "go", outPath)
	}
	return nil
}

// goPackageName derives the Go package name for a file's generated
// output: the "go_package" file option when present (protoc convention:
// everything after the last "/", and before a ";alias" suffix), falling
// back to the last component of the proto package name, or "protocore"
// for a file with neither.
func goPackageName(f *ast.ProtoFile) string {
	for _, opt := range f.Options {
		if opt.Name.String() != "go_package" {
			continue
		}
		raw := opt.Value.Str
		if opt.Value.Kind == ast.OptionValueIdent {
			raw = opt.Value.Ident.String()
		}
		if i := strings.LastIndex(raw, ";"); i >= 0 {
			raw = raw[i+1:]
		}
		if i := strings.LastIndex(raw, "/"); i >= 0 {
			raw = raw[i+1:]
		}
		if raw != "" {
			return raw
		}
	}
	if f.HasPackage && !f.Package.IsEmpty() {
		return f.Package.Last()
	}
	return "protocore"
}

func joinErrs(errs []error) error {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
