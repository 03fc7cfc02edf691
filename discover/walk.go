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

// Package discover finds and reads .proto source files under a root
// directory (spec.md §4.8). It is the one stage of the pipeline allowed
// to do concurrent work, since file discovery and I/O are external
// collaborators rather than the deterministic single-threaded parse/
// resolve/generate core spec.md §5 describes.
package discover

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// File is one discovered .proto source file.
type File struct {
	// Path is root-relative, slash-separated (e.g. "foo/bar.proto"),
	// suitable both as the parser's source path and as the basis for the
	// generator's output path.
	Path string
	Data []byte
}

// Walk recursively walks root, skipping any path (matched root-relative,
// slash-separated) against an ignore glob, reads every remaining
// ".proto" file, and returns them in stable path-sorted order so that the
// parse/resolve/generate stages downstream stay deterministic.
//
// Reads happen concurrently, bounded by maxParallelism (runtime.GOMAXPROCS
// when maxParallelism <= 0), mirroring the teacher's
// Compiler.MaxParallelism field for independent per-file work.
func Walk(root string, ignore []string, maxParallelism int) ([]File, error) {
	var paths []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(p) != ".proto" {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if matchesAny(rel, ignore) {
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	if maxParallelism <= 0 {
		maxParallelism = runtime.GOMAXPROCS(0)
	}
	files := make([]File, len(paths))
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(maxParallelism)
	for i, rel := range paths {
		i, rel := i, rel
		g.Go(func() error {
			data, err := os.ReadFile(filepath.Join(root, rel))
			if err != nil {
				return err
			}
			files[i] = File{Path: rel, Data: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// matchesAny reports whether path matches any of the ignore globs, tried
// both against the full root-relative path and against each of its path
// segments (so an ignore glob like "testdata" skips a directory at any
// depth, matching the teacher's ignore-mask convention).
func matchesAny(path string, ignore []string) bool {
	for _, pat := range ignore {
		if ok, _ := filepath.Match(pat, path); ok {
			return true
		}
		for _, seg := range strings.Split(path, "/") {
			if ok, _ := filepath.Match(pat, seg); ok {
				return true
			}
		}
	}
	return false
}
