package main

import (
	"os"
	"path/filepath"
)

// skippedDirs are never descended into by the default walker: version
// control metadata and the usual dependency/output directories that never
// contain first-party source.
var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"target":       true,
	"build":        true,
	"dist":         true,
}

// walkSourceFiles is the default, swappable file discovery used by scanCmd
// when the caller does not supply its own file list. It is not part of the
// engine's contract (the engine takes a []string of paths); language-
// specific filtering is left to the upstream parser, which reports a
// per-file error for anything it cannot understand.
func walkSourceFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skippedDirs[d.Name()] && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
