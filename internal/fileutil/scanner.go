package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DiscoverOptions configures document discovery
type DiscoverOptions struct {
	// Extensions is a list of file extensions to include when walking directories (e.g., ".md")
	Extensions []string
	// ExcludeDirs is a list of directory names to skip (e.g., ".git", "node_modules")
	ExcludeDirs []string
	// Hidden includes files and directories whose name starts with "."
	Hidden bool
	// FollowLinks descends into symlinked directories and reads symlinked files
	FollowLinks bool
	// IgnoreFiles honours .gitignore and .ignore files found while walking
	IgnoreFiles bool
}

// ScanResult contains the results of a discovery run
type ScanResult struct {
	// Files contains the absolute paths of all matched files
	Files []string
	// Errors contains any non-fatal errors encountered during scanning
	Errors []error
}

// Discover expands roots into the documents to mine.
//
// A root naming a file is always included, whatever its extension. Directory
// roots are walked and yield the files passing the options. Files found under
// one root are sorted; roots keep the order they were given in and a file
// reached twice is only reported once. An empty root list means ".".
func Discover(roots []string, opts DiscoverOptions) (*ScanResult, error) {
	if len(roots) == 0 {
		roots = []string{"."}
	}

	result := &ScanResult{
		Files:  make([]string, 0),
		Errors: make([]error, 0),
	}
	seen := make(map[string]bool)

	w := &walker{
		opts:       opts,
		extMap:     make(map[string]bool),
		excludeMap: make(map[string]bool),
		visited:    make(map[string]bool),
		result:     result,
	}
	for _, ext := range opts.Extensions {
		// Ensure extensions start with a dot
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		w.extMap[strings.ToLower(ext)] = true
	}
	for _, dir := range opts.ExcludeDirs {
		w.excludeMap[dir] = true
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to access %s: %w", root, err)
		}

		var files []string
		if info.IsDir() {
			w.files = nil
			w.walk(root, newIgnoreStack(root))
			files = w.files
			sort.Strings(files)
		} else {
			absPath, err := filepath.Abs(root)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve path %s: %w", root, err)
			}
			files = []string{absPath}
		}

		for _, f := range files {
			if !seen[f] {
				seen[f] = true
				result.Files = append(result.Files, f)
			}
		}
	}

	return result, nil
}

// walker carries the state of one Discover call across directories
type walker struct {
	opts       DiscoverOptions
	extMap     map[string]bool
	excludeMap map[string]bool
	visited    map[string]bool // resolved directories, guards symlink loops
	result     *ScanResult
	files      []string
}

func (w *walker) walk(dir string, ignores ignoreStack) {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		w.result.Errors = append(w.result.Errors, fmt.Errorf("error resolving %s: %w", dir, err))
		return
	}
	if w.visited[resolved] {
		return
	}
	w.visited[resolved] = true

	if w.opts.IgnoreFiles {
		domain := ignores.domain(dir)
		for _, name := range ignoreFileNames {
			patterns, err := loadIgnorePatterns(dir, name, domain)
			if err != nil {
				w.result.Errors = append(w.result.Errors, fmt.Errorf("error reading %s: %w", filepath.Join(dir, name), err))
				continue
			}
			ignores = ignores.with(patterns)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.result.Errors = append(w.result.Errors, fmt.Errorf("error accessing %s: %w", dir, err))
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)

		if !w.opts.Hidden && strings.HasPrefix(name, ".") {
			continue
		}

		isDir := entry.IsDir()
		if entry.Type()&fs.ModeSymlink != 0 {
			if !w.opts.FollowLinks {
				continue
			}
			info, err := os.Stat(path)
			if err != nil {
				w.result.Errors = append(w.result.Errors, fmt.Errorf("error following %s: %w", path, err))
				continue
			}
			isDir = info.IsDir()
		}

		if ignores.ignored(path, isDir) {
			continue
		}

		if isDir {
			if w.excludeMap[name] {
				continue
			}
			w.walk(path, ignores)
			continue
		}

		if len(w.extMap) > 0 && !w.extMap[strings.ToLower(filepath.Ext(name))] {
			continue
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			w.result.Errors = append(w.result.Errors, fmt.Errorf("failed to resolve path %s: %w", path, err))
			continue
		}
		w.files = append(w.files, absPath)
	}
}
