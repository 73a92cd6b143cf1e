// Package fileutil discovers the documents mdtask mines.
//
// Discover accepts the paths given on the command line. Files are taken as
// they are; directories are walked recursively with the filters most
// repositories expect:
//
//   - only allow-listed extensions (".md" by default, case-insensitive)
//   - hidden entries (names starting with ".") are skipped unless requested
//   - directories named in ExcludeDirs are never entered
//   - .gitignore and .ignore files apply to the directory holding them and
//     everything below it, with gitignore syntax (negation, trailing "/" for
//     directories, leading or inner "/" to anchor, "**" across directories)
//   - symbolic links are followed when requested; a directory reached twice
//     is walked once, which also breaks link cycles
//
// Non-fatal problems (unreadable directories, broken links) are collected in
// ScanResult.Errors and the walk continues. A root that does not exist is a
// fatal error.
//
// Usage:
//
//	result, err := fileutil.Discover([]string{"notes", "TODO.md"}, fileutil.DiscoverOptions{
//	    Extensions:  []string{".md"},
//	    ExcludeDirs: []string{".git"},
//	    FollowLinks: true,
//	    IgnoreFiles: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, file := range result.Files {
//	    fmt.Println(file)
//	}
package fileutil
