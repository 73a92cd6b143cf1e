// Package display formats the user-facing messages mdtask writes to stderr:
// per-document progress and warnings about documents or paths a run had to
// skip. Task output itself never goes through this package.
//
// # Progress
//
//	progress := display.NewProgressIndicator(os.Stderr, len(files), colored)
//	progress.Start()
//	for _, file := range files {
//	    progress.Step(file)
//	}
//	progress.Complete(tasks)
//
// # Warnings
//
//	warning := display.WarnFailedDocuments(result.Failures, colored)
//	warning.Display(os.Stderr)
package display
