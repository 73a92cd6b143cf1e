package display

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
)

// ProgressIndicator reports per-document progress of a run.
type ProgressIndicator struct {
	writer     io.Writer
	totalFiles int
	current    int
	cyan       *color.Color
	green      *color.Color
}

// NewProgressIndicator creates a new progress indicator
func NewProgressIndicator(w io.Writer, total int, colored bool) *ProgressIndicator {
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)
	if colored {
		cyan.EnableColor()
		green.EnableColor()
	} else {
		cyan.DisableColor()
		green.DisableColor()
	}
	return &ProgressIndicator{
		writer:     w,
		totalFiles: total,
		cyan:       cyan,
		green:      green,
	}
}

// Start displays the header message
func (p *ProgressIndicator) Start() {
	if p.totalFiles == 1 {
		fmt.Fprintf(p.writer, "Mining 1 document:\n")
		return
	}
	fmt.Fprintf(p.writer, "Mining %d documents:\n", p.totalFiles)
}

// Step displays progress for current item: [N/Total] filename
func (p *ProgressIndicator) Step(path string) {
	p.current++
	line := fmt.Sprintf("  [%d/%d] %s", p.current, p.totalFiles, filepath.Base(path))
	fmt.Fprintln(p.writer, p.cyan.Sprint(line))
}

// Complete displays the closing line with the task count.
func (p *ProgressIndicator) Complete(tasks int) {
	fmt.Fprintf(p.writer, "%s Mined %d tasks from %d documents\n", p.green.Sprint("✓"), tasks, p.current)
}
