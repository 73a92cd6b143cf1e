package display

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/harrison/mdtask/internal/mining"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related files (optional)
	Suggestion string   // Action to take (optional)
	Color      bool     // Render in yellow
}

// Display writes the formatted warning to out.
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	b.WriteString("⚠️  Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	// Add message with 4-space indent if present
	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	// Add files with proper singular/plural and indentation
	if len(w.Files) > 0 {
		b.WriteString("    ")
		if len(w.Files) == 1 {
			b.WriteString("Affected file:\n")
		} else {
			b.WriteString("Affected files:\n")
		}

		for i, file := range w.Files {
			b.WriteString("      ")
			b.WriteString(fmt.Sprintf("%d. %s", i+1, file))
			b.WriteString("\n")
		}
	}

	// Add suggestion with 4-space indent if present
	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	if !w.Color {
		fmt.Fprint(out, b.String())
		return
	}

	yellow := color.New(color.FgYellow)
	yellow.EnableColor()
	fmt.Fprint(out, yellow.Sprint(b.String()))
}

// WarnFailedDocuments lists the documents a run gave up on part way.
func WarnFailedDocuments(failures []mining.DocumentFailure, colored bool) Warning {
	files := make([]string, 0, len(failures))
	decoding := false
	for _, f := range failures {
		files = append(files, fmt.Sprintf("%s (%v)", f.Path, f.Err))
		var de *mining.DecodingError
		if errors.As(f.Err, &de) {
			decoding = true
		}
	}

	title := "1 document could not be mined completely"
	if len(failures) != 1 {
		title = fmt.Sprintf("%d documents could not be mined completely", len(failures))
	}

	w := Warning{
		Title:   title,
		Message: "Tasks found before the failure are still in the output.",
		Files:   files,
		Color:   colored,
	}
	if decoding {
		w.Suggestion = "Convert the affected files to UTF-8."
	}
	return w
}

// WarnSkippedPaths reports paths the directory walk could not read.
func WarnSkippedPaths(errs []error, colored bool) Warning {
	files := make([]string, 0, len(errs))
	for _, err := range errs {
		files = append(files, err.Error())
	}
	return Warning{
		Title: "Some paths could not be searched",
		Files: files,
		Color: colored,
	}
}
