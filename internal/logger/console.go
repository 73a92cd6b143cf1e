// Package logger provides the levelled diagnostics logger used by mdtask.
//
// Diagnostics are kept apart from mined task output: the CLI points the
// logger at stderr while tasks go to stdout or the --output file. The
// threshold comes from the log_level setting; "error" silences everything
// but the final error printed by the command itself.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// levels orders the accepted log_level values from most to least verbose
var levels = map[string]int{
	"trace": 0,
	"debug": 1,
	"info":  2,
	"warn":  3,
	"error": 4,
}

// levelColors decorate the level tag on terminals
var levelColors = map[string]*color.Color{
	"trace": color.New(color.FgHiBlack),
	"debug": color.New(color.FgCyan),
	"info":  color.New(color.FgBlue),
	"warn":  color.New(color.FgYellow),
}

// ConsoleLogger writes "[HH:MM:SS] [LEVEL] message" lines and is safe for
// concurrent use. A nil writer discards everything.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a logger for writer. Unknown or empty levels fall
// back to "info". Level tags are colored when writer is the process's
// stdout or stderr and fatih/color considers it a terminal.
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	level := strings.ToLower(strings.TrimSpace(logLevel))
	if _, ok := levels[level]; !ok {
		level = "info"
	}

	return &ConsoleLogger{
		writer:      writer,
		logLevel:    level,
		colorOutput: (writer == os.Stdout || writer == os.Stderr) && !color.NoColor,
	}
}

// LogTrace logs per-file detail such as every discovered document.
func (cl *ConsoleLogger) LogTrace(message string) { cl.log("trace", message) }

// LogDebug logs run setup: configuration, roots, run id.
func (cl *ConsoleLogger) LogDebug(message string) { cl.log("debug", message) }

// LogInfo logs run progress.
func (cl *ConsoleLogger) LogInfo(message string) { cl.log("info", message) }

// LogWarn logs a problem the run recovered from.
func (cl *ConsoleLogger) LogWarn(message string) { cl.log("warn", message) }

func (cl *ConsoleLogger) enabled(level string) bool {
	return cl.writer != nil && levels[level] >= levels[cl.logLevel]
}

func (cl *ConsoleLogger) log(level, message string) {
	if !cl.enabled(level) {
		return
	}

	tag := strings.ToUpper(level)
	if cl.colorOutput {
		tag = levelColors[level].Sprint(tag)
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", timestamp(), tag, message)
}

// LogRunSummary logs the outcome of a mining run at info level:
// "[HH:MM:SS] Mined <tasks> tasks from <documents> documents in <duration>[, <failed> failed]"
func (cl *ConsoleLogger) LogRunSummary(documents, tasks, failed int, duration time.Duration) {
	if !cl.enabled("info") {
		return
	}

	taskCount := fmt.Sprintf("%d", tasks)
	failedCount := fmt.Sprintf("%d failed", failed)
	if cl.colorOutput {
		taskCount = color.New(color.FgGreen, color.Bold).Sprint(taskCount)
		failedCount = color.New(color.FgRed).Sprint(failedCount)
	}

	message := fmt.Sprintf("[%s] Mined %s tasks from %d documents in %s",
		timestamp(), taskCount, documents, duration.Round(time.Millisecond))
	if failed > 0 {
		message += ", " + failedCount
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	fmt.Fprintln(cl.writer, message)
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}
