package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/marcus/brew/internal/logging"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View logs",
	Long: `View brew logs.

Displays recent log entries. Use --follow to stream logs in real-time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tail, _ := cmd.Flags().GetInt("tail")
		follow, _ := cmd.Flags().GetBool("follow")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logDir := cfg.ExpandedLogPath()
		out := cmd.OutOrStdout()

		files, err := logging.Files(logDir)
		if err != nil {
			return err
		}
		if len(files) == 0 && !follow {
			fmt.Fprintln(out, "No log files found.")
			return nil
		}
		for _, line := range readLastLines(files, tail) {
			fmt.Fprintln(out, formatLogLine(line))
		}

		if follow {
			return followLogs(cmd, logDir)
		}
		return nil
	},
}

func init() {
	logsCmd.Flags().IntP("tail", "n", 50, "Number of log lines to show")
	logsCmd.Flags().BoolP("follow", "f", false, "Follow log output")
	rootCmd.AddCommand(logsCmd)
}

// logEntry represents a parsed JSON log line
type logEntry struct {
	Level     string    `json:"level"`
	Time      time.Time `json:"time"`
	Message   string    `json:"message"`
	Component string    `json:"component,omitempty"`
	Error     string    `json:"error,omitempty"`
}

func followLogs(cmd *cobra.Command, logDir string) error {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(logDir); err != nil {
		return fmt.Errorf("watching log dir: %w", err)
	}

	out := cmd.OutOrStdout()
	var (
		current string
		file    *os.File
		reader  *bufio.Reader
		partial string
	)
	defer func() {
		if file != nil {
			_ = file.Close()
		}
	}()

	// open switches to today's file, starting at its end.
	open := func() {
		path := logging.FilePath(logDir, time.Now())
		if path == current {
			return
		}
		f, err := os.Open(path)
		if err != nil {
			return
		}
		if file != nil {
			_ = file.Close()
		}
		_, _ = f.Seek(0, io.SeekEnd)
		current, file, reader, partial = path, f, bufio.NewReader(f), ""
	}
	open()

	fmt.Fprintln(out, "--- Following logs (Ctrl+C to exit) ---")

	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			open()
			if !event.Has(fsnotify.Write) || reader == nil {
				continue
			}
			var lines []string
			lines, partial = readComplete(reader, partial)
			for _, line := range lines {
				fmt.Fprintln(out, formatLogLine(line))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watcher error: %v\n", err)
		}
	}
}

// readComplete returns the complete lines available from r. An unterminated
// tail is returned as rest and must be passed back on the next call.
func readComplete(r *bufio.Reader, partial string) (lines []string, rest string) {
	for {
		chunk, err := r.ReadString('\n')
		partial += chunk
		if err != nil {
			return lines, partial
		}
		lines = append(lines, strings.TrimSuffix(partial, "\n"))
		partial = ""
	}
}

// readLastLines returns the last n lines across files, which are newest first.
func readLastLines(files []string, n int) []string {
	var lines []string
	for _, file := range files {
		if len(lines) >= n {
			break
		}
		fileLines := readFileLines(file)
		remaining := n - len(lines)
		if len(fileLines) > remaining {
			fileLines = fileLines[len(fileLines)-remaining:]
		}
		lines = append(fileLines, lines...)
	}
	return lines
}

func readFileLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

// formatLogLine pretty-prints JSON log lines and passes anything else through.
func formatLogLine(line string) string {
	var entry logEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil || entry.Message == "" {
		return line
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s ", entry.Time.Local().Format("15:04:05"), formatLogLevel(entry.Level))
	if entry.Component != "" {
		fmt.Fprintf(&b, "[%s] ", entry.Component)
	}
	b.WriteString(entry.Message)
	if entry.Error != "" {
		fmt.Fprintf(&b, " error=%s", entry.Error)
	}
	return b.String()
}

func formatLogLevel(level string) string {
	switch level {
	case "debug":
		return "DBG"
	case "info":
		return "INF"
	case "warn":
		return "WRN"
	case "error":
		return "ERR"
	default:
		if len(level) >= 3 {
			return strings.ToUpper(level[:3])
		}
		return strings.ToUpper(level)
	}
}
