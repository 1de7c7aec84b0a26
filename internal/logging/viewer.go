package logging

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Aman-CERP/upgradecheck/internal/ui"
)

// LogEntry represents a parsed JSON log line.
type LogEntry struct {
	Time    time.Time
	Level   string
	Msg     string
	Attrs   map[string]any
	Raw     string
	IsValid bool
}

// ViewerConfig configures the log viewer.
type ViewerConfig struct {
	Level   string         // Minimum level to show
	Pattern *regexp.Regexp // Only lines matching the pattern
	NoColor bool
}

// Viewer reads and filters debug logs.
type Viewer struct {
	config ViewerConfig
	out    io.Writer
	styles ui.Styles
}

// NewViewer creates a new log viewer.
func NewViewer(cfg ViewerConfig, out io.Writer) *Viewer {
	return &Viewer{
		config: cfg,
		out:    out,
		styles: ui.GetStyles(cfg.NoColor),
	}
}

// Tail reads the last n lines from a log file and returns matching entries.
// n <= 0 reads the whole file.
func (v *Viewer) Tail(path string, n int) ([]LogEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []string
	scanner := bufio.NewScanner(file)
	const maxCapacity = 1024 * 1024
	scanner.Buffer(make([]byte, maxCapacity), maxCapacity)

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if n > 0 && len(lines) > n {
			lines = lines[1:]
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	var entries []LogEntry
	for _, line := range lines {
		entry := parseLine(line)
		if v.matchesFilter(entry) {
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

// Follow sends entries appended to path until ctx is cancelled. The parent
// directory is watched so the file can be rotated or recreated underneath.
func (v *Viewer) Follow(ctx context.Context, path string, entries chan<- LogEntry) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch log directory: %w", err)
	}

	file, err := openAtEnd(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()
	reader := newLineReader(file)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}

			if event.Op&fsnotify.Create != 0 {
				// Rotated: finish the old file, then read the new one from the start.
				if !v.drain(ctx, reader, entries) {
					return nil
				}
				_ = file.Close()
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("failed to reopen log file: %w", err)
				}
				file, reader = f, newLineReader(f)
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if !v.drain(ctx, reader, entries) {
					return nil
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch log file: %w", err)
		}
	}
}

func openAtEnd(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to seek to end: %w", err)
	}
	return file, nil
}

// lineReader yields complete lines from a file that is still being written.
// A trailing fragment without a newline is held until the rest arrives.
type lineReader struct {
	r       *bufio.Reader
	partial string
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

// next returns the next complete line without its newline, or false when
// only a fragment (or nothing) is available yet.
func (l *lineReader) next() (string, bool) {
	chunk, err := l.r.ReadString('\n')
	if err != nil {
		l.partial += chunk
		return "", false
	}
	line := l.partial + strings.TrimSuffix(chunk, "\n")
	l.partial = ""
	return line, true
}

// drain forwards complete lines from reader. Returns false if ctx ended.
func (v *Viewer) drain(ctx context.Context, reader *lineReader, entries chan<- LogEntry) bool {
	for {
		line, ok := reader.next()
		if !ok {
			return true
		}
		if line == "" {
			continue
		}

		entry := parseLine(line)
		if !v.matchesFilter(entry) {
			continue
		}
		select {
		case entries <- entry:
		case <-ctx.Done():
			return false
		}
	}
}

// Print writes entries to the output.
func (v *Viewer) Print(entries []LogEntry) {
	for _, entry := range entries {
		_, _ = fmt.Fprintln(v.out, v.FormatEntry(entry))
	}
}

// FormatEntry formats a log entry for display. Attributes are sorted by key.
func (v *Viewer) FormatEntry(entry LogEntry) string {
	if !entry.IsValid {
		return entry.Raw
	}

	keys := make([]string, 0, len(entry.Attrs))
	for k := range entry.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(entry.Time.Format("15:04:05.000"))
	b.WriteString(" ")
	b.WriteString(v.formatLevel(entry.Level))
	b.WriteString(" ")
	b.WriteString(entry.Msg)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Attrs[k])
	}
	return b.String()
}

func parseLine(line string) LogEntry {
	entry := LogEntry{Raw: line}

	var data map[string]any
	if err := json.Unmarshal([]byte(line), &data); err != nil {
		return entry
	}
	entry.IsValid = true

	if t, ok := data["time"].(string); ok {
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			entry.Time = parsed
		}
	}
	if l, ok := data["level"].(string); ok {
		entry.Level = l
	}
	if m, ok := data["msg"].(string); ok {
		entry.Msg = m
	}

	entry.Attrs = make(map[string]any)
	for k, val := range data {
		if k != "time" && k != "level" && k != "msg" {
			entry.Attrs[k] = val
		}
	}

	return entry
}

func (v *Viewer) matchesFilter(entry LogEntry) bool {
	if v.config.Level != "" && entry.IsValid {
		if LevelFromString(entry.Level) < LevelFromString(v.config.Level) {
			return false
		}
	}

	if v.config.Pattern != nil && !v.config.Pattern.MatchString(entry.Raw) {
		return false
	}

	return true
}

func (v *Viewer) formatLevel(level string) string {
	label := strings.ToUpper(level)
	if len(label) > 5 {
		label = label[:5]
	}
	label = fmt.Sprintf("%-5s", label)

	switch strings.ToLower(level) {
	case "debug":
		return v.styles.Dim.Render(label)
	case "info":
		return v.styles.Pass.Render(label)
	case "warn", "warning":
		return v.styles.Warning.Render(label)
	case "error":
		return v.styles.Inhibit.Render(label)
	default:
		return label
	}
}
