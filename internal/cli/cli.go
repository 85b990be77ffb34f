package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/studiowebux/flowcli/internal/analytics"
	"github.com/studiowebux/flowcli/internal/config"
	"github.com/studiowebux/flowcli/internal/dispatch"
	"github.com/studiowebux/flowcli/internal/export"
	"github.com/studiowebux/flowcli/internal/filter"
	"github.com/studiowebux/flowcli/internal/flow"
	"github.com/studiowebux/flowcli/internal/history"
	"github.com/studiowebux/flowcli/internal/registry"
	"github.com/studiowebux/flowcli/internal/types"
)

// isInteractive checks if stdin is a terminal (not piped)
func isInteractive() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// NewWriterNotifier returns a notifier printing one line per alert to w,
// prefixed with the severity level
func NewWriterNotifier(w io.Writer) dispatch.Notifier {
	return &writerNotifier{w: w}
}

type writerNotifier struct {
	w io.Writer
}

func (n *writerNotifier) Success(title string, details []string) { n.write("ok", title, details) }
func (n *writerNotifier) Notice(title string, details []string)  { n.write("note", title, details) }
func (n *writerNotifier) Error(title string, details []string)   { n.write("error", title, details) }

func (n *writerNotifier) write(level, title string, details []string) {
	line := fmt.Sprintf("[%s] %s", level, title)
	if len(details) > 0 {
		line += ": " + strings.Join(details, "; ")
	}
	fmt.Fprintln(n.w, line)
}

// ErrSendFailed marks a completed send whose outcome was not a success.
// The outcome has already been printed, so callers should exit non-zero
// without reporting this error again.
var ErrSendFailed = errors.New("send did not succeed")

// SendOptions contains options for sending a flow in CLI mode
type SendOptions struct {
	FlowPath       string
	Endpoint       string
	Contexts       []string // from repeated --context flags
	IncludeSecrets bool
	Filter         string // JMESPath filter expression
	Query          string // JMESPath query or $(bash command)
	SavePath       string
	ShowFull       bool
	Version        string
}

// RunSend sends a flow file to the CoE-Backend in CLI mode
func RunSend(opts SendOptions) error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	// Resolve file path (supports extension-less names like "my-flow" -> "my-flow.json")
	filePath, err := resolveFlowPath(opts.FlowPath)
	if err != nil {
		return err
	}

	doc, err := flow.Load(filePath)
	if err != nil {
		return fmt.Errorf("failed to load flow: %w", err)
	}

	contexts := normalizeContexts(opts.Contexts)
	if len(contexts) == 0 {
		if !isInteractive() {
			return fmt.Errorf("at least one context is required (non-interactive mode, use --context)")
		}
		picked, err := PromptForContexts(registry.Default())
		if err != nil {
			return err
		}
		contexts = picked
	}

	notifier := NewWriterNotifier(os.Stderr)

	var tracker dispatch.Tracker = dispatch.NopTracker()
	analyticsMgr, err := analytics.NewManager(config.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: event tracking unavailable: %v\n", err)
	} else {
		defer analyticsMgr.Close()
		tracker = analyticsMgr
	}

	var recorder dispatch.Recorder = dispatch.NopRecorder()
	historyMgr, err := history.NewManager(config.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: send log unavailable: %v\n", err)
	} else {
		defer historyMgr.Close()
		recorder = historyMgr
	}

	engine := dispatch.NewEngine(config.BackendBaseURL(), opts.Version, notifier, tracker, recorder)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle Ctrl+C for graceful cancellation
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nSend cancelled by user")
		cancel()
	}()

	outcome := engine.Send(ctx, dispatch.SendRequest{
		Flow:           doc,
		Edits:          types.FlowEdits{Name: doc.Name, Description: doc.Description},
		Endpoint:       opts.Endpoint,
		Placeholder:    dispatch.GeneratePlaceholder(),
		Contexts:       contexts,
		IncludeSecrets: opts.IncludeSecrets,
	})

	// Apply filter/query to the response body if specified
	if opts.Filter != "" || opts.Query != "" {
		filtered, err := filter.Apply(outcome.ResponseBody, opts.Filter, opts.Query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: filter/query error: %v\n", err)
		} else {
			outcome.ResponseBody = filtered
		}
	}

	output := formatOutcome(outcome, outputMode(), opts.ShowFull)

	// Save to file if specified
	if opts.SavePath != "" {
		if err := os.WriteFile(opts.SavePath, []byte(output), config.FilePermissions); err != nil {
			return fmt.Errorf("failed to save response: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Response saved to %s\n", opts.SavePath)
	} else {
		fmt.Print(output)
	}

	// Signal a non-zero exit without skipping the deferred manager closes
	if outcome.Phase != dispatch.PhaseSucceeded {
		return ErrSendFailed
	}

	return nil
}

// ExportOptions contains options for exporting a flow in CLI mode
type ExportOptions struct {
	FlowPath       string
	OutDir         string // destination directory, default exports dir
	IncludeSecrets bool
	Version        string
}

// RunExport writes a flow to a local JSON file in CLI mode and prints
// the saved path to stdout
func RunExport(opts ExportOptions) error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	filePath, err := resolveFlowPath(opts.FlowPath)
	if err != nil {
		return err
	}

	doc, err := flow.Load(filePath)
	if err != nil {
		return fmt.Errorf("failed to load flow: %w", err)
	}

	notifier := NewWriterNotifier(os.Stderr)

	var tracker dispatch.Tracker = dispatch.NopTracker()
	analyticsMgr, err := analytics.NewManager(config.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: event tracking unavailable: %v\n", err)
	} else {
		defer analyticsMgr.Close()
		tracker = analyticsMgr
	}

	dir := opts.OutDir
	if dir == "" {
		dir = config.ExportsDir
	}

	exporter := export.NewExporter(export.NewFileDownloader(dir), opts.Version, notifier, tracker)

	path, err := exporter.Export(doc, types.FlowEdits{Name: doc.Name, Description: doc.Description}, opts.IncludeSecrets)
	if err != nil {
		return err
	}

	fmt.Println(path)
	return nil
}

// normalizeContexts trims flag-provided labels, dropping blanks and
// duplicates while preserving order
func normalizeContexts(raw []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(raw))
	for _, label := range raw {
		trimmed := strings.TrimSpace(label)
		if trimmed == "" {
			continue
		}
		key := registry.Normalize(trimmed)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, trimmed)
	}
	return out
}

// outputMode picks the render mode based on whether stdout is piped
func outputMode() string {
	stat, _ := os.Stdout.Stat()
	if (stat.Mode() & os.ModeCharDevice) == 0 {
		// Output is being piped, just show body
		return "body"
	}
	return "text"
}

// formatOutcome formats a send outcome based on the output mode
func formatOutcome(out dispatch.Outcome, format string, showFull bool) string {
	if format == "body" {
		return out.ResponseBody
	}

	var sb strings.Builder

	// Validation failures have no status line, just field errors
	if len(out.FieldErrors) > 0 {
		fields := make([]string, 0, len(out.FieldErrors))
		for field := range out.FieldErrors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			sb.WriteString(fmt.Sprintf("%s%s: %s%s\n", colorRed, field, out.FieldErrors[field], colorReset))
		}
		return sb.String()
	}

	// Status line
	statusLine := out.StatusText
	if statusLine == "" {
		statusLine = out.Phase.String()
	}
	sb.WriteString(fmt.Sprintf("%s%s%s\n", getPhaseColor(out.Phase), statusLine, colorReset))

	// Duration and size
	sb.WriteString(fmt.Sprintf("Duration: %s | Size: %s\n",
		dispatch.FormatDuration(out.Duration),
		dispatch.FormatSize(len(out.ResponseBody))))

	if showFull && out.RequestTrace != "" {
		sb.WriteString("\nRequest:\n")
		sb.WriteString(out.RequestTrace)
		sb.WriteString("\n")
	}

	body := out.ResponseBody
	if body == "" {
		body = out.ResponseTrace
	}
	if body != "" {
		if showFull {
			sb.WriteString("\nResponse:\n")
		} else {
			sb.WriteString("\n")
		}
		sb.WriteString(body)
		sb.WriteString("\n")
	}

	return sb.String()
}

// ANSI color codes
const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
)

func getPhaseColor(phase dispatch.Phase) string {
	switch phase {
	case dispatch.PhaseSucceeded:
		return colorGreen
	case dispatch.PhaseNetworkFailed, dispatch.PhaseHttpError,
		dispatch.PhaseValidationFailed, dispatch.PhaseUnexpectedError:
		return colorRed
	}
	return colorYellow
}

// resolveFlowPath attempts to find the actual flow file, trying known
// extensions if the exact path doesn't exist. Returns the resolved path.
func resolveFlowPath(basePath string) (string, error) {
	if basePath == "" {
		return "", fmt.Errorf("no flow file specified")
	}

	// Supported extensions in priority order (empty string = exact match first)
	extensions := []string{"", ".json", ".jsonc", ".yaml", ".yml"}

	// If absolute path, only check with extensions
	if filepath.IsAbs(basePath) {
		for _, ext := range extensions {
			candidate := basePath + ext
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		return "", fmt.Errorf("flow file not found: %s (tried .json, .jsonc, .yaml, .yml extensions)", basePath)
	}

	// Check in current directory first
	for _, ext := range extensions {
		candidate := basePath + ext
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	// Check in the flows directory
	for _, ext := range extensions {
		candidate := filepath.Join(config.FlowsDir, basePath+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("flow file not found: %s (searched current directory and %s, tried .json, .jsonc, .yaml, .yml extensions)", basePath, config.FlowsDir)
}
