package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/studiowebux/flowcli/internal/cli"
	"github.com/studiowebux/flowcli/internal/mock"
	"github.com/studiowebux/flowcli/internal/tui"
)

var (
	version = "0.1.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// A failed send already printed its outcome; everything else is
		// reported here
		if !errors.Is(err, cli.ErrSendFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flowcli [flows-dir]",
	Short: "Flow CLI - share Langflow-style flows with a CoE-Backend",
	Long: `Flow CLI shares Langflow-style flow documents with a CoE-Backend.

Run without arguments to browse the flows directory (~/.flowcli/flows) in an
interactive TUI, or point it at any directory or flow file. From the TUI you
can edit a flow's name and description, pick the contexts it is shared with,
strip or keep API keys, send it to the backend with full request/response
traces, or export it to a local file.

Flows are POSTed as JSON to <backend>/flows/. Set COE_BACKEND_URL to override
the backend (default http://host.docker.internal:8000).

Examples:
  flowcli                                   # Browse ~/.flowcli/flows in the TUI
  flowcli ./flows                           # Browse a specific directory
  flowcli send my-flow -c aider             # Headless send with one context
  flowcli send my-flow -c aider -c cline --include-secrets
  flowcli send my-flow -q 'data.nodes[0]'   # Query the response body
  flowcli export my-flow -o ./backup        # Export a redacted copy
  flowcli mock --port 8000                  # Run a local stand-in backend
  flowcli --help                            # Show help`,
	Version:       version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		flowsDir := ""
		if len(args) > 0 {
			flowsDir = args[0]
		}
		return tui.Run(flowsDir, version)
	},
}

var sendCmd = &cobra.Command{
	Use:   "send <flow-file>",
	Short: "Send a flow to the CoE-Backend in CLI mode",
	Long: `Send a flow file to the CoE-Backend without the TUI.

The file extension is optional - 'my-flow' resolves to 'my-flow.json' (then
.jsonc, .yaml, .yml), searching the current directory and the flows directory.

Without --context, an interactive picker offers the known context labels plus
a custom-value escape hatch. Non-interactive runs (pipes, scripts) must pass
--context explicitly. API keys are stripped from the flow unless
--include-secrets is set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSend(args[0])
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <flow-file>",
	Short: "Export a flow to a local JSON file",
	Long: `Export a flow file to a local JSON file and print the saved path.

API keys are stripped unless --include-secrets is set. The destination
defaults to the exports directory (~/.flowcli/exports).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(args[0])
	},
}

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Run a local stand-in CoE-Backend",
	Long: `Run a local HTTP server that accepts flows the way the CoE-Backend does.

POST /flows/ validates and records incoming flows, GET /flows/ lists what was
received, GET /health reports liveness. Use --fail to force every POST to
fail with a given status code, which is handy for exercising error paths:

  COE_BACKEND_URL=http://localhost:8000 flowcli send my-flow -c aider`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMock()
	},
}

// Flags for send command
var (
	flagEndpoint       string
	flagContexts       []string
	flagIncludeSecrets bool
	flagFilter         string
	flagQuery          string
	flagSave           string
	flagFull           bool
)

// Flags for export command
var (
	exportOutDir         string
	exportIncludeSecrets bool
)

// Flags for mock command
var (
	mockHost  string
	mockPort  int
	mockFail  int
	mockQuiet bool
)

func init() {
	// send command flags
	sendCmd.Flags().StringVarP(&flagEndpoint, "endpoint", "e", "", "Endpoint name (a placeholder is generated when empty)")
	sendCmd.Flags().StringArrayVarP(&flagContexts, "context", "c", []string{}, "Context label, can be repeated")
	sendCmd.Flags().BoolVar(&flagIncludeSecrets, "include-secrets", false, "Keep API keys in the flow data")
	sendCmd.Flags().StringVar(&flagFilter, "filter", "", "JMESPath filter applied to the response body")
	sendCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "JMESPath query or $(command) applied after the filter")
	sendCmd.Flags().StringVarP(&flagSave, "save", "s", "", "Save the response to file")
	sendCmd.Flags().BoolVarP(&flagFull, "full", "f", false, "Show full output including the request trace")

	// export command flags
	exportCmd.Flags().StringVarP(&exportOutDir, "out", "o", "", "Destination directory (default: exports directory)")
	exportCmd.Flags().BoolVar(&exportIncludeSecrets, "include-secrets", false, "Keep API keys in the exported file")

	// mock command flags
	mockCmd.Flags().StringVar(&mockHost, "host", "localhost", "Host to listen on")
	mockCmd.Flags().IntVarP(&mockPort, "port", "p", 8000, "Port to listen on")
	mockCmd.Flags().IntVar(&mockFail, "fail", 0, "Fail every POST /flows/ with this status code (0 = off)")
	mockCmd.Flags().BoolVar(&mockQuiet, "quiet", false, "Disable per-request logging")

	// Add subcommands
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(mockCmd)
}

// runSend sends a flow file in CLI mode
func runSend(flowPath string) error {
	opts := cli.SendOptions{
		FlowPath:       flowPath,
		Endpoint:       flagEndpoint,
		Contexts:       flagContexts,
		IncludeSecrets: flagIncludeSecrets,
		Filter:         flagFilter,
		Query:          flagQuery,
		SavePath:       flagSave,
		ShowFull:       flagFull,
		Version:        version,
	}
	return cli.RunSend(opts)
}

// runExport exports a flow file in CLI mode
func runExport(flowPath string) error {
	opts := cli.ExportOptions{
		FlowPath:       flowPath,
		OutDir:         exportOutDir,
		IncludeSecrets: exportIncludeSecrets,
		Version:        version,
	}
	return cli.RunExport(opts)
}

// runMock runs the stand-in backend until interrupted
func runMock() error {
	server := mock.NewServer(mock.Config{
		Host:       mockHost,
		Port:       mockPort,
		FailStatus: mockFail,
		Logging:    !mockQuiet,
	})

	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start mock backend: %w", err)
	}

	fmt.Printf("Mock CoE-Backend listening on %s\n", server.GetAddress())
	fmt.Println("POST /flows/ accepts flows, GET /flows/ lists received flows, GET /health reports liveness")
	fmt.Println("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	<-sigChan

	fmt.Println("\nShutting down")
	return server.Stop()
}
