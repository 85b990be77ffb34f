package export

import (
	"fmt"
	"os"

	"github.com/studiowebux/flowcli/internal/dispatch"
	"github.com/studiowebux/flowcli/internal/payload"
	"github.com/studiowebux/flowcli/internal/types"
)

// Downloader persists a flow body locally and returns where it landed
type Downloader interface {
	SaveFlow(body types.FlowBody, name, description string) (string, error)
}

// Exporter builds a flow body and hands it to the downloader. Unlike a
// send, an export never touches the network; it shares the body contract
// with the dispatch path so an exported file matches what a send would
// have transmitted.
type Exporter struct {
	downloader Downloader
	version    string
	notifier   dispatch.Notifier
	tracker    dispatch.Tracker
}

// NewExporter creates an exporter. Nil collaborators are allowed.
func NewExporter(downloader Downloader, version string, notifier dispatch.Notifier, tracker dispatch.Tracker) *Exporter {
	if notifier == nil {
		notifier = dispatch.NopNotifier()
	}
	if tracker == nil {
		tracker = dispatch.NopTracker()
	}
	return &Exporter{
		downloader: downloader,
		version:    version,
		notifier:   notifier,
		tracker:    tracker,
	}
}

// Export builds the flow body (redacted unless includeSecrets) and saves
// it through the downloader. Failures are surfaced as error
// notifications, never swallowed. Returns the saved path.
func (e *Exporter) Export(doc *types.FlowDocument, edits types.FlowEdits, includeSecrets bool) (string, error) {
	body, err := payload.BuildFlowBody(doc, edits, e.version, includeSecrets)
	if err != nil {
		e.notifier.Error("Failed to export flow", []string{err.Error()})
		return "", err
	}

	path, err := e.downloader.SaveFlow(body, edits.Name, edits.Description)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flowcli: export failed: %v\n", err)
		e.notifier.Error("Failed to export flow", []string{err.Error()})
		return "", err
	}

	if includeSecrets {
		e.notifier.Notice("Flow exported with API keys", []string{
			"Exported data contains sensitive material",
			fmt.Sprintf("Saved to %s", path),
		})
	} else {
		e.notifier.Success("Flow exported", []string{fmt.Sprintf("Saved to %s", path)})
	}

	e.tracker.Track("flow_exported", map[string]interface{}{
		"flow_id": doc.ID,
	})

	return path, nil
}
