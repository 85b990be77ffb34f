package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/studiowebux/flowcli/internal/config"
	"github.com/studiowebux/flowcli/internal/payload"
	"github.com/studiowebux/flowcli/internal/types"
)

// Notification titles and details produced by the engine
const (
	titleMissingEndpoint = "Missing endpoint"
	titleMissingContext  = "Missing context"
	titleSendFailed      = "Failed to send to CoE-Backend"
	titleSendSucceeded   = "Flow sent to CoE-Backend"
	titleUnexpected      = "Unexpected error while sending"
)

// SendRequest carries everything a single send attempt needs. The flow
// document and edits are snapshots; the engine never reaches back into
// shared state while a request is in flight.
type SendRequest struct {
	Flow           *types.FlowDocument
	Edits          types.FlowEdits
	Endpoint       string   // raw endpoint input, may be empty
	Placeholder    string   // fallback token used when Endpoint is empty
	Contexts       []string // selected context labels in interaction order
	IncludeSecrets bool
}

// Outcome is the terminal result of a send attempt. RequestTrace and
// ResponseTrace replace whatever a previous attempt produced; they are
// never appended to.
type Outcome struct {
	Phase         Phase
	RequestTrace  string            // pretty-printed outgoing payload JSON
	ResponseTrace string            // status line + URL + body, or error text
	ResponseBody  string            // response body alone, re-indented when valid JSON
	FieldErrors   map[string]string // field name -> message for validation failures
	StatusCode    int
	StatusText    string
	Duration      int64 // milliseconds
}

// Engine performs send attempts against the CoE-Backend. Collaborators
// may be nil; nil collaborators are replaced with no-ops.
type Engine struct {
	flowsURL string
	client   *http.Client
	version  string
	notifier Notifier
	tracker  Tracker
	recorder Recorder
}

// NewEngine creates an engine posting to baseURL's flows path
func NewEngine(baseURL, version string, notifier Notifier, tracker Tracker, recorder Recorder) *Engine {
	if notifier == nil {
		notifier = NopNotifier()
	}
	if tracker == nil {
		tracker = NopTracker()
	}
	if recorder == nil {
		recorder = NopRecorder()
	}
	return &Engine{
		flowsURL: config.FlowsURL(baseURL),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		version:  version,
		notifier: notifier,
		tracker:  tracker,
		recorder: recorder,
	}
}

// URL returns the resolved flows endpoint the engine posts to
func (e *Engine) URL() string {
	return e.flowsURL
}

// Send runs one attempt: validate, build, POST, classify. Validation
// always happens before any payload is built or any network I/O starts.
// The returned outcome is terminal; the engine never retries.
func (e *Engine) Send(ctx context.Context, req SendRequest) Outcome {
	startTime := time.Now()

	// Validate endpoint first
	endpoint := ResolveEndpoint(req.Endpoint, req.Placeholder)
	if endpoint == "" {
		e.notifier.Error(titleMissingEndpoint, []string{"Provide an endpoint name before sending"})
		out := Outcome{
			Phase:       PhaseValidationFailed,
			FieldErrors: map[string]string{"endpoint": "Endpoint is required"},
		}
		e.recordAttempt(req, endpoint, out, "Endpoint is required", "", 0, 0)
		return out
	}

	// Validate context selection
	if len(req.Contexts) == 0 {
		e.notifier.Error(titleMissingContext, []string{"Select at least one context before sending"})
		out := Outcome{
			Phase:       PhaseValidationFailed,
			FieldErrors: map[string]string{"context": "At least one context is required"},
		}
		e.recordAttempt(req, endpoint, out, "At least one context is required", "", 0, 0)
		return out
	}

	// Build the flow body
	body, err := payload.BuildFlowBody(req.Flow, req.Edits, e.version, req.IncludeSecrets)
	if err != nil {
		return e.unexpected(req, endpoint, "", err, startTime)
	}

	outgoing := types.OutgoingPayload{
		Endpoint:    endpoint,
		Description: req.Edits.Description,
		FlowBody:    body,
		FlowID:      req.Flow.ID,
		Context:     req.Contexts,
	}

	// Serialize once; the same bytes are displayed and transmitted
	payloadJSON, err := json.MarshalIndent(outgoing, "", "  ")
	if err != nil {
		return e.unexpected(req, endpoint, "", err, startTime)
	}
	requestTrace := string(payloadJSON)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.flowsURL, bytes.NewReader(payloadJSON))
	if err != nil {
		return e.unexpected(req, endpoint, requestTrace, err, startTime)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(httpReq)
	duration := time.Since(startTime).Milliseconds()

	if err != nil {
		// Transport failure: DNS, connection refused, timeout
		trace := fmt.Sprintf("Network error: %v", err)
		e.notifier.Error(titleSendFailed, []string{err.Error()})
		out := Outcome{
			Phase:         PhaseNetworkFailed,
			RequestTrace:  requestTrace,
			ResponseTrace: trace,
			Duration:      duration,
		}
		e.recordAttempt(req, endpoint, out, err.Error(), "", len(payloadJSON), 0)
		return out
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	duration = time.Since(startTime).Milliseconds()
	if err != nil {
		trace := fmt.Sprintf("Network error: failed to read response body: %v", err)
		e.notifier.Error(titleSendFailed, []string{err.Error()})
		out := Outcome{
			Phase:         PhaseNetworkFailed,
			RequestTrace:  requestTrace,
			ResponseTrace: trace,
			StatusCode:    resp.StatusCode,
			StatusText:    resp.Status,
			Duration:      duration,
		}
		e.recordAttempt(req, endpoint, out, err.Error(), "", len(payloadJSON), 0)
		return out
	}

	responseBody := prettyJSON(string(bodyBytes))
	responseTrace := fmt.Sprintf("%s\n%s\n\n%s", resp.Status, e.flowsURL, responseBody)

	out := Outcome{
		RequestTrace:  requestTrace,
		ResponseTrace: responseTrace,
		ResponseBody:  responseBody,
		StatusCode:    resp.StatusCode,
		StatusText:    resp.Status,
		Duration:      duration,
	}

	if IsSuccessStatus(resp.StatusCode) {
		out.Phase = PhaseSucceeded
		e.notifier.Success(titleSendSucceeded, []string{fmt.Sprintf("Flow ID: %s", req.Flow.ID)})
		e.tracker.Track("flow_sent", map[string]interface{}{
			"flow_id":  req.Flow.ID,
			"contexts": req.Contexts,
		})
		e.recordAttempt(req, endpoint, out, "", responseBody, len(payloadJSON), len(bodyBytes))
		return out
	}

	out.Phase = PhaseHttpError
	e.notifier.Error(titleSendFailed, []string{resp.Status})
	e.recordAttempt(req, endpoint, out, "", responseBody, len(payloadJSON), len(bodyBytes))
	return out
}

// unexpected handles failures outside the transport guard: a missing
// flow, serialization errors, request construction errors
func (e *Engine) unexpected(req SendRequest, endpoint, requestTrace string, err error, startTime time.Time) Outcome {
	e.notifier.Error(titleUnexpected, []string{err.Error()})
	out := Outcome{
		Phase:         PhaseUnexpectedError,
		RequestTrace:  requestTrace,
		ResponseTrace: err.Error(),
		Duration:      time.Since(startTime).Milliseconds(),
	}
	e.recordAttempt(req, endpoint, out, err.Error(), "", len(requestTrace), 0)
	return out
}

// recordAttempt writes the attempt into the send log, fire-and-forget
func (e *Engine) recordAttempt(req SendRequest, endpoint string, out Outcome, errText, responseBody string, requestSize, responseSize int) {
	flowID := ""
	flowName := req.Edits.Name
	if req.Flow != nil {
		flowID = req.Flow.ID
		if flowName == "" {
			flowName = req.Flow.Name
		}
	}

	e.recorder.Record(types.SendLogEntry{
		Timestamp:      time.Now().Format(time.RFC3339),
		FlowID:         flowID,
		FlowName:       flowName,
		Endpoint:       endpoint,
		Contexts:       req.Contexts,
		IncludeSecrets: req.IncludeSecrets,
		Phase:          out.Phase.String(),
		StatusCode:     out.StatusCode,
		StatusText:     out.StatusText,
		DurationMs:     out.Duration,
		RequestSize:    requestSize,
		ResponseSize:   responseSize,
		ResponseBody:   responseBody,
		Error:          errText,
	})
}

// prettyJSON re-indents a JSON document for display, returning the input
// unchanged when it is not valid JSON
func prettyJSON(s string) string {
	var parsed interface{}
	if err := json.Unmarshal([]byte(s), &parsed); err != nil {
		return s
	}
	pretty, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return s
	}
	return string(pretty)
}
