package types

import "time"

// FlowDocument represents a Langflow-style flow as loaded from a flow file
// or exported by a Langflow instance. The document is owned by the flow
// store; send/export never mutate it, they overlay local edits instead.
type FlowDocument struct {
	ID                string                 `json:"id" yaml:"id"`
	Data              map[string]interface{} `json:"data" yaml:"data"`
	Name              string                 `json:"name" yaml:"name"`
	Description       string                 `json:"description,omitempty" yaml:"description,omitempty"`
	LastTestedVersion string                 `json:"last_tested_version,omitempty" yaml:"last_tested_version,omitempty"`
	EndpointName      string                 `json:"endpoint_name,omitempty" yaml:"endpoint_name,omitempty"`
	IsComponent       bool                   `json:"is_component,omitempty" yaml:"is_component,omitempty"`
	Tags              []string               `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// FlowEdits carries the local name/description overrides a user typed into
// the send modal. Seeded from the active flow, discarded on close.
type FlowEdits struct {
	Name        string
	Description string
}

// FlowBody is the flow subset embedded in an outgoing payload or written to
// an export file. Field set and tag names follow the CoE-Backend contract.
type FlowBody struct {
	ID                string                 `json:"id"`
	Data              map[string]interface{} `json:"data"`
	Description       string                 `json:"description"`
	Name              string                 `json:"name"`
	LastTestedVersion string                 `json:"last_tested_version"`
	EndpointName      string                 `json:"endpoint_name"`
	IsComponent       bool                   `json:"is_component"`
	Tags              []string               `json:"tags"`
}

// OutgoingPayload is the JSON document POSTed to the CoE-Backend. It is
// constructed fresh on every send attempt and never persisted.
type OutgoingPayload struct {
	Endpoint    string   `json:"endpoint"`
	Description string   `json:"description"`
	FlowBody    FlowBody `json:"flow_body"`
	FlowID      string   `json:"flow_id"`
	Context     []string `json:"context"`
}

// FlowFileInfo describes a flow file discovered on disk for the sidebar
type FlowFileInfo struct {
	Name         string    // Display name (path relative to the flows directory)
	Path         string    // Absolute path
	ModifiedTime time.Time // Last modification time
}

// SendLogEntry is one recorded send attempt (sqlite send log)
type SendLogEntry struct {
	ID             int64
	Timestamp      string // RFC3339
	FlowID         string
	FlowName       string
	Endpoint       string
	Contexts       []string
	IncludeSecrets bool
	Phase          string // Terminal dispatch phase name
	StatusCode     int
	StatusText     string
	DurationMs     int64
	RequestSize    int
	ResponseSize   int
	ResponseBody   string
	Error          string
}
