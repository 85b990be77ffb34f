package payload

import (
	"errors"

	"github.com/studiowebux/flowcli/internal/flow"
	"github.com/studiowebux/flowcli/internal/types"
)

// ErrMissingFlow is returned when no flow document is available to build from
var ErrMissingFlow = errors.New("no flow document available")

// BuildFlowBody assembles the flow body sent to the CoE-Backend from the
// active flow document and the modal's edit state. The name and
// description always come from the edits (the modal seeds them from the
// flow, so an untouched form sends the flow's own values). The version
// tag records which app version last exercised the flow.
//
// When includeSecrets is false the flow data goes through
// flow.RemoveAPIKeys; otherwise it is passed along untouched.
func BuildFlowBody(doc *types.FlowDocument, edits types.FlowEdits, version string, includeSecrets bool) (types.FlowBody, error) {
	if doc == nil {
		return types.FlowBody{}, ErrMissingFlow
	}

	data := doc.Data
	if !includeSecrets {
		data = flow.RemoveAPIKeys(data)
	}

	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}

	return types.FlowBody{
		ID:                doc.ID,
		Data:              data,
		Description:       edits.Description,
		Name:              edits.Name,
		LastTestedVersion: version,
		EndpointName:      doc.EndpointName,
		IsComponent:       false, // flows are always sent as full flows
		Tags:              tags,
	}, nil
}
