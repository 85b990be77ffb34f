/*
Package types defines core data structures shared across FlowCLI.

# Overview

The types package provides shared type definitions for:
  - Flow documents and their send/export projections
  - The outgoing CoE-Backend payload
  - Flow file discovery
  - The send log

# Flow Types

FlowDocument:
  - A flow as stored on disk (.json/.jsonc/.yaml)
  - Arbitrary structured graph under Data
  - Metadata: name, description, endpoint name, tags

FlowBody:
  - The subset of a flow embedded in payloads and export files
  - Fixed field set matching the CoE-Backend contract
  - Data is redacted unless API key inclusion was requested

OutgoingPayload:
  - The JSON document POSTed to <backend>/flows/
  - endpoint, description, flow_body, flow_id, context

# Field Tags

All wire-facing types use snake_case JSON tags matching the backend
contract. YAML tags exist on FlowDocument so flows authored by hand in
YAML parse into the same structure.
*/
package types
