package filter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/jmespath/go-jmespath"
)

// QueryShellTimeout caps how long a $(...) query command may run
const QueryShellTimeout = 30 * time.Second

// shellQuery matches query expressions of the form $(command)
var shellQuery = regexp.MustCompile(`^\$\((.+)\)$`)

// Apply narrows a JSON document with a JMESPath filter, then projects it
// with a query expression (e.g. filter flows[?status=='active'], query
// [].name). The query may instead be a $(...) shell command, which
// receives the document on stdin. With neither expression set the
// document passes through untouched.
func Apply(body, filterExpr, queryExpr string) (string, error) {
	if filterExpr == "" && queryExpr == "" {
		return body, nil
	}

	// A shell query with no filter gets the raw body, formatting intact
	if filterExpr == "" {
		if command, ok := shellCommand(queryExpr); ok {
			out, err := pipeThroughShell(body, command)
			if err != nil {
				return "", fmt.Errorf("failed to execute query shell command: %w", err)
			}
			return out, nil
		}
	}

	var doc interface{}
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}

	if filterExpr != "" {
		narrowed, err := search(filterExpr, doc)
		if err != nil {
			return "", fmt.Errorf("failed to apply filter: %w", err)
		}
		doc = narrowed
	}

	if command, ok := shellCommand(queryExpr); ok {
		rendered, err := render(doc)
		if err != nil {
			return "", err
		}
		out, err := pipeThroughShell(rendered, command)
		if err != nil {
			return "", fmt.Errorf("failed to execute query shell command: %w", err)
		}
		return out, nil
	}

	if queryExpr != "" {
		projected, err := search(queryExpr, doc)
		if err != nil {
			return "", fmt.Errorf("failed to apply query: %w", err)
		}
		doc = projected
	}

	return render(doc)
}

// search compiles and evaluates one JMESPath expression
func search(expression string, doc interface{}) (interface{}, error) {
	compiled, err := jmespath.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid JMESPath expression %q: %w", expression, err)
	}

	result, err := compiled.Search(doc)
	if err != nil {
		return nil, fmt.Errorf("JMESPath search failed: %w", err)
	}
	return result, nil
}

// render marshals a result value as indented JSON. A nil result renders
// as the literal null, matching what jq prints for missing fields.
func render(doc interface{}) (string, error) {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render result: %w", err)
	}
	return string(out), nil
}

// shellCommand extracts the command from a $(...) query
func shellCommand(query string) (string, bool) {
	m := shellQuery.FindStringSubmatch(query)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// pipeThroughShell runs a command with the document on stdin and returns
// its trimmed stdout. Stderr becomes the error message when the command
// fails, since tools like jq put the useful diagnostics there.
func pipeThroughShell(doc, command string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), QueryShellTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdin = strings.NewReader(doc)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		reason := err.Error()
		if stderr.Len() > 0 {
			reason = strings.TrimSpace(stderr.String())
		}
		return "", fmt.Errorf("command %q failed: %s", command, reason)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// IsValidJMESPath reports whether the expression compiles
func IsValidJMESPath(expression string) bool {
	_, err := jmespath.Compile(expression)
	return err == nil
}

// IsShellCommand reports whether the query is a $(...) shell command
func IsShellCommand(query string) bool {
	return shellQuery.MatchString(query)
}
