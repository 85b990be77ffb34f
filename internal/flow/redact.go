package flow

import "strings"

// Key name fragments that mark a field as credential-bearing
var sensitiveKeyParts = []string{
	"apikey",
	"apitoken",
	"accesstoken",
	"authtoken",
	"secret",
	"password",
	"credential",
	"privatekey",
}

// Exact key names treated as credential-bearing
var sensitiveKeyNames = []string{
	"token",
	"authorization",
	"auth",
	"key",
}

// IsSensitiveKey reports whether a field name carries credential material.
// Comparison ignores case, underscores, hyphens and spaces, so "API_KEY",
// "api-key" and "ApiKey" all match.
func IsSensitiveKey(key string) bool {
	normalized := strings.ToLower(key)
	normalized = strings.NewReplacer("_", "", "-", "", " ", "").Replace(normalized)

	for _, name := range sensitiveKeyNames {
		if normalized == name {
			return true
		}
	}
	for _, part := range sensitiveKeyParts {
		if strings.Contains(normalized, part) {
			return true
		}
	}
	return false
}

// RemoveAPIKeys returns a deep copy of flow data with credential-bearing
// fields removed. Two kinds of fields are dropped: any field whose name
// matches IsSensitiveKey, and the "value" of any template field marked
// "password": true (the Langflow convention for secret inputs whose field
// name alone does not reveal the secret).
//
// The input is never mutated.
func RemoveAPIKeys(data map[string]interface{}) map[string]interface{} {
	if data == nil {
		return nil
	}
	return redactMap(data)
}

func redactMap(in map[string]interface{}) map[string]interface{} {
	// A map with "password": true and a "value" key is a Langflow template
	// field definition; its value is the secret.
	passwordField := false
	if marked, ok := in["password"].(bool); ok && marked {
		if _, hasValue := in["value"]; hasValue {
			passwordField = true
		}
	}

	out := make(map[string]interface{}, len(in))
	for key, value := range in {
		if passwordField && key == "value" {
			continue
		}
		if IsSensitiveKey(key) {
			// Boolean markers like a template's "password" flag are
			// metadata, not secret values
			if _, isBool := value.(bool); !isBool {
				continue
			}
		}
		out[key] = redactValue(value)
	}
	return out
}

func redactValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return redactMap(v)
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = redactValue(item)
		}
		return out
	default:
		return value
	}
}

// CountSensitiveFields walks flow data and counts credential-bearing
// fields, including password-marked template values. Used by the summary
// panel to show how much a redacted export would strip.
func CountSensitiveFields(data map[string]interface{}) int {
	if data == nil {
		return 0
	}
	return countMap(data)
}

func countMap(in map[string]interface{}) int {
	count := 0

	passwordField := false
	if marked, ok := in["password"].(bool); ok && marked {
		if _, hasValue := in["value"]; hasValue {
			passwordField = true
		}
	}

	for key, value := range in {
		if passwordField && key == "value" {
			count++
			continue
		}
		if IsSensitiveKey(key) {
			if _, isBool := value.(bool); !isBool {
				count++
				continue
			}
		}
		count += countValue(value)
	}
	return count
}

func countValue(value interface{}) int {
	switch v := value.(type) {
	case map[string]interface{}:
		return countMap(v)
	case []interface{}:
		count := 0
		for _, item := range v {
			count += countValue(item)
		}
		return count
	default:
		return 0
	}
}
