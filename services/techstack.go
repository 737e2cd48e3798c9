package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rpupo63/portfolio-backend/errs"
)

// ParseTechStack turns free-form tech stack input into a list. The string is tried as a
// JSON array first, then split on commas, and otherwise kept as a single entry.
func ParseTechStack(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var list []interface{}
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		return cleanTechStack(stringify(list))
	}

	var single string
	if err := json.Unmarshal([]byte(raw), &single); err == nil {
		return cleanTechStack([]string{single})
	}

	if strings.Contains(raw, ",") {
		return cleanTechStack(strings.Split(raw, ","))
	}

	return []string{raw}
}

// stringify renders decoded JSON array elements as text. JSON nulls are dropped.
func stringify(items []interface{}) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case nil:
		case string:
			out = append(out, v)
		default:
			out = append(out, fmt.Sprint(v))
		}
	}
	return out
}

func cleanTechStack(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// TechStackInput decodes a JSON body field that may hold either a list of strings or a
// string handled by ParseTechStack.
type TechStackInput []string

func (t *TechStackInput) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*t = nil
		return nil
	}

	var list []interface{}
	if err := json.Unmarshal(data, &list); err == nil {
		*t = cleanTechStack(stringify(list))
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = ParseTechStack(s)
		return nil
	}

	return errs.NewInvalidFieldError("techStack", "Invalid techStack format")
}
