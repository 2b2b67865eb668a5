package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FieldType is the JSON type of a response field
type FieldType string

// Supported response field types
const (
	FieldString      FieldType = "string"
	FieldInteger     FieldType = "integer"
	FieldStringArray FieldType = "string_array"
)

// SchemaField describes a single field of a structured response
type SchemaField struct {
	Name        string
	Type        FieldType
	Description string
	Required    bool
	Minimum     *int
	Maximum     *int
}

// ResponseSchema describes the object a structured generation must return.
// Providers with native schema support receive it as a provider schema;
// the others get it rendered into the prompt.
type ResponseSchema struct {
	Name        string
	Description string
	Fields      []SchemaField
}

// RequiredFields returns the names of required fields in declaration order
func (s *ResponseSchema) RequiredFields() []string {
	var names []string
	for _, f := range s.Fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

// JSONSchema renders the schema as a draft-07 JSON Schema document.
func (s *ResponseSchema) JSONSchema() string {
	properties := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		prop := map[string]any{}
		switch f.Type {
		case FieldInteger:
			prop["type"] = "integer"
		case FieldStringArray:
			prop["type"] = "array"
			prop["items"] = map[string]any{"type": "string"}
		default:
			prop["type"] = "string"
		}
		if f.Description != "" {
			prop["description"] = f.Description
		}
		if f.Minimum != nil {
			prop["minimum"] = *f.Minimum
		}
		if f.Maximum != nil {
			prop["maximum"] = *f.Maximum
		}
		properties[f.Name] = prop
	}

	doc := map[string]any{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"title":      s.Name,
		"type":       "object",
		"properties": properties,
	}
	if required := s.RequiredFields(); len(required) > 0 {
		doc["required"] = required
	}

	// Marshalling maps of primitives cannot fail
	data, _ := json.Marshal(doc)
	return string(data)
}

// PromptInstructions renders the schema as output instructions appended to a
// prompt, for providers that cannot enforce a response schema.
func (s *ResponseSchema) PromptInstructions() string {
	var sb strings.Builder
	sb.WriteString("Respond with a single JSON object and nothing else.")
	if s.Description != "" {
		sb.WriteString(" ")
		sb.WriteString(s.Description)
	}
	sb.WriteString("\nThe object has these fields:\n")
	for _, f := range s.Fields {
		fmt.Fprintf(&sb, "- %q (%s", f.Name, jsonTypeName(f.Type))
		if f.Required {
			sb.WriteString(", required")
		}
		if f.Minimum != nil && f.Maximum != nil {
			fmt.Fprintf(&sb, ", between %d and %d", *f.Minimum, *f.Maximum)
		}
		sb.WriteString(")")
		if f.Description != "" {
			sb.WriteString(": ")
			sb.WriteString(f.Description)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func jsonTypeName(t FieldType) string {
	switch t {
	case FieldInteger:
		return "integer"
	case FieldStringArray:
		return "array of strings"
	default:
		return "string"
	}
}

func intPtr(v int) *int {
	return &v
}

// AlignmentSchema returns the response schema of an ATS alignment check.
func AlignmentSchema() *ResponseSchema {
	return &ResponseSchema{
		Name:        "alignment_report",
		Description: "An ATS keyword alignment report comparing a resume with a job description.",
		Fields: []SchemaField{
			{
				Name:        "score",
				Type:        FieldInteger,
				Description: "A score from 0 to 100 indicating how well the resume matches the job description",
				Required:    true,
				Minimum:     intPtr(0),
				Maximum:     intPtr(100),
			},
			{
				Name:        "matchedKeywords",
				Type:        FieldStringArray,
				Description: "Keywords from the job description found in the resume",
				Required:    true,
			},
			{
				Name:        "missingKeywords",
				Type:        FieldStringArray,
				Description: "Important keywords from the job description missing from the resume",
				Required:    true,
			},
			{
				Name:        "suggestions",
				Type:        FieldString,
				Description: "Actionable suggestions to improve the resume's alignment",
				Required:    true,
			},
		},
	}
}
