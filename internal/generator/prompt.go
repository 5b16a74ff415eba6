package generator

import "github.com/Al1374525/Cyber-Security-Awareness-App/pkg/chat"

// Prompt asks for a single scenario in the same shape the scenario file uses.
const Prompt = `Generate a single IT Help Desk cybersecurity scenario in JSON format:
{
    "description": "A brief scenario description (1-2 sentences).",
    "choices": [
        {"text": "Choice 1", "is_correct": true, "feedback": "Correct feedback.", "next_id": null},
        {"text": "Choice 2", "is_correct": false, "feedback": "Wrong feedback.", "next_id": null},
        {"text": "Choice 3", "is_correct": false, "feedback": "Wrong feedback.", "next_id": null}
    ]
}
Focus on realistic help desk tasks like phishing, passwords, or malware. Make exactly one choice correct.
Respond with the JSON object only.`

// ResponseSchema is sent to providers that support structured output.
var ResponseSchema = &chat.ResponseSchema{
	Name: "help_desk_scenario",
	Schema: map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"description", "choices"},
		"properties": map[string]any{
			"description": map[string]any{"type": "string"},
			"choices": map[string]any{
				"type":     "array",
				"minItems": 2,
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"text", "is_correct", "feedback", "next_id"},
					"properties": map[string]any{
						"text":       map[string]any{"type": "string"},
						"is_correct": map[string]any{"type": "boolean"},
						"feedback":   map[string]any{"type": "string"},
						"next_id":    map[string]any{"type": []string{"string", "null"}},
					},
				},
			},
		},
	},
}
