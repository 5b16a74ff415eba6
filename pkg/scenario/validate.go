package scenario

import (
	"fmt"
)

// Validate checks the structure of one raw scenario (as decoded from JSON or
// YAML into map[string]any) and converts it. Checks run in a fixed order and
// stop at the first failure. An "id" is optional here: generated scenarios
// receive one from the Store.
func Validate(raw any) (Scenario, error) {
	return validateAt(raw, "")
}

func validateAt(raw any, path string) (Scenario, error) {
	rec, ok := raw.(map[string]any)
	if !ok {
		return Scenario{}, &ValidationError{Check: CheckRecord, Path: pathOr(path, "scenario"), Reason: fmt.Sprintf("expected an object, got %s", typeName(raw))}
	}

	desc, ok := rec["description"].(string)
	if !ok || desc == "" {
		return Scenario{}, &ValidationError{Check: CheckDescription, Path: join(path, "description"), Reason: missingOrWrong(rec, "description", "a non-empty string")}
	}

	rawChoices, ok := rec["choices"].([]any)
	if !ok {
		return Scenario{}, &ValidationError{Check: CheckChoices, Path: join(path, "choices"), Reason: missingOrWrong(rec, "choices", "a list")}
	}
	if len(rawChoices) == 0 {
		return Scenario{}, &ValidationError{Check: CheckChoices, Path: join(path, "choices"), Reason: "must contain at least one choice"}
	}

	choices := make([]Choice, 0, len(rawChoices))
	for i, rc := range rawChoices {
		c, err := validateChoice(rc, fmt.Sprintf("%s[%d]", join(path, "choices"), i))
		if err != nil {
			return Scenario{}, err
		}
		choices = append(choices, c)
	}

	seen := make(map[string]int, len(choices))
	for i, c := range choices {
		if first, dup := seen[c.Text]; dup {
			return Scenario{}, &ValidationError{
				Check:  CheckDuplicateText,
				Path:   fmt.Sprintf("%s[%d].text", join(path, "choices"), i),
				Reason: fmt.Sprintf("text %q duplicates choices[%d]", c.Text, first),
			}
		}
		seen[c.Text] = i
	}

	var id string
	if rawID, present := rec["id"]; present && rawID != nil {
		id, ok = rawID.(string)
		if !ok {
			return Scenario{}, &ValidationError{Check: CheckID, Path: join(path, "id"), Reason: fmt.Sprintf("expected a string, got %s", typeName(rawID))}
		}
	}

	return Scenario{ID: id, Description: desc, Choices: choices}, nil
}

func validateChoice(raw any, path string) (Choice, error) {
	rec, ok := raw.(map[string]any)
	if !ok {
		return Choice{}, &ValidationError{Check: CheckChoiceFields, Path: path, Reason: fmt.Sprintf("expected an object, got %s", typeName(raw))}
	}

	text, ok := rec["text"].(string)
	if !ok || text == "" {
		return Choice{}, &ValidationError{Check: CheckChoiceFields, Path: join(path, "text"), Reason: missingOrWrong(rec, "text", "a non-empty string")}
	}

	isCorrect, ok := rec["is_correct"].(bool)
	if !ok {
		return Choice{}, &ValidationError{Check: CheckChoiceFields, Path: join(path, "is_correct"), Reason: missingOrWrong(rec, "is_correct", "a boolean")}
	}

	feedback, ok := rec["feedback"].(string)
	if !ok {
		return Choice{}, &ValidationError{Check: CheckChoiceFields, Path: join(path, "feedback"), Reason: missingOrWrong(rec, "feedback", "a string")}
	}

	c := Choice{Text: text, IsCorrect: isCorrect, Feedback: feedback}
	switch next := rec["next_id"].(type) {
	case nil:
	case string:
		if next != "" {
			c.NextID = NextID(next)
		}
	default:
		return Choice{}, &ValidationError{Check: CheckChoiceFields, Path: join(path, "next_id"), Reason: fmt.Sprintf("expected a string or null, got %s", typeName(next))}
	}
	return c, nil
}

// toRaw converts a typed scenario back to its raw form so typed inserts run
// through the same checks as decoded data.
func toRaw(s Scenario) map[string]any {
	choices := make([]any, len(s.Choices))
	for i, c := range s.Choices {
		rc := map[string]any{
			"text":       c.Text,
			"is_correct": c.IsCorrect,
			"feedback":   c.Feedback,
			"next_id":    nil,
		}
		if c.NextID != nil {
			rc["next_id"] = *c.NextID
		}
		choices[i] = rc
	}
	return map[string]any{
		"id":          s.ID,
		"description": s.Description,
		"choices":     choices,
	}
}

func missingOrWrong(rec map[string]any, key, want string) string {
	v, present := rec[key]
	if !present {
		return "missing required field " + key
	}
	return fmt.Sprintf("expected %s, got %s", want, typeName(v))
}

func typeName(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		if t == "" {
			return "empty string"
		}
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, uint64:
		return "number"
	case []any:
		return "list"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func join(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}

func pathOr(path, fallback string) string {
	if path == "" {
		return fallback
	}
	return path
}
