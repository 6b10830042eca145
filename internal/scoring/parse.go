// Package scoring turns free-form evaluator completions into validated
// score records.
package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Parse locates the first JSON object in text and validates it against
// schema. It never fails: unusable completions come back as a Record with an
// empty score and a fixed diagnostic reasoning. The returned error is
// ErrNoJSON or ErrMalformedJSON for those cases and is meant for logging.
func Parse(text string, schema Schema) (Record, Validation, error) {
	located, err := Locate(text)
	if err != nil {
		if errors.Is(err, ErrNoJSON) {
			return Record{Reasoning: ReasonNoJSON}, Validation{}, err
		}
		return Record{Reasoning: ReasonParseError}, Validation{}, err
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(located), &obj); err != nil {
		return Record{Reasoning: ReasonParseError}, Validation{}, fmt.Errorf("%w: %w", ErrMalformedJSON, err)
	}

	record, report, err := Validate(obj, schema)
	if err != nil {
		return Record{Reasoning: ReasonParseError}, report, fmt.Errorf("%w: %w", ErrMalformedJSON, err)
	}

	return record, report, nil
}
