// Package schema validates the classification JSON produced by the model
// against an explicit JSON Schema.
package schema

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/futig/ticket-classifier/internal/entity"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "ticket-classification.schema.json"

//go:embed classification.schema.json
var literal string

var compiled = jsonschema.MustCompileString(schemaURL, literal)

// Literal returns the JSON Schema text the model output must satisfy
func Literal() string {
	return literal
}

// modelOutput shadows the evidence key at the outer level, so whatever the
// model echoes there is never decoded into RAGDocument values.
type modelOutput struct {
	entity.TicketClassification
	Evidence json.RawMessage `json:"documentos_rag_usados"`
}

// Result is the outcome of validating a model response
type Result struct {
	OK             bool
	Classification *entity.TicketClassification
	Errors         []string
}

// Err returns nil for a successful result, otherwise an error wrapping
// entity.ErrInvalidModelOutput.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	return fmt.Errorf("%w: %s", entity.ErrInvalidModelOutput, strings.Join(r.Errors, "; "))
}

// Validate parses raw as JSON, checks it against the classification schema
// and decodes it. Evidence is never taken from the model output.
func Validate(raw string) Result {
	if strings.TrimSpace(raw) == "" {
		return failure("empty response")
	}

	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return failure("invalid JSON: " + err.Error())
	}

	if err := compiled.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return failure(flatten(verr)...)
		}
		return failure(err.Error())
	}

	var out modelOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return failure("decode classification: " + err.Error())
	}

	classification := out.TicketClassification
	classification.Evidence = nil

	return Result{OK: true, Classification: &classification}
}

func failure(errs ...string) Result {
	return Result{Errors: errs}
}

// flatten collects the leaf causes of a validation error as
// "<instance location>: <message>" lines
func flatten(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		location := verr.InstanceLocation
		if location == "" {
			location = "/"
		}
		return []string{location + ": " + verr.Message}
	}

	var out []string
	for _, cause := range verr.Causes {
		out = append(out, flatten(cause)...)
	}
	return out
}
