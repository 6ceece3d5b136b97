package task

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/tasktracker/internal/utils"
)

//go:embed input.schema.json
var inputSchemaJSON string

const inputSchemaURL = "input.schema.json"

var compileInputSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	if err := compiler.AddResource(inputSchemaURL, strings.NewReader(inputSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add input schema: %w", err)
	}
	schema, err := compiler.Compile(inputSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile input schema: %w", err)
	}
	return schema, nil
})

// InputSchema returns the JSON Schema that DecodeInput validates against.
func InputSchema() string {
	return inputSchemaJSON
}

// inputWire mirrors the raw form values.
type inputWire struct {
	Title    string `json:"title"`
	Priority string `json:"priority"`
	DueDate  string `json:"dueDate"`
	Category string `json:"category"`
}

// DecodeInput validates a JSON add request against the input schema and
// converts it to an Input. Category names are matched against known,
// ignoring case. The title is not checked for blankness here; Store.Add
// does that.
func DecodeInput(data []byte, known []Category) (Input, error) {
	schema, err := compileInputSchema()
	if err != nil {
		return Input{}, err
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return Input{}, &ValidationError{Err: fmt.Errorf("malformed JSON: %w", err)}
	}
	if err := schema.Validate(doc); err != nil {
		return Input{}, schemaError(err)
	}

	var wire inputWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return Input{}, &ValidationError{Err: fmt.Errorf("decode input: %w", err)}
	}

	priority, err := ParsePriority(wire.Priority)
	if err != nil {
		return Input{}, err
	}
	due, err := ParseDate(wire.DueDate)
	if err != nil {
		return Input{}, err
	}

	return Input{
		Title:    wire.Title,
		Priority: priority,
		DueDate:  due,
		Category: ParseCategory(wire.Category, known),
	}, nil
}

// schemaError converts the first leaf of a schema validation failure into
// a *ValidationError pointing at the offending field.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &ValidationError{Err: err}
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return &ValidationError{
		Field: utils.JSONPointerToPath(ve.InstanceLocation),
		Err:   errors.New(ve.Message),
	}
}
