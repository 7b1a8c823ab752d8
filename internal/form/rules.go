// Package form holds the checks the add-card form runs before submitting.
package form

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/cards-tracker/internal/common"
	"github.com/joseph-ayodele/cards-tracker/internal/entity"
)

//go:embed card.schema.json
var cardSchema []byte

// Rules validates a contact record against the card schema.
type Rules struct {
	schema *jsonschema.Schema
}

func NewRules() (*Rules, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("card.schema.json", bytes.NewReader(cardSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("card.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Rules{schema: schema}, nil
}

// Validate returns a VALIDATION_FAILED AppError listing every violation.
func (r *Rules) Validate(rec entity.ContactRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("unmarshal record: %w", err)
	}
	err = r.schema.Validate(v)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("validate record: %w", err)
	}
	msgs := violations(ve, nil)
	sort.Strings(msgs)
	return common.NewAppError(common.CodeValidationFailed, strings.Join(msgs, "; "), errors.Join(common.ErrValidation, err))
}

// violations collects the leaf errors as "<field>: <message>".
func violations(ve *jsonschema.ValidationError, out []string) []string {
	if len(ve.Causes) == 0 {
		field := strings.TrimPrefix(ve.InstanceLocation, "/")
		if field == "" {
			field = "record"
		}
		return append(out, field+": "+ve.Message)
	}
	for _, c := range ve.Causes {
		out = violations(c, out)
	}
	return out
}
