/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package plan

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

//go:embed plan.schema.json
var schemaJSON []byte

// SchemaJSON returns the JSON schema serialized plans conform to.
func SchemaJSON() []byte { return append([]byte(nil), schemaJSON...) }

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

// ErrInvalidPlan wraps schema violations and decode failures.
var ErrInvalidPlan = errors.New("invalid plan document")

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	})
	return schema, schemaErr
}

// Validate checks b against the plan schema.
func Validate(b []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile plan schema: %w", err)
	}
	res, err := s.Validate(gojsonschema.NewBytesLoader(b))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidPlan, strings.Join(msgs, "; "))
	}
	return nil
}

// Marshal encodes d as indented JSON. Mappings are keyed by ID string and emitted in
// key order, so equal plans produce identical text.
func Marshal(d *Data) ([]byte, error) {
	if d == nil {
		return nil, errors.New("nil plan")
	}
	out := *d
	out.normalize()
	b, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal plan: %w", err)
	}
	return append(b, '\n'), nil
}

// Unmarshal validates and decodes a serialized plan.
func Unmarshal(b []byte) (*Data, error) {
	if err := Validate(b); err != nil {
		return nil, err
	}
	d := &Data{}
	if err := json.Unmarshal(b, d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	d.normalize()
	return d, nil
}
