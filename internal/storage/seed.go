// ABOUTME: TOML seed plans describing a project with sections and tasks
// ABOUTME: Plans are validated against an embedded JSON Schema before use

package storage

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed seed.schema.json
var seedSchemaJSON []byte

const seedSchemaURL = "seed.schema.json"

// SeedPlan describes a project to create in one go.
//
//	project = "Home"
//	tasks = ["water plants"]
//
//	[[sections]]
//	name = "Kitchen"
//	tasks = ["dishes", "mop"]
type SeedPlan struct {
	Project  string        `toml:"project" json:"project"`
	Tasks    []string      `toml:"tasks" json:"tasks,omitempty"`
	Sections []SeedSection `toml:"sections" json:"sections,omitempty"`
}

// SeedSection is a section and its tasks in plan order.
type SeedSection struct {
	Name  string   `toml:"name" json:"name"`
	Tasks []string `toml:"tasks" json:"tasks,omitempty"`
}

// TaskCount returns the number of tasks the plan creates.
func (p *SeedPlan) TaskCount() int {
	n := len(p.Tasks)
	for _, s := range p.Sections {
		n += len(s.Tasks)
	}
	return n
}

// LoadSeedPlan reads and validates a TOML seed plan from disk.
func LoadSeedPlan(path string) (*SeedPlan, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided seed path
	if err != nil {
		return nil, fmt.Errorf("read seed plan: %w", err)
	}
	return ParseSeedPlan(data)
}

// ParseSeedPlan decodes and validates a TOML seed plan.
func ParseSeedPlan(data []byte) (*SeedPlan, error) {
	var plan SeedPlan
	md, err := toml.Decode(string(data), &plan)
	if err != nil {
		return nil, fmt.Errorf("parse seed plan: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("parse seed plan: unknown keys %s", strings.Join(keys, ", "))
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Validate checks the plan against the seed schema.
func (p *SeedPlan) Validate() error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(seedSchemaURL, bytes.NewReader(seedSchemaJSON)); err != nil {
		return fmt.Errorf("load seed schema: %w", err)
	}
	schema, err := compiler.Compile(seedSchemaURL)
	if err != nil {
		return fmt.Errorf("compile seed schema: %w", err)
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode seed plan: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode seed plan: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("invalid seed plan: %s", strings.Join(schemaMessages(ve), "; "))
		}
		return fmt.Errorf("invalid seed plan: %w", err)
	}
	return nil
}

// schemaMessages flattens a validation error tree into leaf messages.
func schemaMessages(ve *jsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		loc := strings.TrimPrefix(ve.InstanceLocation, "/")
		if loc == "" {
			return []string{ve.Message}
		}
		return []string{loc + ": " + ve.Message}
	}
	var msgs []string
	for _, cause := range ve.Causes {
		msgs = append(msgs, schemaMessages(cause)...)
	}
	return msgs
}
