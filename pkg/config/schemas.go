package config

import (
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// SchemaRegistry manages CUE schemas for validating farmplan's
// service configuration document.
type SchemaRegistry struct {
	ctx     *cue.Context
	schemas map[string]cue.Value
	mu      sync.RWMutex
}

// NewSchemaRegistry creates a new schema registry with built-in schemas.
func NewSchemaRegistry() *SchemaRegistry {
	ctx := cuecontext.New()
	sr := &SchemaRegistry{
		ctx:     ctx,
		schemas: make(map[string]cue.Value),
	}
	sr.registerBuiltInSchemas()
	return sr
}

func (sr *SchemaRegistry) registerBuiltInSchemas() {
	_ = sr.RegisterSchema("service", builtinServiceSchema+builtinRateLimitSchema)
	_ = sr.RegisterSchema("rate_limit", builtinRateLimitSchema)
}

// RegisterSchema registers a CUE schema with the given name.
func (sr *SchemaRegistry) RegisterSchema(name, schema string) error {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	val := sr.ctx.CompileString(schema)
	if err := val.Err(); err != nil {
		return fmt.Errorf("failed to compile schema %s: %w", name, err)
	}

	sr.schemas[name] = val
	return nil
}

// GetSchema retrieves a schema by name.
func (sr *SchemaRegistry) GetSchema(name string) (cue.Value, bool) {
	sr.mu.RLock()
	defer sr.mu.RUnlock()

	val, ok := sr.schemas[name]
	return val, ok
}

// ValidateAgainstSchema validates data against a named schema.
func (sr *SchemaRegistry) ValidateAgainstSchema(schemaName string, data interface{}) error {
	schema, ok := sr.GetSchema(schemaName)
	if !ok {
		return fmt.Errorf("schema %s not found", schemaName)
	}

	// The built-in schemas declare their constraints as a definition
	// (#Service, #RateLimit); validate against the first one declared.
	if iter, err := schema.Fields(cue.Definitions(true)); err == nil {
		for iter.Next() {
			if iter.Selector().IsDefinition() {
				schema = iter.Value()
				break
			}
		}
	}

	dataVal := sr.ctx.Encode(data)
	if err := dataVal.Err(); err != nil {
		return fmt.Errorf("failed to encode data: %w", err)
	}

	unified := schema.Unify(dataVal)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}

// ListSchemas returns all registered schema names.
func (sr *SchemaRegistry) ListSchemas() []string {
	sr.mu.RLock()
	defer sr.mu.RUnlock()

	names := make([]string, 0, len(sr.schemas))
	for name := range sr.schemas {
		names = append(names, name)
	}
	return names
}

// ValidateServiceConfig validates a service configuration against the
// service schema.
func (sr *SchemaRegistry) ValidateServiceConfig(cfg ServiceConfig) error {
	return sr.ValidateAgainstSchema("service", cfg)
}

// Built-in schema definitions.

const builtinServiceSchema = `
// ServiceSchema constrains farmplan's environment configuration.
#Service: {
	log_level: "debug" | "info" | "warn" | "error"

	solver_workers: int & >=1

	// Durations are nanoseconds once decoded from Go; CUE only checks
	// that they are present and non-negative.
	sync_deadline: int & >=0
	async_job_ttl: int & >=0

	backend: "in_process" | "durable"

	queue_depth: int & >=1

	table_name?: string
	table_path?: string
	blob_root?:  string

	rate_limit?: #RateLimit

	cors_origins?: [...string]
}
`

const builtinRateLimitSchema = `
// RateLimitSchema constrains the passthrough rate-limit knobs.
#RateLimit: {
	enabled: bool
	requests_per_minute?: int & >=0
	burst?:               int & >=0
}
`
