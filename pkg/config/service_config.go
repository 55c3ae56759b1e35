package config

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"github.com/go-playground/validator/v10"
)

// ServiceConfigLoader parses and validates the CUE service
// configuration document.
type ServiceConfigLoader struct {
	ctx      *cue.Context
	registry *SchemaRegistry
	validate *validator.Validate
}

// NewServiceConfigLoader creates a loader with the built-in service schema.
func NewServiceConfigLoader() *ServiceConfigLoader {
	return &ServiceConfigLoader{
		ctx:      cuecontext.New(),
		registry: NewSchemaRegistry(),
		validate: validator.New(),
	}
}

// LoadServiceConfig reads and validates the CUE document at path,
// overlaying it on DefaultServiceConfig so that unset fields keep
// their default value.
func (l *ServiceConfigLoader) LoadServiceConfig(path string) (*ServiceConfig, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read service config %s: %w", path, err)
	}
	return l.ParseServiceConfig(string(content), path)
}

// ParseServiceConfig parses CUE content directly, used by tests and
// by callers supplying an inline configuration.
func (l *ServiceConfigLoader) ParseServiceConfig(content, filename string) (*ServiceConfig, error) {
	val := l.ctx.CompileString(content, cue.Filename(filename))
	if err := val.Err(); err != nil {
		return nil, l.wrapCUEError(err)
	}

	cfg := DefaultServiceConfig()
	if err := val.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode service config: %w", err)
	}

	if err := l.registry.ValidateServiceConfig(cfg); err != nil {
		return nil, fmt.Errorf("service config failed schema validation: %w", err)
	}

	if err := l.validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("service config failed field validation: %w", err)
	}

	return &cfg, nil
}

func (l *ServiceConfigLoader) wrapCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return fmt.Errorf("failed to compile service config: %w", err)
	}
	first := errs[0]
	pos := errors.Positions(first)
	if len(pos) > 0 {
		return fmt.Errorf("%s:%d:%d: %s", pos[0].Filename(), pos[0].Line(), pos[0].Column(), errors.Details(first, nil))
	}
	return fmt.Errorf("failed to compile service config: %s", errors.Details(first, nil))
}

// LoadServiceConfig is a package-level convenience wrapping a
// freshly-constructed ServiceConfigLoader, for callers that don't
// need to reuse the CUE context across calls (the common case: one
// load at startup).
func LoadServiceConfig(path string) (*ServiceConfig, error) {
	return NewServiceConfigLoader().LoadServiceConfig(path)
}
