package autoconfigure

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/kbukum/dmnkit/bpmn"
	"github.com/kbukum/dmnkit/condition"
	"github.com/kbukum/dmnkit/config"
	"github.com/kbukum/dmnkit/datasource"
	"github.com/kbukum/dmnkit/dmn"
	"github.com/kbukum/dmnkit/engine"
	"github.com/kbukum/dmnkit/observability"
	"github.com/kbukum/dmnkit/validation"
)

// Config is the application configuration the auto-configurations bind.
//
//	name: rules-service
//	flowable:
//	  database_schema_update: "true"
//	  dmn:
//	    resource_location: dmn/
//	    strict_mode: false
//	  process:
//	    enabled: false
//	datasource:
//	  driver: sqlite
//	  url: "file:rules.db"
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Flowable      FlowableConfig       `yaml:"flowable" mapstructure:"flowable"`
	DataSource    datasource.Config    `yaml:"datasource" mapstructure:"datasource"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// FlowableConfig is the flowable.* tree: shared engine properties plus one
// section per engine.
type FlowableConfig struct {
	engine.Properties `yaml:",inline" mapstructure:",squash"`

	DMN     dmn.Properties  `yaml:"dmn" mapstructure:"dmn"`
	Process bpmn.Properties `yaml:"process" mapstructure:"process"`
}

// DefaultConfig returns a config holding every default. Load files and
// environment on top of it so unset keys keep their defaults.
func DefaultConfig() *Config {
	return &Config{
		ServiceConfig: config.ServiceConfig{Name: "dmnkit"},
		Flowable: FlowableConfig{
			Properties: engine.DefaultProperties(),
			DMN:        dmn.DefaultProperties(),
			Process:    bpmn.DefaultProperties(),
		},
		DataSource:    datasource.DefaultConfig(),
		Observability: observability.DefaultConfig(),
	}
}

// AutoConfig returns c. Configs embedding Config get it promoted, which is
// how bootstrap finds the auto-configuration section.
func (c *Config) AutoConfig() *Config { return c }

// ApplyDefaults fills values that have a non-zero default and were left
// empty.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.DataSource.ApplyDefaults()
	if c.Flowable.DatabaseSchemaUpdate == "" {
		c.Flowable.DatabaseSchemaUpdate = engine.SchemaUpdateTrue
	}
}

// Validate validates every section. Disabled engines are not validated.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(c.Flowable.Properties); err != nil {
		return fmt.Errorf("flowable: %w", err)
	}
	if c.Flowable.DMN.Enabled {
		if err := c.Flowable.DMN.Validate(); err != nil {
			return err
		}
		if c.Flowable.DMN.Condition != "" {
			if _, err := condition.Expression(c.Flowable.DMN.Condition); err != nil {
				return fmt.Errorf("%s: %w", condition.DMNConditionKey, err)
			}
		}
	}
	if c.Flowable.Process.Enabled {
		if err := c.Flowable.Process.Validate(); err != nil {
			return err
		}
	}
	if err := c.DataSource.Validate(); err != nil {
		return fmt.Errorf("datasource: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	return nil
}

// Properties flattens the config into dot-separated keys named after the
// mapstructure tags, e.g. flowable.dmn.enabled.
func (c *Config) Properties() condition.Properties {
	props := condition.Properties{}
	flatten(props, "", reflect.ValueOf(c).Elem())
	return props
}

func flatten(props condition.Properties, prefix string, v reflect.Value) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, squash := tagName(f)
		if name == "-" {
			continue
		}
		fv := v.Field(i)

		if fv.Kind() == reflect.Struct {
			if squash {
				flatten(props, prefix, fv)
			} else {
				flatten(props, join(prefix, name), fv)
			}
			continue
		}
		props[join(prefix, name)] = fv.Interface()
	}
}

func tagName(f reflect.StructField) (string, bool) {
	tag := f.Tag.Get("mapstructure")
	if tag == "" {
		return strings.ToLower(f.Name), f.Anonymous
	}
	parts := strings.Split(tag, ",")
	squash := false
	for _, p := range parts[1:] {
		if p == "squash" {
			squash = true
		}
	}
	name := parts[0]
	if name == "" {
		name = strings.ToLower(f.Name)
	}
	return name, squash
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
