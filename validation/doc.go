// Package validation checks bound configuration properties before they are
// copied onto an engine configuration.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Field names in messages
// follow the mapstructure tag, so errors read like the property keys a user
// wrote in config.yml.
//
// # Struct Tag Validation
//
//	type Properties struct {
//	    ResourceLocation string `mapstructure:"resource_location" validate:"required"`
//	}
//	err := validation.Validate(props)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Custom(len(suffixes) > 0 || !deploy, "resource_suffixes", "must not be empty")
//	err := v.Validate()
package validation
