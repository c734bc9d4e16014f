package dmn

import (
	"github.com/kbukum/dmnkit/validation"
)

// DefaultDeploymentName names auto-deployments unless configured otherwise.
const DefaultDeploymentName = "SpringBootAutoDeployment"

// DefaultResourceSuffixes are the decision file globs searched by default.
var DefaultResourceSuffixes = []string{"**.dmn", "**.dmn.xml", "**.dmn11", "**.dmn11.xml"}

// Properties are the flowable.dmn.* settings.
type Properties struct {
	Enabled          bool     `mapstructure:"enabled"`
	DeploymentName   string   `mapstructure:"deployment_name"`
	ResourceLocation string   `mapstructure:"resource_location"`
	ResourceSuffixes []string `mapstructure:"resource_suffixes"`
	DeployResources  bool     `mapstructure:"deploy_resources"`
	HistoryEnabled   bool     `mapstructure:"history_enabled"`
	EnableSafeXML    bool     `mapstructure:"enable_safe_xml"`
	StrictMode       bool     `mapstructure:"strict_mode"`
	// Condition is an optional CEL expression over props and beans gating
	// the DMN auto-configuration.
	Condition string `mapstructure:"condition"`
}

// DefaultProperties returns the flowable.dmn defaults.
func DefaultProperties() Properties {
	return Properties{
		Enabled:          true,
		DeploymentName:   DefaultDeploymentName,
		ResourceLocation: "dmn/",
		ResourceSuffixes: append([]string(nil), DefaultResourceSuffixes...),
		DeployResources:  true,
		HistoryEnabled:   false,
		EnableSafeXML:    true,
		StrictMode:       true,
	}
}

// Validate checks properties that auto-deployment depends on. Disabled
// deployment needs no location or suffixes.
func (p Properties) Validate() error {
	v := validation.New()
	if p.DeployResources {
		v.Required("flowable.dmn.deployment_name", p.DeploymentName)
		v.Custom(len(p.ResourceSuffixes) > 0, "flowable.dmn.resource_suffixes", "must not be empty when deploy_resources is true")
		v.NoBlank("flowable.dmn.resource_suffixes", p.ResourceSuffixes)
	}
	return v.Validate()
}
