package bpmn

import "github.com/kbukum/dmnkit/validation"

// DefaultResourceSuffixes are the process definition globs searched by default.
var DefaultResourceSuffixes = []string{"**.bpmn20.xml", "**.bpmn"}

// Properties are the flowable.process.* settings.
type Properties struct {
	Enabled          bool     `mapstructure:"enabled"`
	Name             string   `mapstructure:"name"`
	DeploymentName   string   `mapstructure:"deployment_name"`
	ResourceLocation string   `mapstructure:"resource_location"`
	ResourceSuffixes []string `mapstructure:"resource_suffixes"`
	DeployResources  bool     `mapstructure:"deploy_resources"`
}

// DefaultProperties returns the flowable.process defaults.
func DefaultProperties() Properties {
	return Properties{
		Enabled:          true,
		Name:             "default",
		DeploymentName:   "SpringBootAutoDeployment",
		ResourceLocation: "processes/",
		ResourceSuffixes: append([]string(nil), DefaultResourceSuffixes...),
		DeployResources:  true,
	}
}

// Validate checks the properties auto-deployment depends on.
func (p Properties) Validate() error {
	v := validation.New()
	v.Required("flowable.process.name", p.Name)
	if p.DeployResources {
		v.Required("flowable.process.deployment_name", p.DeploymentName)
		v.Custom(len(p.ResourceSuffixes) > 0, "flowable.process.resource_suffixes", "must not be empty when deploy_resources is true")
		v.NoBlank("flowable.process.resource_suffixes", p.ResourceSuffixes)
	}
	return v.Validate()
}
