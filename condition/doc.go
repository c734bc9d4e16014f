// Package condition decides whether an auto-configuration applies.
//
// Conditions read flat, dot-separated property keys (flowable.dmn.enabled)
// and the set of beans already registered in the container. Every
// evaluation returns an Outcome carrying a human-readable message, which the
// bootstrap runner collects into its condition report.
//
// Activation flags follow the "enabled unless switched off" rule: a missing
// flowable.dmn.enabled key counts as true.
//
// The DMN auto-configuration additionally honours a CEL expression bound to
// flowable.dmn.condition:
//
//	flowable:
//	  dmn:
//	    condition: '"dataSource" in beans'
//
// OnBean, OnMissingBean, Any and Not are for auto-configurations registered
// on a custom runner:
//
//	cond := condition.All(condition.OnDMNEngine(), condition.OnMissingBean("dmnEngineConfiguration"))
//	outcome, err := cond.Evaluate(ctx)
package condition
