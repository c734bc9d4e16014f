// Package bpmn is the sibling workflow (process) engine. It hosts plugin
// configurators and keyed sub-engine configurations so that other engines,
// such as the decision engine, can be built inside its initialization.
package bpmn
