// Package dmn is the embedded decision (DMN) engine: its bound properties,
// its configuration and the engine built from that configuration.
//
// Decision evaluation itself is out of scope; the engine owns deployments
// of decision resources and the data source they are recorded against.
package dmn
