// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Every service is bound to one Session when constructed; there is no
// package-level state. Services are pure Go with no CGO dependencies.
package services
