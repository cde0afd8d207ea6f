// Package services implements the driving port interfaces.
// Services hold the location filter logic: precedence resolution,
// the warehouse and address query routines, save-time validation and
// naming. They orchestrate calls to driven ports (stores, form hosts,
// remote lookups) and never import an adapter.
//
// Services are pure Go with no CGO.
package services
