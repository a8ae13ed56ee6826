// Package examples synthesises concrete request values for an operation's
// parameters and body from its schemas: example/default fields first, then
// discriminator/allOf expansion for composed schemas or a type-driven
// generator otherwise, combined into a bounded Cartesian product of requests.
package examples
