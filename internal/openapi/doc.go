// Package openapi is a normalised, fuzzer-oriented view of an OpenAPI 3.0/3.1
// document: operations, their parameters and request/response schemas, with
// parameter, request-body and response $refs resolved at load time and
// schema $refs resolved on demand through Components. It is not a general-purpose OpenAPI
// editing library — only the shapes the dependency graph, example synthesis,
// mutators and response validator need are kept.
package openapi
