// Package executor runs one request chain end to end: resolving
// back-references against recorded parameter feedback, building and
// sending the HTTP request, validating the response, and feeding observed
// values back into paramfeedback and endpoint coverage for the next
// request in the chain.
package executor
