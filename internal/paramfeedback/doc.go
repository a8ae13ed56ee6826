// Package paramfeedback records per-chain parameter feedback: the values
// observed in each request's response (JSON body and cookies), addressed by
// ResponseAccess, so that later
// requests' back-references can be resolved against what actually happened
// rather than what was merely planned.
package paramfeedback
