// Package mutator implements the structural and byte-level mutator fleet
// from: each Mutator takes a chain and either mutates it in place or reports
// Skipped, never panicking in a release build. Every mutator preserves
// invariants I1/I2 via fixBrokenReferences, called after every successful
// mutation.
package mutator
