// Package reporting persists a fuzzing run's requests, responses and
// coverage samples to a SQLite database for later analysis, and writes the
// human-facing Markdown/Mermaid reports describing the generated corpus and
// its dependency graph.
package reporting
