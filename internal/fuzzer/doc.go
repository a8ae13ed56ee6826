// Package fuzzer wires the spec model, dependency graph, mutation engine,
// executor and coverage clients into the fetch -> schedule -> mutate ->
// execute -> observe loop: a Scheduler picks a corpus entry by power
// schedule, a Mutator mutates it, the Runner executes it, and the combined
// endpoint/code Feedback decides whether the result survives into the corpus
// or is recorded as a crashing solution.
package fuzzer
