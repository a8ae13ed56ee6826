package main

import (
	"github.com/TNO-S3/wuppiefuzz/internal/config"
	"github.com/TNO-S3/wuppiefuzz/internal/mutator"
	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
)

// defaultMutators bundles every chain mutator into the single list
// PowerMutationalStage.Mutators picks from.
func defaultMutators(doc *openapi.Document, strategy config.MethodMutationStrategy) []mutator.Mutator {
	return []mutator.Mutator{
		mutator.AddRequest(doc),
		mutator.BreakLink(),
		mutator.ByteLevel(),
		mutator.DifferentMethod(doc, mutator.MethodMutationStrategy(strategy)),
		mutator.DifferentPath(doc),
		mutator.DuplicateRequest(),
		mutator.EstablishLink(doc),
		mutator.RemoveRequest(),
		mutator.SwapRequests(),
	}
}
