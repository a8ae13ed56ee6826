//go:build wuppiefuzz_debug

package mutator

import "github.com/TNO-S3/wuppiefuzz/internal/input"

func assertValidDebug(chain *input.Chain, mutatorName string) {
	chain.AssertValid(mutatorName)
}
