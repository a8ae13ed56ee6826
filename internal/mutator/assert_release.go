//go:build !wuppiefuzz_debug

package mutator

import "github.com/TNO-S3/wuppiefuzz/internal/input"

func assertValidDebug(*input.Chain, string) {}
