package mutator

import (
	"math"
	"math/rand"
	"unicode/utf8"

	"github.com/TNO-S3/wuppiefuzz/internal/input"
)

// inPlaceOps mutate a byte slice's contents without changing its length.
var inPlaceOps = []func(*rand.Rand, []byte){
	bitFlip, byteAdd, byteSub, byteFlip, byteInc, byteNegate,
	interestingByte, interestingWord, interestingDword, interestingQword,
	bytesSet, bytesRandSet, bytesSwap,
}

// resizingOps mutate a byte slice and may change its length.
var resizingOps = []func(*rand.Rand, []byte) []byte{
	bytesCopy, bytesDelete, bytesExpand, bytesInsert,
}

// ByteLevel picks one leaf value uniformly across the chain and applies one
// of byte-level mutators to it: Null is a no-op, Bool toggles, Number does a
// small random walk with low-probability jumps to boundary values, String
// mutates its UTF-8 bytes (or is replaced by a "string interesting" SQLi
// probe) and is accepted only if still distinct and valid UTF-8, Bytes is
// mutated directly.
func ByteLevel() Mutator {
	return MutateFunc(func(rng *rand.Rand, chain *input.Chain) (Result, error) {
		sites := collectLeafSites(chain)
		site, ok := chooseSlice(rng, sites)
		if !ok {
			return Skipped, nil
		}

		original := site.get()
		switch original.Kind {
		case input.KindNull:
			return Skipped, nil
		case input.KindBool:
			site.set(input.Bool(!original.Bool))
			return Mutated, nil
		case input.KindNumber:
			site.set(input.Number(mutateNumber(rng, original.Number)))
			return Mutated, nil
		case input.KindString:
			mutated := mutateString(rng, original.String)
			if mutated == original.String {
				return Skipped, nil
			}
			site.set(input.String(mutated))
			return Mutated, nil
		case input.KindBytes:
			site.set(input.Bytes(mutateBytes(rng, original.Bytes)))
			return Mutated, nil
		default:
			return Skipped, nil
		}
	})
}

func mutateNumber(rng *rand.Rand, n float64) float64 {
	if rng.Float64() < 0.05 {
		return -1
	}
	if rng.Float64() < 0.05 {
		return math.MaxInt64
	}
	step := float64(rng.Intn(21) - 10)
	return n + step
}

func mutateBytes(rng *rand.Rand, b []byte) []byte {
	if rng.Intn(2) == 0 && len(b) > 0 {
		out := append([]byte(nil), b...)
		inPlaceOps[rng.Intn(len(inPlaceOps))](rng, out)
		return out
	}
	return resizingOps[rng.Intn(len(resizingOps))](rng, b)
}

func mutateString(rng *rand.Rand, s string) string {
	if rng.Intn(10) == 0 {
		return stringInteresting(rng)
	}
	b := mutateBytes(rng, []byte(s))
	if !utf8.Valid(b) {
		return s
	}
	return string(b)
}
