package mutator

import "math/rand"

// interestingBytes/Words/Dwords/Qwords are the canonical boundary-value
// tables used by byte-level fuzzers (AFL-style): values likely to trip
// off-by-one, sign, and overflow bugs.
var interestingBytes = []int8{-128, -1, 0, 1, 16, 32, 64, 100, 127}
var interestingWords = []int16{-32768, -129, 128, 255, 256, 512, 1000, 1024, 4096, 32767}
var interestingDwords = []int32{-2147483648, -100663046, -32769, 32768, 65535, 65536, 100663045, 2147483647}
var interestingQwords = []int64{-9223372036854775808, -1, 0, 1, 1 << 31, 1<<63 - 1}

func bitFlip(rng *rand.Rand, b []byte) {
	if len(b) == 0 {
		return
	}
	i := rng.Intn(len(b))
	bit := rng.Intn(8)
	b[i] ^= 1 << bit
}

func byteAdd(rng *rand.Rand, b []byte) {
	if len(b) == 0 {
		return
	}
	b[rng.Intn(len(b))] += byte(1 + rng.Intn(35))
}

func byteSub(rng *rand.Rand, b []byte) {
	if len(b) == 0 {
		return
	}
	b[rng.Intn(len(b))] -= byte(1 + rng.Intn(35))
}

func byteFlip(rng *rand.Rand, b []byte) {
	if len(b) == 0 {
		return
	}
	i := rng.Intn(len(b))
	b[i] = ^b[i]
}

func byteInc(rng *rand.Rand, b []byte) {
	if len(b) == 0 {
		return
	}
	b[rng.Intn(len(b))]++
}

func byteNegate(rng *rand.Rand, b []byte) {
	if len(b) == 0 {
		return
	}
	i := rng.Intn(len(b))
	b[i] = byte(-int8(b[i]))
}

func interestingByte(rng *rand.Rand, b []byte) {
	if len(b) == 0 {
		return
	}
	b[rng.Intn(len(b))] = byte(interestingBytes[rng.Intn(len(interestingBytes))])
}

func interestingWord(rng *rand.Rand, b []byte) {
	if len(b) < 2 {
		return
	}
	i := rng.Intn(len(b) - 1)
	v := uint16(interestingWords[rng.Intn(len(interestingWords))])
	b[i], b[i+1] = byte(v), byte(v>>8)
}

func interestingDword(rng *rand.Rand, b []byte) {
	if len(b) < 4 {
		return
	}
	i := rng.Intn(len(b) - 3)
	v := uint32(interestingDwords[rng.Intn(len(interestingDwords))])
	for k := 0; k < 4; k++ {
		b[i+k] = byte(v >> (8 * k))
	}
}

func interestingQword(rng *rand.Rand, b []byte) {
	if len(b) < 8 {
		return
	}
	i := rng.Intn(len(b) - 7)
	v := uint64(interestingQwords[rng.Intn(len(interestingQwords))])
	for k := 0; k < 8; k++ {
		b[i+k] = byte(v >> (8 * k))
	}
}

func bytesCopy(rng *rand.Rand, b []byte) []byte {
	if len(b) < 2 {
		return b
	}
	srcStart := rng.Intn(len(b))
	length := 1 + rng.Intn(len(b)-srcStart)
	dstStart := rng.Intn(len(b) - length + 1)
	out := append([]byte(nil), b...)
	copy(out[dstStart:dstStart+length], b[srcStart:srcStart+length])
	return out
}

func bytesDelete(rng *rand.Rand, b []byte) []byte {
	if len(b) <= 1 {
		return b
	}
	start := rng.Intn(len(b))
	length := 1 + rng.Intn(len(b)-start)
	return append(append([]byte(nil), b[:start]...), b[start+length:]...)
}

func bytesExpand(rng *rand.Rand, b []byte) []byte {
	n := 1 + rng.Intn(8)
	extra := make([]byte, n)
	rng.Read(extra)
	at := rng.Intn(len(b) + 1)
	out := append([]byte(nil), b[:at]...)
	out = append(out, extra...)
	out = append(out, b[at:]...)
	return out
}

func bytesInsert(rng *rand.Rand, b []byte) []byte {
	if len(b) == 0 {
		return bytesExpand(rng, b)
	}
	at := rng.Intn(len(b) + 1)
	value := b[rng.Intn(len(b))]
	out := append([]byte(nil), b[:at]...)
	out = append(out, value)
	out = append(out, b[at:]...)
	return out
}

func bytesSet(rng *rand.Rand, b []byte) {
	if len(b) == 0 {
		return
	}
	v := byte(rng.Intn(256))
	start := rng.Intn(len(b))
	length := 1 + rng.Intn(len(b)-start)
	for i := start; i < start+length; i++ {
		b[i] = v
	}
}

func bytesRandSet(rng *rand.Rand, b []byte) {
	if len(b) == 0 {
		return
	}
	start := rng.Intn(len(b))
	length := 1 + rng.Intn(len(b)-start)
	for i := start; i < start+length; i++ {
		b[i] = byte(rng.Intn(256))
	}
}

func bytesSwap(rng *rand.Rand, b []byte) {
	if len(b) < 2 {
		return
	}
	i := rng.Intn(len(b))
	j := rng.Intn(len(b))
	b[i], b[j] = b[j], b[i]
}

// stringInterestingSet is the canonical SQL-injection probe set names for
// the "string interesting" mutator.
var stringInterestingSet = []string{
	`'`, `"`, `' OR 1=1`, `" OR 1=1`, `'--`, `"--`,
}

func stringInteresting(rng *rand.Rand) string {
	return stringInterestingSet[rng.Intn(len(stringInterestingSet))]
}
