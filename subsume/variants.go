package subsume

// The five named variants: one lane-batched
// implementation per width in {8,16,32,64}, plus a dedicated AVX2 64-bit
// variant with a different lane count than its AVX-512 64-bit sibling.
// All five must agree with Decide on every input; subsume_test.go
// checks this across randomized seeds.

func DecideLanes8(l []uint64, z uint64) Decision  { return DecideLanes(l, z, Lane8) }
func DecideLanes16(l []uint64, z uint64) Decision { return DecideLanes(l, z, Lane16) }
func DecideLanes32(l []uint64, z uint64) Decision { return DecideLanes(l, z, Lane32) }
func DecideLanes64(l []uint64, z uint64) Decision { return DecideLanes(l, z, Lane64) }
func DecideAVX2_64(l []uint64, z uint64) Decision { return DecideLanes(l, z, LaneAVX2_64) }
