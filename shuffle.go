package groupcv

import "math/rand/v2"

// shuffler permutes index slices for one Split call.
type shuffler struct {
	seed *uint64
	rng  *rand.Rand // shared stream, ShuffleIndependent only
}

func newShuffler(mode ShuffleMode, seed *int64) *shuffler {
	sh := &shuffler{}
	if seed != nil {
		s := uint64(*seed)
		sh.seed = &s
	}
	if mode == ShuffleIndependent {
		sh.rng = newRand(sh.nextSeed())
	}
	return sh
}

// nextSeed returns the configured seed, or a fresh random one when unset.
func (sh *shuffler) nextSeed() uint64 {
	if sh.seed != nil {
		return *sh.seed
	}
	return rand.Uint64()
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// shuffle permutes idx in place.
func (sh *shuffler) shuffle(idx []int) {
	rng := sh.rng
	if rng == nil {
		rng = newRand(sh.nextSeed())
	}
	rng.Shuffle(len(idx), func(i, j int) {
		idx[i], idx[j] = idx[j], idx[i]
	})
}
