package trace

import "math/rand/v2"

// GenOptions configures Generate.
type GenOptions struct {
	Ops     int    // number of operations. Default: 1000
	IDs     int    // number of distinct block ids. Default: 100
	MaxSize int    // largest request size. Default: 4096
	Seed    uint64 // PRNG seed
}

func (o GenOptions) withDefaults() GenOptions {
	if o.Ops <= 0 {
		o.Ops = 1000
	}
	if o.IDs <= 0 {
		o.IDs = 100
	}
	if o.MaxSize <= 0 {
		o.MaxSize = 4096
	}
	return o
}

// Generate produces a well-formed random trace of at least opts.Ops
// operations. Frees and reallocs only name live ids and every id is freed by
// the end.
func Generate(opts GenOptions) *Trace {
	opts = opts.withDefaults()
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9E3779B97F4A7C15))

	t := &Trace{NumIDs: opts.IDs, Weight: 1}
	live := make([]int, 0, opts.IDs)
	free := make([]int, opts.IDs)
	for i := range free {
		free[i] = opts.IDs - 1 - i
	}

	size := func() int { return 1 + rng.IntN(opts.MaxSize) }

	for len(t.Ops)+len(live) < opts.Ops {
		switch r := rng.IntN(10); {
		case len(live) == 0 || (r < 5 && len(free) > 0):
			id := free[len(free)-1]
			free = free[:len(free)-1]
			live = append(live, id)
			t.Ops = append(t.Ops, Op{Kind: Alloc, ID: id, Size: size()})
		case r < 7:
			t.Ops = append(t.Ops, Op{Kind: Realloc, ID: live[rng.IntN(len(live))], Size: size()})
		default:
			i := rng.IntN(len(live))
			id := live[i]
			live[i] = live[len(live)-1]
			live = live[:len(live)-1]
			free = append(free, id)
			t.Ops = append(t.Ops, Op{Kind: Free, ID: id})
		}
	}
	for _, id := range live {
		t.Ops = append(t.Ops, Op{Kind: Free, ID: id})
	}

	t.SuggestedHeap = t.MaxLive()
	return t
}
