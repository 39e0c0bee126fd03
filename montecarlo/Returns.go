package montecarlo

// Returns accumulates first-visit returns over a single episode.
//
// Keys are dense ids of states or state-action pairs. A key is given a
// slot holding 0 the first time it is visited, and every reward
// received afterwards is added to every slot, so that each slot holds
// the return following the first visit of its key. Slots are kept in
// order of first visit.
type Returns struct {
	keys  []int
	sums  []float64
	slots map[int]int
}

func newReturns() *Returns {
	return &Returns{slots: make(map[int]int)}
}

// visit starts accumulating the return of key if key has not been
// visited before in the episode
func (r *Returns) visit(key int) {
	if _, ok := r.slots[key]; ok {
		return
	}
	r.slots[key] = len(r.keys)
	r.keys = append(r.keys, key)
	r.sums = append(r.sums, 0)
}

// add adds reward to the return of every visited key
func (r *Returns) add(reward float64) {
	for i := range r.sums {
		r.sums[i] += reward
	}
}

// Len returns the number of distinct keys visited
func (r *Returns) Len() int {
	return len(r.keys)
}

// At returns the i-th visited key and its first-visit return
func (r *Returns) At(i int) (key int, g float64) {
	return r.keys[i], r.sums[i]
}

// Get returns the first-visit return of key and whether key was
// visited
func (r *Returns) Get(key int) (float64, bool) {
	slot, ok := r.slots[key]
	if !ok {
		return 0, false
	}
	return r.sums[slot], true
}

// Keys returns the visited keys in order of first visit
func (r *Returns) Keys() []int {
	return append([]int(nil), r.keys...)
}

// ActionKey returns the key of a state-action pair in an environment
// with actions actions
func ActionKey(state, action, actions int) int {
	return state*actions + action
}

// SplitKey returns the state-action pair of a key created with
// ActionKey
func SplitKey(key, actions int) (state, action int) {
	return key / actions, key % actions
}

// states returns the distinct states of the state-action keys in r in
// order of first visit
func (r *Returns) states(actions int) []int {
	var states []int
	seen := make(map[int]bool)
	for _, key := range r.keys {
		state, _ := SplitKey(key, actions)
		if !seen[state] {
			seen[state] = true
			states = append(states, state)
		}
	}
	return states
}
