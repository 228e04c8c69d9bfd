package consensus

// tally counts votes per key and remembers the order keys first appeared in,
// so ties come out in a stable order.
type tally struct {
	counts map[string]int
	order  []string
}

func newTally() *tally {
	return &tally{counts: map[string]int{}}
}

func (t *tally) add(key string) {
	if _, ok := t.counts[key]; !ok {
		t.order = append(t.order, key)
	}
	t.counts[key]++
}

func (t *tally) len() int {
	return len(t.order)
}

func (t *tally) each(fn func(key string, count int)) {
	for _, k := range t.order {
		fn(k, t.counts[k])
	}
}
