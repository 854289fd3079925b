// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Tests for the event ring buffer

package ring_test

import (
	"fmt"
	"sync"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/getoutreach/ilslog/pkg/logevent"
	"github.com/getoutreach/ilslog/pkg/ring"
)

func events(n int) []*logevent.Event {
	out := make([]*logevent.Event, n)
	for i := range out {
		out[i] = &logevent.Event{Message: fmt.Sprintf("E%d", i+1)}
	}
	return out
}

func messages(evs []*logevent.Event) []string {
	out := make([]string, 0, len(evs))
	for _, ev := range evs {
		out = append(out, ev.Message)
	}
	return out
}

func TestKeepsMostRecent(t *testing.T) {
	for total := 0; total <= 10; total++ {
		b := ring.New(3)
		for _, ev := range events(total) {
			b.Add(ev)
			assert.Assert(t, b.Len() <= b.Cap())
		}

		want := []string{}
		for i := total - 3; i < total; i++ {
			if i >= 0 {
				want = append(want, fmt.Sprintf("E%d", i+1))
			}
		}
		assert.DeepEqual(t, messages(b.Values()), want)
	}
}

func TestLastN(t *testing.T) {
	b := ring.New(4)
	for _, ev := range events(6) {
		b.Add(ev)
	}
	assert.DeepEqual(t, messages(b.LastN(2)), []string{"E5", "E6"})
	assert.DeepEqual(t, messages(b.LastN(10)), []string{"E3", "E4", "E5", "E6"})
	assert.Equal(t, len(b.LastN(0)), 0)
}

func TestValuesIsACopy(t *testing.T) {
	b := ring.New(2)
	for _, ev := range events(2) {
		b.Add(ev)
	}
	snap := b.Values()
	b.Add(&logevent.Event{Message: "E3"})

	assert.DeepEqual(t, messages(snap), []string{"E1", "E2"})
	assert.DeepEqual(t, messages(b.Values()), []string{"E2", "E3"})
}

func TestClear(t *testing.T) {
	b := ring.New(3)
	for _, ev := range events(5) {
		b.Add(ev)
	}
	b.Clear()
	assert.Equal(t, b.Len(), 0)
	assert.Equal(t, len(b.Values()), 0)

	b.Add(&logevent.Event{Message: "after"})
	assert.DeepEqual(t, messages(b.Values()), []string{"after"})
}

func TestCapacityClamped(t *testing.T) {
	b := ring.New(0)
	assert.Equal(t, b.Cap(), 1)
	for _, ev := range events(3) {
		b.Add(ev)
	}
	assert.DeepEqual(t, messages(b.Values()), []string{"E3"})
}

func TestAddNoBlock(t *testing.T) {
	b := ring.New(16)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, ev := range events(100) {
				b.Add(ev)
				_ = b.Values()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, b.Len(), 16)
}
