package threadbound

import (
	"testing"
	"time"
)

type counter struct {
	n int
}

func TestObjectPerformRunsSequentially(t *testing.T) {
	obj := New(func() *counter { return &counter{} })

	done := make(chan struct{})
	const iterations = 100
	for i := 0; i < iterations; i++ {
		obj.Perform(func(c *counter) { c.n++ })
	}
	obj.Perform(func(c *counter) {
		if c.n != iterations {
			t.Errorf("n = %d, want %d", c.n, iterations)
		}
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for posted work to run")
	}
}

func TestObjectCloseRunsTeardown(t *testing.T) {
	obj := New(func() *counter { return &counter{} })

	torndown := make(chan struct{})
	obj.Close(func(c *counter) { close(torndown) })
	obj.Wait()

	select {
	case <-torndown:
	default:
		t.Fatal("teardown closure did not run before Wait returned")
	}
}

func TestObjectGetSyncAssumingSameThread(t *testing.T) {
	obj := New(func() *counter { return &counter{n: 7} })
	if got := obj.GetSyncAssumingSameThread(); got.n != 7 {
		t.Errorf("n = %d, want 7", got.n)
	}
}
