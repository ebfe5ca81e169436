package module

import (
	"testing"
	"time"

	fractal "github.com/marben/fractal_playground"
)

func TestEventsNeverDropsPosts(t *testing.T) {
	e := NewEvents(2)
	const n = 50
	for i := 0; i < n; i++ {
		e.Post(func() {})
	}

	timeout := time.After(5 * time.Second)
	for got := 0; got < n; got++ {
		select {
		case fn := <-e.C():
			fn()
		case <-timeout:
			t.Fatalf("received %d of %d events", got, n)
		}
	}
}

func TestEventsCoalesceMoves(t *testing.T) {
	e := NewEvents(4)
	var moves []fractal.Vector
	record := func(p fractal.Vector) { moves = append(moves, p) }

	for i := 0; i < 100; i++ {
		e.PostMove(fractal.V(float64(i), 0), record)
	}
	released := false
	e.Post(func() { released = true })

	for i := 0; i < 2; i++ {
		(<-e.C())()
	}
	select {
	case <-e.C():
		t.Fatal("more than one move queued")
	default:
	}
	if len(moves) != 1 || moves[0] != fractal.V(99, 0) {
		t.Errorf("moves = %v, want only the latest", moves)
	}
	if !released {
		t.Error("release not delivered")
	}

	e.PostMove(fractal.V(1, 1), record)
	(<-e.C())()
	if len(moves) != 2 || moves[1] != fractal.V(1, 1) {
		t.Errorf("moves after flush = %v", moves)
	}
}
