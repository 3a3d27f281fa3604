package sources

import (
	"testing"
	"time"
)

func TestChannelForwards(t *testing.T) {
	in := make(chan string, 4)
	out := make(chan string, 4)

	sub := Channel(in).Subscribe(func(v string) { out <- v })
	defer sub.Unsubscribe()

	in <- "a"
	in <- "b"
	if got := receive(t, out); got != "a" {
		t.Errorf("first = %q, want a", got)
	}
	if got := receive(t, out); got != "b" {
		t.Errorf("second = %q, want b", got)
	}
}

func TestChannelStopsOnUnsubscribe(t *testing.T) {
	in := make(chan int, 4)
	out := make(chan int, 4)

	sub := Channel(in).Subscribe(func(v int) { out <- v })
	in <- 1
	receive(t, out)

	sub.Unsubscribe()
	in <- 2
	expectNone(t, out, 50*time.Millisecond)
}

func TestChannelClosed(t *testing.T) {
	in := make(chan int)
	out := make(chan int, 1)

	sub := Channel(in).Subscribe(func(v int) { out <- v })
	defer sub.Unsubscribe()

	close(in)
	expectNone(t, out, 50*time.Millisecond)
}
