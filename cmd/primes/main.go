// Command primes prints every prime up to a goal using a chain of
// goroutines connected by channels (a bucket brigade), one goroutine per
// prime found so far: each filters out multiples of its own prime and
// passes the rest down the chain. Grounded on original_source's
// example/primes.c (itself based on https://swtch.com/libtask/primes.c).
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gdavidbutler/gochan/channel"
	"github.com/gdavidbutler/gochan/store"
)

func main() {
	goal := 100
	if len(os.Args) > 1 {
		if n, err := strconv.Atoi(os.Args[1]); err == nil && n >= 2 {
			goal = n
		}
	}
	fmt.Println("goal =", goal)

	head := newLink(goal)
	channel.Open(head)
	go primeFilter(head, goal)

	fmt.Println(2)
	for i := 3; i <= goal; i += 2 {
		if st := channel.Put(0, head, i); st != channel.StatusPut {
			break
		}
	}
	channel.Shut(head)
	channel.Close(head)
}

// newLink allocates a channel for one stage of the chain: a dynamic FIFO
// once the remaining range is large enough to make buffering worthwhile,
// matching the original's size-relative-to-chain-length heuristic, or the
// built-in unbuffered store otherwise.
func newLink(remaining int) *channel.Channel {
	if n := remaining / 500; n > 1 {
		return channel.Create(nil, store.Dynamic(n, store.WithMaxCapacity(n*2)))
	}
	return channel.Create(nil, nil)
}

func primeFilter(in *channel.Channel, goal int) {
	v, st := channel.Get[int](0, in)
	if st != channel.StatusGet {
		return
	}
	prime := v
	fmt.Println(prime)

	var out *channel.Channel
	if prime <= goal {
		out = newLink(goal - prime)
		channel.Open(out)
		go primeFilter(out, goal)

		for {
			v, st := channel.Get[int](0, in)
			if st != channel.StatusGet {
				break
			}
			if v%prime != 0 {
				if st := channel.Put(0, out, v); st != channel.StatusPut {
					break
				}
			}
		}
	}

	if out != nil {
		channel.Shut(out)
		channel.Close(out)
	}
	channel.Shut(in)
	// drain anything still queued for us so Close's own drain loop
	// doesn't spin forever against a putter we never read.
	for {
		if _, st := channel.Get[int](0, in); st != channel.StatusGet {
			break
		}
	}
	channel.Close(in)
}
