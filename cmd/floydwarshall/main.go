// Command floydwarshall computes all-pairs shortest paths over a random
// graph using a channel-parallel Floyd-Warshall: each of the algorithm's
// d phases hands ranges of rows to a worker pool over a channel, and a
// per-phase barrier (draining a reply channel) keeps workers from racing
// ahead into the next phase before the current one is final. Grounded on
// original_source's example/floydWarshall.c, with goroutines and channels
// standing in for its pthread worker pool; the C file's blocked
// fwProcess0/1/2 row/column/off-diagonal block updates are not reproduced.
package main

import (
	"flag"
	"fmt"
	"math/rand"

	"github.com/gdavidbutler/gochan/channel"
)

const inf = 1 << 29

type fw struct {
	d   int
	cst []int
}

func newFW(d int) *fw {
	f := &fw{d: d, cst: make([]int, d*d)}
	for i := range f.cst {
		f.cst[i] = inf
	}
	for i := 0; i < d; i++ {
		f.cst[i*d+i] = 0
	}
	return f
}

func (f *fw) at(i, j int) int     { return f.cst[i*f.d+j] }
func (f *fw) set(i, j, v int)     { f.cst[i*f.d+j] = v }

type block struct {
	i0, i1 int // row range [i0, i1)
	k      int
}

func main() {
	d := flag.Int("d", 64, "number of vertices")
	workers := flag.Int("workers", 4, "worker pool size")
	seed := flag.Int64("seed", 1, "random seed for edge weights")
	flag.Parse()

	f := newFW(*d)
	r := rand.New(rand.NewSource(*seed))
	for i := 0; i < *d; i++ {
		for j := 0; j < *d; j++ {
			if i != j && r.Intn(4) == 0 {
				f.set(i, j, 1+r.Intn(20))
			}
		}
	}

	work := channel.Create(nil, nil)
	reply := channel.Create(nil, nil)
	for w := 0; w < *workers; w++ {
		channel.Open(work)
		channel.Open(reply)
		go fwWorker(f, work, reply)
	}

	rowsPerWorker := (*d + *workers - 1) / *workers
	for k := 0; k < *d; k++ {
		sent := 0
		for i0 := 0; i0 < *d; i0 += rowsPerWorker {
			i1 := i0 + rowsPerWorker
			if i1 > *d {
				i1 = *d
			}
			if channel.Put(0, work, block{i0: i0, i1: i1, k: k}) != channel.StatusPut {
				break
			}
			sent++
		}
		for n := 0; n < sent; n++ {
			channel.Get[struct{}](0, reply)
		}
	}

	channel.Shut(work)
	channel.Close(work)
	channel.Shut(reply)
	channel.Close(reply)

	total := 0
	for i := 0; i < *d; i++ {
		for j := 0; j < *d; j++ {
			if f.at(i, j) < inf {
				total += f.at(i, j)
			}
		}
	}
	fmt.Printf("d=%d sum of finite shortest-path costs=%d\n", *d, total)
}

func fwWorker(f *fw, work, reply *channel.Channel) {
	defer channel.Close(work)
	defer channel.Close(reply)
	for {
		b, st := channel.Get[block](0, work)
		if st != channel.StatusGet {
			return
		}
		for i := b.i0; i < b.i1; i++ {
			ik := f.at(i, b.k)
			if ik >= inf {
				continue
			}
			for j := 0; j < f.d; j++ {
				kj := f.at(b.k, j)
				if kj >= inf {
					continue
				}
				if alt := ik + kj; alt < f.at(i, j) {
					f.set(i, j, alt)
				}
			}
		}
		if channel.Put(0, reply, struct{}{}) != channel.StatusPut {
			return
		}
	}
}
