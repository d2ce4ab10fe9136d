// Command chat is a broadcast datagram chat: stdin lines are broadcast to
// every peer address seen so far, and every inbound datagram is printed as
// "[host:port]: message". Grounded on original_source's
// example/datagramchat.c, demonstrating transport.Datagram's
// address-multiplexed mode plus the raw frame codec.
package main

import (
	"bufio"
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"sync"

	"github.com/gdavidbutler/gochan/blob"
	"github.com/gdavidbutler/gochan/channel"
	"github.com/gdavidbutler/gochan/frame"
	"github.com/gdavidbutler/gochan/transport"
)

func main() {
	listen := flag.String("listen", ":9090", "UDP address to listen on")
	flag.Parse()

	pc, err := net.ListenPacket("udp", *listen)
	if err != nil {
		log.Fatal(err)
	}
	t := transport.Datagram(pc, nil)

	in := channel.Create(nil, nil)
	channel.Open(in)
	go func() {
		defer channel.Close(in)
		if err := frame.RawIngress(in, t, 65536); err != nil {
			log.Println("ingress:", err)
		}
	}()

	out := channel.Create(nil, nil)
	channel.Open(out)
	go func() {
		defer channel.Close(out)
		if err := frame.RawEgress(out, t); err != nil {
			log.Println("egress:", err)
		}
	}()

	var mu sync.Mutex
	peers := map[string]struct{}{}

	go displayLoop(in, &mu, peers)
	inputLoop(os.Stdin, out, &mu, peers)

	channel.Shut(in)
	channel.Shut(out)
	channel.Close(in)
	channel.Close(out)
}

// displayLoop decodes the address-prefixed blobs transport.Datagram's
// multiplexed mode produces, tracks the peer set, and prints each message.
func displayLoop(in *channel.Channel, mu *sync.Mutex, peers map[string]struct{}) {
	for {
		b, st := channel.Get[blob.Blob](0, in)
		if st != channel.StatusGet {
			return
		}
		addr, payload, ok := splitAddressPrefix(b.Bytes)
		if !ok {
			continue
		}
		mu.Lock()
		if _, seen := peers[addr]; !seen {
			peers[addr] = struct{}{}
		}
		mu.Unlock()
		if len(payload) == 0 {
			fmt.Printf("[%s]: joined\n", addr)
			continue
		}
		fmt.Printf("[%s]: %s", addr, payload)
	}
}

func inputLoop(stdin *os.File, out *channel.Channel, mu *sync.Mutex, peers map[string]struct{}) {
	sc := bufio.NewScanner(stdin)
	for sc.Scan() {
		line := sc.Text() + "\n"
		mu.Lock()
		targets := make([]string, 0, len(peers))
		for p := range peers {
			targets = append(targets, p)
		}
		mu.Unlock()
		for _, addr := range targets {
			frame := addressPrefix(addr, []byte(line))
			if channel.Put(0, out, blob.Blob{Bytes: frame}) != channel.StatusPut {
				return
			}
		}
	}
}

func addressPrefix(addr string, payload []byte) []byte {
	ab := []byte(addr)
	out := make([]byte, 2+len(ab)+len(payload))
	binary.BigEndian.PutUint16(out, uint16(len(ab)))
	copy(out[2:], ab)
	copy(out[2+len(ab):], payload)
	return out
}

func splitAddressPrefix(buf []byte) (addr string, payload []byte, ok bool) {
	if len(buf) < 2 {
		return "", nil, false
	}
	n := int(binary.BigEndian.Uint16(buf))
	if len(buf) < 2+n {
		return "", nil, false
	}
	return string(buf[2 : 2+n]), buf[2+n:], true
}
