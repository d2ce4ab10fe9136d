// Command chatgrpc is a gRPC-streamed rendition of original_source's
// example/datagramchat.c: instead of broadcast UDP datagrams, every
// connected client holds one bidi-streaming RPC to the room server, and
// the server fans each inbound message out to every other connected
// stream. Demonstrates transport/grpcstream bridging a channel.Channel
// pair onto a real network gRPC connection, in the manner of
// inprocgrpc/channel.go's stream adapters but over grpc.Dial instead of
// an in-process channel.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/gdavidbutler/gochan/blob"
	"github.com/gdavidbutler/gochan/channel"
	"github.com/gdavidbutler/gochan/transport/grpcstream"
)

func main() {
	listen := flag.String("listen", "", "run as the chat room server, listening on this address")
	connect := flag.String("connect", "", "run as a client, connecting to this server address")
	flag.Parse()

	switch {
	case *listen != "":
		runServer(*listen)
	case *connect != "":
		runClient(*connect)
	default:
		log.Fatal("one of -listen or -connect is required")
	}
}

// chatServer fans every message received on one peer's stream out to
// every other connected peer's out channel.
type chatServer struct {
	mu    sync.Mutex
	peers map[*channel.Channel]struct{}
}

func runServer(addr string) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	srv := grpc.NewServer()
	cs := &chatServer{peers: map[*channel.Channel]struct{}{}}
	srv.RegisterService(&grpcstream.ChatServiceDesc, cs)
	log.Printf("chat room listening on %s", addr)
	if err := srv.Serve(ln); err != nil {
		log.Fatal(err)
	}
}

func (s *chatServer) Chat(stream grpc.ServerStream) error {
	in := channel.Create(nil, nil)
	out := channel.Create(nil, nil)

	s.mu.Lock()
	s.peers[out] = struct{}{}
	s.mu.Unlock()

	go s.fanout(in, out)

	err := grpcstream.Bridge(stream, in, out)

	s.mu.Lock()
	delete(s.peers, out)
	s.mu.Unlock()

	channel.Shut(in)
	channel.Shut(out)
	channel.Close(in)
	channel.Close(out)
	return err
}

// fanout drains one peer's in channel and relays each message onto every
// other peer's out channel; self is the sending peer's own out channel.
func (s *chatServer) fanout(in, self *channel.Channel) {
	for {
		b, st := channel.Get[blob.Blob](0, in)
		if st != channel.StatusGet {
			return
		}
		s.mu.Lock()
		targets := make([]*channel.Channel, 0, len(s.peers))
		for p := range s.peers {
			if p != self {
				targets = append(targets, p)
			}
		}
		s.mu.Unlock()
		for _, out := range targets {
			channel.Put(0, out, b)
		}
	}
}

func runClient(addr string) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	stream, err := conn.NewStream(context.Background(), &grpcstream.ChatServiceDesc.Streams[0], "/gochan.Chat/Chat")
	if err != nil {
		log.Fatal(err)
	}

	in := channel.Create(nil, nil)
	out := channel.Create(nil, nil)

	go func() {
		if err := grpcstream.Bridge(stream, in, out); err != nil {
			log.Println("bridge:", err)
		}
	}()

	go func() {
		for {
			b, st := channel.Get[blob.Blob](0, in)
			if st != channel.StatusGet {
				return
			}
			fmt.Print(string(b.Bytes))
		}
	}()

	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		line := sc.Text() + "\n"
		if channel.Put(0, out, blob.Blob{Bytes: []byte(line)}) != channel.StatusPut {
			break
		}
	}

	channel.Shut(in)
	channel.Shut(out)
	channel.Close(in)
	channel.Close(out)
}
