// Command proxy is a TCP proxy: every accepted client connection gets its
// own back-to-back pair of channel-connected stream transports to an
// upstream address, with each direction's bytes flowing through the raw
// frame codec. Grounded on original_source's example/sockproxy.c (itself
// based on https://swtch.com/libtask/tcpproxy.c): that file wires each
// connection with two chanBlb calls (one per direction, ingress/egress
// channels reversed); here each connection gets four supervisor.Spawn
// calls.
package main

import (
	"flag"
	"log"
	"net"

	"github.com/gdavidbutler/gochan/channel"
	"github.com/gdavidbutler/gochan/frame"
	"github.com/gdavidbutler/gochan/supervisor"
	"github.com/gdavidbutler/gochan/transport"
)

func main() {
	listen := flag.String("listen", ":8080", "address to accept client connections on")
	upstream := flag.String("upstream", "localhost:80", "address to proxy connections to")
	flag.Parse()

	ln, err := net.Listen("tcp", *listen)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("proxying %s -> %s", *listen, *upstream)

	for {
		client, err := ln.Accept()
		if err != nil {
			log.Println("accept:", err)
			continue
		}
		go serve(client, *upstream)
	}
}

func serve(client net.Conn, upstream string) {
	server, err := net.Dial("tcp", upstream)
	if err != nil {
		log.Println("dial upstream:", err)
		client.Close()
		return
	}

	clientT := transport.Stream(client)
	serverT := transport.Stream(server)

	// client -> server
	toServer := channel.Create(nil, nil)
	sup1 := supervisor.Spawn(supervisor.Config{
		Codec:      frame.Raw,
		Ingress:    toServer,
		Transport:  clientT,
		Egress:     nil,
		FinalClose: func() {},
	})
	sup2 := supervisor.Spawn(supervisor.Config{
		Codec:     frame.Raw,
		Egress:    toServer,
		Transport: serverT,
	})

	// server -> client
	toClient := channel.Create(nil, nil)
	sup3 := supervisor.Spawn(supervisor.Config{
		Codec:     frame.Raw,
		Ingress:   toClient,
		Transport: serverT,
	})
	sup4 := supervisor.Spawn(supervisor.Config{
		Codec:     frame.Raw,
		Egress:    toClient,
		Transport: clientT,
		FinalClose: func() {
			client.Close()
			server.Close()
		},
	})

	sup1.Wait()
	sup2.Wait()
	sup3.Wait()
	sup4.Wait()

	// Spawn's own Open/Close pairs only release the framer goroutines'
	// handles; release the handle Create itself holds.
	channel.Close(toServer)
	channel.Close(toClient)
}
