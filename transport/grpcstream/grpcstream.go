// Package grpcstream bridges a channel.Channel pair onto a gRPC
// bidi-streaming RPC, carrying blob.Blob payloads as
// wrapperspb.BytesValue messages -- the network-transport counterpart to
// transport.Stream/transport.Datagram, grounded on inprocgrpc's
// hand-written grpc.ServiceDesc/StreamDesc pattern
// (_examples/joeycumines-go-utilpkg/inprocgrpc/channel_test.go), adapted
// from its in-process bidi test service to a real network grpc.Server.
package grpcstream

import (
	"io"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/gdavidbutler/gochan/blob"
	"github.com/gdavidbutler/gochan/channel"
)

// ChatServer is the handler type registered against ChatServiceDesc.
type ChatServer interface {
	Chat(grpc.ServerStream) error
}

// ChatServiceDesc is a hand-written grpc.ServiceDesc for a single
// bidi-streaming RPC, in place of one generated by protoc-gen-go-grpc --
// the message type (wrapperspb.BytesValue) already ships compiled in
// google.golang.org/protobuf, so no .proto compilation step is needed to
// wire a real gRPC service here.
var ChatServiceDesc = grpc.ServiceDesc{
	ServiceName: "gochan.Chat",
	HandlerType: (*ChatServer)(nil),
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Chat",
			Handler:       chatStreamHandler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "gochan/chat.proto",
}

func chatStreamHandler(srv any, stream grpc.ServerStream) error {
	return srv.(ChatServer).Chat(stream)
}

// msgStream is the subset of grpc.ClientStream/grpc.ServerStream this
// package needs, letting Bridge run over either side of the RPC.
type msgStream interface {
	SendMsg(m any) error
	RecvMsg(m any) error
}

// Bridge pumps blob.Blob values between a gRPC stream and a channel pair:
// every message received off the wire is Put onto in, and every value Get
// from out is sent over the wire. It returns once either direction ends
// (stream EOF, a channel shutting, or a transport error); whichever
// direction ends first Shuts both in and out so the other direction's
// goroutine -- which may be parked on channel.Get/Put rather than on the
// stream -- unblocks instead of leaking, the same circular-wait hazard
// supervisor avoids by escalating to a forced Transport.Close. Bridge never
// Closes either channel -- callers own that half of channel lifecycle.
func Bridge(stream msgStream, in, out *channel.Channel) error {
	errc := make(chan error, 2)
	go func() {
		err := recvLoop(stream, in)
		channel.Shut(in)
		channel.Shut(out)
		errc <- err
	}()
	go func() {
		err := sendLoop(stream, out)
		channel.Shut(in)
		channel.Shut(out)
		errc <- err
	}()
	return <-errc
}

func recvLoop(stream msgStream, in *channel.Channel) error {
	for {
		var msg wrapperspb.BytesValue
		if err := stream.RecvMsg(&msg); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		b := blob.Blob{Bytes: msg.GetValue()}
		if st := channel.Put(0, in, b); st != channel.StatusPut {
			return nil
		}
	}
}

func sendLoop(stream msgStream, out *channel.Channel) error {
	for {
		b, st := channel.Get[blob.Blob](0, out)
		if st != channel.StatusGet {
			return nil
		}
		if err := stream.SendMsg(&wrapperspb.BytesValue{Value: b.Bytes}); err != nil {
			return err
		}
	}
}
