// Package blob holds the wire-level value type carried across a channel
// wired to a frame codec and transport: a length-delimited byte slice, the
// Go rendering of original_source's chanBlb_t (a length-prefixed octet
// array). Unlike the C struct, Go's slice header already carries its own
// length, so Blob needs no explicit length field.
package blob

// Blob is one message: the unit a frame codec reads off an ingress
// transport and hands to a channel.Channel's Put, or reads via Get and
// writes to an egress transport.
type Blob struct {
	Bytes []byte
}

// Len returns the number of bytes in the blob.
func (b Blob) Len() int { return len(b.Bytes) }

// Clone returns a Blob with its own copy of Bytes, for callers that need to
// retain a value past the lifetime of a reused read buffer.
func (b Blob) Clone() Blob {
	cp := make([]byte, len(b.Bytes))
	copy(cp, b.Bytes)
	return Blob{Bytes: cp}
}
