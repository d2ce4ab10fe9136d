// Package store provides channel.Store backends: pluggable buffering
// strategies a channel.Channel can be allocated with, replacing or
// supplementing the built-in unbuffered rendezvous. Every constructor here
// returns a channel.Allocator, ready to hand to channel.Create.
package store
