// Package metadata persists encrypted copies of the private and overview
// documents in the client's sqlite cache, so file lists stay available
// while the remote side is unreachable.
package metadata
