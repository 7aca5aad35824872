// Package allocator derives per-session network resources: a unique /16
// subnet with deterministic host addresses, and host ports probed against
// actual loopback state so concurrently live sessions never collide.
//
// Both derivations are pure functions of the session number (and, for ports,
// of current local TCP state): sessions with distinct numbers get disjoint
// subnets, and within a session host IPs are assigned in stable enumeration
// order so regeneration yields the same layout.
package allocator
