/*
Package topology turns a merged inventory plus a session's allocations into
the two artifacts the external collaborators consume.

The compose descriptor gives every host a session-qualified container, a
static address on the session's bridge network, full-mesh extra_hosts
entries, and fixed resource limits; only the designated entry point gets a
published port, mapped to its SSH port:

	host network ──(one published port)──▶ bastion ──▶ every other host

The session inventory reproduces the operator's view of that topology: the
bastion is addressed directly at 127.0.0.1 on the published port, and all
remaining hosts keep their names but gain a ProxyCommand that chains through
the bastion, so the configuration runner reaches the whole cluster while a
single port is actually exposed.

Both artifacts share one port allocation, performed here, so they can never
disagree about where the bastion is published.
*/
package topology
