/*
Package manager is the session lifecycle controller. It composes the
inventory loader, allocator, topology synthesizer, and session store into
the four user-visible operations and delegates actual container and
configuration-runner execution to injected collaborators:

	start ──▶ create session ──▶ load inventory ──▶ synthesize ──▶ build ──▶ up
	run   ──▶ resolve session ──▶ ping / playbook
	stop  ──▶ down every session ──▶ remove all state
	sessions ──▶ list the store

Each operation runs to completion in one process invocation; nothing here
is long-lived.
*/
package manager
