/*
Package session persists the session-id to metadata mapping that lets several
virtual clusters coexist on one machine.

The backing medium is a single JSON file so operators and external tooling
can inspect it directly:

	{
	  "S01": {"path": "/path/to/inventory", "entryIp": "172.20.0.2"},
	  "S02": {"path": "/path/to/other",     "entryIp": "172.21.0.2"}
	}

Identifiers are S-prefixed, zero-padded, and monotonically increasing for
the lifetime of the store; numbering restarts only after RemoveAll empties
everything. The file is rewritten whole on every mutation with no locking
across processes. That read-modify-write contract is intentional for a
single-operator tool; see WithLocker for callers that need more.
*/
package session
