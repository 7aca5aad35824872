// Package runner invokes the external configuration runner, ansible, against
// a session inventory: a ping across all hosts or a playbook run. Unlike the
// container runtime, its output always streams to the operator's terminal.
package runner
