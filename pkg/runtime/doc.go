// Package runtime wraps the docker CLI, the external collaborator that
// actually builds images and runs the session's containers. Each session is
// one compose project named after its lowercased session ID so teardown can
// address it independently of any other live session.
package runtime
