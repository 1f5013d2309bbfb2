// Package session owns the authentication state machine.
//
// A Store moves between Unauthenticated, Pending, Authenticated and Failed.
// Register and Login block on an external collaborator; every Pending
// transition is tagged with a request token and a result is applied only
// when its token is still the latest one issued. Readers receive value
// snapshots through Snapshot or Subscribe and never share the live state.
package session
