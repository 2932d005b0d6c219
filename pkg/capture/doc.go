// Package capture provides in-process screen capturers.
//
// Static synthesizes frames and is meant for demos and tests. Inbox receives
// frames pushed by a remote client (a browser sharing its screen over HTTP)
// and hands them to the sequencer when it asks for one.
package capture
