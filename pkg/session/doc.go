/*
Package session implements session management and persistence orchestration.

It serializes every read-modify-write of a walkthrough session: a reference
counted in-process mutex per session id, optionally backed by a distributed
lock so replicas sharing a Redis store never interleave transitions.
*/
package session
