// Package gfapitest provides an in-memory gfapi.Driver for tests.
//
// The driver keeps one POSIX-like tree per volume name, shared by every
// cluster handle created for that volume, so data written through one
// connection is visible to the next. It records the name of every native call
// in order, the buffer sizes passed to vectored calls, and how many times each
// cluster handle was released. Faults can be injected per call, per volume at
// init time, and by overriding the error description table.
package gfapitest
