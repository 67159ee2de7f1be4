// Package tools defines the Tool Manager contract used by the engine's
// iteration controller and an in-process Registry implementing it.
//
// A Manager lists the tools the model may call and executes them by name.
// Managers return plain strings; an execution error is reported as a Go
// error and aborts the current query in the engine.
package tools
