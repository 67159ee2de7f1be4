// Package engine implements the response generator of coursebot. A
// Generator sends a query to a provider and, when the model asks for
// tools, runs a bounded sequence of tool rounds: execute every requested
// call in order through a tools.Manager, hand the results back with
// ContinueAfterTools, and repeat while the model keeps asking, up to the
// configured ceiling.
//
// Provider failures never abort a query; they arrive as error responses
// and become the final answer. Tool failures do abort it and are returned
// to the caller.
package engine
