// Package errors provides structured, coded errors for the motion engine.
//
// The projection engine itself almost never fails: a missing measurement
// just means there is nothing to animate this frame. The errors here cover
// the few contract violations that callers must hear about, plus the
// configuration, protocol and tooling failures around the engine.
//
// # Error Categories
//
//   - runtime: misuse of a node or tree (unmounted node, unknown id)
//   - structure: tree-shape violations (shared identity across trees)
//   - protocol: wire format errors
//   - config: motion.json problems
//   - archive: recording upload failures
//   - cli: command line usage
//
// # Usage
//
//	err := errors.New("E001").
//	    WithDetail("node 12 was never mounted").
//	    WithSuggestion("Call Node.Mount before measuring")
//
//	errors.Fprint(os.Stderr, err, false)
//	// Output:
//	// ERROR E001: Node is not mounted
//	//
//	//   node 12 was never mounted
//	//
//	//   Hint: Call Node.Mount before measuring
//	//
//	//   Learn more: https://motion.vango.dev/docs/errors/E001
package errors
