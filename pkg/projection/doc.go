// Package projection animates layout changes across a tree of rendered
// elements using the FLIP technique.
//
// Each rendered element that takes part in layout animation owns a Node.
// Nodes live in a Tree, an arena addressed by NodeID that also owns the
// tree-wide state: the update pass, the per-frame projection pass and the
// shared-element stacks.
//
// # Lifecycle
//
// A host framework drives nodes through one update cycle per commit:
//
//	node.WillUpdate()   // before the layout-affecting change: snapshot
//	...                 // host mutates its render tree
//	node.DidUpdate()    // after the change: schedules the tree update
//
// The tree then runs, once per microtask batch, a sequence of full sweeps:
// reset transforms (write), measure layouts (read), diff snapshot against
// layout and notify listeners (compute), clear snapshots. Nodes whose
// layout moved start an animation that plays the visual delta back to
// identity. Every frame, the preRender phase resolves each animating
// node's target box and projects its layout onto it, producing the
// transform returned by Node.ProjectionStyles.
//
// # Shared elements
//
// Nodes with the same Options.LayoutID share a NodeStack. The most recently
// promoted member is the lead and inherits the previous lead's snapshot so
// the animation continues across the swap.
//
// # Threading
//
// A Tree and its nodes are single-threaded. All calls must happen on the
// goroutine that drives the tree's frame.Scheduler.
package projection
