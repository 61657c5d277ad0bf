// Package render turns projection styles into output a renderer can apply.
//
// It provides three surfaces:
//
//   - CSS: Property and InlineStyle convert camelCase style maps into CSS
//     declarations in a stable order.
//   - Patches: a Differ remembers the styles last sent for every element
//     and emits protocol patches for what changed.
//   - HTML: RenderHTML writes a static snapshot of an element tree with
//     inline styles, used for recordings and debugging.
//
// Output is deterministic: keys are always sorted, so two runs of the same
// animation produce byte-identical snapshots and patch streams.
package render
