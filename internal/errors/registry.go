package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (E001-E019)
	// ============================================

	"E001": {
		Category: CategoryRuntime,
		Message:  "Node is not mounted",
		Detail:   "The node has no host instance. Measurements and constraints can only be resolved against a mounted node.",
		DocURL:   "https://motion.vango.dev/docs/errors/E001",
	},
	"E004": {
		Category: CategoryRuntime,
		Message:  "Unknown node",
		Detail:   "The node id does not belong to this tree or the node was destroyed.",
		DocURL:   "https://motion.vango.dev/docs/errors/E004",
	},
	"E005": {
		Category: CategoryRuntime,
		Message:  "Unknown element",
		Detail:   "No element with this id exists in the document.",
		DocURL:   "https://motion.vango.dev/docs/errors/E005",
	},
	"E006": {
		Category: CategoryStructure,
		Message:  "Duplicate element id",
		Detail:   "Element ids must be unique within a document.",
		DocURL:   "https://motion.vango.dev/docs/errors/E006",
	},

	// ============================================
	// Structure Errors (E002-E003, E006)
	// ============================================

	"E002": {
		Category: CategoryStructure,
		Message:  "Shared identity registered from another tree",
		Detail:   "A node can only join the shared stacks of the tree it was created in.",
		DocURL:   "https://motion.vango.dev/docs/errors/E002",
	},
	"E003": {
		Category: CategoryStructure,
		Message:  "Parent belongs to another tree",
		Detail:   "Nodes can only be attached to parents created by the same tree.",
		DocURL:   "https://motion.vango.dev/docs/errors/E003",
	},

	// ============================================
	// Protocol Errors (E060-E079)
	// ============================================

	"E060": {
		Category: CategoryProtocol,
		Message:  "Frame payload too large",
		Detail:   "The encoded frame exceeds the maximum payload size.",
		DocURL:   "https://motion.vango.dev/docs/errors/E060",
	},
	"E061": {
		Category: CategoryProtocol,
		Message:  "Invalid frame",
		Detail:   "The frame header or type is not recognized.",
		DocURL:   "https://motion.vango.dev/docs/errors/E061",
	},
	"E062": {
		Category: CategoryProtocol,
		Message:  "Patch decode failed",
		Detail:   "The patch payload is truncated or malformed.",
		DocURL:   "https://motion.vango.dev/docs/errors/E062",
	},

	// ============================================
	// Config Errors (E120-E149)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The motion.json file could not be read or parsed.",
		DocURL:   "https://motion.vango.dev/docs/errors/E120",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range or malformed.",
		DocURL:   "https://motion.vango.dev/docs/errors/E122",
	},
	"E141": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No motion.json was found.",
		DocURL:   "https://motion.vango.dev/docs/errors/E141",
	},

	// ============================================
	// Archive Errors (E150-E159)
	// ============================================

	"E150": {
		Category: CategoryArchive,
		Message:  "Recording upload failed",
		Detail:   "The recording could not be stored in the archive bucket.",
		DocURL:   "https://motion.vango.dev/docs/errors/E150",
	},
	"E151": {
		Category: CategoryArchive,
		Message:  "Recording not found",
		Detail:   "No archived recording exists under the requested key.",
		DocURL:   "https://motion.vango.dev/docs/errors/E151",
	},

	// ============================================
	// CLI Errors (E160-E169)
	// ============================================

	"E160": {
		Category: CategoryCLI,
		Message:  "Invalid scenario",
		Detail:   "The scenario file could not be read or references unknown elements.",
		DocURL:   "https://motion.vango.dev/docs/errors/E160",
	},
}

// Register adds or replaces an error template.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}

// Lookup returns the template for a code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
