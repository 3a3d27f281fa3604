package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Usage Errors (R001-R019)
	// ============================================

	"R001": {
		Category: CategoryUsage,
		Message:  "Reactive state used before Init",
		Detail:   "A state cell was written while its instance was not initialized, or after the instance was torn down with Deinit.",
	},
	"R002": {
		Category: CategoryUsage,
		Message:  "No active reactive read",
		Detail:   "The implicit form of bind, unbind and reset operates on the cell read last by Get on the same goroutine. No such read is pending.",
	},
	"R003": {
		Category: CategoryUsage,
		Message:  "Active read type mismatch",
		Detail:   "The cell read last does not hold the value type of the bound source.",
	},
	"R004": {
		Category: CategoryUsage,
		Message:  "State cell not properly initialized",
		Detail:   "The target cell has no live instance record. Its instance was never initialized or has been torn down.",
	},
	"R005": {
		Category: CategoryUsage,
		Message:  "Invalid reactive instance",
		Detail:   "Reactive instances must be non-nil pointers to structs.",
	},
	"R006": {
		Category: CategoryUsage,
		Message:  "State cell shared between instances",
		Detail:   "A state cell already belongs to another live instance. Each instance must declare its own cells with NewState.",
	},
	"R007": {
		Category: CategoryUsage,
		Message:  "Reactive base not set up",
		Detail:   "The embedded Reactive base must be wired with Setup before the host calls its hooks.",
	},

	// ============================================
	// Invariant Errors (R020-R039)
	// ============================================

	"R020": {
		Category: CategoryInvariant,
		Message:  "Property patch failed",
		Detail:   "A property recorded during initialization is missing from the instance record while its pending binding is flushed.",
	},

	// ============================================
	// Contract Errors (R040-R059)
	// ============================================

	"R040": {
		Category: CategoryContract,
		Message:  "View update scheduled outside update",
		Detail:   "ViewUpdate may only be called while an Update callback is executing.",
	},

	// ============================================
	// Capability Errors (R060-R079)
	// ============================================

	"R060": {
		Category: CategoryCapability,
		Message:  "Change detector unavailable",
		Detail:   "The injector did not provide a change detector capable of marking the view dirty.",
	},
	"R061": {
		Category: CategoryCapability,
		Message:  "Injector missing",
		Detail:   "Init requires an injector to resolve the change detector.",
	},

	// ============================================
	// Config Errors (R080-R099)
	// ============================================

	"R080": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "The configuration file or flags contain an invalid value.",
	},
	"R081": {
		Category: CategoryConfig,
		Message:  "Configuration file unreadable",
		Detail:   "The configuration file exists but could not be parsed.",
	},
}

// GetAllCodes returns all registered error codes in ascending order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
