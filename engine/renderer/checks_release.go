//go:build oxyrelease

package renderer

// defaultErrorChecks compiles post-operation GL error checks out of release builds.
// WithErrorChecks still turns them back on.
const defaultErrorChecks = false
