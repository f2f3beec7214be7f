//go:build !oxyrelease

package renderer

// defaultErrorChecks enables post-operation GL error checks outside release builds.
const defaultErrorChecks = true
