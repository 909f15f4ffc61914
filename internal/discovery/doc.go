// Package discovery enumerates candidate input volumes under the configured
// input directory, either by a caller-supplied glob pattern or a fixed
// allow-list of volumetric image extensions.
package discovery
