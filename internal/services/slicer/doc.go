// Package slicer locates the 3D Slicer host application and runs it as a
// subprocess with fully captured output.
//
// Both pipeline stages go through this package: registration launches a CLI
// module inside the host (--launch BRAINSFit) and extraction runs a generated
// Python script headlessly (--no-main-window --no-splash --python-script).
// The Executor interface is the injection point for tests; the production
// implementation enforces the caller's context deadline and reports a timed
// out run distinctly from a tool-reported failure.
package slicer
