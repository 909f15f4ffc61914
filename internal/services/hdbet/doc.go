// Package hdbet drives HD-BET brain extraction headlessly inside the Slicer
// host. The core does not reimplement the extraction logic: it renders a
// self-contained Python script (load volume, run HDBrainExtractionTool, poll
// until a segment exists or the wait timeout elapses, save outputs, exit 0/1),
// launches the host with that script, and interprets the exit status plus
// final artifact presence. The script's internal behaviour is a fixed
// contract; the template parameters are the only coupling point.
package hdbet
