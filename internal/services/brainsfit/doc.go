// Package brainsfit wraps the BRAINSFit registration module as an external
// stage executor. It builds the fixed argument template (affine mode, moments
// initialization, iteration count, sampling percentage), imposes the
// configured wall-clock ceiling, and classifies the run as success, tool
// failure, or timeout. Registration math is entirely the tool's concern.
package brainsfit
