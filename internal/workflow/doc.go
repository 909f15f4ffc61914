// Package workflow sequences the two-stage pipeline for a batch of input
// volumes: affine registration to the atlas, then brain extraction and
// segmentation inside the Slicer host.
//
// State is derived from the filesystem on every run. A stage whose outputs
// already exist non-empty is skipped unless overwrite is requested, which
// makes a killed batch safely resumable by re-invoking it. Cases are
// processed strictly in discovery order, one at a time; a failed case is
// recorded and the batch moves on to the next one.
package workflow
