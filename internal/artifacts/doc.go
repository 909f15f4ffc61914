// Package artifacts derives pipeline state from the output filesystem.
//
// Every expected output path is computed deterministically from a case's
// stable name and the output root; nothing is stored. An artifact counts as
// present only when it exists with non-zero size, and any stat error is
// absorbed as "absent": a missing or unreadable path is indistinguishable
// from one not yet produced. This is what makes batch runs resumable after a
// crash: state is always recomputed, never trusted from a previous run.
package artifacts
