package artifacts

import (
	"os"
	"path/filepath"
)

// CaseArtifacts is the full expected output set for one case, derived from
// its stable name. The HD-BET log is informational and never required for
// stage completeness.
type CaseArtifacts struct {
	RegisteredVolume string
	Transform        string
	ExtractedVolume  string
	Segmentation     string
	ExtractionLog    string
}

// ForCase computes the artifact paths for the named case.
func ForCase(layout Layout, name string) CaseArtifacts {
	return CaseArtifacts{
		RegisteredVolume: filepath.Join(layout.RegisterDir, name+"_register.nii.gz"),
		Transform:        filepath.Join(layout.TransformDir, name+"_to_MNI.h5"),
		ExtractedVolume:  filepath.Join(layout.ExtractDir, name+"_register_BET.nii.gz"),
		Segmentation:     filepath.Join(layout.SegmentDir, name+"_register_SEG.seg.nrrd"),
		ExtractionLog:    filepath.Join(layout.LogDir, name+"_hdbet.log"),
	}
}

// State classifies each stage as already satisfied by existing outputs.
type State struct {
	RegistrationComplete bool
	ExtractionComplete   bool
}

// Complete reports whether both stages are satisfied.
func (s State) Complete() bool {
	return s.RegistrationComplete && s.ExtractionComplete
}

// Resolve inspects the filesystem and classifies both stages for the case.
func Resolve(set CaseArtifacts) State {
	return State{
		RegistrationComplete: NonzeroFile(set.RegisteredVolume) && NonzeroFile(set.Transform),
		ExtractionComplete:   NonzeroFile(set.ExtractedVolume) && NonzeroFile(set.Segmentation),
	}
}

// NonzeroFile reports whether path names a regular file with size > 0.
// Stat errors are absorbed: an unreadable path counts as absent.
func NonzeroFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() > 0
}
