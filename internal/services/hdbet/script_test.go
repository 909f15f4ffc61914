package hdbet_test

import (
	"strings"
	"testing"

	"regbet/internal/services/hdbet"
)

func params() hdbet.ScriptParams {
	return hdbet.ScriptParams{
		InputVolume:        "/out/register/case1_register.nii.gz",
		OutputVolume:       "/out/bet/case1_register_BET.nii.gz",
		OutputSegmentation: "/out/segment/case1_register_SEG.seg.nrrd",
		LogPath:            "/out/log/case1_hdbet.log",
		TimeoutSeconds:     1800,
	}
}

func TestRenderScriptIncludesEveryParameter(t *testing.T) {
	script, err := hdbet.RenderScript(params())
	if err != nil {
		t.Fatalf("RenderScript: %v", err)
	}

	for _, fragment := range []string{
		"in_vol   = '/out/register/case1_register.nii.gz'",
		"out_vol  = '/out/bet/case1_register_BET.nii.gz'",
		"out_seg  = '/out/segment/case1_register_SEG.seg.nrrd'",
		"log_path = '/out/log/case1_hdbet.log'",
		"timeout_s = int(1800)",
		"HDBrainExtractionTool",
		"slicer.util.exit(0)",
		"slicer.util.exit(1)",
	} {
		if !strings.Contains(script, fragment) {
			t.Fatalf("script missing %q", fragment)
		}
	}
}

func TestRenderScriptEmptyLogPathAllowed(t *testing.T) {
	p := params()
	p.LogPath = ""
	script, err := hdbet.RenderScript(p)
	if err != nil {
		t.Fatalf("RenderScript: %v", err)
	}
	if !strings.Contains(script, "log_path = ''") {
		t.Fatal("expected empty log path literal")
	}
}

func TestRenderScriptEscapesPaths(t *testing.T) {
	p := params()
	p.InputVolume = `/in/patient's scan.nii.gz`
	script, err := hdbet.RenderScript(p)
	if err != nil {
		t.Fatalf("RenderScript: %v", err)
	}
	if !strings.Contains(script, `'/in/patient\'s scan.nii.gz'`) {
		t.Fatal("expected quote to be escaped")
	}
}

func TestRenderScriptRejectsIncompleteParameters(t *testing.T) {
	cases := map[string]func(*hdbet.ScriptParams){
		"missing input":        func(p *hdbet.ScriptParams) { p.InputVolume = "" },
		"missing output":       func(p *hdbet.ScriptParams) { p.OutputVolume = "" },
		"missing segmentation": func(p *hdbet.ScriptParams) { p.OutputSegmentation = "" },
		"zero timeout":         func(p *hdbet.ScriptParams) { p.TimeoutSeconds = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := params()
			mutate(&p)
			if _, err := hdbet.RenderScript(p); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
