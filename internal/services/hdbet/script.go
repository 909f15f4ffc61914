package hdbet

import (
	"fmt"
	"strings"
	"text/template"
)

// ScriptParams fills the extraction script template. Paths must be absolute;
// LogPath may be empty to disable the script's own log file.
type ScriptParams struct {
	InputVolume        string
	OutputVolume       string
	OutputSegmentation string
	LogPath            string
	TimeoutSeconds     int
}

var scriptTemplate = template.Must(template.New("hdbet").Funcs(template.FuncMap{
	"py": pyQuote,
}).Parse(`import sys, os, importlib, slicer, logging, time
from slicer.util import saveNode
logging.getLogger().setLevel(logging.INFO)
in_vol   = {{py .InputVolume}}
out_vol  = {{py .OutputVolume}}
out_seg  = {{py .OutputSegmentation}}
log_path = {{py .LogPath}}
timeout_s = int({{.TimeoutSeconds}})

def log(msg):
    print(msg)
    try:
        if log_path:
            with open(log_path, 'a', encoding='utf-8') as f:
                f.write(msg + '\n')
    except Exception:
        pass

def seg_count(segNode):
    try:
        return segNode.GetSegmentation().GetNumberOfSegments()
    except Exception:
        return 0

try:
    log("[HDBET] loading volume: " + in_vol)
    n = slicer.util.loadVolume(in_vol)
    if not n:
        raise RuntimeError("Failed to load input volume")

    log("[HDBET] importing HDBrainExtractionTool")
    HDBET_mod = importlib.import_module('HDBrainExtractionTool')
    logic_cls = getattr(HDBET_mod, 'HDBrainExtractionToolLogic', None)
    if logic_cls is None:
        raise RuntimeError("HDBrainExtractionToolLogic not found (install SlicerHD-BET extension)")

    skull = slicer.mrmlScene.AddNewNodeByClass('vtkMRMLScalarVolumeNode', '_tmp_BET')
    seg   = slicer.mrmlScene.AddNewNodeByClass('vtkMRMLSegmentationNode', '_tmp_SEG')

    log("[HDBET] running...")
    logic = logic_cls()
    if hasattr(logic, 'process'):
        logic.process(n, skull, seg)
    else:
        logic.run(n, skull, seg)

    t0 = time.time()
    last_print = -1
    while seg_count(seg) < 1 and (time.time() - t0) < timeout_s:
        slicer.app.processEvents()
        time.sleep(1.0)
        elapsed = int(time.time() - t0)
        if elapsed // 30 != last_print // 30:
            log("[HDBET] waiting... %ds" % elapsed)
            last_print = elapsed

    if seg_count(seg) < 1:
        raise RuntimeError("HD-BET did not produce any segment before timeout")

    seg.SetReferenceImageGeometryParameterFromVolumeNode(n)

    log("[HDBET] saving skull-stripped: " + out_vol)
    ok1 = saveNode(skull, out_vol)
    log("[HDBET] saving segmentation:  " + out_seg)
    ok2 = saveNode(seg, out_seg)

    if not ok1 or not ok2:
        raise RuntimeError("Failed to save outputs")

    log("[HDBET] DONE")
    slicer.util.exit(0)
except Exception as e:
    log("[HDBET][ERROR] " + str(e))
    try:
        slicer.util.exit(1)
    except Exception:
        import sys as _sys; _sys.exit(1)
`))

// RenderScript produces the Python source executed inside the host.
func RenderScript(params ScriptParams) (string, error) {
	if params.InputVolume == "" || params.OutputVolume == "" || params.OutputSegmentation == "" {
		return "", fmt.Errorf("script parameters incomplete: input, output volume, and segmentation are required")
	}
	if params.TimeoutSeconds <= 0 {
		return "", fmt.Errorf("script wait timeout must be positive, got %d", params.TimeoutSeconds)
	}

	var b strings.Builder
	if err := scriptTemplate.Execute(&b, params); err != nil {
		return "", fmt.Errorf("render extraction script: %w", err)
	}
	return b.String(), nil
}

// pyQuote renders a Go string as a single-quoted Python string literal.
func pyQuote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
