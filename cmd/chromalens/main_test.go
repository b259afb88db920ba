package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writePNG(t *testing.T, c color.NRGBA) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 12, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 12; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	path := filepath.Join(t.TempDir(), "swatch.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestRun_JSON(t *testing.T) {
	path := writePNG(t, color.NRGBA{R: 255, A: 255})
	var stdout, stderr bytes.Buffer

	code := run([]string{path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var reports []fileReport
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &reports))
	require.Len(t, reports, 1)
	require.NotNil(t, reports[0].Analysis)
	assert.Equal(t, "#FF0000", reports[0].Analysis.DominantColors[0].Hex)
}

func TestRun_YAML(t *testing.T) {
	path := writePNG(t, color.NRGBA{B: 255, A: 255})
	var stdout, stderr bytes.Buffer

	code := run([]string{"-o", "yaml", "--grid", "2", path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var reports []map[string]any
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &reports))
	require.Len(t, reports, 1)
	analysis := reports[0]["analysis"].(map[string]any)
	regions := analysis["regions"].(map[string]any)
	assert.Equal(t, 2, regions["gridSize"])
}

func TestRun_TextAndMissingFile(t *testing.T) {
	path := writePNG(t, color.NRGBA{G: 255, A: 255})
	var stdout, stderr bytes.Buffer

	code := run([]string{"--output=text", path, filepath.Join(t.TempDir(), "missing.png")}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "#00FF00")
	assert.Contains(t, stdout.String(), "error:")
}

func TestRun_BadInvocation(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(nil, &stdout, &stderr))
	assert.Equal(t, 2, run([]string{"--k=-3", "x.png"}, &stdout, &stderr))
	assert.Equal(t, 2, run([]string{"-o", "xml", writePNG(t, color.NRGBA{A: 255})}, &stdout, &stderr))
}
