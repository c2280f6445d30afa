package Transformer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleObj = `# 测试壳体
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
f 1/1 2/2 3/3 4/4
`

func TestParseObjWithUV(t *testing.T) {
	shell, err := ParseObj(strings.NewReader(sampleObj))
	require.NoError(t, err)
	assert.Len(t, shell.Mesh.Vertices, 4)
	require.Len(t, shell.Mesh.Faces, 1)
	assert.Equal(t, []int{0, 1, 2, 3}, shell.Mesh.Faces[0])
	require.Len(t, shell.UV, 1)
	assert.Equal(t, 1.0, shell.UV[0][2].X)
	assert.Equal(t, 1.0, shell.UV[0][2].Y)
}

func TestParseObjCornerVariants(t *testing.T) {
	obj := `v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1
`
	shell, err := ParseObj(strings.NewReader(obj))
	require.NoError(t, err)
	require.Len(t, shell.Mesh.Faces, 1)
	// 没有vt时UV补零
	assert.Equal(t, 0.0, shell.UV[0][0].X)
}

func TestParseObjNegativeIndex(t *testing.T) {
	obj := `v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`
	shell, err := ParseObj(strings.NewReader(obj))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, shell.Mesh.Faces[0])
}

func TestParseObjLines(t *testing.T) {
	obj := `v 0 0 0
v 1 0 0
v 2 0 0
l 1 2 3
`
	shell, err := ParseObj(strings.NewReader(obj))
	require.NoError(t, err)
	assert.Len(t, shell.Mesh.Edges, 2)
}

func TestParseObjErrors(t *testing.T) {
	_, err := ParseObj(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ParseObj(strings.NewReader("v 0 0\n"))
	assert.Error(t, err)

	_, err = ParseObj(strings.NewReader("v 0 0 0\nf 1 2 9\n"))
	assert.Error(t, err)
}

func TestWriteObjRoundTrip(t *testing.T) {
	shell, err := ParseObj(strings.NewReader(sampleObj))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteObj(&buf, shell.Mesh, shell.UV, "quad"))

	back, err := ParseObj(&buf)
	require.NoError(t, err)
	assert.Equal(t, shell.Mesh.Vertices, back.Mesh.Vertices)
	assert.Equal(t, shell.Mesh.Faces, back.Mesh.Faces)
	assert.Equal(t, shell.UV, back.UV)
}
