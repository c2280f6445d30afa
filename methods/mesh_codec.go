package methods

import (
	"encoding/json"
	"fmt"

	"github.com/GrainArc/PanelForge/Geometry"
)

// EncodeMesh 网格转JSON文本入库
func EncodeMesh(m *Geometry.IndexedMesh) (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("网格序列化失败: %v", err)
	}
	return string(data), nil
}

// DecodeMesh JSON文本还原网格
func DecodeMesh(data string) (*Geometry.IndexedMesh, error) {
	var m Geometry.IndexedMesh
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil, fmt.Errorf("网格反序列化失败: %v", err)
	}
	return &m, nil
}

// EncodeUVLayer 逐面逐角UV层转JSON文本
func EncodeUVLayer(uv [][]Geometry.Vec2) (string, error) {
	data, err := json.Marshal(uv)
	if err != nil {
		return "", fmt.Errorf("UV层序列化失败: %v", err)
	}
	return string(data), nil
}

// DecodeUVLayer JSON文本还原UV层
func DecodeUVLayer(data string) ([][]Geometry.Vec2, error) {
	var uv [][]Geometry.Vec2
	if err := json.Unmarshal([]byte(data), &uv); err != nil {
		return nil, fmt.Errorf("UV层反序列化失败: %v", err)
	}
	return uv, nil
}
