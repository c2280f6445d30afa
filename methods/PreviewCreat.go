package methods

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"math"
	"os"

	"github.com/chai2010/webp"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/GrainArc/PanelForge/Geometry"
	"github.com/GrainArc/PanelForge/config"
)

// 预览图参数
const (
	previewSize    = 800
	previewPadding = 40
)

func loadFont() (*truetype.Font, error) {
	fontBytes, err := os.ReadFile(config.FontPath)
	if err != nil {
		return nil, fmt.Errorf("读取字体文件失败: %v", err)
	}
	f, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func drawChineseText(img *image.RGBA, x, y int, text string, fontSize float64, fontColor color.Color, ttfFont *truetype.Font) error {
	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(ttfFont)
	c.SetFontSize(fontSize)
	c.SetClip(img.Bounds())
	c.SetDst(img)
	c.SetSrc(image.NewUniform(fontColor))
	c.SetHinting(font.HintingFull)

	pt := freetype.Pt(x, y)
	_, err := c.DrawString(text, pt)
	return err
}

// drawLine 画一条线段（DDA）
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.Color) {
	dx := x1 - x0
	dy := y1 - y0
	steps := int(math.Max(math.Abs(float64(dx)), math.Abs(float64(dy))))
	if steps == 0 {
		img.Set(x0, y0, col)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := x0 + int(math.Round(float64(dx)*t))
		y := y0 + int(math.Round(float64(dy)*t))
		img.Set(x, y, col)
	}
}

// CreatePreview 渲染面板网格的线框预览图
// 网格按XY平面正交投影，format支持png和webp
func CreatePreview(mesh *Geometry.IndexedMesh, name string, format string) ([]byte, error) {
	if len(mesh.Vertices) == 0 {
		return nil, fmt.Errorf("网格没有顶点")
	}

	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	for _, v := range mesh.Vertices {
		minX = math.Min(minX, v.X)
		maxX = math.Max(maxX, v.X)
		minY = math.Min(minY, v.Y)
		maxY = math.Max(maxY, v.Y)
	}
	spanX := maxX - minX
	spanY := maxY - minY
	span := math.Max(spanX, spanY)
	if span < 1e-12 {
		span = 1
	}
	scale := float64(previewSize-2*previewPadding) / span

	project := func(v Geometry.Vec3) (int, int) {
		x := previewPadding + int((v.X-minX)*scale)
		// 图像Y轴向下，翻转
		y := previewSize - previewPadding - int((v.Y-minY)*scale)
		return x, y
	}

	img := image.NewRGBA(image.Rect(0, 0, previewSize, previewSize))
	for y := 0; y < previewSize; y++ {
		for x := 0; x < previewSize; x++ {
			img.Set(x, y, color.White)
		}
	}

	edgeColor := color.RGBA{40, 40, 160, 255}
	for _, e := range mesh.AllEdges() {
		x0, y0 := project(mesh.Vertices[e[0]])
		x1, y1 := project(mesh.Vertices[e[1]])
		drawLine(img, x0, y0, x1, y1, edgeColor)
	}

	if name != "" {
		if ttfFont, err := loadFont(); err != nil {
			log.Printf("加载字体失败，预览图不绘制标题: %v", err)
		} else {
			label := fmt.Sprintf("%s  顶点:%d  面:%d", name, len(mesh.Vertices), len(mesh.Faces))
			if err := drawChineseText(img, previewPadding, 28, label, 16, color.Black, ttfFont); err != nil {
				log.Printf("绘制文字失败: %v", err)
			}
		}
	}

	var buf bytes.Buffer
	switch format {
	case "webp":
		if err := webp.Encode(&buf, img, &webp.Options{Lossless: false, Quality: 85}); err != nil {
			return nil, err
		}
	default:
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
