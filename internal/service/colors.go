package service

import (
	"regexp"
	"strconv"
)

// ── 课程颜色分配 ──
//
// 历史实现依赖 DOM 计算样式取色，无法脱离浏览器测试；
// 此处固定调色板 + 纯函数推导，同样的输入永远得到同样的颜色。

// coursePalette 固定调色板（顺序即探测顺序）
var coursePalette = []string{
	"rgb(248, 113, 113)", // red
	"rgb(99, 102, 241)",  // indigo
	"rgb(14, 165, 233)",  // sky
	"rgb(45, 212, 191)",  // teal
	"rgb(192, 132, 252)", // purple
	"rgb(251, 146, 60)",  // orange
	"rgb(250, 204, 21)",  // yellow
	"rgb(132, 204, 22)",  // lime
	"rgb(236, 72, 153)",  // pink
	"rgb(244, 63, 94)",   // rose
}

// GenerateColors 为 n 门已选课程分配颜色
//
// 索引 i 从 i % len(palette) 起向后探测第一个未用颜色；
// 调色板耗尽后才允许重复，且重复尽量推迟。
func GenerateColors(n int) map[int]string {
	colors := make(map[int]string, n)
	used := make(map[string]bool, len(coursePalette))

	for i := 0; i < n; i++ {
		base := i % len(coursePalette)
		picked := coursePalette[base]

		if used[picked] {
			for j := 1; j <= len(coursePalette); j++ {
				candidate := coursePalette[(base+j)%len(coursePalette)]
				if !used[candidate] {
					picked = candidate
					break
				}
			}
			// 全部用过时保留 base 位置的重复色
		}

		colors[i] = picked
		used[picked] = true
	}

	return colors
}

var rgbPattern = regexp.MustCompile(`^rgb\((\d+),\s*(\d+),\s*(\d+)\)$`)

// Contrast 根据背景色亮度选择黑/白前景色
//
// 非法输入一律回退为 "black"，绝不 panic——调用方来自渲染路径。
func Contrast(color string) string {
	m := rgbPattern.FindStringSubmatch(color)
	if m == nil {
		return "black"
	}

	r, _ := strconv.Atoi(m[1])
	g, _ := strconv.Atoi(m[2])
	b, _ := strconv.Atoi(m[3])

	// 加权亮度（ITU-R BT.601）
	brightness := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)

	if brightness > 160 {
		return "black"
	}
	return "white"
}
