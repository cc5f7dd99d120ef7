package service

import (
	"reflect"
	"testing"
)

// ── GenerateColors 测试 ──

func TestGenerateColors_Deterministic(t *testing.T) {
	first := GenerateColors(6)
	second := GenerateColors(6)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("同样的课程数应得到同样的配色: %v vs %v", first, second)
	}
}

func TestGenerateColors_DistinctWithinPalette(t *testing.T) {
	n := len(coursePalette)
	colors := GenerateColors(n)

	if len(colors) != n {
		t.Fatalf("期望 %d 个颜色，实际 %d", n, len(colors))
	}
	seen := make(map[string]int)
	for i, c := range colors {
		if prev, ok := seen[c]; ok {
			t.Errorf("颜色 %s 在索引 %d 和 %d 重复", c, prev, i)
		}
		seen[c] = i
	}
}

func TestGenerateColors_Zero(t *testing.T) {
	colors := GenerateColors(0)
	if len(colors) != 0 {
		t.Errorf("0 门课程不应分配颜色: %v", colors)
	}
}

func TestGenerateColors_BeyondPalette(t *testing.T) {
	n := len(coursePalette) + 3
	colors := GenerateColors(n)

	if len(colors) != n {
		t.Fatalf("期望 %d 个颜色，实际 %d", n, len(colors))
	}
	// 超出调色板后允许重复，但每个索引都必须拿到合法颜色
	for i := 0; i < n; i++ {
		c, ok := colors[i]
		if !ok || c == "" {
			t.Errorf("索引 %d 未分配颜色", i)
		}
		if !containsString(coursePalette, c) {
			t.Errorf("索引 %d 分配了调色板之外的颜色 %s", i, c)
		}
	}
}

// ── Contrast 测试 ──

func TestContrast_LightBackground(t *testing.T) {
	// yellow 亮度远超阈值
	if got := Contrast("rgb(250, 204, 21)"); got != "black" {
		t.Errorf("浅色背景期望 black，实际 %s", got)
	}
}

func TestContrast_DarkBackground(t *testing.T) {
	// indigo 亮度低于阈值
	if got := Contrast("rgb(99, 102, 241)"); got != "white" {
		t.Errorf("深色背景期望 white，实际 %s", got)
	}
}

func TestContrast_MalformedInput(t *testing.T) {
	inputs := []string{
		"",
		"#ff0000",
		"rgb(1,2)",
		"rgb(a, b, c)",
		"rgba(1, 2, 3, 0.5)",
		"rgb(1, 2, 3) extra",
		"随便什么",
	}
	for _, in := range inputs {
		if got := Contrast(in); got != "black" {
			t.Errorf("非法输入 %q 期望回退 black，实际 %s", in, got)
		}
	}
}

func TestContrast_WholePaletteTotal(t *testing.T) {
	// 渲染路径依赖：调色板里每个颜色都必须得到黑或白
	for _, c := range coursePalette {
		got := Contrast(c)
		if got != "black" && got != "white" {
			t.Errorf("颜色 %s 得到非法前景色 %s", c, got)
		}
	}
}
