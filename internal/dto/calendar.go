package dto

import "time"

// CalendarEntry 日历网格可渲染条目
type CalendarEntry struct {
	ID         int       `json:"id"` // 课程的颜色索引
	Title      string    `json:"title"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	AllDay     bool      `json:"allDay"`
	Background string    `json:"background,omitempty"` // 课程底色；无法解析课程时为空（无样式渲染）
	TextColor  string    `json:"text_color,omitempty"`
}

// CalendarWindow 工作周视图的起止小时
//
// 以校区墙钟为基准，按浏览者与校区时区的 UTC 偏移差平移，
// 使课程在浏览者本地时间轴上保持对齐。
type CalendarWindow struct {
	StartHour int `json:"start_hour"`
	EndHour   int `json:"end_hour"`
}

// CalendarProjectionRequest 日历投影请求
type CalendarProjectionRequest struct {
	Plans              []SemesterPlan `json:"plans" binding:"required"`
	Indexes            map[string]int `json:"indexes" binding:"required"`
	Colors             map[int]string `json:"colors" binding:"required"`
	ViewerUTCOffsetMin int            `json:"viewer_utc_offset_min"` // 浏览者 UTC 偏移（分钟），如奥斯陆冬令时 +60
}

// CalendarProjectionResponse 日历投影响应
type CalendarProjectionResponse struct {
	Entries []CalendarEntry `json:"entries"`
	Window  CalendarWindow  `json:"window"`
}
