package dto

// EventIdentity 周重复课堂的稳定标识
//
// 同一教学活动（actid）在同一星期几、同一起止时刻的多条周记录视为同一课堂，
// 勾选/取消时整组联动。四个字段全部精确相等才视为同一标识。
type EventIdentity struct {
	ActID     string `json:"actid"`
	Weekday   int    `json:"weekday"`
	StartTime string `json:"start_time"` // "HH:MM"
	EndTime   string `json:"end_time"`   // "HH:MM"
}

// EventGroup 按 EventIdentity 聚合后的可编辑课堂行
type EventGroup struct {
	Identity    EventIdentity `json:"identity"`
	CourseID    string        `json:"courseid"`
	EventName   string        `json:"event_name"`  // teaching-method-name
	DayOfWeek   string        `json:"day_of_week"` // 本地化星期标签，解析失败时为 "-"
	StartTime   string        `json:"start_time"`  // "HH:MM"，解析失败时为 "-"
	EndTime     string        `json:"end_time"`    // "HH:MM"，解析失败时为 "-"
	Weeks       []int         `json:"weeks"`       // 去重后的周次
	WeekRanges  []string      `json:"week_ranges"` // 压缩区间，如 ["3-5","7"]
	GroupPrefix []string      `json:"groups"`      // studentgroups 前缀去重
}
