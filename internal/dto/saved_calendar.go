package dto

// SavedCalendarPayload 已保存课表的完整快照
//
// 与选课会话的派生值一起整体存储，读取后无需重新计算即可渲染。
type SavedCalendarPayload struct {
	State   SelectionState `json:"state"`
	Colors  map[int]string `json:"colors"`
	Indexes map[string]int `json:"indexes"`
}

// SaveCalendarRequest 保存课表请求（同 Key 整体覆盖）
type SaveCalendarRequest struct {
	Key     string               `json:"key" binding:"required,max=128"`
	Payload SavedCalendarPayload `json:"payload" binding:"required"`
}

// SavedCalendarResponse 已保存课表响应
type SavedCalendarResponse struct {
	Key         string               `json:"key"`
	ProgramCode string               `json:"program_code"`
	Year        int                  `json:"year"`
	Season      string               `json:"season"`
	Payload     SavedCalendarPayload `json:"payload"`
	UpdatedAt   string               `json:"updated_at"`
}

// SavedCalendarSummary 已保存课表列表项（不含快照本体）
type SavedCalendarSummary struct {
	Key         string `json:"key"`
	ProgramCode string `json:"program_code"`
	Year        int    `json:"year"`
	Season      string `json:"season"`
	UpdatedAt   string `json:"updated_at"`
}
