package dto

// ── 选课状态机 ──
//
// 状态为纯数据快照，变更只通过 Transition(state, event) 产生新状态；
// 会话层整体覆盖存储，不做增量修改。

// CourseSelection 已选课程条目
type CourseSelection struct {
	CourseID   string `json:"courseid"`
	CourseName string `json:"coursename"`
	ColorIndex int    `json:"color_index"` // 选课列表中的位置，决定颜色；列表重建时才重新分配
}

// SelectionState 一次规划会话的完整选课状态
//
// Selected 的每个标识都必须对应 Plans 中实际存在的事件（子集不变量），
// 由状态机的事件处理维护，读取方可以直接信任。
type SelectionState struct {
	ProgramCode string                     `json:"program_code"`
	Year        int                        `json:"year"`
	Season      string                     `json:"season"` // Spring | Autumn
	Courses     []CourseSelection          `json:"courses"`
	Plans       []SemesterPlan             `json:"plans"`    // 最近一次成功拉取的完整快照
	Selected    map[string][]EventIdentity `json:"selected"` // courseid → 保留的课堂标识
}

// 选课事件类型
const (
	SelectionEventProgramChanged = "program_changed"
	SelectionEventCourseAdded    = "course_added"
	SelectionEventCourseRemoved  = "course_removed"
	SelectionEventEventToggled   = "event_toggled"
	SelectionEventFetchCompleted = "fetch_completed"
)

// SelectionEvent 状态机输入事件（按 Type 取用对应字段）
type SelectionEvent struct {
	Type string `json:"type" binding:"required"`

	// program_changed
	ProgramCode string `json:"program_code,omitempty"`
	Year        int    `json:"year,omitempty"`
	Season      string `json:"season,omitempty"`

	// course_added / course_removed
	CourseID   string `json:"courseid,omitempty"`
	CourseName string `json:"coursename,omitempty"`

	// event_toggled
	Identity *EventIdentity `json:"identity,omitempty"`

	// fetch_completed
	Plans []SemesterPlan `json:"plans,omitempty"`
}

// SelectionSessionResponse 选课会话响应
type SelectionSessionResponse struct {
	SessionID string         `json:"session_id"`
	State     SelectionState `json:"state"`
	Colors    map[int]string `json:"colors"`  // 颜色索引 → rgb 颜色
	Indexes   map[string]int `json:"indexes"` // courseid → 颜色索引
}
