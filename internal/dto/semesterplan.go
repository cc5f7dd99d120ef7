package dto

// ── 上游 tp 课表接口数据结构 ──
//
// 字段名与上游 JSON 保持一致（含连字符键），只保留本服务消费的字段，
// 未列出的上游字段在反序列化时被忽略。

// SemesterPlan 一门课程在指定学期的全部教学活动
type SemesterPlan struct {
	Name       string           `json:"name"`
	CourseID   string           `json:"courseid"`
	CourseName string           `json:"coursename"`
	Semester   string           `json:"semester"`
	Events     []TimetableEvent `json:"events"`
}

// TimetableEvent 单条教学活动（某一周的一次上课）
type TimetableEvent struct {
	SemesterID         string   `json:"semesterid"`
	CourseID           string   `json:"courseid"`
	ActID              string   `json:"actid"`
	ID                 string   `json:"id"`
	EventID            string   `json:"eventid"`
	WeekNr             int      `json:"weeknr"`
	DtStart            string   `json:"dtstart"` // 如 "2024-01-15T10:15:00+01:00"
	DtEnd              string   `json:"dtend"`
	Weekday            int      `json:"weekday"` // 0=周日 … 6=周六
	TeachingMethod     string   `json:"teaching-method"`
	TeachingMethodName string   `json:"teaching-method-name"`
	TeachingTitle      string   `json:"teaching-title"`
	Summary            string   `json:"summary"`
	StudentGroups      []string `json:"studentgroups"` // 如 "MTDT_2_INDB"
	Room               []Room   `json:"room,omitempty"`
	Staffs             []Staff  `json:"staffs,omitempty"`
}

// Room 教室信息
type Room struct {
	ID           string `json:"id"`
	RoomID       string `json:"roomid"`
	RoomURL      string `json:"roomurl"`
	RoomName     string `json:"roomname"`
	BuildingName string `json:"buildingname"`
}

// Staff 授课教师信息
type Staff struct {
	ID        string `json:"id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	ShortName string `json:"shortname"`
	URL       string `json:"url"`
}

// ── 课表查询请求/响应 ──

// SemesterPlanRequest 批量课表查询请求
type SemesterPlanRequest struct {
	SubjectCodes []string `json:"subject_codes" binding:"required,min=1"`
	Semester     string   `json:"semester" binding:"required"` // 学期代码，如 "24v" / "24h"
}

// SemesterPlanResponse 批量课表查询响应
//
// Indexes / Colors / Rows 三者由同一次上游响应快照派生，保证一致性。
type SemesterPlanResponse struct {
	Plans   []SemesterPlan          `json:"plans"`
	Indexes map[string]int          `json:"indexes"` // courseid → 颜色索引
	Colors  map[int]string          `json:"colors"`  // 颜色索引 → rgb 颜色
	Rows    map[string][]EventGroup `json:"rows"`    // courseid → 分组行
}
