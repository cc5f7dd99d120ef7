package dto

// ── 上游学习计划接口数据结构 ──

// StudyPlanDocument 上游返回的完整学习计划文档
type StudyPlanDocument struct {
	PublishedYears []int             `json:"publisedYears"` // 上游拼写如此
	StudyPlan      EmbeddedStudyPlan `json:"studyplan"`
}

// EmbeddedStudyPlan 学习计划主体
type EmbeddedStudyPlan struct {
	Code         string        `json:"code"`
	Name         string        `json:"name"`
	StartTerm    string        `json:"startTerm"`
	StudyPeriods []StudyPeriod `json:"studyPeriods"`
}

// StudyPeriod 一个学期的课程结构
type StudyPeriod struct {
	PeriodNumber int            `json:"periodNumber"`
	Direction    StudyDirection `json:"direction"`
}

// StudyDirection 学习方向：课程组 + 嵌套分支点
type StudyDirection struct {
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	CourseGroups   []CourseGroup   `json:"courseGroups"`
	StudyWaypoints []StudyWaypoint `json:"studyWaypoints"`
}

// CourseGroup 课程组
type CourseGroup struct {
	Code    string       `json:"code"`
	Name    string       `json:"name"`
	Courses []PlanCourse `json:"courses"`
}

// StudyWaypoint 分支点：下挂多个可选方向
type StudyWaypoint struct {
	Code            string           `json:"code"`
	Name            string           `json:"name"`
	StudyDirections []StudyDirection `json:"studyDirections"`
}

// PlanCourse 学习计划中的单门课程
type PlanCourse struct {
	Code        string      `json:"code"`
	Credit      string      `json:"credit"`
	Name        string      `json:"name"`
	PlanElement string      `json:"planelement"`
	StudyChoice StudyChoice `json:"studyChoice"`
}

// StudyChoice 选修属性（必修/选修等）
type StudyChoice struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ── 扁平化后的课程结构 ──

// 节点类型标签
const (
	NodeKindCourse = "course"
	NodeKindGroup  = "group"
)

// SubjectNode 课程结构树节点（带类型标签的变体）
//
// Kind=course 时 Course 非空、Children 为空；Kind=group 时相反。
// 上游的方向/分支点/课程组三种嵌套统一折叠为这一种递归结构。
type SubjectNode struct {
	Kind     string         `json:"kind"`
	Code     string         `json:"code"`
	Name     string         `json:"name"`
	Course   *SubjectCourse `json:"course,omitempty"`
	Children []SubjectNode  `json:"children,omitempty"`
}

// SubjectCourse 扁平化后的课程叶子
type SubjectCourse struct {
	Code            string      `json:"code"`
	Name            string      `json:"name"`
	Credit          string      `json:"credit"`
	PlanElement     string      `json:"planelement"`
	StudyChoice     StudyChoice `json:"studyChoice"`
	CourseGroupName string      `json:"courseGroupName"`
}

// StudyPlanResponse 学习计划查询响应
type StudyPlanResponse struct {
	ProgramCode string        `json:"program_code"`
	Year        int           `json:"year"`
	Season      string        `json:"season"`
	Subjects    []SubjectNode `json:"subjects"`
}
