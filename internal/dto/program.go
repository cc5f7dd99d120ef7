package dto

// ProgramResponse 专业响应
type ProgramResponse struct {
	ProgramID     string `json:"programid"`
	StudyProgCode string `json:"studyprogcode"`
	Title         string `json:"title"`
	Years         int    `json:"years"`
}

// CourseResponse 课程目录响应
type CourseResponse struct {
	CourseID    string `json:"courseid"`
	CourseName  string `json:"coursename"`
	EnglishName string `json:"englishname,omitempty"`
}
