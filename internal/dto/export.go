package dto

// ExportRequest 课表导出请求（ICS / XLSX 共用）
//
// Plans 为已按选中课堂过滤的学期计划；导出器不再做二次筛选。
type ExportRequest struct {
	Plans       []SemesterPlan `json:"plans" binding:"required"`
	ProgramCode string         `json:"program_code" binding:"required"`
	Year        int            `json:"year" binding:"required"`
	Season      string         `json:"season" binding:"required"`         // Spring | Autumn
	Language    string         `json:"language,omitempty"`                // no | en，决定文件名中的季节词
}

// WebcalLinkResponse 外部日历深链响应
type WebcalLinkResponse struct {
	URL string `json:"url"`
}
