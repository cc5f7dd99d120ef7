package service

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/magnusgiverin/timeplaner/internal/dto"
)

// ── 导出模块业务错误 ──

var (
	ErrExportEmptyPlans = errors.New("没有可导出的课表")
	ErrExportNoEvents   = errors.New("课表中没有可解析的教学活动")
)

// 仅形如 http(s)://… 且不含空白的地址才写入 Room 描述行
var roomURLPattern = regexp.MustCompile(`^https?://\S+$`)

// ICS 中使用校区本地墙钟的无时区时间戳
const icsTimeLayout = "20060102T150405"

// ExportService 课表导出业务接口
type ExportService interface {
	// ExportICS 生成 iCalendar 文件，返回文件名与内容；无有效活动时内容为空串
	ExportICS(req *dto.ExportRequest) (filename, content string)
	// ExportExcel 生成周课表 Excel 文件
	ExportExcel(req *dto.ExportRequest, language string) (filename string, data []byte, err error)
	// WebcalLink 生成外部日历订阅深链
	WebcalLink(host, key string) *dto.WebcalLinkResponse
}

type exportService struct {
	campus *time.Location
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(logger *zap.Logger) ExportService {
	loc, err := time.LoadLocation(campusTimezone)
	if err != nil {
		logger.Warn("加载校区时区失败，使用固定偏移", zap.Error(err))
		loc = time.FixedZone("CET", 3600)
	}
	return &exportService{campus: loc, logger: logger}
}

// ── iCalendar 导出 ──────────────────────────────────────────

func (s *exportService) ExportICS(req *dto.ExportRequest) (string, string) {
	filename := icsFilename(req)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetXWRCalName(fmt.Sprintf("%s %d %s", req.ProgramCode, req.Year, req.Season))

	valid := 0
	for _, plan := range req.Plans {
		title := fmt.Sprintf("%s - %s", plan.CourseID, plan.CourseName)
		for _, ev := range plan.Events {
			start, err := time.Parse(time.RFC3339, ev.DtStart)
			if err != nil {
				s.logger.Warn("导出时跳过开始时间非法的活动",
					zap.String("course", plan.CourseID),
					zap.String("dtstart", ev.DtStart),
				)
				continue
			}
			end, err := time.Parse(time.RFC3339, ev.DtEnd)
			if err != nil {
				s.logger.Warn("导出时跳过结束时间非法的活动",
					zap.String("course", plan.CourseID),
					zap.String("dtend", ev.DtEnd),
				)
				continue
			}

			uid := fmt.Sprintf("%s-%s-%d@timeplaner", plan.CourseID, ev.ActID, ev.WeekNr)
			event := cal.AddEvent(uid)
			// 校区墙钟的无时区时间：订阅端按自身时区渲染同一墙钟时刻
			event.SetProperty(ics.ComponentPropertyDtStart, start.In(s.campus).Format(icsTimeLayout))
			event.SetProperty(ics.ComponentPropertyDtEnd, end.In(s.campus).Format(icsTimeLayout))
			event.SetSummary(title)
			event.SetDescription(eventDescription(title, ev))
			event.SetStatus(ics.ObjectStatusConfirmed)
			event.SetProperty("X-MICROSOFT-CDO-BUSYSTATUS", "BUSY")
			if len(ev.StudentGroups) > 0 {
				event.SetProperty(ics.ComponentPropertyCategories, strings.Join(ev.StudentGroups, ","))
			}
			if len(ev.Room) > 0 {
				room := ev.Room[0]
				if room.RoomName != "" {
					event.SetLocation(room.RoomName)
				}
				if roomURLPattern.MatchString(room.RoomURL) {
					event.SetURL(room.RoomURL)
				}
			}
			valid++
		}
	}

	if valid == 0 {
		s.logger.Error("ICS 导出失败：没有可解析的教学活动",
			zap.String("program", req.ProgramCode),
			zap.Int("plans", len(req.Plans)),
		)
		return filename, ""
	}

	return filename, cal.Serialize()
}

// eventDescription 拼接活动描述，各段以空行分隔
func eventDescription(title string, ev dto.TimetableEvent) string {
	parts := []string{title}
	if ev.TeachingTitle != "" {
		parts = append(parts, "Summary: "+ev.TeachingTitle)
	}
	if len(ev.Staffs) > 0 {
		staff := make([]string, 0, len(ev.Staffs))
		for _, st := range ev.Staffs {
			staff = append(staff, fmt.Sprintf("%s (%s@ntnu.no)", st.ShortName, st.ID))
		}
		parts = append(parts, "Staff: "+strings.Join(staff, ", "))
	}
	if len(ev.Room) > 0 && roomURLPattern.MatchString(ev.Room[0].RoomURL) {
		parts = append(parts, "Room: "+ev.Room[0].RoomURL)
	}
	return strings.Join(parts, "\n\n")
}

// icsFilename 文件名形如 MTDT-2024-Høst.ics，季节词随语言本地化
func icsFilename(req *dto.ExportRequest) string {
	return fmt.Sprintf("%s-%d-%s.ics", req.ProgramCode, req.Year, localizedSeason(req.Season, req.Language))
}

func localizedSeason(season, language string) string {
	if language == "no" {
		switch season {
		case "Spring":
			return "Vår"
		case "Autumn":
			return "Høst"
		}
	}
	return season
}

// ── Excel 导出 ──────────────────────────────────────────────

var excelHeaders = []string{"Course", "Activity", "Day", "Start", "End", "Weeks", "Groups"}

func (s *exportService) ExportExcel(req *dto.ExportRequest, language string) (string, []byte, error) {
	if len(req.Plans) == 0 {
		return "", nil, ErrExportEmptyPlans
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("关闭 Excel 文件失败", zap.Error(err))
		}
	}()

	const sheet = "Timetable"
	f.SetSheetName("Sheet1", sheet)

	for col, h := range excelHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return "", nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return "", nil, err
		}
	}

	row := 2
	for _, plan := range req.Plans {
		for _, group := range GroupEvents(plan, language) {
			values := []interface{}{
				fmt.Sprintf("%s - %s", plan.CourseID, plan.CourseName),
				group.EventName,
				group.DayOfWeek,
				group.StartTime,
				group.EndTime,
				strings.Join(group.WeekRanges, ", "),
				strings.Join(group.GroupPrefix, ", "),
			}
			for col, v := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, row)
				if err != nil {
					return "", nil, err
				}
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return "", nil, err
				}
			}
			row++
		}
	}
	if row == 2 {
		return "", nil, ErrExportNoEvents
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", nil, err
	}
	filename := fmt.Sprintf("%s-%d-%s.xlsx", req.ProgramCode, req.Year, localizedSeason(req.Season, req.Language))
	return filename, buf.Bytes(), nil
}

// ── 外部日历深链 ────────────────────────────────────────────

// WebcalLink 生成 webcal:// 订阅地址，指向已保存课表的 ICS 端点
func (s *exportService) WebcalLink(host, key string) *dto.WebcalLinkResponse {
	return &dto.WebcalLinkResponse{
		URL: fmt.Sprintf("webcal://%s/api/v1/calendars/%s/ics", host, url.PathEscape(key)),
	}
}
