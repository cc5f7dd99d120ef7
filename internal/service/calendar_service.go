package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/magnusgiverin/timeplaner/internal/dto"
)

// ── 日历投影业务错误 ──

var ErrCalendarEmptyPlans = errors.New("课表列表不能为空")

// 校区时区：全部教学活动时间均以此墙钟为准
const campusTimezone = "Europe/Oslo"

// 工作周视图默认起止小时（校区墙钟）
const (
	defaultWindowStartHour = 8
	defaultWindowEndHour   = 20
)

// CalendarService 日历投影业务接口
type CalendarService interface {
	// ProjectCalendar 将课表活动投影为日历网格条目
	ProjectCalendar(req *dto.CalendarProjectionRequest) (*dto.CalendarProjectionResponse, error)
}

type calendarService struct {
	campus *time.Location
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(logger *zap.Logger) CalendarService {
	loc, err := time.LoadLocation(campusTimezone)
	if err != nil {
		// 缺失 tzdata 时退化为固定 CET 偏移
		logger.Warn("加载校区时区失败，使用固定偏移", zap.Error(err))
		loc = time.FixedZone("CET", 3600)
	}
	return &calendarService{campus: loc, logger: logger}
}

func (s *calendarService) ProjectCalendar(req *dto.CalendarProjectionRequest) (*dto.CalendarProjectionResponse, error) {
	if len(req.Plans) == 0 {
		return nil, ErrCalendarEmptyPlans
	}

	entries := make([]dto.CalendarEntry, 0)
	for _, plan := range req.Plans {
		title := fmt.Sprintf("%s - %s", plan.CourseID, plan.CourseName)
		for _, ev := range plan.Events {
			start, err := time.Parse(time.RFC3339, ev.DtStart)
			if err != nil {
				s.logger.Warn("活动开始时间解析失败，跳过",
					zap.String("course", plan.CourseID),
					zap.String("dtstart", ev.DtStart),
				)
				continue
			}
			end, err := time.Parse(time.RFC3339, ev.DtEnd)
			if err != nil {
				s.logger.Warn("活动结束时间解析失败，跳过",
					zap.String("course", plan.CourseID),
					zap.String("dtend", ev.DtEnd),
				)
				continue
			}

			entry := dto.CalendarEntry{
				ID:     req.Indexes[plan.CourseID],
				Title:  title,
				Start:  start.In(s.campus),
				End:    end.In(s.campus),
				AllDay: false,
			}
			s.applyStyle(&entry, req.Indexes, req.Colors)
			entries = append(entries, entry)
		}
	}

	return &dto.CalendarProjectionResponse{
		Entries: entries,
		Window:  s.projectWindow(req.ViewerUTCOffsetMin),
	}, nil
}

// applyStyle 从条目标题反推课程代码并着色
//
// 标题形如 "TDT4100 - Objektorientert programmering"，取 " - " 前缀为课程代码；
// 代码不在索引表内时保持无样式，条目仍然渲染。
func (s *calendarService) applyStyle(entry *dto.CalendarEntry, indexes map[string]int, colors map[int]string) {
	code, _, found := strings.Cut(entry.Title, " - ")
	if !found {
		return
	}
	idx, ok := indexes[code]
	if !ok {
		return
	}
	bg, ok := colors[idx]
	if !ok {
		return
	}
	entry.Background = bg
	entry.TextColor = Contrast(bg)
}

// projectWindow 按浏览者与校区的 UTC 偏移差平移视图窗口
func (s *calendarService) projectWindow(viewerOffsetMin int) dto.CalendarWindow {
	_, campusOffsetSec := time.Now().In(s.campus).Zone()
	shiftHours := (viewerOffsetMin - campusOffsetSec/60) / 60
	return dto.CalendarWindow{
		StartHour: defaultWindowStartHour + shiftHours,
		EndHour:   defaultWindowEndHour + shiftHours,
	}
}
