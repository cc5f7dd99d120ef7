package service

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/magnusgiverin/timeplaner/internal/dto"
)

func setupTestCalendarService() CalendarService {
	return NewCalendarService(zap.NewNop())
}

func projectionRequest() *dto.CalendarProjectionRequest {
	return &dto.CalendarProjectionRequest{
		Plans: []dto.SemesterPlan{
			{
				CourseID:   "TDT4100",
				CourseName: "Objektorientert programmering",
				Events: []dto.TimetableEvent{
					makeEvent("1-FOR", 1, 3, "2024-01-15T10:15:00+01:00", "2024-01-15T12:00:00+01:00"),
				},
			},
		},
		Indexes: map[string]int{"TDT4100": 0},
		Colors:  map[int]string{0: "rgb(248, 113, 113)"},
	}
}

func TestProjectCalendar_StylesKnownCourse(t *testing.T) {
	svc := setupTestCalendarService()

	resp, err := svc.ProjectCalendar(projectionRequest())
	if err != nil {
		t.Fatalf("ProjectCalendar 应成功: %v", err)
	}
	if len(resp.Entries) != 1 {
		t.Fatalf("期望 1 个条目，实际 %d", len(resp.Entries))
	}

	entry := resp.Entries[0]
	if entry.Title != "TDT4100 - Objektorientert programmering" {
		t.Errorf("标题不符: %s", entry.Title)
	}
	if entry.ID != 0 {
		t.Errorf("期望 ID=0，实际 %d", entry.ID)
	}
	if entry.Background != "rgb(248, 113, 113)" {
		t.Errorf("底色不符: %s", entry.Background)
	}
	if entry.TextColor != "white" && entry.TextColor != "black" {
		t.Errorf("前景色非法: %s", entry.TextColor)
	}
	if entry.AllDay {
		t.Error("教学活动不应为全天条目")
	}
}

func TestProjectCalendar_UnresolvableCourseRendersUnstyled(t *testing.T) {
	svc := setupTestCalendarService()

	req := projectionRequest()
	// 索引表中不存在该课程 → 条目保留但无样式
	req.Indexes = map[string]int{"TMA4100": 0}

	resp, err := svc.ProjectCalendar(req)
	if err != nil {
		t.Fatalf("ProjectCalendar 应成功: %v", err)
	}
	if len(resp.Entries) != 1 {
		t.Fatalf("无法着色的条目仍应渲染，实际 %d 个", len(resp.Entries))
	}
	if resp.Entries[0].Background != "" || resp.Entries[0].TextColor != "" {
		t.Errorf("期望无样式，实际 bg=%s fg=%s", resp.Entries[0].Background, resp.Entries[0].TextColor)
	}
}

func TestProjectCalendar_SkipsMalformedTimestamps(t *testing.T) {
	svc := setupTestCalendarService()

	req := projectionRequest()
	req.Plans[0].Events = append(req.Plans[0].Events,
		makeEvent("2-ØV", 3, 3, "not-a-timestamp", "2024-01-17T16:00:00+01:00"),
	)

	resp, err := svc.ProjectCalendar(req)
	if err != nil {
		t.Fatalf("ProjectCalendar 应成功: %v", err)
	}
	if len(resp.Entries) != 1 {
		t.Errorf("时间戳残缺的事件应跳过，期望 1 个条目，实际 %d", len(resp.Entries))
	}
}

func TestProjectCalendar_EmptyPlans(t *testing.T) {
	svc := setupTestCalendarService()

	_, err := svc.ProjectCalendar(&dto.CalendarProjectionRequest{})
	if !errors.Is(err, ErrCalendarEmptyPlans) {
		t.Errorf("期望 ErrCalendarEmptyPlans，实际: %v", err)
	}
}

func TestProjectCalendar_WindowShiftsWithViewerOffset(t *testing.T) {
	svc := setupTestCalendarService()

	req := projectionRequest()
	base, err := svc.ProjectCalendar(req)
	if err != nil {
		t.Fatalf("ProjectCalendar 应成功: %v", err)
	}

	// 浏览者比校区快 2 小时 → 窗口整体后移 2 小时
	shifted := projectionRequest()
	shifted.ViewerUTCOffsetMin = req.ViewerUTCOffsetMin + 120
	resp, err := svc.ProjectCalendar(shifted)
	if err != nil {
		t.Fatalf("ProjectCalendar 应成功: %v", err)
	}

	if resp.Window.StartHour-base.Window.StartHour != 2 {
		t.Errorf("窗口起始应平移 2 小时: base=%d shifted=%d", base.Window.StartHour, resp.Window.StartHour)
	}
	if resp.Window.EndHour-base.Window.EndHour != 2 {
		t.Errorf("窗口结束应平移 2 小时: base=%d shifted=%d", base.Window.EndHour, resp.Window.EndHour)
	}
}
