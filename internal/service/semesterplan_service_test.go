package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/magnusgiverin/timeplaner/internal/dto"
)

func setupTestSemesterPlanService() (SemesterPlanService, *mockTimetableSource) {
	source := newMockTimetableSource()
	// 无 Redis：缓存降级直连上游
	svc := NewSemesterPlanService(source, nil, zap.NewNop())
	return svc, source
}

func TestGetSemesterPlans_DerivesConsistentSnapshot(t *testing.T) {
	svc, source := setupTestSemesterPlanService()
	source.plans["TDT4100:24v"] = &dto.SemesterPlan{
		CourseID:   "TDT4100",
		CourseName: "Objektorientert programmering",
		Events: []dto.TimetableEvent{
			makeEvent("1-FOR", 1, 3, "2024-01-15T10:15:00+01:00", "2024-01-15T12:00:00+01:00"),
		},
	}
	source.plans["TMA4115:24v"] = &dto.SemesterPlan{
		CourseID:   "TMA4115",
		CourseName: "Matematikk 3",
	}

	resp, err := svc.GetSemesterPlans(context.Background(), &dto.SemesterPlanRequest{
		SubjectCodes: []string{"TDT4100", "TMA4115"},
		Semester:     "24v",
	}, "no")
	if err != nil {
		t.Fatalf("GetSemesterPlans 应成功: %v", err)
	}

	if len(resp.Plans) != 2 {
		t.Fatalf("期望 2 份课表，实际 %d", len(resp.Plans))
	}
	// 索引按请求顺序分配
	if resp.Indexes["TDT4100"] != 0 || resp.Indexes["TMA4115"] != 1 {
		t.Errorf("索引分配不符: %v", resp.Indexes)
	}
	// 每门课都有颜色和分组行
	if len(resp.Colors) != 2 {
		t.Errorf("期望 2 个颜色，实际 %d", len(resp.Colors))
	}
	if len(resp.Rows["TDT4100"]) != 1 {
		t.Errorf("TDT4100 期望 1 行分组，实际 %d", len(resp.Rows["TDT4100"]))
	}
	if rows, ok := resp.Rows["TMA4115"]; !ok || len(rows) != 0 {
		t.Errorf("无事件课程应有空分组行: %v", rows)
	}
}

func TestGetSemesterPlans_EmptyCodes(t *testing.T) {
	svc, _ := setupTestSemesterPlanService()

	_, err := svc.GetSemesterPlans(context.Background(), &dto.SemesterPlanRequest{Semester: "24v"}, "no")
	if !errors.Is(err, ErrSemesterPlanNoCodes) {
		t.Errorf("期望 ErrSemesterPlanNoCodes，实际: %v", err)
	}
}

func TestGetSemesterPlans_InvalidSemesterCode(t *testing.T) {
	svc, _ := setupTestSemesterPlanService()

	for _, sem := range []string{"2024v", "24x", "v24", "24", ""} {
		_, err := svc.GetSemesterPlans(context.Background(), &dto.SemesterPlanRequest{
			SubjectCodes: []string{"TDT4100"},
			Semester:     sem,
		}, "no")
		if !errors.Is(err, ErrSemesterPlanInvalidSemester) {
			t.Errorf("学期代码 %q 期望 ErrSemesterPlanInvalidSemester，实际: %v", sem, err)
		}
	}
}

func TestGetSemesterPlans_SingleFailureFailsWhole(t *testing.T) {
	svc, source := setupTestSemesterPlanService()
	source.plans["TDT4100:24h"] = &dto.SemesterPlan{CourseID: "TDT4100"}
	// TMA4115 未配置 → 上游报错

	_, err := svc.GetSemesterPlans(context.Background(), &dto.SemesterPlanRequest{
		SubjectCodes: []string{"TDT4100", "TMA4115"},
		Semester:     "24h",
	}, "no")
	if !errors.Is(err, ErrSemesterPlanUpstream) {
		t.Errorf("单门失败应整体失败，期望 ErrSemesterPlanUpstream，实际: %v", err)
	}
}

func TestGetSemesterPlans_BackfillsEmptyCourseID(t *testing.T) {
	svc, source := setupTestSemesterPlanService()
	source.plans["TDT4100:24h"] = &dto.SemesterPlan{CourseName: "Objektorientert programmering"}

	resp, err := svc.GetSemesterPlans(context.Background(), &dto.SemesterPlanRequest{
		SubjectCodes: []string{"TDT4100"},
		Semester:     "24h",
	}, "no")
	if err != nil {
		t.Fatalf("GetSemesterPlans 应成功: %v", err)
	}
	if resp.Plans[0].CourseID != "TDT4100" {
		t.Errorf("空 courseid 应回填请求代码，实际 %q", resp.Plans[0].CourseID)
	}
	if _, ok := resp.Indexes["TDT4100"]; !ok {
		t.Error("索引键应使用回填后的课程代码")
	}
}
