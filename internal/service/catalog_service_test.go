package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/magnusgiverin/timeplaner/config"
	"github.com/magnusgiverin/timeplaner/internal/model"
	"github.com/magnusgiverin/timeplaner/internal/repository"
	"github.com/magnusgiverin/timeplaner/internal/upstream"
)

// ── 测试辅助 ──

func setupTestCatalogService() (CatalogService, *repository.Repository, *mockCourseListSource) {
	repo := &repository.Repository{
		Program:       newMockProgramRepo(),
		Course:        newMockCourseRepo(),
		StudyPlan:     newMockStudyPlanRepo(),
		SavedCalendar: newMockSavedCalendarRepo(),
	}
	source := &mockCourseListSource{}
	svc := NewCatalogService(&config.CatalogConfig{}, repo, source, zap.NewNop())
	return svc, repo, source
}

func seedPrograms(t *testing.T, repo *repository.Repository) {
	t.Helper()
	err := repo.Program.UpsertAll(context.Background(), []model.Program{
		{ProgramID: "MTDT_no", StudyProgCode: "MTDT", Title: "Datateknologi", Years: 5},
		{ProgramID: "MTDT_en", StudyProgCode: "MTDT", Title: "Computer Science", Years: 5},
		{ProgramID: "BIT_no", StudyProgCode: "BIT", Title: "Informatikk", Years: 3},
	})
	if err != nil {
		t.Fatalf("seed 失败: %v", err)
	}
}

// ── 专业目录测试 ──

func TestListPrograms_FilterByLanguage(t *testing.T) {
	svc, repo, _ := setupTestCatalogService()
	seedPrograms(t, repo)

	all, err := svc.ListPrograms(context.Background(), "")
	if err != nil {
		t.Fatalf("ListPrograms 应成功: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("期望 3 个专业，实际 %d", len(all))
	}

	no, err := svc.ListPrograms(context.Background(), "no")
	if err != nil {
		t.Fatalf("ListPrograms 应成功: %v", err)
	}
	if len(no) != 2 {
		t.Errorf("期望 2 个挪威语专业，实际 %d", len(no))
	}
	for _, p := range no {
		if p.ProgramID != "MTDT_no" && p.ProgramID != "BIT_no" {
			t.Errorf("语言过滤漏放了 %s", p.ProgramID)
		}
	}
}

func TestGetProgram_ByIDAndByCode(t *testing.T) {
	svc, repo, _ := setupTestCatalogService()
	seedPrograms(t, repo)

	byID, err := svc.GetProgram(context.Background(), "MTDT_no")
	if err != nil {
		t.Fatalf("按 ID 查询应成功: %v", err)
	}
	if byID.Title != "Datateknologi" {
		t.Errorf("标题不符: %s", byID.Title)
	}

	// 裸专业代码也能命中
	byCode, err := svc.GetProgram(context.Background(), "BIT")
	if err != nil {
		t.Fatalf("按代码查询应成功: %v", err)
	}
	if byCode.StudyProgCode != "BIT" {
		t.Errorf("专业代码不符: %s", byCode.StudyProgCode)
	}
}

func TestGetProgram_NotFound(t *testing.T) {
	svc, _, _ := setupTestCatalogService()

	if _, err := svc.GetProgram(context.Background(), "FINNES_IKKE"); !errors.Is(err, ErrProgramNotFound) {
		t.Errorf("期望 ErrProgramNotFound，实际: %v", err)
	}
}

// ── 课程目录测试 ──

func TestSearchCourses_TooShort(t *testing.T) {
	svc, _, _ := setupTestCatalogService()

	if _, err := svc.SearchCourses(context.Background(), " T ", 10); !errors.Is(err, ErrCatalogShortWord) {
		t.Errorf("期望 ErrCatalogShortWord，实际: %v", err)
	}
}

func TestSearchCourses_PrefixMatch(t *testing.T) {
	svc, repo, _ := setupTestCatalogService()
	err := repo.Course.UpsertAll(context.Background(), []model.Course{
		{CourseID: "TDT4100", CourseName: "Objektorientert programmering"},
		{CourseID: "TDT4120", CourseName: "Algoritmer og datastrukturer"},
		{CourseID: "TMA4100", CourseName: "Matematikk 1"},
	})
	if err != nil {
		t.Fatalf("seed 失败: %v", err)
	}

	hits, err := svc.SearchCourses(context.Background(), "TDT", 10)
	if err != nil {
		t.Fatalf("SearchCourses 应成功: %v", err)
	}
	if len(hits) != 2 {
		t.Errorf("期望 2 个命中，实际 %d", len(hits))
	}
}

// ── 上游同步测试 ──

func TestSyncFromUpstream_RefreshesCatalog(t *testing.T) {
	svc, repo, source := setupTestCatalogService()
	source.entries = []upstream.CourseEntry{
		{Code: "TDT4100", Name: "Objektorientert programmering", EnglishName: "Object-Oriented Programming"},
		{Code: "", Name: "skal hoppes over"},
		{Code: "TMA4100", Name: "Matematikk 1"},
	}

	if err := svc.SyncFromUpstream(context.Background()); err != nil {
		t.Fatalf("SyncFromUpstream 应成功: %v", err)
	}

	courses, err := repo.Course.List(context.Background())
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if len(courses) != 2 {
		t.Errorf("期望写入 2 门课程（空代码跳过），实际 %d", len(courses))
	}
}

func TestSyncFromUpstream_FailureKeepsExistingData(t *testing.T) {
	svc, repo, source := setupTestCatalogService()
	if err := repo.Course.UpsertAll(context.Background(), []model.Course{
		{CourseID: "TDT4100", CourseName: "Objektorientert programmering"},
	}); err != nil {
		t.Fatalf("seed 失败: %v", err)
	}

	source.down = true
	if err := svc.SyncFromUpstream(context.Background()); err == nil {
		t.Error("上游失败时应返回错误")
	}

	courses, err := repo.Course.List(context.Background())
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if len(courses) != 1 {
		t.Errorf("同步失败不应清空已有目录，实际 %d 门", len(courses))
	}
}
