package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/magnusgiverin/timeplaner/internal/dto"
	"github.com/magnusgiverin/timeplaner/internal/model"
	"github.com/magnusgiverin/timeplaner/internal/upstream"
)

// ── Mock ProgramRepository ──

type mockProgramRepo struct {
	programs map[string]*model.Program
}

func newMockProgramRepo() *mockProgramRepo {
	return &mockProgramRepo{programs: make(map[string]*model.Program)}
}

func (m *mockProgramRepo) GetByID(_ context.Context, id string) (*model.Program, error) {
	if p, ok := m.programs[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProgramRepo) GetByCode(_ context.Context, code string) (*model.Program, error) {
	for _, p := range m.programs {
		if p.StudyProgCode == code {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProgramRepo) List(_ context.Context) ([]model.Program, error) {
	var result []model.Program
	for _, p := range m.programs {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ProgramID < result[j].ProgramID })
	return result, nil
}

func (m *mockProgramRepo) ListByLanguage(_ context.Context, langSuffix string) ([]model.Program, error) {
	var result []model.Program
	for _, p := range m.programs {
		if strings.HasSuffix(p.ProgramID, "_"+langSuffix) {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ProgramID < result[j].ProgramID })
	return result, nil
}

func (m *mockProgramRepo) UpsertAll(_ context.Context, programs []model.Program) error {
	for i := range programs {
		p := programs[i]
		m.programs[p.ProgramID] = &p
	}
	return nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[string]*model.Course
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) List(_ context.Context) ([]model.Course, error) {
	var result []model.Course
	for _, c := range m.courses {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CourseID < result[j].CourseID })
	return result, nil
}

func (m *mockCourseRepo) Search(_ context.Context, query string, limit int) ([]model.Course, error) {
	if limit <= 0 {
		limit = 20
	}
	lower := strings.ToLower(query)
	var result []model.Course
	for _, c := range m.courses {
		if strings.HasPrefix(strings.ToLower(c.CourseID), lower) ||
			strings.HasPrefix(strings.ToLower(c.CourseName), lower) {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CourseID < result[j].CourseID })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockCourseRepo) UpsertAll(_ context.Context, courses []model.Course) error {
	for i := range courses {
		c := courses[i]
		m.courses[c.CourseID] = &c
	}
	return nil
}

// ── Mock StudyPlanRepository ──

type mockStudyPlanRepo struct {
	plans map[string]*model.StudyPlan
}

func newMockStudyPlanRepo() *mockStudyPlanRepo {
	return &mockStudyPlanRepo{plans: make(map[string]*model.StudyPlan)}
}

func (m *mockStudyPlanRepo) GetByID(_ context.Context, planID string) (*model.StudyPlan, error) {
	if p, ok := m.plans[planID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudyPlanRepo) Upsert(_ context.Context, plan *model.StudyPlan) error {
	m.plans[plan.PlanID] = plan
	return nil
}

// ── Mock SavedCalendarRepository ──

type mockSavedCalendarRepo struct {
	calendars map[string]*model.SavedCalendar
}

func newMockSavedCalendarRepo() *mockSavedCalendarRepo {
	return &mockSavedCalendarRepo{calendars: make(map[string]*model.SavedCalendar)}
}

func (m *mockSavedCalendarRepo) GetByKey(_ context.Context, key string) (*model.SavedCalendar, error) {
	if c, ok := m.calendars[key]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSavedCalendarRepo) List(_ context.Context) ([]model.SavedCalendar, error) {
	var result []model.SavedCalendar
	for _, c := range m.calendars {
		summary := *c
		summary.Payload = nil
		result = append(result, summary)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result, nil
}

func (m *mockSavedCalendarRepo) Upsert(_ context.Context, cal *model.SavedCalendar) error {
	m.calendars[cal.Key] = cal
	return nil
}

func (m *mockSavedCalendarRepo) Delete(_ context.Context, key string) error {
	delete(m.calendars, key)
	return nil
}

// ── Mock 上游数据源 ──

var errMockUpstreamDown = errors.New("mock 上游不可用")

type mockTimetableSource struct {
	plans map[string]*dto.SemesterPlan // key: "<course>:<semester>"
	down  bool
}

func newMockTimetableSource() *mockTimetableSource {
	return &mockTimetableSource{plans: make(map[string]*dto.SemesterPlan)}
}

func (m *mockTimetableSource) FetchSemesterPlan(_ context.Context, courseCode, semester string) (*dto.SemesterPlan, error) {
	if m.down {
		return nil, errMockUpstreamDown
	}
	if p, ok := m.plans[courseCode+":"+semester]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, errMockUpstreamDown
}

type mockStudyPlanSource struct {
	docs  map[string]*dto.StudyPlanDocument // key: "<program>:<studyYear>"
	calls int
	down  bool
}

func newMockStudyPlanSource() *mockStudyPlanSource {
	return &mockStudyPlanSource{docs: make(map[string]*dto.StudyPlanDocument)}
}

func (m *mockStudyPlanSource) FetchStudyPlan(_ context.Context, programCode string, year int) (*dto.StudyPlanDocument, error) {
	m.calls++
	if m.down {
		return nil, errMockUpstreamDown
	}
	key := programCode + ":" + strconv.Itoa(year)
	if d, ok := m.docs[key]; ok {
		return d, nil
	}
	return nil, errMockUpstreamDown
}

type mockCourseListSource struct {
	entries []upstream.CourseEntry
	down    bool
}

func (m *mockCourseListSource) FetchCourseList(_ context.Context) ([]upstream.CourseEntry, error) {
	if m.down {
		return nil, errMockUpstreamDown
	}
	return m.entries, nil
}
