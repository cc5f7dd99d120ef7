package service

import (
	"testing"

	"github.com/magnusgiverin/timeplaner/internal/dto"
)

// ── 测试辅助 ──

func statePlanned(t *testing.T) dto.SelectionState {
	t.Helper()
	state := dto.SelectionState{Selected: map[string][]dto.EventIdentity{}}

	var err error
	state, err = Transition(state, dto.SelectionEvent{
		Type:        dto.SelectionEventProgramChanged,
		ProgramCode: "MTDT",
		Year:        2,
		Season:      "Autumn",
	})
	if err != nil {
		t.Fatalf("program_changed 失败: %v", err)
	}
	state, err = Transition(state, dto.SelectionEvent{
		Type:       dto.SelectionEventCourseAdded,
		CourseID:   "TDT4100",
		CourseName: "Objektorientert programmering",
	})
	if err != nil {
		t.Fatalf("course_added 失败: %v", err)
	}
	state, err = Transition(state, dto.SelectionEvent{
		Type:  dto.SelectionEventFetchCompleted,
		Plans: []dto.SemesterPlan{tdt4100Plan()},
	})
	if err != nil {
		t.Fatalf("fetch_completed 失败: %v", err)
	}
	return state
}

func tdt4100Plan() dto.SemesterPlan {
	return dto.SemesterPlan{
		CourseID:   "TDT4100",
		CourseName: "Objektorientert programmering",
		Events: []dto.TimetableEvent{
			makeEvent("1-FOR", 1, 3, "2024-01-15T10:15:00+01:00", "2024-01-15T12:00:00+01:00"),
			makeEvent("1-FOR", 1, 4, "2024-01-22T10:15:00+01:00", "2024-01-22T12:00:00+01:00"),
			makeEvent("2-ØV", 3, 3, "2024-01-17T14:15:00+01:00", "2024-01-17T16:00:00+01:00"),
		},
	}
}

// ── Transition 测试 ──

func TestTransition_ProgramChangeClearsEverything(t *testing.T) {
	state := statePlanned(t)

	next, err := Transition(state, dto.SelectionEvent{
		Type:        dto.SelectionEventProgramChanged,
		ProgramCode: "MTKJ",
		Year:        1,
		Season:      "Spring",
	})
	if err != nil {
		t.Fatalf("program_changed 失败: %v", err)
	}

	if next.ProgramCode != "MTKJ" || next.Year != 1 || next.Season != "Spring" {
		t.Errorf("新专业信息不符: %+v", next)
	}
	if len(next.Courses) != 0 || len(next.Plans) != 0 || len(next.Selected) != 0 {
		t.Errorf("切换专业后应清空选课: %+v", next)
	}
}

func TestTransition_FetchCompletedSelectsAllByDefault(t *testing.T) {
	state := statePlanned(t)

	selected := state.Selected["TDT4100"]
	if len(selected) != 2 {
		t.Fatalf("拉取后应默认全选 2 个课堂，实际 %d", len(selected))
	}
}

func TestTransition_CourseAddedIsIdempotent(t *testing.T) {
	state := statePlanned(t)

	next, err := Transition(state, dto.SelectionEvent{
		Type:     dto.SelectionEventCourseAdded,
		CourseID: "TDT4100",
	})
	if err != nil {
		t.Fatalf("course_added 失败: %v", err)
	}
	if len(next.Courses) != 1 {
		t.Errorf("重复添加不应新增条目，实际 %d", len(next.Courses))
	}
}

func TestTransition_ToggleOffThenOn(t *testing.T) {
	state := statePlanned(t)
	identity := state.Selected["TDT4100"][0]

	// 取消
	off, err := Transition(state, dto.SelectionEvent{
		Type:     dto.SelectionEventEventToggled,
		CourseID: "TDT4100",
		Identity: &identity,
	})
	if err != nil {
		t.Fatalf("event_toggled 失败: %v", err)
	}
	if len(off.Selected["TDT4100"]) != 1 {
		t.Fatalf("取消后应剩 1 个课堂，实际 %d", len(off.Selected["TDT4100"]))
	}

	// 再选中
	on, err := Transition(off, dto.SelectionEvent{
		Type:     dto.SelectionEventEventToggled,
		CourseID: "TDT4100",
		Identity: &identity,
	})
	if err != nil {
		t.Fatalf("event_toggled 失败: %v", err)
	}
	if len(on.Selected["TDT4100"]) != 2 {
		t.Errorf("重新选中后应恢复 2 个课堂，实际 %d", len(on.Selected["TDT4100"]))
	}
}

func TestTransition_ToggleOnUnknownIdentityIsNoop(t *testing.T) {
	state := statePlanned(t)

	ghost := dto.EventIdentity{ActID: "99-FOR", Weekday: 5, StartTime: "08:15", EndTime: "10:00"}
	next, err := Transition(state, dto.SelectionEvent{
		Type:     dto.SelectionEventEventToggled,
		CourseID: "TDT4100",
		Identity: &ghost,
	})
	if err != nil {
		t.Fatalf("event_toggled 失败: %v", err)
	}
	// 子集不变量：快照中不存在的标识不能被选中
	for _, id := range next.Selected["TDT4100"] {
		if id == ghost {
			t.Error("快照外的标识不应出现在 Selected 中")
		}
	}
	if len(next.Selected["TDT4100"]) != 2 {
		t.Errorf("无效切换不应改变选中集，实际 %d", len(next.Selected["TDT4100"]))
	}
}

func TestTransition_CourseRemovedReindexesColors(t *testing.T) {
	state := statePlanned(t)

	var err error
	state, err = Transition(state, dto.SelectionEvent{
		Type:     dto.SelectionEventCourseAdded,
		CourseID: "TMA4100",
	})
	if err != nil {
		t.Fatalf("course_added 失败: %v", err)
	}

	next, err := Transition(state, dto.SelectionEvent{
		Type:     dto.SelectionEventCourseRemoved,
		CourseID: "TDT4100",
	})
	if err != nil {
		t.Fatalf("course_removed 失败: %v", err)
	}

	if len(next.Courses) != 1 {
		t.Fatalf("期望剩 1 门课，实际 %d", len(next.Courses))
	}
	if next.Courses[0].CourseID != "TMA4100" || next.Courses[0].ColorIndex != 0 {
		t.Errorf("剩余课程应重排到索引 0: %+v", next.Courses[0])
	}
	if _, ok := next.Selected["TDT4100"]; ok {
		t.Error("移除课程后 Selected 中不应残留其标识")
	}
	if findPlan(next.Plans, "TDT4100") != nil {
		t.Error("移除课程后快照中不应残留其课表")
	}
}

func TestTransition_FetchCompletedPrunesStaleIdentities(t *testing.T) {
	state := statePlanned(t)

	// 新快照去掉了 2-ØV 时段
	shrunk := tdt4100Plan()
	shrunk.Events = shrunk.Events[:2]

	next, err := Transition(state, dto.SelectionEvent{
		Type:  dto.SelectionEventFetchCompleted,
		Plans: []dto.SemesterPlan{shrunk},
	})
	if err != nil {
		t.Fatalf("fetch_completed 失败: %v", err)
	}

	for _, id := range next.Selected["TDT4100"] {
		if !identityInPlan(shrunk, id) {
			t.Errorf("Selected 中残留了快照外的标识: %+v", id)
		}
	}
	if len(next.Selected["TDT4100"]) != 1 {
		t.Errorf("期望剪除后剩 1 个课堂，实际 %d", len(next.Selected["TDT4100"]))
	}
}

func TestTransition_UnknownEventType(t *testing.T) {
	state := statePlanned(t)

	if _, err := Transition(state, dto.SelectionEvent{Type: "explode"}); err != ErrSelectionUnknownEvent {
		t.Errorf("期望 ErrSelectionUnknownEvent，实际: %v", err)
	}
}

func TestTransition_DoesNotMutateInput(t *testing.T) {
	state := statePlanned(t)
	before := len(state.Selected["TDT4100"])

	identity := state.Selected["TDT4100"][0]
	if _, err := Transition(state, dto.SelectionEvent{
		Type:     dto.SelectionEventEventToggled,
		CourseID: "TDT4100",
		Identity: &identity,
	}); err != nil {
		t.Fatalf("event_toggled 失败: %v", err)
	}

	if len(state.Selected["TDT4100"]) != before {
		t.Error("Transition 不应修改输入状态")
	}
}

// ── SelectedPlans 测试 ──

func TestSelectedPlans_FiltersUnselectedEvents(t *testing.T) {
	state := statePlanned(t)

	// 取消 1-FOR 时段（覆盖 2 条周记录）
	forID := dto.EventIdentity{ActID: "1-FOR", Weekday: 1, StartTime: "10:15", EndTime: "12:00"}
	state, err := Transition(state, dto.SelectionEvent{
		Type:     dto.SelectionEventEventToggled,
		CourseID: "TDT4100",
		Identity: &forID,
	})
	if err != nil {
		t.Fatalf("event_toggled 失败: %v", err)
	}

	plans := SelectedPlans(state)
	if len(plans) != 1 {
		t.Fatalf("期望 1 份课表，实际 %d", len(plans))
	}
	if len(plans[0].Events) != 1 {
		t.Fatalf("取消整组后应只剩 1 条事件，实际 %d", len(plans[0].Events))
	}
	if plans[0].Events[0].ActID != "2-ØV" {
		t.Errorf("剩余事件应为 2-ØV，实际 %s", plans[0].Events[0].ActID)
	}
}
