package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/magnusgiverin/timeplaner/internal/dto"
	"github.com/magnusgiverin/timeplaner/pkg/redis"
)

// ── 选课模块业务错误 ──

var (
	ErrSelectionUnknownEvent       = errors.New("未知的选课事件类型")
	ErrSelectionSessionNotFound    = errors.New("选课会话不存在或已过期")
	ErrSelectionSessionUnavailable = errors.New("会话存储不可用")
)

const (
	selectionSessionTTL       = 24 * time.Hour
	selectionSessionKeyPrefix = "selection:session:"
)

// ═══ 状态机（纯函数部分） ═══════════════════════════════════

// Transition 对选课状态应用一个事件，返回新状态
//
// 输入状态不被修改；所有切片与 map 在写前复制。
// 维护子集不变量：Selected 中的标识始终对应 Plans 中实际存在的事件。
func Transition(state dto.SelectionState, event dto.SelectionEvent) (dto.SelectionState, error) {
	switch event.Type {
	case dto.SelectionEventProgramChanged:
		// 切换专业即新开一张白纸
		return dto.SelectionState{
			ProgramCode: event.ProgramCode,
			Year:        event.Year,
			Season:      event.Season,
			Courses:     nil,
			Plans:       nil,
			Selected:    map[string][]dto.EventIdentity{},
		}, nil

	case dto.SelectionEventCourseAdded:
		next := cloneState(state)
		for _, c := range next.Courses {
			if c.CourseID == event.CourseID {
				return next, nil // 重复添加幂等
			}
		}
		next.Courses = append(next.Courses, dto.CourseSelection{
			CourseID:   event.CourseID,
			CourseName: event.CourseName,
			ColorIndex: len(next.Courses),
		})
		// 若快照中已有该课程的课表，默认全选其课堂
		if plan := findPlan(next.Plans, event.CourseID); plan != nil {
			next.Selected[event.CourseID] = allIdentities(*plan)
		}
		return next, nil

	case dto.SelectionEventCourseRemoved:
		next := cloneState(state)
		courses := make([]dto.CourseSelection, 0, len(next.Courses))
		for _, c := range next.Courses {
			if c.CourseID == event.CourseID {
				continue
			}
			c.ColorIndex = len(courses) // 按剩余位置重排颜色索引
			courses = append(courses, c)
		}
		next.Courses = courses
		plans := make([]dto.SemesterPlan, 0, len(next.Plans))
		for _, p := range next.Plans {
			if p.CourseID != event.CourseID {
				plans = append(plans, p)
			}
		}
		next.Plans = plans
		delete(next.Selected, event.CourseID)
		return next, nil

	case dto.SelectionEventEventToggled:
		if event.Identity == nil {
			return state, ErrSelectionUnknownEvent
		}
		next := cloneState(state)
		current := next.Selected[event.CourseID]
		for i, id := range current {
			if id == *event.Identity {
				// 已选 → 取消
				next.Selected[event.CourseID] = append(append([]dto.EventIdentity{}, current[:i]...), current[i+1:]...)
				return next, nil
			}
		}
		// 未选 → 仅当标识存在于当前快照时才允许选中
		plan := findPlan(next.Plans, event.CourseID)
		if plan == nil || !identityInPlan(*plan, *event.Identity) {
			return next, nil
		}
		next.Selected[event.CourseID] = append(append([]dto.EventIdentity{}, current...), *event.Identity)
		return next, nil

	case dto.SelectionEventFetchCompleted:
		next := cloneState(state)
		next.Plans = event.Plans
		// 剪除不再存在的标识，新课程默认全选
		selected := make(map[string][]dto.EventIdentity, len(event.Plans))
		for _, plan := range event.Plans {
			prev, seen := next.Selected[plan.CourseID]
			if !seen {
				selected[plan.CourseID] = allIdentities(plan)
				continue
			}
			kept := make([]dto.EventIdentity, 0, len(prev))
			for _, id := range prev {
				if identityInPlan(plan, id) {
					kept = append(kept, id)
				}
			}
			selected[plan.CourseID] = kept
		}
		next.Selected = selected
		return next, nil

	default:
		return state, ErrSelectionUnknownEvent
	}
}

// SelectedPlans 按选中标识过滤课表快照，供导出与投影使用
func SelectedPlans(state dto.SelectionState) []dto.SemesterPlan {
	out := make([]dto.SemesterPlan, 0, len(state.Plans))
	for _, plan := range state.Plans {
		keep := state.Selected[plan.CourseID]
		filtered := plan
		filtered.Events = make([]dto.TimetableEvent, 0, len(plan.Events))
		for _, ev := range plan.Events {
			if containsIdentity(keep, EventIdentityOf(ev)) {
				filtered.Events = append(filtered.Events, ev)
			}
		}
		out = append(out, filtered)
	}
	return out
}

func cloneState(state dto.SelectionState) dto.SelectionState {
	next := state
	next.Courses = append([]dto.CourseSelection{}, state.Courses...)
	next.Plans = append([]dto.SemesterPlan{}, state.Plans...)
	next.Selected = make(map[string][]dto.EventIdentity, len(state.Selected))
	for k, v := range state.Selected {
		next.Selected[k] = append([]dto.EventIdentity{}, v...)
	}
	return next
}

func findPlan(plans []dto.SemesterPlan, courseID string) *dto.SemesterPlan {
	for i := range plans {
		if plans[i].CourseID == courseID {
			return &plans[i]
		}
	}
	return nil
}

// allIdentities 取课表中全部去重后的课堂标识
func allIdentities(plan dto.SemesterPlan) []dto.EventIdentity {
	out := make([]dto.EventIdentity, 0, len(plan.Events))
	for _, ev := range plan.Events {
		id := EventIdentityOf(ev)
		if !containsIdentity(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func identityInPlan(plan dto.SemesterPlan, id dto.EventIdentity) bool {
	for _, ev := range plan.Events {
		if EventIdentityOf(ev) == id {
			return true
		}
	}
	return false
}

func containsIdentity(list []dto.EventIdentity, id dto.EventIdentity) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

// ═══ 会话存储（Redis 部分） ═════════════════════════════════

// SelectionService 选课会话业务接口
type SelectionService interface {
	// CreateSession 新建空白选课会话
	CreateSession(ctx context.Context) (*dto.SelectionSessionResponse, error)
	// GetSession 读取会话当前状态
	GetSession(ctx context.Context, sessionID string) (*dto.SelectionSessionResponse, error)
	// ApplyEvent 对会话应用一个选课事件并持久化新状态
	ApplyEvent(ctx context.Context, sessionID string, event dto.SelectionEvent) (*dto.SelectionSessionResponse, error)
	// DeleteSession 删除会话
	DeleteSession(ctx context.Context, sessionID string) error
	// SessionState 读取裸状态，供导出端点复用
	SessionState(ctx context.Context, sessionID string) (*dto.SelectionState, error)
}

type selectionService struct {
	store  *redis.Client // 可为 nil：会话功能整体不可用
	logger *zap.Logger
}

// NewSelectionService 创建 SelectionService 实例
func NewSelectionService(store *redis.Client, logger *zap.Logger) SelectionService {
	return &selectionService{store: store, logger: logger}
}

func (s *selectionService) CreateSession(ctx context.Context) (*dto.SelectionSessionResponse, error) {
	if s.store == nil {
		return nil, ErrSelectionSessionUnavailable
	}
	state := dto.SelectionState{Selected: map[string][]dto.EventIdentity{}}
	sessionID := uuid.NewString()
	if err := s.save(ctx, sessionID, state); err != nil {
		return nil, err
	}
	return sessionResponse(sessionID, state), nil
}

func (s *selectionService) GetSession(ctx context.Context, sessionID string) (*dto.SelectionSessionResponse, error) {
	state, err := s.SessionState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sessionResponse(sessionID, *state), nil
}

func (s *selectionService) ApplyEvent(ctx context.Context, sessionID string, event dto.SelectionEvent) (*dto.SelectionSessionResponse, error) {
	state, err := s.SessionState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	next, err := Transition(*state, event)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, sessionID, next); err != nil {
		return nil, err
	}
	return sessionResponse(sessionID, next), nil
}

func (s *selectionService) DeleteSession(ctx context.Context, sessionID string) error {
	if s.store == nil {
		return ErrSelectionSessionUnavailable
	}
	return s.store.Delete(ctx, selectionSessionKeyPrefix+sessionID)
}

func (s *selectionService) SessionState(ctx context.Context, sessionID string) (*dto.SelectionState, error) {
	if s.store == nil {
		return nil, ErrSelectionSessionUnavailable
	}
	var state dto.SelectionState
	err := s.store.GetJSON(ctx, selectionSessionKeyPrefix+sessionID, &state)
	if errors.Is(err, redis.ErrCacheMiss) {
		return nil, ErrSelectionSessionNotFound
	}
	if err != nil {
		s.logger.Error("读取选课会话失败", zap.String("session", sessionID), zap.Error(err))
		return nil, fmt.Errorf("读取选课会话: %w", err)
	}
	if state.Selected == nil {
		state.Selected = map[string][]dto.EventIdentity{}
	}
	return &state, nil
}

// save 整体覆盖会话记录并续期
func (s *selectionService) save(ctx context.Context, sessionID string, state dto.SelectionState) error {
	if err := s.store.SetJSON(ctx, selectionSessionKeyPrefix+sessionID, state, selectionSessionTTL); err != nil {
		s.logger.Error("写入选课会话失败", zap.String("session", sessionID), zap.Error(err))
		return fmt.Errorf("写入选课会话: %w", err)
	}
	return nil
}

// sessionResponse 从课程列表派生颜色与索引
func sessionResponse(sessionID string, state dto.SelectionState) *dto.SelectionSessionResponse {
	indexes := make(map[string]int, len(state.Courses))
	for _, c := range state.Courses {
		indexes[c.CourseID] = c.ColorIndex
	}
	return &dto.SelectionSessionResponse{
		SessionID: sessionID,
		State:     state,
		Colors:    GenerateColors(len(state.Courses)),
		Indexes:   indexes,
	}
}
