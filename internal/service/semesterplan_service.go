package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/magnusgiverin/timeplaner/internal/dto"
	"github.com/magnusgiverin/timeplaner/internal/upstream"
	"github.com/magnusgiverin/timeplaner/pkg/redis"
)

// ── 课表模块业务错误 ──

var (
	ErrSemesterPlanNoCodes         = errors.New("课程代码列表不能为空")
	ErrSemesterPlanInvalidSemester = errors.New("学期代码格式非法，应为如 24v / 24h")
	ErrSemesterPlanUpstream        = errors.New("上游课表服务不可用")
)

// 学期代码：两位年份 + v（春）/ h（秋）
var semesterPattern = regexp.MustCompile(`^\d{2}[vh]$`)

const semesterPlanCacheTTL = 30 * time.Minute

// ── SemesterPlanService 接口 ──────────────────────────────
//
// 设计说明：
//   - 每门课程独立请求上游，单门失败即整体失败（保证派生值来自同一快照）
//   - 单门课表按 (课程代码, 学期) 缓存于 Redis，Redis 不可用时直连上游
//   - Indexes / Colors / Rows 与 Plans 在同一次调用内一起计算，
//     不存在跨两次拉取混用派生值的窗口
// ─────────────────────────────────────────────────────────────

// SemesterPlanService 课表查询业务接口
type SemesterPlanService interface {
	// GetSemesterPlans 按课程代码列表拉取学期课表及派生值
	GetSemesterPlans(ctx context.Context, req *dto.SemesterPlanRequest, language string) (*dto.SemesterPlanResponse, error)
}

type semesterPlanService struct {
	source upstream.TimetableSource
	cache  *redis.Client // 可为 nil：缓存降级关闭
	logger *zap.Logger
}

// NewSemesterPlanService 创建 SemesterPlanService 实例
func NewSemesterPlanService(source upstream.TimetableSource, cache *redis.Client, logger *zap.Logger) SemesterPlanService {
	return &semesterPlanService{source: source, cache: cache, logger: logger}
}

func (s *semesterPlanService) GetSemesterPlans(ctx context.Context, req *dto.SemesterPlanRequest, language string) (*dto.SemesterPlanResponse, error) {
	if len(req.SubjectCodes) == 0 {
		return nil, ErrSemesterPlanNoCodes
	}
	if !semesterPattern.MatchString(req.Semester) {
		return nil, ErrSemesterPlanInvalidSemester
	}

	// 1. 逐门拉取（缓存优先）
	plans := make([]dto.SemesterPlan, 0, len(req.SubjectCodes))
	for _, code := range req.SubjectCodes {
		if code == "" {
			continue
		}
		plan, err := s.fetchOne(ctx, code, req.Semester)
		if err != nil {
			s.logger.Error("拉取课表失败",
				zap.String("course", code),
				zap.String("semester", req.Semester),
				zap.Error(err),
			)
			return nil, ErrSemesterPlanUpstream
		}
		plans = append(plans, *plan)
	}

	// 2. 同一快照上计算全部派生值
	indexes := make(map[string]int, len(plans))
	rows := make(map[string][]dto.EventGroup, len(plans))
	for i, plan := range plans {
		indexes[plan.CourseID] = i
		rows[plan.CourseID] = GroupEvents(plan, language)
	}

	return &dto.SemesterPlanResponse{
		Plans:   plans,
		Indexes: indexes,
		Colors:  GenerateColors(len(plans)),
		Rows:    rows,
	}, nil
}

// fetchOne 拉取单门课表，命中 Redis 缓存则跳过上游
func (s *semesterPlanService) fetchOne(ctx context.Context, code, semester string) (*dto.SemesterPlan, error) {
	cacheKey := fmt.Sprintf("semesterplan:%s:%s", semester, code)

	if s.cache != nil {
		var cached dto.SemesterPlan
		err := s.cache.GetJSON(ctx, cacheKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			s.logger.Warn("课表缓存读取失败，回退上游", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	plan, err := s.source.FetchSemesterPlan(ctx, code, semester)
	if err != nil {
		return nil, err
	}
	// 上游偶见空 courseid，回填请求代码保证索引键一致
	if plan.CourseID == "" {
		plan.CourseID = code
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, plan, semesterPlanCacheTTL); err != nil {
			s.logger.Warn("课表缓存写入失败", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	return plan, nil
}
