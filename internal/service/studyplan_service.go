package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/magnusgiverin/timeplaner/internal/dto"
	"github.com/magnusgiverin/timeplaner/internal/model"
	"github.com/magnusgiverin/timeplaner/internal/repository"
	"github.com/magnusgiverin/timeplaner/internal/upstream"
)

// ── 学习计划模块业务错误 ──

var (
	ErrStudyPlanInvalidYear   = errors.New("年级必须在 1 到 6 之间")
	ErrStudyPlanInvalidSeason = errors.New("学期季节必须为 Spring 或 Autumn")
	ErrStudyPlanUpstream      = errors.New("上游学习计划服务不可用")
	ErrStudyPlanPeriodMissing = errors.New("学习计划中不存在该学期")
)

// StudyPlanService 学习计划查询业务接口
type StudyPlanService interface {
	// GetStudyPlan 获取指定专业、年级、季节的课程结构树
	GetStudyPlan(ctx context.Context, programCode string, year int, season string) (*dto.StudyPlanResponse, error)
}

type studyPlanService struct {
	source upstream.StudyPlanSource
	repo   repository.StudyPlanRepository
	logger *zap.Logger
	now    func() time.Time // 测试时可注入
}

// NewStudyPlanService 创建 StudyPlanService 实例
func NewStudyPlanService(source upstream.StudyPlanSource, repo repository.StudyPlanRepository, logger *zap.Logger) StudyPlanService {
	return &studyPlanService{source: source, repo: repo, logger: logger, now: time.Now}
}

func (s *studyPlanService) GetStudyPlan(ctx context.Context, programCode string, year int, season string) (*dto.StudyPlanResponse, error) {
	if year < 1 || year > 6 {
		return nil, ErrStudyPlanInvalidYear
	}
	if season != "Spring" && season != "Autumn" {
		return nil, ErrStudyPlanInvalidSeason
	}

	currentYear := s.now().Year()
	// 由年级反推入学年：秋季学期尚在本学年内，多退一年
	studyYear := currentYear - year
	if season == "Autumn" {
		studyYear = currentYear - year + 1
	}

	doc, err := s.loadDocument(ctx, programCode, studyYear, currentYear)
	if err != nil {
		return nil, err
	}

	// 学期序号：一年级秋季为第 0 期，之后逐学期递增
	periodIndex := year*2 - 2
	if season == "Spring" {
		periodIndex = year*2 - 1
	}

	period := findPeriod(doc.StudyPlan.StudyPeriods, periodIndex)
	if period == nil {
		return nil, ErrStudyPlanPeriodMissing
	}

	return &dto.StudyPlanResponse{
		ProgramCode: programCode,
		Year:        year,
		Season:      season,
		Subjects:    flattenDirection(period.Direction),
	}, nil
}

// loadDocument 缓存优先读取学习计划文档，未命中时拉取上游并回写
func (s *studyPlanService) loadDocument(ctx context.Context, programCode string, studyYear, fetchYear int) (*dto.StudyPlanDocument, error) {
	planID := fmt.Sprintf("%s-%d-%d", programCode, studyYear, fetchYear)

	cached, err := s.repo.GetByID(ctx, planID)
	if err == nil {
		var doc dto.StudyPlanDocument
		if jsonErr := json.Unmarshal(cached.JSONData, &doc); jsonErr == nil {
			return &doc, nil
		}
		s.logger.Warn("学习计划缓存损坏，回退上游", zap.String("plan_id", planID))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Warn("读取学习计划缓存失败，回退上游", zap.String("plan_id", planID), zap.Error(err))
	}

	doc, err := s.source.FetchStudyPlan(ctx, programCode, studyYear)
	if err != nil {
		s.logger.Error("拉取学习计划失败",
			zap.String("program", programCode),
			zap.Int("study_year", studyYear),
			zap.Error(err),
		)
		return nil, ErrStudyPlanUpstream
	}

	if raw, jsonErr := json.Marshal(doc); jsonErr == nil {
		record := &model.StudyPlan{
			PlanID:      planID,
			ProgramCode: programCode,
			StudyYear:   studyYear,
			JSONData:    model.JSONB(raw),
		}
		if upErr := s.repo.Upsert(ctx, record); upErr != nil {
			s.logger.Warn("写入学习计划缓存失败", zap.String("plan_id", planID), zap.Error(upErr))
		}
	}

	return doc, nil
}

func findPeriod(periods []dto.StudyPeriod, index int) *dto.StudyPeriod {
	if index < 0 || index >= len(periods) {
		return nil
	}
	return &periods[index]
}

// flattenDirection 将方向/课程组/分支点的三层嵌套折叠为统一的递归节点
//
// 课程组内的课程直接展开为叶子并记下组名；分支点及其下属方向保留为分组节点。
func flattenDirection(dir dto.StudyDirection) []dto.SubjectNode {
	nodes := make([]dto.SubjectNode, 0)
	for _, group := range dir.CourseGroups {
		for _, course := range group.Courses {
			nodes = append(nodes, dto.SubjectNode{
				Kind: dto.NodeKindCourse,
				Code: course.Code,
				Name: course.Name,
				Course: &dto.SubjectCourse{
					Code:            course.Code,
					Name:            course.Name,
					Credit:          course.Credit,
					PlanElement:     course.PlanElement,
					StudyChoice:     course.StudyChoice,
					CourseGroupName: group.Name,
				},
			})
		}
	}
	for _, wp := range dir.StudyWaypoints {
		children := make([]dto.SubjectNode, 0, len(wp.StudyDirections))
		for _, sub := range wp.StudyDirections {
			children = append(children, dto.SubjectNode{
				Kind:     dto.NodeKindGroup,
				Code:     sub.Code,
				Name:     sub.Name,
				Children: flattenDirection(sub),
			})
		}
		nodes = append(nodes, dto.SubjectNode{
			Kind:     dto.NodeKindGroup,
			Code:     wp.Code,
			Name:     wp.Name,
			Children: children,
		})
	}
	return nodes
}
