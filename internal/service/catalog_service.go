package service

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/magnusgiverin/timeplaner/config"
	"github.com/magnusgiverin/timeplaner/internal/dto"
	"github.com/magnusgiverin/timeplaner/internal/model"
	"github.com/magnusgiverin/timeplaner/internal/repository"
	"github.com/magnusgiverin/timeplaner/internal/upstream"
)

// ── 目录模块业务错误 ──

var (
	ErrProgramNotFound  = errors.New("专业不存在")
	ErrCourseNotFound   = errors.New("课程不存在")
	ErrCatalogEmptyCSV  = errors.New("目录 CSV 文件为空")
	ErrCatalogShortWord = errors.New("搜索关键词至少需要 2 个字符")
)

// CatalogService 专业与课程目录业务接口
type CatalogService interface {
	ListPrograms(ctx context.Context, language string) ([]dto.ProgramResponse, error)
	GetProgram(ctx context.Context, programID string) (*dto.ProgramResponse, error)
	ListCourses(ctx context.Context) ([]dto.CourseResponse, error)
	SearchCourses(ctx context.Context, query string, limit int) ([]dto.CourseResponse, error)
	// SeedFromCSV 从本地 CSV 初始化目录，文件缺失时静默跳过
	SeedFromCSV(ctx context.Context) error
	// SyncFromUpstream 从上游全量刷新课程目录，失败时保留旧数据
	SyncFromUpstream(ctx context.Context) error
}

// ── CSV 行结构（与 gocsv 标签绑定） ──

type programCSVRow struct {
	ProgramID     string `csv:"programid"`
	StudyProgCode string `csv:"studyprogcode"`
	Title         string `csv:"title"`
	Years         int    `csv:"years"`
}

type courseCSVRow struct {
	CourseID    string `csv:"courseid"`
	CourseName  string `csv:"coursename"`
	EnglishName string `csv:"englishname"`
}

type catalogService struct {
	cfg    *config.CatalogConfig
	repo   *repository.Repository
	source upstream.CourseListSource
	logger *zap.Logger
}

// NewCatalogService 创建 CatalogService 实例
func NewCatalogService(cfg *config.CatalogConfig, repo *repository.Repository, source upstream.CourseListSource, logger *zap.Logger) CatalogService {
	return &catalogService{cfg: cfg, repo: repo, source: source, logger: logger}
}

func (s *catalogService) ListPrograms(ctx context.Context, language string) ([]dto.ProgramResponse, error) {
	var (
		programs []model.Program
		err      error
	)
	if language == "" {
		programs, err = s.repo.Program.List(ctx)
	} else {
		programs, err = s.repo.Program.ListByLanguage(ctx, language)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProgramResponse, 0, len(programs))
	for _, p := range programs {
		out = append(out, programToDTO(p))
	}
	return out, nil
}

func (s *catalogService) GetProgram(ctx context.Context, programID string) (*dto.ProgramResponse, error) {
	program, err := s.repo.Program.GetByID(ctx, programID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// 允许用裸专业代码查询
		program, err = s.repo.Program.GetByCode(ctx, programID)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProgramNotFound
	}
	if err != nil {
		return nil, err
	}
	resp := programToDTO(*program)
	return &resp, nil
}

func (s *catalogService) ListCourses(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.List(ctx)
	if err != nil {
		return nil, err
	}
	return coursesToDTO(courses), nil
}

func (s *catalogService) SearchCourses(ctx context.Context, query string, limit int) ([]dto.CourseResponse, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, ErrCatalogShortWord
	}
	courses, err := s.repo.Course.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return coursesToDTO(courses), nil
}

// ── 初始化与同步 ──

func (s *catalogService) SeedFromCSV(ctx context.Context) error {
	if err := s.seedPrograms(ctx); err != nil {
		return err
	}
	return s.seedCourses(ctx)
}

func (s *catalogService) seedPrograms(ctx context.Context) error {
	if s.cfg.ProgramCSVPath == "" {
		return nil
	}
	f, err := os.Open(s.cfg.ProgramCSVPath)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("专业 CSV 不存在，跳过初始化", zap.String("path", s.cfg.ProgramCSVPath))
			return nil
		}
		return err
	}
	defer f.Close()

	var rows []programCSVRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrCatalogEmptyCSV
	}

	programs := make([]model.Program, 0, len(rows))
	for _, row := range rows {
		if row.ProgramID == "" {
			continue
		}
		years := row.Years
		if years <= 0 {
			years = 5
		}
		programs = append(programs, model.Program{
			ProgramID:     row.ProgramID,
			StudyProgCode: row.StudyProgCode,
			Title:         row.Title,
			Years:         years,
		})
	}
	if err := s.repo.Program.UpsertAll(ctx, programs); err != nil {
		return err
	}
	s.logger.Info("专业目录初始化完成", zap.Int("count", len(programs)))
	return nil
}

func (s *catalogService) seedCourses(ctx context.Context) error {
	if s.cfg.CourseCSVPath == "" {
		return nil
	}
	f, err := os.Open(s.cfg.CourseCSVPath)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("课程 CSV 不存在，跳过初始化", zap.String("path", s.cfg.CourseCSVPath))
			return nil
		}
		return err
	}
	defer f.Close()

	var rows []courseCSVRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrCatalogEmptyCSV
	}

	courses := make([]model.Course, 0, len(rows))
	for _, row := range rows {
		if row.CourseID == "" {
			continue
		}
		courses = append(courses, model.Course{
			CourseID:    row.CourseID,
			CourseName:  row.CourseName,
			EnglishName: row.EnglishName,
		})
	}
	if err := s.repo.Course.UpsertAll(ctx, courses); err != nil {
		return err
	}
	s.logger.Info("课程目录初始化完成", zap.Int("count", len(courses)))
	return nil
}

func (s *catalogService) SyncFromUpstream(ctx context.Context) error {
	entries, err := s.source.FetchCourseList(ctx)
	if err != nil {
		// 同步失败不影响已有目录
		s.logger.Error("课程目录同步失败，保留现有数据", zap.Error(err))
		return err
	}

	courses := make([]model.Course, 0, len(entries))
	for _, e := range entries {
		if e.Code == "" {
			continue
		}
		courses = append(courses, model.Course{
			CourseID:    e.Code,
			CourseName:  e.Name,
			EnglishName: e.EnglishName,
		})
	}
	if err := s.repo.Course.UpsertAll(ctx, courses); err != nil {
		s.logger.Error("课程目录写入失败", zap.Error(err))
		return err
	}
	s.logger.Info("课程目录同步完成", zap.Int("count", len(courses)))
	return nil
}

func programToDTO(p model.Program) dto.ProgramResponse {
	return dto.ProgramResponse{
		ProgramID:     p.ProgramID,
		StudyProgCode: p.StudyProgCode,
		Title:         p.Title,
		Years:         p.Years,
	}
}

func coursesToDTO(courses []model.Course) []dto.CourseResponse {
	out := make([]dto.CourseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, dto.CourseResponse{
			CourseID:    c.CourseID,
			CourseName:  c.CourseName,
			EnglishName: c.EnglishName,
		})
	}
	return out
}
