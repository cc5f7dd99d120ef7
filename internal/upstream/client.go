package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/magnusgiverin/timeplaner/config"
	"github.com/magnusgiverin/timeplaner/internal/dto"
)

// ── 上游教务数据源客户端 ──
//
// 所有接口均为只读 JSON GET；失败时返回错误由调用方决定降级策略
// （保留旧数据 / 返回业务错误），本层不做重试。

const maxResponseSize = 10 * 1024 * 1024 // 10MB，防止异常响应拖垮内存

// TimetableSource 课表数据源接口
type TimetableSource interface {
	// FetchSemesterPlan 获取一门课程在指定学期的教学活动
	FetchSemesterPlan(ctx context.Context, courseCode, semester string) (*dto.SemesterPlan, error)
}

// StudyPlanSource 学习计划数据源接口
type StudyPlanSource interface {
	// FetchStudyPlan 获取专业在指定届别年份的课程结构树
	FetchStudyPlan(ctx context.Context, programCode string, year int) (*dto.StudyPlanDocument, error)
}

// CourseListSource 课程目录数据源接口
type CourseListSource interface {
	// FetchCourseList 获取全量课程列表
	FetchCourseList(ctx context.Context) ([]CourseEntry, error)
}

// CourseEntry 课程目录条目
type CourseEntry struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	EnglishName string `json:"englishName"`
}

// Client 上游 HTTP 客户端
type Client struct {
	cfg    *config.UpstreamConfig
	http   *http.Client
	logger *zap.Logger
}

// NewClient 创建上游客户端
func NewClient(cfg *config.UpstreamConfig, logger *zap.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// FetchSemesterPlan 获取一门课程在指定学期的教学活动
//
// 上游按课程代码返回整个学期的全部事件（split_intervals=true 时多天事件已拆分）。
func (c *Client) FetchSemesterPlan(ctx context.Context, courseCode, semester string) (*dto.SemesterPlan, error) {
	q := url.Values{}
	q.Set("id", courseCode)
	q.Set("sem", semester)
	q.Set("lang", "no")
	q.Set("split_intervals", "true")
	q.Set("exam", "true")

	endpoint := c.cfg.TimetableBaseURL + "/course.php?" + q.Encode()

	var plan dto.SemesterPlan
	if err := c.getJSON(ctx, endpoint, map[string]string{"X-Gravitee-Api-Key": c.cfg.TimetableAPIKey}, &plan); err != nil {
		return nil, fmt.Errorf("获取课表失败 (%s, %s): %w", courseCode, semester, err)
	}
	return &plan, nil
}

// FetchStudyPlan 获取专业在指定届别年份的课程结构树
func (c *Client) FetchStudyPlan(ctx context.Context, programCode string, year int) (*dto.StudyPlanDocument, error) {
	q := url.Values{}
	q.Set("p_p_id", "studyprogrammeplannerportlet_WAR_studyprogrammeplannerportlet_INSTANCE_qtfMiH5FDLzu")
	q.Set("p_p_lifecycle", "2")
	q.Set("p_p_state", "normal")
	q.Set("p_p_mode", "view")
	q.Set("p_p_resource_id", "studyplan")
	q.Set("p_p_cacheability", "cacheLevelPage")
	q.Set("code", programCode)
	q.Set("year", strconv.Itoa(year))

	endpoint := c.cfg.StudyPlanBaseURL + "?" + q.Encode()

	var doc dto.StudyPlanDocument
	if err := c.getJSON(ctx, endpoint, nil, &doc); err != nil {
		return nil, fmt.Errorf("获取学习计划失败 (%s, %d): %w", programCode, year, err)
	}
	return &doc, nil
}

// FetchCourseList 获取全量课程列表（目录同步用）
func (c *Client) FetchCourseList(ctx context.Context) ([]CourseEntry, error) {
	if c.cfg.CourseListURL == "" {
		return nil, fmt.Errorf("未配置课程目录接口地址")
	}

	var payload struct {
		Courses []CourseEntry `json:"course"`
	}
	if err := c.getJSON(ctx, c.cfg.CourseListURL, nil, &payload); err != nil {
		return nil, fmt.Errorf("获取课程目录失败: %w", err)
	}
	return payload.Courses, nil
}

// getJSON 发起 GET 请求并反序列化 JSON 响应体
func (c *Client) getJSON(ctx context.Context, endpoint string, headers map[string]string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	// 限制响应体大小，防止异常上游返回超大内容导致 OOM
	body := io.LimitReader(resp.Body, maxResponseSize)
	if err := json.NewDecoder(body).Decode(dest); err != nil {
		return fmt.Errorf("响应解析失败: %w", err)
	}
	return nil
}
