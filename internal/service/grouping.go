package service

import (
	"sort"
	"strconv"
	"strings"

	"github.com/magnusgiverin/timeplaner/internal/dto"
)

// ── 课堂分组 ──
//
// 同一教学活动在不同周次的多条事件折叠为一行可编辑课堂；
// 分组是一个划分：每条事件恰好落入一组，解析失败的事件也不丢弃。

// timeSentinel 起止时间/星期无法解析时的占位标签
const timeSentinel = "-"

// 星期标签，下标对应上游 weekday 字段（0=周日）
var weekdayNamesNo = []string{"Søndag", "Mandag", "Tirsdag", "Onsdag", "Torsdag", "Fredag", "Lørdag"}
var weekdayNamesEn = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// EventIdentityOf 计算单条事件的课堂标识
//
// 起止时刻取墙钟 "HH:MM"；时间戳残缺时以占位符参与标识，
// 保证同样残缺的周记录仍然归入同一组。
func EventIdentityOf(ev dto.TimetableEvent) dto.EventIdentity {
	return dto.EventIdentity{
		ActID:     ev.ActID,
		Weekday:   ev.Weekday,
		StartTime: clockOf(ev.DtStart),
		EndTime:   clockOf(ev.DtEnd),
	}
}

// clockOf 从 "2024-01-15T10:15:00+01:00" 样式的时间戳中取 "HH:MM"
func clockOf(timestamp string) string {
	_, rest, ok := strings.Cut(timestamp, "T")
	if !ok {
		return timeSentinel
	}
	// 去掉 UTC 偏移（+01:00 / -02:00 / Z）
	if i := strings.IndexAny(rest, "+-Z"); i >= 0 {
		rest = rest[:i]
	}
	if len(rest) < 5 || rest[2] != ':' {
		return timeSentinel
	}
	return rest[:5]
}

// weekdayLabel 星期标签，越界时返回占位符
func weekdayLabel(weekday int, language string) string {
	names := weekdayNamesNo
	if language == "en" {
		names = weekdayNamesEn
	}
	if weekday < 0 || weekday >= len(names) {
		return timeSentinel
	}
	return names[weekday]
}

// GroupEvents 将一门课程的事件按课堂标识聚合为可编辑行
//
// 每组聚合去重周次、学生组前缀；行按星期 + 开始时刻排序。
func GroupEvents(plan dto.SemesterPlan, language string) []dto.EventGroup {
	groups := make(map[dto.EventIdentity]*dto.EventGroup)
	order := make([]dto.EventIdentity, 0, len(plan.Events))

	for _, ev := range plan.Events {
		id := EventIdentityOf(ev)

		g, ok := groups[id]
		if !ok {
			g = &dto.EventGroup{
				Identity:  id,
				CourseID:  plan.CourseID,
				EventName: ev.TeachingMethodName,
				DayOfWeek: weekdayLabel(ev.Weekday, language),
				StartTime: id.StartTime,
				EndTime:   id.EndTime,
			}
			groups[id] = g
			order = append(order, id)
		}

		if !containsInt(g.Weeks, ev.WeekNr) {
			g.Weeks = append(g.Weeks, ev.WeekNr)
		}
		for _, sg := range ev.StudentGroups {
			prefix, _, _ := strings.Cut(sg, "_")
			if prefix != "" && !containsString(g.GroupPrefix, prefix) {
				g.GroupPrefix = append(g.GroupPrefix, prefix)
			}
		}
	}

	rows := make([]dto.EventGroup, 0, len(order))
	for _, id := range order {
		g := groups[id]
		sort.Ints(g.Weeks)
		g.WeekRanges = CompressWeeks(g.Weeks)
		rows = append(rows, *g)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Identity.Weekday != rows[j].Identity.Weekday {
			return rows[i].Identity.Weekday < rows[j].Identity.Weekday
		}
		return rows[i].Identity.StartTime < rows[j].Identity.StartTime
	})

	return rows
}

// CompressWeeks 将周次列表压缩为连续区间
//
// 输入无需有序或去重；输出如 ["3-5","7","10-12"]，
// 按序展开即还原排序去重后的输入。
func CompressWeeks(weeks []int) []string {
	if len(weeks) == 0 {
		return nil
	}

	sorted := make([]int, len(weeks))
	copy(sorted, weeks)
	sort.Ints(sorted)

	// 去重
	uniq := sorted[:1]
	for _, w := range sorted[1:] {
		if w != uniq[len(uniq)-1] {
			uniq = append(uniq, w)
		}
	}

	var ranges []string
	start, end := uniq[0], uniq[0]
	for _, w := range uniq[1:] {
		if w == end+1 {
			end = w
			continue
		}
		ranges = append(ranges, formatRange(start, end))
		start, end = w, w
	}
	ranges = append(ranges, formatRange(start, end))

	return ranges
}

func formatRange(start, end int) string {
	if start == end {
		return strconv.Itoa(start)
	}
	return strconv.Itoa(start) + "-" + strconv.Itoa(end)
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func containsString(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
