package policy

import (
	"fmt"
	"time"

	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/config"
)

// DateLayout 日期统一格式
const DateLayout = "2006-01-02"

// Status 签到状态，签到时确定，之后不再重新计算
type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
)

// Policy 考勤策略：纯函数集合，无状态
// 按部署替换（例如不同的上班时间），无需改动考勤状态机
type Policy interface {
	// WorkStartTime 指定日期的上班时间（date 为自然日标签）
	WorkStartTime(date time.Time) time.Time
	// WorkEndTime 指定日期的下班时间（仅用于展示）
	WorkEndTime(date time.Time) time.Time
	LateTolerance() time.Duration
	CodeValidity() time.Duration
	// Classify 根据签到时间判定 present / late
	Classify(date, checkIn time.Time) Status
	// DateOf 将时间点换算为策略时区下的自然日（零点）
	DateOf(t time.Time) time.Time
	// ParseDate 解析 YYYY-MM-DD
	ParseDate(s string) (time.Time, error)
	Location() *time.Location
}

// fixedPolicy 固定上班时间的策略实现
type fixedPolicy struct {
	loc           *time.Location
	startHour     int
	startMinute   int
	endHour       int
	endMinute     int
	lateTolerance time.Duration
	codeValidity  time.Duration
}

// New 创建固定上班时间策略
func New(loc *time.Location, workStart, workEnd string, lateTolerance, codeValidity time.Duration) (Policy, error) {
	if loc == nil {
		loc = time.UTC
	}
	start, err := time.Parse("15:04", workStart)
	if err != nil {
		return nil, fmt.Errorf("上班时间格式无效 %q: %w", workStart, err)
	}
	end := start
	if workEnd != "" {
		end, err = time.Parse("15:04", workEnd)
		if err != nil {
			return nil, fmt.Errorf("下班时间格式无效 %q: %w", workEnd, err)
		}
	}
	if lateTolerance < 0 {
		return nil, fmt.Errorf("迟到容忍时长不能为负数: %s", lateTolerance)
	}
	if codeValidity <= 0 {
		return nil, fmt.Errorf("二维码有效期必须大于 0: %s", codeValidity)
	}
	return &fixedPolicy{
		loc:           loc,
		startHour:     start.Hour(),
		startMinute:   start.Minute(),
		endHour:       end.Hour(),
		endMinute:     end.Minute(),
		lateTolerance: lateTolerance,
		codeValidity:  codeValidity,
	}, nil
}

// FromConfig 根据 attendance 配置段创建策略
func FromConfig(cfg *config.AttendanceConfig) (Policy, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("加载时区 %q 失败: %w", cfg.Timezone, err)
	}
	return New(
		loc,
		cfg.WorkStart,
		cfg.WorkEnd,
		time.Duration(cfg.LateToleranceMinutes)*time.Minute,
		cfg.CodeValidity,
	)
}

// 日期参数按自然日标签处理：直接取其年月日，不做时区换算
// （从 date 列读回的值是 UTC 零点，换算会在负时区错位一天）
func (p *fixedPolicy) WorkStartTime(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, p.startHour, p.startMinute, 0, 0, p.loc)
}

func (p *fixedPolicy) WorkEndTime(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, p.endHour, p.endMinute, 0, 0, p.loc)
}

func (p *fixedPolicy) LateTolerance() time.Duration { return p.lateTolerance }

func (p *fixedPolicy) CodeValidity() time.Duration { return p.codeValidity }

// Classify 截止点本身算迟到：[start+tolerance, ∞) → late
func (p *fixedPolicy) Classify(date, checkIn time.Time) Status {
	deadline := p.WorkStartTime(date).Add(p.lateTolerance)
	if checkIn.Before(deadline) {
		return StatusPresent
	}
	return StatusLate
}

func (p *fixedPolicy) DateOf(t time.Time) time.Time {
	t = t.In(p.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, p.loc)
}

func (p *fixedPolicy) ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, p.loc)
}

func (p *fixedPolicy) Location() *time.Location { return p.loc }
