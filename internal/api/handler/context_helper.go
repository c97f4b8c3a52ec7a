package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/internal/dto"
	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/internal/policy"
	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/internal/service"
	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/pkg/response"
)

// MustGetSubjectID 从 Gin 上下文中安全提取调用方标识（管理员或扫码终端）。
// 如果 JWT 中间件未正确注入 subject_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetSubjectID(c *gin.Context) (string, bool) {
	v, exists := c.Get("subject_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// DateResolver 解析 ?date= 参数，缺省为策略时区下的今天
type DateResolver struct {
	policy policy.Policy
	clock  service.Clock
}

// NewDateResolver clock 为空时使用系统时间
func NewDateResolver(pol policy.Policy, clock service.Clock) *DateResolver {
	if clock == nil {
		clock = time.Now
	}
	return &DateResolver{policy: pol, clock: clock}
}

// resolve 解析失败时写入 400 响应并返回 false
func (r *DateResolver) resolve(c *gin.Context, raw string) (time.Time, bool) {
	if raw == "" {
		return r.policy.DateOf(r.clock()), true
	}
	date, err := r.policy.ParseDate(raw)
	if err != nil {
		response.BadRequest(c, 10001, "日期格式应为 YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}

// fromQuery 绑定 dto.DateQuery 后解析
func (r *DateResolver) fromQuery(c *gin.Context) (time.Time, bool) {
	var q dto.DateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "日期格式应为 YYYY-MM-DD")
		return time.Time{}, false
	}
	return r.resolve(c, q.Date)
}
