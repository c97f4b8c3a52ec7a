package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/pkg/response"
)

// TokenBlacklist Token 吊销能力（pkg/redis.Client 实现）
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthHandler 令牌吊销处理器
// 令牌的签发由外部身份服务负责，本服务只提供注销当前令牌
type AuthHandler struct {
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthHandler blacklist 为 nil 时注销接口返回 503
func NewAuthHandler(blacklist TokenBlacklist, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{blacklist: blacklist, logger: logger}
}

// Logout 吊销当前 Access Token（例如扫码终端下线）
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if h.blacklist == nil {
		response.Error(c, http.StatusServiceUnavailable, 50003, "Token 吊销暂不可用")
		return
	}

	jti := c.GetString("token_jti")
	if jti == "" {
		response.Unauthorized(c, 10002, "未认证")
		return
	}

	var ttl time.Duration
	if exp, ok := c.Get("token_exp"); ok {
		if t, ok := exp.(time.Time); ok && !t.IsZero() {
			ttl = time.Until(t)
		}
	}

	if err := h.blacklist.BlacklistToken(c.Request.Context(), jti, ttl); err != nil {
		h.logger.Error("Token 加入黑名单失败", zap.String("jti", jti), zap.Error(err))
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}
