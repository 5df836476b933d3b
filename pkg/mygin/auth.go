package mygin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/naiba/hostdeck/model"
	"github.com/naiba/hostdeck/service/singleton"
)

const authCachePrefix = "auth::"

// Authorize 校验 Authorization: Bearer <token>，通过 bcrypt 与配置中的哈希比对。
// 校验通过的 token 会被缓存，避免每个请求都做一次 bcrypt。错误的 token 会使来源 IP 被 Waf 封禁一段时间。
func Authorize(c *gin.Context) {
	if singleton.Conf.TokenHash == "" {
		if singleton.Conf.Debug {
			c.Set(model.CtxKeyAuthorizedUser, true)
			return
		}
		ShowError(c, http.StatusForbidden, "token_hash is not configured")
		return
	}

	token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
	if token == "" {
		token = c.Query("token")
	}
	if token == "" {
		ShowError(c, http.StatusUnauthorized, "missing token")
		return
	}

	key := authCachePrefix + singleton.Conf.TokenHash + "::" + token
	if _, ok := singleton.Cache.Get(key); !ok {
		if err := bcrypt.CompareHashAndPassword([]byte(singleton.Conf.TokenHash), []byte(token)); err != nil {
			blockClient(c, model.WAFBlockReasonTypeBadToken)
			ShowError(c, http.StatusUnauthorized, "invalid token")
			return
		}
		singleton.Cache.SetDefault(key, struct{}{})
	}
	c.Set(model.CtxKeyAuthorizedUser, true)
}
