/*
 * @module api/middleware/token_auth
 * @description API密钥鉴权中间件，校验Bearer密钥与配置的bcrypt哈希是否匹配
 * @architecture 中间件模式 - HTTP请求拦截和验证
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 密钥提取 -> bcrypt比对 -> 下一个处理器
 * @rules 未配置ML_API_KEY_HASH时中间件直接放行（可信调用方默认）；白名单路径不做鉴权
 * @dependencies golang.org/x/crypto/bcrypt, net/http, strings
 * @refs api/routes.go
 */

package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/render"
	"golang.org/x/crypto/bcrypt"
)

// 不需要鉴权的路径前缀
var whitelistPaths = []string{
	"/",
	"/health",
	"/ready",
	"/metrics",
	"/swagger",
}

// APIKeyAuth API密钥鉴权中间件
// keyHash为bcrypt哈希后的密钥，为空时禁用鉴权
func APIKeyAuth(keyHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if keyHash == "" || isWhitelisted(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			key := extractKey(r)
			if key == "" || bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(key)) != nil {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, map[string]interface{}{
					"ok":    false,
					"error": "Unauthorized",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// APIKeyAuthFromEnv 从环境变量读取密钥哈希构建中间件
func APIKeyAuthFromEnv() func(http.Handler) http.Handler {
	return APIKeyAuth(os.Getenv("ML_API_KEY_HASH"))
}

// isWhitelisted 判断路径是否在鉴权白名单内
func isWhitelisted(path string) bool {
	for _, p := range whitelistPaths {
		if path == p || (p != "/" && strings.HasPrefix(path, p)) {
			return true
		}
	}
	return false
}

// extractKey 从Authorization头提取Bearer密钥
func extractKey(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
