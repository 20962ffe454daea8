package middleware

import "github.com/gin-gonic/gin"

// 上下文键，Handler 通过 c.Get 读取。
const (
	ContextUserID  = "userID"
	ContextIsAdmin = "isAdmin"
	ContextClaims  = "claims"
)

// Authenticator 抽象鉴权中间件：Handle 要求登录，Optional 在有凭证时注入身份。
type Authenticator interface {
	Handle() gin.HandlerFunc
	Optional() gin.HandlerFunc
}
