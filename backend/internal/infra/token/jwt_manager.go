package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	domain "github.com/LerianStudio/lerian-usa-site/backend/internal/domain/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	claimRole    = "role"
	claimOpenID  = "open_id"
	claimTokenID = "jti"
)

var (
	// ErrTokenInvalid 令牌签名、格式或有效期不合法。
	ErrTokenInvalid = errors.New("token invalid")
	// ErrSecretMissing 未配置签名密钥。
	ErrSecretMissing = errors.New("jwt secret missing")
)

// Claims 是访问令牌解析后的身份信息。
type Claims struct {
	UserID    uint
	OpenID    string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// IsAdmin 判断令牌是否属于管理员。
func (c Claims) IsAdmin() bool {
	return c.Role == domain.RoleAdmin
}

// JWTManager 使用 HS256 对访问令牌签名与校验。
type JWTManager struct {
	secret    []byte
	accessTTL time.Duration
	now       func() time.Time
}

// NewJWTManager 创建管理器，ttl<=0 时默认 24 小时。
func NewJWTManager(secret string, accessTTL time.Duration) *JWTManager {
	if accessTTL <= 0 {
		accessTTL = 24 * time.Hour
	}
	return &JWTManager{secret: []byte(secret), accessTTL: accessTTL, now: time.Now}
}

// Issue 为用户签发访问令牌，返回令牌与过期时间。
func (m *JWTManager) Issue(user *domain.User) (string, time.Time, error) {
	if len(m.secret) == 0 {
		return "", time.Time{}, ErrSecretMissing
	}
	if user == nil || user.ID == 0 {
		return "", time.Time{}, errors.New("user is required")
	}
	now := m.now()
	expiresAt := now.Add(m.accessTTL)
	claims := jwt.MapClaims{
		"sub":        strconv.FormatUint(uint64(user.ID), 10),
		"iat":        now.Unix(),
		"exp":        expiresAt.Unix(),
		claimRole:    user.Role,
		claimOpenID:  user.OpenID,
		claimTokenID: uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse 校验签名与有效期并提取身份信息。
func (m *JWTManager) Parse(raw string) (Claims, error) {
	if len(m.secret) == 0 {
		return Claims{}, ErrSecretMissing
	}
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return Claims{}, ErrTokenInvalid
	}

	userID, err := subjectID(claims["sub"])
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	role, _ := claims[claimRole].(string)
	if role == "" {
		role = domain.RoleUser
	}
	openID, _ := claims[claimOpenID].(string)
	tokenID, _ := claims[claimTokenID].(string)

	var expiresAt time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}

	return Claims{
		UserID:    userID,
		OpenID:    openID,
		Role:      role,
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
	}, nil
}

func subjectID(raw any) (uint, error) {
	var subRaw string
	switch v := raw.(type) {
	case string:
		subRaw = v
	case float64:
		if v < 0 {
			return 0, errors.New("invalid subject")
		}
		subRaw = strconv.FormatFloat(v, 'f', 0, 64)
	case json.Number:
		subRaw = v.String()
	default:
		return 0, errors.New("missing subject")
	}
	id, err := strconv.ParseUint(subRaw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("parse subject %q", subRaw)
	}
	return uint(id), nil
}
