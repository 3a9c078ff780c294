package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// PurposePasswordReset 重置密码Token用途
const PurposePasswordReset = "password_reset"

// Identity Token中携带的身份信息
type Identity struct {
	UserID uint   `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// JWTClaims JWT声明
type JWTClaims struct {
	Identity
	Purpose string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager JWT管理器
type JWTManager struct {
	secretKey  []byte
	algorithm  jwt.SigningMethod
	expireTime time.Duration
}

// NewJWTManager 创建JWT管理器
func NewJWTManager(secretKey string, algorithm string, expireTime time.Duration) *JWTManager {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		method = jwt.SigningMethodHS256
	}
	return &JWTManager{
		secretKey:  []byte(secretKey),
		algorithm:  method,
		expireTime: expireTime,
	}
}

// DefaultTTL 默认登录Token有效期
func (j *JWTManager) DefaultTTL() time.Duration {
	return j.expireTime
}

// IssueToken 签发登录Token，ttl<=0 时使用默认有效期
func (j *JWTManager) IssueToken(identity Identity, ttl time.Duration) (string, error) {
	return j.issue(JWTClaims{Identity: identity}, ttl)
}

// IssueResetToken 签发重置密码Token，jti 用于一次性校验
func (j *JWTManager) IssueResetToken(identity Identity, tokenID string, ttl time.Duration) (string, error) {
	claims := JWTClaims{Identity: identity, Purpose: PurposePasswordReset}
	claims.ID = tokenID
	return j.issue(claims, ttl)
}

func (j *JWTManager) issue(claims JWTClaims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = j.expireTime
	}
	now := time.Now()
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.NotBefore = jwt.NewNumericDate(now)

	token := jwt.NewWithClaims(j.algorithm, claims)
	return token.SignedString(j.secretKey)
}

// VerifyToken 验证Token，过期、签名不符或算法不符时返回错误
func (j *JWTManager) VerifyToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != j.algorithm.Alg() {
			return nil, errors.New("无效的签名算法")
		}
		return j.secretKey, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("无效的Token")
}

// VerifyResetToken 验证重置密码Token
func (j *JWTManager) VerifyResetToken(tokenString string) (*JWTClaims, error) {
	claims, err := j.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != PurposePasswordReset || claims.ID == "" {
		return nil, errors.New("不是重置密码Token")
	}
	return claims, nil
}
