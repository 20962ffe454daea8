package user

import "time"

const (
	// RoleUser 普通社区成员。
	RoleUser = "user"
	// RoleAdmin 后台管理员。
	RoleAdmin = "admin"
)

// User 社区用户，身份来自外部 OAuth 的 openId，删除时只写 DeletedAt。
type User struct {
	ID               uint       `gorm:"primaryKey" json:"id"`                           // 自增主键
	OpenID           string     `gorm:"size:64;not null;uniqueIndex" json:"openId"`     // 外部身份标识（唯一）
	Name             *string    `gorm:"type:text" json:"name"`                          // 展示名称，可为空
	Email            *string    `gorm:"size:320" json:"email"`                          // 邮箱，可为空
	LoginMethod      *string    `gorm:"size:64" json:"loginMethod"`                     // 登录方式
	Role             string     `gorm:"size:16;not null;default:'user'" json:"role"`    // 角色：user/admin
	JobTitle         *string    `gorm:"size:255" json:"jobTitle"`                       // 职位
	Company          *string    `gorm:"size:255" json:"company"`                        // 公司
	LinkedIn         *string    `gorm:"column:linkedin;size:500" json:"linkedin"`       // LinkedIn 主页
	ProfileCompleted bool       `gorm:"not null;default:false" json:"profileCompleted"` // 资料是否完善
	LastSignedIn     time.Time  `json:"lastSignedIn"`                                   // 最近登录时间
	DeletedAt        *time.Time `gorm:"index" json:"deletedAt,omitempty"`               // 软删除时间
	CreatedAt        time.Time  `gorm:"index" json:"createdAt"`                         // 注册时间
	UpdatedAt        time.Time  `json:"updatedAt"`                                      // 更新时间
}

// TableName 返回用户表名。
func (User) TableName() string {
	return "users"
}

// IsAdmin 判断用户是否为管理员。
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// IsDeleted 判断用户是否已被软删除。
func (u *User) IsDeleted() bool {
	return u != nil && u.DeletedAt != nil
}

// DisplayName 返回展示名称，未填写时为空字符串。
func (u *User) DisplayName() string {
	if u == nil || u.Name == nil {
		return ""
	}
	return *u.Name
}
