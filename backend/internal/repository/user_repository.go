package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/user"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository 封装用户相关的数据访问方法，基于 GORM 实现。
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储实例，接收共享的 *gorm.DB。
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UpsertByOpenID 以 openId 为键原子写入用户：首次登录插入，之后刷新名称、邮箱、登录方式与登录时间。
func (r *UserRepository) UpsertByOpenID(ctx context.Context, u *user.User) (*user.User, error) {
	if u == nil || u.OpenID == "" {
		return nil, errors.New("open id required")
	}
	if u.Role == "" {
		u.Role = user.RoleUser
	}
	if u.LastSignedIn.IsZero() {
		u.LastSignedIn = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "open_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "email", "login_method", "last_signed_in", "updated_at"}),
		}).
		Create(u).Error; err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return r.FindByOpenID(ctx, u.OpenID)
}

// FindByID 根据主键查找用户，包含已软删除用户。
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var u user.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByOpenID 通过外部身份标识查找用户，若不存在返回 gorm.ErrRecordNotFound。
func (r *UserRepository) FindByOpenID(ctx context.Context, openID string) (*user.User, error) {
	var u user.User
	if err := r.db.WithContext(ctx).Where("open_id = ?", openID).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile 更新资料字段。
func (r *UserRepository) UpdateProfile(ctx context.Context, userID uint, updates map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&user.User{}).
		Where("id = ? AND deleted_at IS NULL", userID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("update user profile: %w", result.Error)
	}
	return nil
}

// List 分页返回未删除的用户，按注册时间倒序。
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]user.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&user.User{}).Where("deleted_at IS NULL")
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	users := make([]user.User, 0)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Order("created_at DESC").Order("id DESC").Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// SetRole 修改用户角色。
func (r *UserRepository) SetRole(ctx context.Context, userID uint, role string) error {
	result := r.db.WithContext(ctx).
		Model(&user.User{}).
		Where("id = ? AND deleted_at IS NULL", userID).
		Update("role", role)
	if result.Error != nil {
		return fmt.Errorf("update user role: %w", result.Error)
	}
	return nil
}

// SoftDelete 写入删除时间；用户不存在或已删除时返回 gorm.ErrRecordNotFound。
func (r *UserRepository) SoftDelete(ctx context.Context, userID uint, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&user.User{}).
		Where("id = ? AND deleted_at IS NULL", userID).
		Update("deleted_at", at)
	if result.Error != nil {
		return fmt.Errorf("soft delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
