package user

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/apperr"
	domain "github.com/LerianStudio/lerian-usa-site/backend/internal/domain/user"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	maxLinkedInLength = 500
	maxProfileLength  = 255
	defaultPageSize   = 20
	maxPageSize       = 100
)

// ErrUserNotFound 表示请求的用户不存在或已注销。
var ErrUserNotFound = apperr.NotFound("用户不存在")

// Service 负责用户身份同步、资料维护与后台管理。
type Service struct {
	users  *repository.UserRepository
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewService 构造用户服务层实例。
func NewService(users *repository.UserRepository, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{users: users, logger: logger, now: time.Now}
}

// Identity 是外部登录回调提供的身份信息。
type Identity struct {
	OpenID      string
	Name        *string
	Email       *string
	LoginMethod *string
	Admin       bool
}

// SyncIdentity 以 openId 为键写入或刷新用户；Admin 为真时提升为管理员。
func (s *Service) SyncIdentity(ctx context.Context, identity Identity) (*domain.User, error) {
	openID := strings.TrimSpace(identity.OpenID)
	if openID == "" {
		return nil, apperr.Validation("openId 不能为空")
	}
	u, err := s.users.UpsertByOpenID(ctx, &domain.User{
		OpenID:       openID,
		Name:         identity.Name,
		Email:        identity.Email,
		LoginMethod:  identity.LoginMethod,
		Role:         domain.RoleUser,
		LastSignedIn: s.now().UTC(),
	})
	if err != nil {
		return nil, apperr.Unavailable(err)
	}
	if identity.Admin && !u.IsAdmin() {
		if err := s.users.SetRole(ctx, u.ID, domain.RoleAdmin); err != nil {
			return nil, apperr.Unavailable(err)
		}
		u.Role = domain.RoleAdmin
	}
	return u, nil
}

// Me 返回当前用户资料，已注销视同不存在。
func (s *Service) Me(ctx context.Context, userID uint) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Unavailable(err)
	}
	if u.IsDeleted() {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// ProfileInput 描述资料更新字段：职位必填，公司与 LinkedIn 为 nil 时不修改。
type ProfileInput struct {
	JobTitle *string `json:"jobTitle" binding:"required"`
	Company  *string `json:"company"`
	LinkedIn *string `json:"linkedin"`
}

// UpdateProfile 更新职位、公司与 LinkedIn，职位不能为空；保存后资料即标记为已完善。
func (s *Service) UpdateProfile(ctx context.Context, userID uint, input ProfileInput) (*domain.User, error) {
	if _, err := s.Me(ctx, userID); err != nil {
		return nil, err
	}
	if input.JobTitle == nil || strings.TrimSpace(*input.JobTitle) == "" {
		return nil, apperr.Validation("jobTitle 不能为空")
	}
	jobTitle, err := trimmed("jobTitle", *input.JobTitle, maxProfileLength)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{"job_title": jobTitle}
	if input.Company != nil {
		value, err := trimmed("company", *input.Company, maxProfileLength)
		if err != nil {
			return nil, err
		}
		updates["company"] = value
	}
	if input.LinkedIn != nil {
		value, err := trimmed("linkedin", *input.LinkedIn, maxLinkedInLength)
		if err != nil {
			return nil, err
		}
		updates["linkedin"] = value
	}
	updates["profile_completed"] = true
	if err := s.users.UpdateProfile(ctx, userID, updates); err != nil {
		return nil, apperr.Unavailable(err)
	}
	return s.Me(ctx, userID)
}

// ListParams 描述后台用户列表的分页参数。
type ListParams struct {
	Page     int
	PageSize int
}

// ListResult 是后台用户列表。
type ListResult struct {
	Items    []domain.User
	Total    int64
	Page     int
	PageSize int
}

// List 返回未注销的用户。
func (s *Service) List(ctx context.Context, params ListParams) (ListResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize <= 0 {
		params.PageSize = defaultPageSize
	}
	if params.PageSize > maxPageSize {
		params.PageSize = maxPageSize
	}
	items, total, err := s.users.List(ctx, params.PageSize, (params.Page-1)*params.PageSize)
	if err != nil {
		return ListResult{}, apperr.Unavailable(err)
	}
	return ListResult{Items: items, Total: total, Page: params.Page, PageSize: params.PageSize}, nil
}

// SetRole 修改用户角色，管理员不能撤销自己的管理员身份。
func (s *Service) SetRole(ctx context.Context, actorID, userID uint, role string) (*domain.User, error) {
	role = strings.TrimSpace(role)
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return nil, apperr.Validation("role 只能为 user 或 admin")
	}
	if actorID == userID && role != domain.RoleAdmin {
		return nil, apperr.State("不能撤销自己的管理员身份")
	}
	if _, err := s.Me(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.users.SetRole(ctx, userID, role); err != nil {
		return nil, apperr.Unavailable(err)
	}
	s.logger.Infow("user role changed", "actor_id", actorID, "user_id", userID, "role", role)
	return s.Me(ctx, userID)
}

// SoftDelete 注销用户，保留其评论但不再展示名称。
func (s *Service) SoftDelete(ctx context.Context, actorID, userID uint) error {
	if actorID == userID {
		return apperr.State("不能删除自己的账号")
	}
	if err := s.users.SoftDelete(ctx, userID, s.now().UTC()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return apperr.Unavailable(err)
	}
	s.logger.Infow("user soft deleted", "actor_id", actorID, "user_id", userID)
	return nil
}

func trimmed(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) > max {
		return "", apperr.Validation("%s 不能超过 %d 个字符", field, max)
	}
	return value, nil
}
