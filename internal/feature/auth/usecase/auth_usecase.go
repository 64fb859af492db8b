// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parking_control/internal/feature/auth/domain/entity"

	"golang.org/x/crypto/bcrypt"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8
	// maxPasswordLength はbcryptが扱える最大バイト数です。
	maxPasswordLength = 72
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをロールと共にストレージに永続化します。
	// 同じユーザー名のユーザーが既に存在する場合、ErrUsernameAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByUsername は指定されたユーザー名に一致するユーザーをロール付きで取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
}

// RoleRepository はロールの永続化層を抽象化します。
type RoleRepository interface {
	// FindOrCreate は指定された名前のロールを取得し、存在しなければ作成します。
	FindOrCreate(ctx context.Context, name entity.RoleName) (*entity.Role, error)
}

// JWTGenerator はJWTトークン生成のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type JWTGenerator interface {
	// GenerateToken は指定されたユーザーの署名済みJWTトークンを生成します。
	GenerateToken(userID uint, username string, roles []string) (string, error)
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users        UserRepository
	roles        RoleRepository
	blocklist    TokenBlocklist
	jwtGenerator JWTGenerator
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, roles RoleRepository, blocklist TokenBlocklist, jwtGenerator JWTGenerator) *authUsecase {
	return &authUsecase{
		users:        users,
		roles:        roles,
		blocklist:    blocklist,
		jwtGenerator: jwtGenerator,
	}
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters long", ErrWeakPassword, minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("%w: must be at most %d bytes long", ErrWeakPassword, maxPasswordLength)
	}
	return nil
}

// resolveRoles はロール名をストレージ上のロールに解決します。
func (u *authUsecase) resolveRoles(ctx context.Context, names ...entity.RoleName) ([]entity.Role, error) {
	roles := make([]entity.Role, 0, len(names))
	for _, name := range names {
		role, err := u.roles.FindOrCreate(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve role %s: %w", name, err)
		}
		roles = append(roles, *role)
	}
	return roles, nil
}

// createUser はパスワードをハッシュ化し、指定ロールでユーザーを作成します。
func (u *authUsecase) createUser(ctx context.Context, username, password string, roleNames ...entity.RoleName) error {
	if err := validatePassword(password); err != nil {
		return err
	}

	roles, err := u.resolveRoles(ctx, roleNames...)
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user := &entity.User{Username: username, Password: string(hashed), Roles: roles}
	return u.users.Create(ctx, user)
}

// Signup はハッシュ化されたパスワードで新規ユーザーを登録します。
// セルフサインアップのユーザーには常にROLE_USERのみが付与されます。
func (u *authUsecase) Signup(ctx context.Context, username, password string) error {
	return u.createUser(ctx, username, password, entity.RoleUser)
}

// Login はユーザーを認証し、成功時にJWTトークンを返します。
// ユーザー名とパスワードを検証し、ロールを含む署名済みJWTトークンを生成します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, username, password string) (string, error) {
	user, err := u.users.FindByUsername(ctx, username)

	// ユーザーが存在しない場合のタイミング攻撃緩和用ダミーハッシュ
	passwordHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy" // ダミーハッシュ
	if err == nil {
		passwordHash = user.Password
	}

	// 第1引数はハッシュ化パスワード、第2引数は平文パスワード
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return "", fmt.Errorf("failed to find user: %w", err)
	}
	// ユーザー未検出またはパスワード不一致の場合、汎用エラーを返す
	if err != nil || compareErr != nil {
		return "", ErrInvalidCredentials
	}

	token, tokenErr := u.jwtGenerator.GenerateToken(user.ID, user.Username, user.Authorities())
	if tokenErr != nil {
		return "", fmt.Errorf("failed to generate token: %w", tokenErr)
	}

	return token, nil
}

// Logout はアクセストークンを有効期限までブロックリストに登録します。
func (u *authUsecase) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return ErrTokenNotRevocable
	}
	if err := u.blocklist.Revoke(ctx, tokenID, expiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// SeedRoles はすべてのロールがストレージに存在することを保証します。
func (u *authUsecase) SeedRoles(ctx context.Context) error {
	_, err := u.resolveRoles(ctx, entity.AllRoleNames()...)
	return err
}

// EnsureAdmin は管理者ユーザーが存在しない場合に作成します。
// ユーザー名かパスワードが空の場合は何もしません。作成した場合はtrueを返します。
func (u *authUsecase) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}

	_, err := u.users.FindByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return false, fmt.Errorf("failed to look up admin user: %w", err)
	}

	if err := u.createUser(ctx, username, password, entity.RoleAdmin, entity.RoleUser); err != nil {
		return false, fmt.Errorf("failed to create admin user: %w", err)
	}
	return true, nil
}
