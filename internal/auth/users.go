package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/infrastructure/kvstore"
	"github.com/example/storefront/internal/store"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Directory manages the registered-user list persisted in the key-value
// store, plus the current session snapshot. A configured master admin
// credential pair is checked before the directory and never persisted.
type Directory struct {
	mu  sync.Mutex
	kv  kvstore.Store
	log *zap.Logger

	adminEmail    string
	adminPassword string
}

type DirectoryOption func(*Directory)

// WithMasterAdmin enables the built-in admin login.
func WithMasterAdmin(email, password string) DirectoryOption {
	return func(d *Directory) {
		d.adminEmail = strings.ToLower(strings.TrimSpace(email))
		d.adminPassword = password
	}
}

func WithDirectoryLogger(log *zap.Logger) DirectoryOption {
	return func(d *Directory) {
		d.log = log
	}
}

func NewDirectory(kv kvstore.Store, opts ...DirectoryOption) *Directory {
	d := &Directory{
		kv:  kv,
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Register creates a new user account. Emails are unique across the
// directory, case-insensitively.
func (d *Directory) Register(ctx context.Context, name, email, password string) (*store.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidCredentials
	}
	if email == d.adminEmail {
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	users := d.load(ctx)
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return nil, ErrEmailTaken
		}
	}

	user := store.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         RoleUser,
	}
	users = append(users, user)

	if err := d.persist(ctx, users); err != nil {
		return nil, err
	}

	d.log.Info("user registered", zap.String("user_id", user.ID))
	return scrub(user), nil
}

// Authenticate checks credentials against the master admin pair first,
// then the registered-user directory.
func (d *Directory) Authenticate(ctx context.Context, email, password string) (*store.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if d.adminEmail != "" && email == d.adminEmail {
		if password != d.adminPassword {
			return nil, ErrInvalidCredentials
		}
		return &store.User{
			ID:    "master-admin",
			Name:  "Store Admin",
			Email: d.adminEmail,
			Role:  RoleAdmin,
		}, nil
	}

	d.mu.Lock()
	users := d.load(ctx)
	d.mu.Unlock()

	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			if !CheckPassword(password, u.PasswordHash) {
				return nil, ErrInvalidCredentials
			}
			return scrub(u), nil
		}
	}

	return nil, ErrInvalidCredentials
}

// SetSession stores the signed-in user snapshot; a nil user clears it.
func (d *Directory) SetSession(ctx context.Context, user *store.User) error {
	if user == nil {
		return d.kv.Set(ctx, store.KeySession, "null")
	}
	data, err := json.Marshal(scrub(*user))
	if err != nil {
		return err
	}
	return d.kv.Set(ctx, store.KeySession, string(data))
}

// Session returns the stored session snapshot, or nil when signed out.
func (d *Directory) Session(ctx context.Context) (*store.User, error) {
	raw, ok, err := d.kv.Get(ctx, store.KeySession)
	if err != nil || !ok {
		return nil, err
	}

	var user *store.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		d.log.Warn("stored session is unreadable, treating as signed out", zap.Error(err))
		return nil, nil
	}
	return user, nil
}

func (d *Directory) load(ctx context.Context) []store.User {
	raw, ok, err := d.kv.Get(ctx, store.KeyUsers)
	if err != nil || !ok {
		return nil
	}

	var users []store.User
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		d.log.Warn("registered users record is unreadable", zap.Error(err))
		return nil
	}
	return users
}

func (d *Directory) persist(ctx context.Context, users []store.User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return err
	}
	if err := d.kv.Set(ctx, store.KeyUsers, string(data)); err != nil {
		return fmt.Errorf("%w: %v", store.ErrPersistence, err)
	}
	return nil
}

func scrub(u store.User) *store.User {
	u.PasswordHash = ""
	return &u
}
