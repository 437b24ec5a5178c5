package repo

import "Planzo/internal/cli/repo/fs"

// TokenStore описывает абстракцию хранилища auth-токена на клиенте.
type TokenStore interface {
	Save(token string) error
	Load() (string, error)
	Clear() error
}

var _ TokenStore = fs.AuthFSStore{}
