package fs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// AuthFSStore: файловое хранилище токена и последнего логина для CLI.
type AuthFSStore struct{}

func configDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, "Planzo")
	if err := os.MkdirAll(p, 0o700); err != nil {
		return "", err
	}
	return p, nil
}

func tokenPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "auth_token"), nil
}

func lastLoginPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "last_login"), nil
}

// Save сохраняет auth‑токен в файл.
func (AuthFSStore) Save(token string) error {
	p, err := tokenPath()
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(token), 0o600)
}

// Load читает auth‑токен из файла.
func (AuthFSStore) Load() (string, error) {
	p, err := tokenPath()
	if err != nil {
		return "", err
	}
	return readTrimmed(p, "empty token file")
}

// Clear удаляет токен и логин. Отсутствие файлов ошибкой не считается.
func (AuthFSStore) Clear() error {
	for _, pathFn := range []func() (string, error){tokenPath, lastLoginPath} {
		p, err := pathFn()
		if err != nil {
			return err
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// SaveLogin сохраняет логин пользователя в файл.
func (AuthFSStore) SaveLogin(login string) error {
	if login == "" {
		return errors.New("empty login")
	}
	p, err := lastLoginPath()
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(login), 0o600)
}

// LoadLogin читает логин пользователя из файла.
func (AuthFSStore) LoadLogin() (string, error) {
	p, err := lastLoginPath()
	if err != nil {
		return "", err
	}
	return readTrimmed(p, "no stored login")
}

// readTrimmed читает файл, обрезая завершающие переводы строки/пробелы.
func readTrimmed(p, emptyMsg string) (string, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	s := strings.TrimRight(string(b), "\r\n\t ")
	if s == "" {
		return "", errors.New(emptyMsg)
	}
	return s, nil
}
