// Package iofs manages hsrc directories on the local file system: the
// configuration and log directories under the home directory and
// per-user workspaces where reference files are read and resource files
// are written.
package iofs

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gnames/hsrc/pkg/config"
	"github.com/gnames/hsrc/pkg/templates"
)

// AnonymousUser is the workspace of requests without a user.
const AnonymousUser = "anonymous"

// EnsureDirs creates configuration, log and workspace root directories.
func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.LogDir(homeDir),
		config.WorkspaceDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

// EnsureConfigFile writes the default config.yaml unless the file
// already exists.
func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	err := os.WriteFile(configPath, []byte(templates.ConfigYAML), 0644)
	if err != nil {
		return CopyFileError(configPath, err)
	}

	return nil
}

// UserDir returns the workspace of a user under root and creates it if
// needed. The user name is reduced to its base name, so it cannot point
// outside of root.
func UserDir(root, user string) (string, error) {
	user = filepath.Base(filepath.Clean(strings.TrimSpace(user)))
	switch user {
	case "", ".", "..", string(filepath.Separator):
		user = AnonymousUser
	}

	dir := filepath.Join(root, user)
	if err := touchDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// InputPath resolves the path of a reference file. Absolute paths are
// returned as is. A relative path is looked up in the user directory
// first, then relative to the working directory.
func InputPath(userDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	inUser := filepath.Join(userDir, path)
	if _, err := os.Stat(inUser); err == nil {
		return inUser
	}
	return path
}

// OutputPath returns the path of an artifact in the user directory.
func OutputPath(userDir, name, ext string) string {
	return filepath.Join(userDir, name+ext)
}

// ReadFile reads a whole file.
func ReadFile(path string) ([]byte, error) {
	res, err := os.ReadFile(path)
	if err != nil {
		return nil, ReadFileError(path, err)
	}
	return res, nil
}

// WriteFile writes data to path, replacing an existing file.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return WriteFileError(path, err)
	}
	return nil
}

// Exists reports whether a file or directory exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
