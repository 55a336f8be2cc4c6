package models

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"
)

// FileStamp identifies one version of a file on disk.
type FileStamp struct {
	Path    string
	ModTime time.Time
	Size    int64
	Hash    string
}

func StampFile(path string) (FileStamp, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return FileStamp{}, fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	hash, err := hashFile(path)
	if err != nil {
		return FileStamp{}, fmt.Errorf("failed to hash file %s: %w", path, err)
	}
	return FileStamp{Path: path, ModTime: stat.ModTime(), Size: stat.Size(), Hash: hash}, nil
}

// Current reports whether the file still has the stamped content. A changed
// modification time alone is not enough: the content is rehashed and, when
// unchanged, the stamp is refreshed.
func (s *FileStamp) Current() (bool, error) {
	stat, err := os.Stat(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat file %s: %w", s.Path, err)
	}
	if stat.Size() != s.Size {
		return false, nil
	}
	if stat.ModTime().Equal(s.ModTime) {
		return true, nil
	}

	hash, err := hashFile(s.Path)
	if err != nil {
		return false, fmt.Errorf("failed to hash file %s: %w", s.Path, err)
	}
	if hash != s.Hash {
		return false, nil
	}
	s.ModTime = stat.ModTime()
	return true, nil
}

type CacheEntry struct {
	Stamp     FileStamp
	Parsed    *ParsedFile
	CreatedAt time.Time
}

func NewCacheEntry(parsed *ParsedFile) (*CacheEntry, error) {
	stamp, err := StampFile(parsed.Path)
	if err != nil {
		return nil, err
	}
	return &CacheEntry{Stamp: stamp, Parsed: parsed, CreatedAt: time.Now()}, nil
}

func hashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	h := md5.New()
	if _, err := io.Copy(h, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
