package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"skytone/config"

	logger "github.com/Bparsons0904/goLogger"
)

var ErrInvalidFileName = errors.New("invalid audio file name")

// AudioStoreService owns the on-disk audio directory. File names are
// validated on every path lookup so request input can never escape the
// directory.
type AudioStoreService struct {
	dir string
	log logger.Logger
}

type StoredAudio struct {
	Name    string
	Size    int64
	ModTime time.Time
}

func NewAudioStoreService(cfg config.Config) (*AudioStoreService, error) {
	log := logger.New("AudioStoreService")

	if err := os.MkdirAll(cfg.AudioDir, 0o755); err != nil {
		return nil, log.Err("failed to create audio directory", err, "dir", cfg.AudioDir)
	}

	log.Info("audio store initialized", "dir", cfg.AudioDir)

	return &AudioStoreService{
		dir: cfg.AudioDir,
		log: log,
	}, nil
}

// FileName builds the canonical audio file name for a track.
func (as *AudioStoreService) FileName(bgmID int, provider string) string {
	return fmt.Sprintf("bgm_%d_%s_%d.mp3", bgmID, provider, time.Now().UnixMilli())
}

func (as *AudioStoreService) Store(fileName string, data []byte) error {
	log := as.log.Function("Store")

	if err := validateAudioFileName(fileName); err != nil {
		return err
	}

	path := filepath.Join(as.dir, fileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return log.Err("failed to write audio file", err, "fileName", fileName)
	}

	log.Info("audio file stored", "fileName", fileName, "bytes", len(data))

	return nil
}

// Path resolves a stored file for serving. Returns ErrInvalidFileName
// for anything that is not a plain generated audio name, and
// os.ErrNotExist when the file is missing.
func (as *AudioStoreService) Path(fileName string) (string, error) {
	if err := validateAudioFileName(fileName); err != nil {
		return "", err
	}

	path := filepath.Join(as.dir, fileName)
	if _, err := os.Stat(path); err != nil {
		return "", err
	}

	return path, nil
}

func (as *AudioStoreService) List() ([]StoredAudio, error) {
	log := as.log.Function("List")

	entries, err := os.ReadDir(as.dir)
	if err != nil {
		return nil, log.Err("failed to read audio directory", err, "dir", as.dir)
	}

	files := make([]StoredAudio, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".mp3") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			log.Warn("failed to stat audio file", "fileName", entry.Name(), "error", err)
			continue
		}

		files = append(files, StoredAudio{
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	return files, nil
}

func (as *AudioStoreService) Remove(fileName string) error {
	log := as.log.Function("Remove")

	if err := validateAudioFileName(fileName); err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(as.dir, fileName)); err != nil {
		return log.Err("failed to remove audio file", err, "fileName", fileName)
	}

	log.Info("audio file removed", "fileName", fileName)

	return nil
}

func validateAudioFileName(fileName string) error {
	if fileName == "" ||
		strings.Contains(fileName, "/") ||
		strings.Contains(fileName, "\\") ||
		strings.Contains(fileName, "..") ||
		!strings.HasSuffix(fileName, ".mp3") {
		return fmt.Errorf("%w: %q", ErrInvalidFileName, fileName)
	}
	return nil
}
