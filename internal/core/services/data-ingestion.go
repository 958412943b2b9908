package services

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"wine-quality-service/internal/core/domain"
	ports "wine-quality-service/internal/core/ports/output"
)

type DataIngestion struct {
	config  domain.DataIngestionConfig
	fetcher ports.Fetcher
}

func NewDataIngestion(config domain.DataIngestionConfig, fetcher ports.Fetcher) *DataIngestion {
	return &DataIngestion{config: config, fetcher: fetcher}
}

// DownloadFile fetches the source archive unless it is already on disk.
func (d *DataIngestion) DownloadFile(ctx context.Context) error {
	if info, err := os.Stat(d.config.LocalDataFile); err == nil {
		log.WithField("path", d.config.LocalDataFile).Infof("file already exists of size: %d", info.Size())
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(d.config.LocalDataFile), 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}

	// Write to a temp file so a failed download never looks like a cached archive.
	tmp, err := os.CreateTemp(filepath.Dir(d.config.LocalDataFile), ".download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := d.fetcher.Fetch(ctx, d.config.SourceURL, tmp)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("download %s: %w", d.config.SourceURL, err)
	}

	if err := os.Rename(tmp.Name(), d.config.LocalDataFile); err != nil {
		return fmt.Errorf("store archive: %w", err)
	}

	log.WithFields(log.Fields{
		"url":   d.config.SourceURL,
		"path":  d.config.LocalDataFile,
		"bytes": n,
	}).Info("dataset downloaded")
	return nil
}

// ExtractZipFile unpacks the archive into the unzip directory, overwriting
// files that already exist.
func (d *DataIngestion) ExtractZipFile() error {
	unzipDir := d.config.UnzipDir
	if err := os.MkdirAll(unzipDir, 0o755); err != nil {
		return fmt.Errorf("create unzip dir: %w", err)
	}

	r, err := zip.OpenReader(d.config.LocalDataFile)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer r.Close()

	root := filepath.Clean(unzipDir) + string(os.PathSeparator)
	for _, f := range r.File {
		target := filepath.Join(unzipDir, f.Name)
		if !strings.HasPrefix(target, root) {
			return fmt.Errorf("%s: %w", f.Name, domain.ErrUnsafeArchivePath)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", f.Name, err)
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}

	log.WithFields(log.Fields{
		"archive": d.config.LocalDataFile,
		"dir":     unzipDir,
		"entries": len(r.File),
	}).Info("archive extracted")
	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(target), err)
	}

	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("open entry %s: %w", f.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("extract %s: %w", f.Name, err)
	}
	return dst.Close()
}
