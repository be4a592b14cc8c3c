// Package storage menyimpan file upload (foto profil, foto pertemuan,
// lampiran pengumuman) ke filesystem lokal atau bucket S3-compatible.
// Yang disimpan di DB hanya object key; URL publik dibentuk saat response.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
)

type Driver string

const (
	DriverFS     Driver = "fs"
	DriverS3     Driver = "s3"
	DriverMemory Driver = "memory"
)

var ErrNotFound = errors.New("object tidak ditemukan")

type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
	Driver() Driver
}

// Config dibaca dari env oleh NewFromEnv.
type Config struct {
	Driver    string
	Root      string // fs
	PublicURL string // prefix URL publik (fs: APP_URL/storage)
	S3        S3Config
}

func New(ctx context.Context, cfg Config) (Store, error) {
	switch Driver(strings.ToLower(strings.TrimSpace(cfg.Driver))) {
	case "", DriverFS:
		return NewFSStore(cfg.Root, cfg.PublicURL)
	case DriverS3:
		return NewS3Store(ctx, cfg.S3)
	case DriverMemory:
		return NewMemoryStore(cfg.PublicURL), nil
	default:
		return nil, fmt.Errorf("storage driver tidak dikenal: %q", cfg.Driver)
	}
}

// DeleteQuietly dipakai setelah commit: gagal hapus file cukup di-log.
func DeleteQuietly(ctx context.Context, s Store, keys ...string) {
	if s == nil {
		return
	}
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if err := s.Delete(ctx, k); err != nil && !errors.Is(err, ErrNotFound) {
			log.Printf("[WARN] gagal hapus file %s: %v", k, err)
		}
	}
}

// URLOrEmpty: key kosong → "" (untuk field opsional di DTO).
func URLOrEmpty(s Store, key string) string {
	if s == nil || strings.TrimSpace(key) == "" {
		return ""
	}
	return s.URL(key)
}

func cleanKey(key string) (string, error) {
	k := strings.TrimLeft(strings.ReplaceAll(key, "\\", "/"), "/")
	if k == "" {
		return "", errors.New("key kosong")
	}
	for _, part := range strings.Split(k, "/") {
		if part == ".." {
			return "", fmt.Errorf("key tidak valid: %q", key)
		}
	}
	return k, nil
}

func joinURL(base, key string) string {
	base = strings.TrimRight(base, "/")
	if base == "" {
		return "/" + key
	}
	return base + "/" + key
}
