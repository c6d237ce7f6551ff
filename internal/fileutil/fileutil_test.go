package fileutil_test

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"bakeset/internal/fileutil"
)

func TestCopyFileVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	payload := []byte("serverless content payload")
	if err := os.WriteFile(src, payload, 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	if err := fileutil.CopyFileVerified(src, dst); err != nil {
		t.Fatalf("CopyFileVerified returned error: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("payload mismatch: %q", got)
	}
}

func TestCopyFileVerifiedMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := fileutil.CopyFileVerified(filepath.Join(dir, "absent"), filepath.Join(dir, "dst"))
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestCopyFileToCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "texture.png")
	if err := os.WriteFile(src, []byte{0x89, 'P', 'N', 'G'}, 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	dst, err := fileutil.CopyFileTo(src, filepath.Join(dir, "out", "original", "textures"))
	if err != nil {
		t.Fatalf("CopyFileTo returned error: %v", err)
	}
	if filepath.Base(dst) != "texture.png" {
		t.Fatalf("unexpected destination name: %q", dst)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("expected destination to exist: %v", err)
	}
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.js")
	payload := []byte("print('hello')")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	sum := sha256.Sum256(payload)
	want := hex.EncodeToString(sum[:])

	got, err := fileutil.HashFile(path)
	if err != nil {
		t.Fatalf("HashFile returned error: %v", err)
	}
	if got != want {
		t.Fatalf("hash mismatch: got %s want %s", got, want)
	}
}
