package serverset

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// archivePaths is the fixed set of content-set paths included in a release
// archive, relative to the build directory.
var archivePaths = []string{
	"assignment-client/assets/files",
	"assignment-client/assets/map.json",
	"assignment-client/entities/models.json.gz",
	"assignment-client/content-version.txt",
	"domain-server/config.json",
}

const (
	archiveOwner = "hifi"
	archiveMode  = 0o644
)

// Package writes the release archive for a built content set. buildDir must
// contain every path in archivePaths and outputPath must end in .tar.gz.
func Package(buildDir, outputPath string) error {
	if !strings.HasSuffix(outputPath, ".tar.gz") {
		return fmt.Errorf("output %s must end in .tar.gz", outputPath)
	}
	buildDir, err := filepath.Abs(buildDir)
	if err != nil {
		return fmt.Errorf("resolving build dir: %w", err)
	}
	for _, rel := range archivePaths {
		if _, err := os.Stat(filepath.Join(buildDir, filepath.FromSlash(rel))); err != nil {
			return fmt.Errorf("build dir is missing %s: %w", rel, err)
		}
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	for _, rel := range archivePaths {
		if err := addPath(tw, buildDir, rel); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("finishing archive: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("finishing archive: %w", err)
	}
	return out.Close()
}

// addPath writes rel (a file or directory tree) from buildDir into the
// archive. Ownership is normalized so archives are reproducible across
// build hosts.
func addPath(tw *tar.Writer, buildDir, rel string) error {
	root := filepath.Join(buildDir, filepath.FromSlash(rel))
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		sub, err := filepath.Rel(buildDir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(sub)

		header := &tar.Header{
			Name:    name,
			ModTime: info.ModTime(),
			Uid:     0,
			Gid:     0,
			Uname:   archiveOwner,
			Gname:   archiveOwner,
		}
		switch {
		case entry.IsDir():
			header.Typeflag = tar.TypeDir
			header.Name += "/"
			header.Mode = 0o755
			return tw.WriteHeader(header)
		case info.Mode().IsRegular():
			header.Typeflag = tar.TypeReg
			header.Mode = archiveMode
			header.Size = info.Size()
			if err := tw.WriteHeader(header); err != nil {
				return err
			}
			file, err := os.Open(path)
			if err != nil {
				return err
			}
			defer file.Close()
			if _, err := io.Copy(tw, file); err != nil {
				return fmt.Errorf("archiving %s: %w", name, err)
			}
			return nil
		default:
			return fmt.Errorf("unsupported file type in archive: %s", name)
		}
	})
}
