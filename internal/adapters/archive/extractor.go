// Package archive extracts runtime distributions packaged as zip or tar archives.
package archive

import (
	"archive/tar"
	"archive/zip"
	"context"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"go.trai.ch/jman/internal/core/domain"
	"go.trai.ch/jman/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Archiver = (*Extractor)(nil)

type format int

const (
	formatUnknown format = iota
	formatZip
	formatTarGz
	formatTar
)

// Extractor implements ports.Archiver for .zip, .tar.gz, .tgz and .tar files.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

func detect(path string) format {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return formatZip
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return formatTarGz
	case strings.HasSuffix(lower, ".tar"):
		return formatTar
	default:
		return formatUnknown
	}
}

// Supported reports whether the archive at path has a recognized extension.
func Supported(path string) bool {
	return detect(path) != formatUnknown
}

// Extract unpacks archivePath into destDir.
func (e *Extractor) Extract(ctx context.Context, archivePath, destDir string) error {
	kind := detect(archivePath)
	if kind == formatUnknown {
		return zerr.With(zerr.Wrap(domain.ErrUnsupportedFormat, filepath.Base(archivePath)), "path", archivePath)
	}

	if err := os.MkdirAll(destDir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "dest", destDir)
	}

	var err error
	switch kind {
	case formatZip:
		err = extractZip(ctx, archivePath, destDir)
	case formatTarGz:
		err = extractTarGz(ctx, archivePath, destDir)
	case formatTar:
		err = extractTarFile(ctx, archivePath, destDir)
	}
	if err != nil {
		if errors.Is(err, domain.ErrUnsafeArchivePath) || errors.Is(err, context.Canceled) ||
			errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "path", archivePath)
	}
	return nil
}

// safeJoin resolves name below dest and rejects entries that escape it.
func safeJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(name) {
		return "", zerr.With(zerr.Wrap(domain.ErrUnsafeArchivePath, name), "entry", name)
	}
	return target, nil
}

// checkLink rejects symlinks whose target resolves outside dest.
func checkLink(dest, linkPath, linkTarget string) error {
	if filepath.IsAbs(linkTarget) {
		return zerr.With(zerr.Wrap(domain.ErrUnsafeArchivePath, linkTarget), "link", linkPath)
	}
	resolved := filepath.Join(filepath.Dir(linkPath), filepath.FromSlash(linkTarget))
	rel, err := filepath.Rel(dest, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return zerr.With(zerr.Wrap(domain.ErrUnsafeArchivePath, linkTarget), "link", linkPath)
	}
	return nil
}

func extractZip(ctx context.Context, archivePath, dest string) error {
	r, err := zip.OpenReader(archivePath)
	if errors.Is(err, zip.ErrInsecurePath) {
		_ = r.Close()
		return zerr.Wrap(domain.ErrUnsafeArchivePath, filepath.Base(archivePath))
	}
	if err != nil {
		return err
	}
	defer r.Close() //nolint:errcheck // Read-only archive

	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		target, err := safeJoin(dest, f.Name)
		if err != nil {
			return err
		}

		mode := f.Mode()
		switch {
		case mode.IsDir():
			if err := os.MkdirAll(target, domain.DirPerm); err != nil {
				return err
			}
		case mode&iofs.ModeSymlink != 0:
			link, err := readZipLink(f)
			if err != nil {
				return err
			}
			if err := writeSymlink(dest, target, link); err != nil {
				return err
			}
		default:
			rc, err := f.Open()
			if err != nil {
				return err
			}
			err = writeFile(target, rc, mode.Perm())
			_ = rc.Close()
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func readZipLink(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close() //nolint:errcheck // Read-only entry

	b, err := io.ReadAll(io.LimitReader(rc, 4096))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func extractTarGz(ctx context.Context, archivePath, dest string) error {
	f, err := os.Open(archivePath) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck // Read-only handle

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close() //nolint:errcheck // Read-only stream

	return extractTar(ctx, tar.NewReader(gz), dest)
}

func extractTarFile(ctx context.Context, archivePath, dest string) error {
	f, err := os.Open(archivePath) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck // Read-only handle

	return extractTar(ctx, tar.NewReader(f), dest)
}

func extractTar(ctx context.Context, tr *tar.Reader, dest string) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if errors.Is(err, tar.ErrInsecurePath) {
			return zerr.With(zerr.Wrap(domain.ErrUnsafeArchivePath, hdr.Name), "entry", hdr.Name)
		}
		if err != nil {
			return err
		}

		target, err := safeJoin(dest, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, domain.DirPerm); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(target, tr, iofs.FileMode(hdr.Mode).Perm()); err != nil { //nolint:gosec // Mode bits only
				return err
			}
		case tar.TypeSymlink:
			if err := writeSymlink(dest, target, hdr.Linkname); err != nil {
				return err
			}
		case tar.TypeLink:
			source, err := safeJoin(dest, hdr.Linkname)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
				return err
			}
			if err := os.Link(source, target); err != nil {
				return err
			}
		default:
			// Devices, fifos and pax metadata never appear in runtime payloads.
		}
	}
}

func writeFile(target string, r io.Reader, perm iofs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return err
	}
	if perm == 0 {
		perm = domain.FilePerm
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm) //nolint:gosec // Target validated by safeJoin
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil { //nolint:gosec // Decompressed size is not capped
		_ = out.Close()
		return err
	}
	return out.Close()
}

func writeSymlink(dest, target, link string) error {
	if err := checkLink(dest, target, link); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return err
	}
	return os.Symlink(link, target)
}
