// Package storage guarda los comprobantes de pago en el disco local.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/produksi-api/internal/application/ports"
	"github.com/jhoicas/produksi-api/internal/domain"
)

var _ ports.FileStore = (*LocalFileStore)(nil)

// Extensiones aceptadas para comprobantes.
var allowedExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".pdf": true}

// LocalFileStore escribe cada archivo con un nombre UUID bajo dir.
type LocalFileStore struct {
	dir      string
	maxBytes int64
}

// NewLocalFileStore crea el directorio si no existe.
func NewLocalFileStore(dir string, maxBytes int64) (*LocalFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: crear %s: %w", dir, err)
	}
	return &LocalFileStore{dir: dir, maxBytes: maxBytes}, nil
}

// Save copia r a disco y devuelve la referencia relativa (nombre del archivo).
// Archivos con extensión no permitida o que superan maxBytes son un error de validación.
func (s *LocalFileStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", domain.NewValidationError("payment_proof", "formato no permitido (jpg, png o pdf)")
	}

	ref := uuid.New().String() + ext
	path := filepath.Join(s.dir, ref)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("storage: crear archivo: %w", err)
	}

	limit := s.maxBytes
	if limit <= 0 {
		limit = 5 << 20
	}
	n, err := io.Copy(f, io.LimitReader(r, limit+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("storage: escribir archivo: %w", err)
	}
	if n > limit {
		_ = os.Remove(path)
		return "", domain.NewValidationError("payment_proof", fmt.Sprintf("el archivo supera %d bytes", limit))
	}
	return ref, nil
}

// Path ruta absoluta de una referencia devuelta por Save; vacío si la referencia no es válida.
func (s *LocalFileStore) Path(ref string) string {
	if ref == "" || ref != filepath.Base(ref) {
		return ""
	}
	return filepath.Join(s.dir, ref)
}

// Remove borra el archivo de una referencia; una referencia inexistente no es error.
func (s *LocalFileStore) Remove(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := s.Path(ref)
	if path == "" {
		return domain.NewValidationError("payment_proof", "referencia inválida")
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: borrar archivo: %w", err)
	}
	return nil
}
