package processor

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nguyentantai21042004/meeting-assistant/internal/domain"
)

// loadFile reads a local file into an UploadedFile, declaring its MIME type
// from the extension when one is known.
func loadFile(path string) (domain.UploadedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.UploadedFile{}, err
	}

	ext := filepath.Ext(path)
	declared := mime.TypeByExtension(ext)
	if declared == "" {
		declared = domain.NormalizeExt(ext)
	}

	return domain.UploadedFile{
		Name:         filepath.Base(path),
		DeclaredType: declared,
		Bytes:        data,
	}, nil
}

// listAgendaDir returns the regular files in dir sorted by name. A missing dir yields none.
func listAgendaDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}

	sort.Strings(files)
	return files, nil
}
