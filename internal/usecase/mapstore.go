package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

const (
	metadataDirName = "hgbridge"
	revMapFileName  = "hg2git"
	revMapFilePerm  = 0o644
	metadataDirPerm = 0o750
)

// revMapPath returns the path of the hg-to-git map file inside the git dir.
// The git-to-hg direction lives in git notes; this direction is keyed by
// mercurial ids, which git notes cannot address, so it is kept as a flat file.
func revMapPath(fs FileSystemPort, gitDir string) string {
	return fs.Join(gitDir, metadataDirName, revMapFileName)
}

func metadataDir(fs FileSystemPort, gitDir string) string {
	return fs.Join(gitDir, metadataDirName)
}

// loadRevMap reads the hg-to-git map file. A missing file is an empty map.
func loadRevMap(ctx context.Context, fs FileSystemPort, gitDir string) (map[string]string, error) {
	data, err := fs.ReadFile(ctx, revMapPath(fs, gitDir))
	if err != nil {
		if fs.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read revision map: %w", err)
	}

	result := map[string]string{}
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 || !isHexRev(fields[0]) || !isHexRev(fields[1]) {
			return nil, fmt.Errorf("revision map line %d is malformed", i+1)
		}
		result[fields[0]] = fields[1]
	}
	return result, nil
}

// saveRevMap writes the hg-to-git map file, one "hgrev gitrev" pair per line.
func saveRevMap(ctx context.Context, fs FileSystemPort, gitDir string, m map[string]string) error {
	if err := fs.CreateDir(ctx, metadataDir(fs, gitDir), metadataDirPerm); err != nil {
		return fmt.Errorf("create metadata dir: %w", err)
	}

	hgRevs := make([]string, 0, len(m))
	for hgRev := range m {
		hgRevs = append(hgRevs, hgRev)
	}
	sort.Strings(hgRevs)

	var b strings.Builder
	for _, hgRev := range hgRevs {
		b.WriteString(hgRev)
		b.WriteByte(' ')
		b.WriteString(m[hgRev])
		b.WriteByte('\n')
	}

	if err := fs.WriteFile(ctx, revMapPath(fs, gitDir), []byte(b.String()), revMapFilePerm); err != nil {
		return fmt.Errorf("write revision map: %w", err)
	}
	return nil
}

// isHexRev reports whether s is a full 40-char hex revision id.
func isHexRev(s string) bool {
	return len(s) == 40 && isLowerHex(s)
}

// isHexPrefix reports whether s is usable as an abbreviated revision id.
func isHexPrefix(s string) bool {
	return len(s) >= minRevPrefixLen && len(s) <= 40 && isLowerHex(s)
}

func isLowerHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		ok := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
		if !ok {
			return false
		}
	}
	return true
}
