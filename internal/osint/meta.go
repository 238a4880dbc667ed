// Package osint extracts file metadata useful in investigations: size,
// type, content hashes and, for photos, EXIF camera and GPS details.
package osint

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/nexus-forensics/nexus/internal/detectors"
)

// DefaultMIME is reported when neither the extension nor the content
// identifies the file.
const DefaultMIME = "application/octet-stream"

const sniffLen = 512

type Hashes struct {
	MD5    string `json:"md5"`
	SHA1   string `json:"sha1"`
	SHA256 string `json:"sha256"`
	XXH64  string `json:"xxh64"`
}

// GPS is a decimal-degree position. Alt is metres, negative below sea level.
type GPS struct {
	Lat float64  `json:"lat"`
	Lon float64  `json:"lon"`
	Alt *float64 `json:"alt"`
}

// Meta is everything ExtractMeta learns about one file.
type Meta struct {
	File      string   `json:"file"`
	SizeBytes int64    `json:"file_size_bytes"`
	MIME      string   `json:"file_mime"`
	Hashes    Hashes   `json:"hashes"`
	Metadata  Exif     `json:"metadata"`
	GPS       *GPS     `json:"gps"`
	MapLink   string   `json:"map_link,omitempty"`
	Warnings  []string `json:"warnings"`
}

// ExtractMeta reads path once to hash and sniff it, then parses EXIF for
// JPEG and TIFF images. A missing file yields an error wrapping
// os.ErrNotExist. EXIF problems are reported as warnings, not errors.
func ExtractMeta(path string) (Meta, error) {
	st, err := os.Stat(path)
	if err != nil {
		return Meta{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if st.IsDir() {
		return Meta{}, fmt.Errorf("%s is a directory", path)
	}

	hashes, head, err := hashFile(path)
	if err != nil {
		return Meta{}, err
	}

	m := Meta{
		File:      path,
		SizeBytes: st.Size(),
		MIME:      detectMIME(path, head),
		Hashes:    hashes,
		Warnings:  []string{},
	}
	if isExifCandidate(m.MIME, path) {
		ex, gps, warns := readExif(path)
		m.Metadata = ex
		m.GPS = gps
		m.Warnings = append(m.Warnings, warns...)
	}
	if m.GPS != nil {
		m.MapLink = MapLink(m.GPS.Lat, m.GPS.Lon)
	}
	return m, nil
}

// MapLink returns a Google Maps search URL for a position.
func MapLink(lat, lon float64) string {
	return fmt.Sprintf("https://www.google.com/maps/search/?api=1&query=%v,%v", lat, lon)
}

// headWriter keeps the first sniffLen bytes written to it.
type headWriter struct{ buf []byte }

func (h *headWriter) Write(p []byte) (int, error) {
	if room := sniffLen - len(h.buf); room > 0 {
		h.buf = append(h.buf, p[:min(room, len(p))]...)
	}
	return len(p), nil
}

func hashFile(path string) (Hashes, []byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return Hashes{}, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	md, s1, s256 := md5.New(), sha1.New(), sha256.New()
	xx := xxhash.New()
	head := &headWriter{}
	if _, err := io.Copy(io.MultiWriter(md, s1, s256, xx, head), f); err != nil {
		return Hashes{}, nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Hashes{
		MD5:    sum(md),
		SHA1:   sum(s1),
		SHA256: sum(s256),
		XXH64:  fmt.Sprintf("%016x", xx.Sum64()),
	}, head.buf, nil
}

func sum(h hash.Hash) string { return hex.EncodeToString(h.Sum(nil)) }

func detectMIME(path string, head []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); t != "" {
		if mt, _, err := mime.ParseMediaType(t); err == nil {
			return mt
		}
		return t
	}
	if sigs := detectors.Sniff(head); len(sigs) > 0 {
		return sigs[0].MIME
	}
	return DefaultMIME
}

func isExifCandidate(mimeType, path string) bool {
	switch mimeType {
	case "image/jpeg", "image/tiff":
		return true
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".tif", ".tiff":
		return true
	}
	return false
}
