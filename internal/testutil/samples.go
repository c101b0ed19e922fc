// samples.go - Small files whose content sniffs as each document type
package testutil

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	pngMagic  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}
	pdfMagic  = []byte("%PDF-1.4\n")
)

// JPEG returns size bytes starting with a JFIF header.
func JPEG(size int) []byte { return pad(jpegMagic, size, 0x00) }

// PNG returns size bytes starting with the PNG signature.
func PNG(size int) []byte { return pad(pngMagic, size, 0x00) }

// APNG returns size bytes of a PNG carrying an animation control chunk.
func APNG(size int) []byte {
	out := PNG(max(size, 41))
	copy(out[37:], "acTL")
	return out
}

// PDF returns size bytes starting with a PDF header.
func PDF(size int) []byte { return pad(pdfMagic, size, ' ') }

// Text returns size bytes of plain ASCII text.
func Text(size int) []byte { return pad([]byte("Course syllabus\n"), size, 'a') }

// DOCX returns a minimal WordprocessingML package. The entry order matters
// to sniffers: [Content_Types].xml first, the word/ part after it.
func DOCX() []byte {
	parts := []struct{ name, body string }{
		{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`},
		{"_rels/.rels", `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`},
		{"word/document.xml", `<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>Midterm Exam 2023-11-15</w:t></w:r></w:p></w:body></w:document>`},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			panic(err)
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			panic(err)
		}
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func pad(prefix []byte, size int, fill byte) []byte {
	if size < len(prefix) {
		size = len(prefix)
	}
	out := bytes.Repeat([]byte{fill}, size)
	copy(out, prefix)
	return out
}

// WriteFile writes data to name inside a fresh temp dir and returns its path.
func WriteFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}
