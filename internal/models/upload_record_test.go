package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUploadRecord_Badge(t *testing.T) {
	tests := []struct {
		name   string
		record UploadRecord
		want   string
	}{
		{"jpeg from name", UploadRecord{Name: "scan.jpg"}, "JPG"},
		{"mixed case", UploadRecord{Name: "Syllabus.Pdf"}, "PDF"},
		{"multiple dots", UploadRecord{Name: "cs101.fall.docx"}, "DOCX"},
		{"falls back to saved name", UploadRecord{SavedName: "0191c0de.png"}, "PNG"},
		{"no extension", UploadRecord{Name: "README"}, "FILE"},
		{"empty", UploadRecord{}, "FILE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.Badge())
		})
	}
}

func TestUploadRecord_SizeKB(t *testing.T) {
	assert.Equal(t, int64(0), UploadRecord{Size: 100}.SizeKB())
	assert.Equal(t, int64(1), UploadRecord{Size: 1024}.SizeKB())
	assert.Equal(t, int64(2), UploadRecord{Size: 1536}.SizeKB())
}
