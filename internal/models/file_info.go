package models

// UploadedFile represents a validated upload that has been written to the upload directory.
type UploadedFile struct {
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
	StoredName   string `json:"storedName"`
	StoredPath   string `json:"-"`
	PublicURL    string `json:"url"`
}

// ListedFile is one entry of the upload directory listing.
type ListedFile struct {
	Name     string `json:"name" msgpack:"name"`
	URL      string `json:"url" msgpack:"url"`
	Size     int64  `json:"size" msgpack:"size"`
	Modified string `json:"modified" msgpack:"modified"` // "2006-01-02 15:04:05"
}
