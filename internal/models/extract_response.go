package models

// Response status values shared by every endpoint.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ExtractResponse is the body returned by the upload endpoint.
type ExtractResponse struct {
	Status    string  `json:"status"`
	Events    []Event `json:"events"`
	SavedName string  `json:"saved_name,omitempty"`
	URL       string  `json:"url,omitempty"`
	Message   string  `json:"message,omitempty"`
}

// ListResponse is the body returned by the upload listing endpoint.
type ListResponse struct {
	Status  string       `json:"status" msgpack:"status"`
	Files   []ListedFile `json:"files" msgpack:"files"`
	Message string       `json:"message,omitempty" msgpack:"message,omitempty"`
}
