package models

// Upload describes a file accepted by the upload endpoint.
type Upload struct {
	UserID      int64
	FileName    string
	ContentType string
	Size        int64
	StorageKey  string
}
