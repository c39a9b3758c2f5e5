package model

// TimestampLayout is the format of Image.UploadedAt (YYYY-MM-DD HH:MM:SS).
const TimestampLayout = "2006-01-02 15:04:05"

// Image is the metadata record for one uploaded file.
type Image struct {
	ID         int64  `json:"id"`
	Filename   string `json:"filename"`
	Filepath   string `json:"filepath"`
	UploadedAt string `json:"uploaded_at"`
}
