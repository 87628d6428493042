package imagekit

// UploadResponse — часть ответа ImageKit на загрузку файла, которая нам нужна
type UploadResponse struct {
	FileID       string `json:"fileId"`
	Name         string `json:"name"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
	FileType     string `json:"fileType"`
	Size         int64  `json:"size"`
}

// ErrorResponse — тело ошибки ImageKit
type ErrorResponse struct {
	Message string `json:"message"`
	Help    string `json:"help"`
}
