package payloads

// Причины удаления изображения
const (
	CleanupReasonPostDeleted  = "post_deleted"
	CleanupReasonImageReplace = "image_replaced"
	CleanupReasonSaveFailed   = "save_failed"
)

// ImageCleanupPayload — задача на удаление объекта из хранилища изображений,
// передается через RabbitMQ.
type ImageCleanupPayload struct {
	ObjectKey string `json:"object_key"`
	PostID    string `json:"post_id"`
	Reason    string `json:"reason"`
}
