package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/GoArmGo/SocialApp/internal/auth"
	"github.com/GoArmGo/SocialApp/internal/domain"
	"github.com/GoArmGo/SocialApp/internal/usecase"
)

// память под multipart-форму, остальное уходит во временные файлы
const multipartMemory = 8 << 20

// PostHandler обрабатывает HTTP-запросы для работы с публикациями.
type PostHandler struct {
	postUseCase    usecase.PostUseCase
	uploadLimiter  chan struct{}
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewPostHandler создаёт новый экземпляр PostHandler.
// limiter ограничивает число одновременных загрузок изображений.
func NewPostHandler(uc usecase.PostUseCase, limiter chan struct{}, maxUploadBytes int64, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		postUseCase:    uc,
		uploadLimiter:  limiter,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

type postForm struct {
	Title   string `form:"title" validate:"required,max=200"`
	Content string `form:"content" validate:"required"`
}

type postPatchForm struct {
	Title   string `form:"title" validate:"omitempty,max=200"`
	Content string `form:"content"`
}

type commentRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// ListPosts обрабатывает GET /api/posts
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postUseCase.ListPosts(r.Context(), queryInt(r, "page"), queryInt(r, "per_page"))
	if err != nil {
		h.logger.Error("failed to list posts", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Error fetching posts", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, posts, h.logger)
}

// CreatePost обрабатывает POST /api/posts (multipart: title, content, image)
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.IdentityFromContext(r.Context())

	if !h.parseForm(w, r) {
		return
	}
	defer cleanupMultipart(r)

	form := postForm{
		Title:   strings.TrimSpace(r.FormValue("title")),
		Content: strings.TrimSpace(r.FormValue("content")),
	}
	if err := validate.Struct(form); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err), h.logger)
		return
	}

	image, release, ok := h.imageFromForm(w, r)
	if !ok {
		return
	}
	defer release()

	post, err := h.postUseCase.CreatePost(r.Context(), usecase.CreatePostInput{
		AuthorID: user.ID,
		Title:    form.Title,
		Content:  form.Content,
		Image:    image,
	})
	if err != nil {
		h.respondWithPostError(w, err, "create")
		return
	}

	respondWithJSON(w, http.StatusCreated, post, h.logger)
}

// UpdatePost обрабатывает PUT /api/posts/{id}
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.IdentityFromContext(r.Context())

	postID, ok := postIDParam(r)
	if !ok {
		respondWithError(w, http.StatusNotFound, domain.ErrPostNotFound.Error(), h.logger)
		return
	}

	if !h.parseForm(w, r) {
		return
	}
	defer cleanupMultipart(r)

	form := postPatchForm{
		Title:   strings.TrimSpace(r.FormValue("title")),
		Content: strings.TrimSpace(r.FormValue("content")),
	}
	if err := validate.Struct(form); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err), h.logger)
		return
	}

	image, release, ok := h.imageFromForm(w, r)
	if !ok {
		return
	}
	defer release()

	post, err := h.postUseCase.UpdatePost(r.Context(), usecase.UpdatePostInput{
		PostID:  postID,
		UserID:  user.ID,
		Title:   form.Title,
		Content: form.Content,
		Image:   image,
	})
	if err != nil {
		h.respondWithPostError(w, err, "edit")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Post updated successfully",
		"post":    post,
	}, h.logger)
}

// DeletePost обрабатывает DELETE /api/posts/{id}
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.IdentityFromContext(r.Context())

	postID, ok := postIDParam(r)
	if !ok {
		respondWithError(w, http.StatusNotFound, domain.ErrPostNotFound.Error(), h.logger)
		return
	}

	if err := h.postUseCase.DeletePost(r.Context(), postID, user.ID); err != nil {
		h.respondWithPostError(w, err, "delete")
		return
	}

	respondWithMessage(w, http.StatusOK, "Post deleted successfully", h.logger)
}

// ToggleLike обрабатывает PUT /api/posts/{id}/like
func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.IdentityFromContext(r.Context())

	postID, ok := postIDParam(r)
	if !ok {
		respondWithError(w, http.StatusNotFound, domain.ErrPostNotFound.Error(), h.logger)
		return
	}

	result, err := h.postUseCase.ToggleLike(r.Context(), postID, user.ID)
	if err != nil {
		h.respondWithPostError(w, err, "like")
		return
	}

	respondWithJSON(w, http.StatusOK, result, h.logger)
}

// AddComment обрабатывает POST /api/posts/{id}/comment
func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.IdentityFromContext(r.Context())

	postID, ok := postIDParam(r)
	if !ok {
		respondWithError(w, http.StatusNotFound, domain.ErrPostNotFound.Error(), h.logger)
		return
	}

	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err), h.logger)
		return
	}

	comment, err := h.postUseCase.AddComment(r.Context(), postID, user, req.Text)
	if err != nil {
		h.respondWithPostError(w, err, "comment on")
		return
	}

	respondWithJSON(w, http.StatusCreated, comment, h.logger)
}

// parseForm разбирает multipart или urlencoded тело с ограничением размера
func (h *PostHandler) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Upload exceeds %d bytes", h.maxUploadBytes), h.logger)
		return false
	}
	h.logger.Warn("invalid post form", "error", err)
	respondWithError(w, http.StatusBadRequest, "Invalid form data", h.logger)
	return false
}

// imageFromForm достает необязательное поле image и занимает слот загрузки.
// release нужно вызвать после обработки запроса.
func (h *PostHandler) imageFromForm(w http.ResponseWriter, r *http.Request) (*usecase.ImageUpload, func(), bool) {
	noop := func() {}
	if r.MultipartForm == nil {
		return nil, noop, true
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, true
	}
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid image", h.logger)
		return nil, noop, false
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		_ = file.Close()
		respondWithError(w, http.StatusBadRequest, "Only image uploads are allowed", h.logger)
		return nil, noop, false
	}

	select {
	case h.uploadLimiter <- struct{}{}:
	case <-r.Context().Done():
		_ = file.Close()
		respondWithError(w, http.StatusServiceUnavailable, "Upload queue is busy", h.logger)
		return nil, noop, false
	}

	release := func() {
		_ = file.Close()
		<-h.uploadLimiter
	}
	return &usecase.ImageUpload{
		Reader:      file,
		FileName:    header.Filename,
		ContentType: contentType,
	}, release, true
}

func (h *PostHandler) respondWithPostError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, domain.ErrPostNotFound):
		respondWithError(w, http.StatusNotFound, domain.ErrPostNotFound.Error(), h.logger)
	case errors.Is(err, domain.ErrForbidden):
		respondWithError(w, http.StatusForbidden, fmt.Sprintf("You are not authorized to %s this post", action), h.logger)
	case errors.Is(err, domain.ErrImageUpload):
		respondWithError(w, http.StatusInternalServerError, domain.ErrImageUpload.Error(), h.logger)
	default:
		h.logger.Error("post request failed", "action", action, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Server error", h.logger)
	}
}

func cleanupMultipart(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}
