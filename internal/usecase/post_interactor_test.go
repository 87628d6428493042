package usecase

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/GoArmGo/SocialApp/internal/domain"
	"github.com/GoArmGo/SocialApp/internal/logger"
	"github.com/GoArmGo/SocialApp/internal/messaging/payloads"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type postFixture struct {
	uc        PostUseCase
	posts     *fakePosts
	files     *fakeFiles
	publisher *fakePublisher
}

func newPostFixture() *postFixture {
	f := &postFixture{posts: newFakePosts(), files: newFakeFiles(), publisher: &fakePublisher{}}
	f.uc = NewPostUseCase(f.posts, f.files, f.publisher, logger.Discard())
	return f
}

func pngUpload(name string) *ImageUpload {
	return &ImageUpload{Reader: strings.NewReader("png-bytes"), FileName: name, ContentType: "image/png"}
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name                  string
		page, perPage         int
		wantPage, wantPerPage int
	}{
		{"defaults", 0, 0, 1, DefaultPerPage},
		{"negative", -3, -1, 1, DefaultPerPage},
		{"clamped", 2, 1000, 2, MaxPerPage},
		{"kept", 3, 15, 3, 15},
		{"huge page", math.MaxInt, 50, MaxPage, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, perPage := NormalizePage(tt.page, tt.perPage)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantPerPage, perPage)
		})
	}
}

func TestImageObjectKey(t *testing.T) {
	postID := uuid.New()
	key := ImageObjectKey(postID, "Holiday.JPG")
	assert.True(t, strings.HasPrefix(key, "posts/"+postID.String()+"/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.NotEqual(t, key, ImageObjectKey(postID, "Holiday.JPG"))
	assert.False(t, strings.Contains(ImageObjectKey(postID, "noext"), "."))
}

func TestPostUseCase_CreatePost(t *testing.T) {
	f := newPostFixture()
	author := uuid.New()

	post, err := f.uc.CreatePost(context.Background(), CreatePostInput{AuthorID: author, Title: "Hello", Content: "World"})
	require.NoError(t, err)
	assert.Equal(t, author, post.AuthorID)
	assert.Empty(t, post.ImageURL)
	assert.Contains(t, f.posts.posts, post.ID)
}

func TestPostUseCase_CreatePost_WithImage(t *testing.T) {
	f := newPostFixture()

	post, err := f.uc.CreatePost(context.Background(), CreatePostInput{AuthorID: uuid.New(), Title: "t", Content: "c", Image: pngUpload("cat.png")})
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.local/"+post.ImageKey, post.ImageURL)
	assert.Equal(t, "png-bytes", f.files.uploaded[post.ImageKey])
}

func TestPostUseCase_CreatePost_UploadFailure(t *testing.T) {
	f := newPostFixture()
	f.files.uploadErr = errors.New("media host down")

	_, err := f.uc.CreatePost(context.Background(), CreatePostInput{AuthorID: uuid.New(), Title: "t", Content: "c", Image: pngUpload("cat.png")})
	require.ErrorIs(t, err, domain.ErrImageUpload)
	assert.Empty(t, f.posts.posts)
}

func TestPostUseCase_CreatePost_SaveFailureCleansImage(t *testing.T) {
	f := newPostFixture()
	f.posts.saveErr = errStoreDown

	_, err := f.uc.CreatePost(context.Background(), CreatePostInput{AuthorID: uuid.New(), Title: "t", Content: "c", Image: pngUpload("cat.png")})
	require.ErrorIs(t, err, errStoreDown)
	require.Len(t, f.publisher.published, 1)
	assert.Contains(t, f.files.uploaded, f.publisher.published[0].ObjectKey)
	assert.Equal(t, payloads.CleanupReasonSaveFailed, f.publisher.published[0].Reason)
}

func TestPostUseCase_UpdatePost_SaveFailureCleansNewImage(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture()
	author := uuid.New()
	post, err := f.uc.CreatePost(ctx, CreatePostInput{AuthorID: author, Title: "t", Content: "c", Image: pngUpload("a.png")})
	require.NoError(t, err)
	oldKey := post.ImageKey

	f.posts.updateErr = errStoreDown
	_, err = f.uc.UpdatePost(ctx, UpdatePostInput{PostID: post.ID, UserID: author, Image: pngUpload("b.png")})
	require.ErrorIs(t, err, errStoreDown)

	require.Len(t, f.publisher.published, 1)
	cleanup := f.publisher.published[0]
	assert.NotEqual(t, oldKey, cleanup.ObjectKey)
	assert.Contains(t, f.files.uploaded, cleanup.ObjectKey)
	assert.Equal(t, payloads.CleanupReasonSaveFailed, cleanup.Reason)
	assert.Equal(t, oldKey, f.posts.posts[post.ID].ImageKey)
}

func TestPostUseCase_UpdatePost(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture()
	author := uuid.New()
	post, err := f.uc.CreatePost(ctx, CreatePostInput{AuthorID: author, Title: "old title", Content: "old content", Image: pngUpload("a.png")})
	require.NoError(t, err)
	oldKey := post.ImageKey

	t.Run("missing post", func(t *testing.T) {
		_, err := f.uc.UpdatePost(ctx, UpdatePostInput{PostID: uuid.New(), UserID: author, Title: "x"})
		assert.ErrorIs(t, err, domain.ErrPostNotFound)
	})

	t.Run("not the author", func(t *testing.T) {
		_, err := f.uc.UpdatePost(ctx, UpdatePostInput{PostID: post.ID, UserID: uuid.New(), Title: "x"})
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Equal(t, "old title", f.posts.posts[post.ID].Title)
	})

	t.Run("empty fields keep values", func(t *testing.T) {
		updated, err := f.uc.UpdatePost(ctx, UpdatePostInput{PostID: post.ID, UserID: author, Title: "new title"})
		require.NoError(t, err)
		assert.Equal(t, "new title", updated.Title)
		assert.Equal(t, "old content", updated.Content)
		assert.Equal(t, oldKey, updated.ImageKey)
		assert.Empty(t, f.publisher.published)
	})

	t.Run("new image replaces old one", func(t *testing.T) {
		updated, err := f.uc.UpdatePost(ctx, UpdatePostInput{PostID: post.ID, UserID: author, Image: pngUpload("b.png")})
		require.NoError(t, err)
		assert.NotEqual(t, oldKey, updated.ImageKey)
		require.Len(t, f.publisher.published, 1)
		assert.Equal(t, payloads.ImageCleanupPayload{
			ObjectKey: oldKey,
			PostID:    post.ID.String(),
			Reason:    payloads.CleanupReasonImageReplace,
		}, f.publisher.published[0])
	})
}

func TestPostUseCase_DeletePost(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture()
	author := uuid.New()
	post, err := f.uc.CreatePost(ctx, CreatePostInput{AuthorID: author, Title: "t", Content: "c", Image: pngUpload("a.png")})
	require.NoError(t, err)

	assert.ErrorIs(t, f.uc.DeletePost(ctx, post.ID, uuid.New()), domain.ErrForbidden)
	assert.ErrorIs(t, f.uc.DeletePost(ctx, uuid.New(), author), domain.ErrPostNotFound)

	require.NoError(t, f.uc.DeletePost(ctx, post.ID, author))
	assert.NotContains(t, f.posts.posts, post.ID)
	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, post.ImageKey, f.publisher.published[0].ObjectKey)
	assert.Equal(t, payloads.CleanupReasonPostDeleted, f.publisher.published[0].Reason)
}

func TestPostUseCase_DeletePost_CleanupFailureIsIgnored(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture()
	f.publisher.err = errors.New("broker unavailable")
	author := uuid.New()
	post, err := f.uc.CreatePost(ctx, CreatePostInput{AuthorID: author, Title: "t", Content: "c", Image: pngUpload("a.png")})
	require.NoError(t, err)

	require.NoError(t, f.uc.DeletePost(ctx, post.ID, author))
}

func TestPostUseCase_ToggleLike(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture()
	post, err := f.uc.CreatePost(ctx, CreatePostInput{AuthorID: uuid.New(), Title: "t", Content: "c"})
	require.NoError(t, err)
	user := uuid.New()

	res, err := f.uc.ToggleLike(ctx, post.ID, user)
	require.NoError(t, err)
	assert.Equal(t, &LikeResult{LikesCount: 1, LikedByUser: true}, res)

	res, err = f.uc.ToggleLike(ctx, post.ID, user)
	require.NoError(t, err)
	assert.Equal(t, &LikeResult{LikesCount: 0, LikedByUser: false}, res)

	_, err = f.uc.ToggleLike(ctx, uuid.New(), user)
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
}

func TestPostUseCase_AddComment(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture()
	post, err := f.uc.CreatePost(ctx, CreatePostInput{AuthorID: uuid.New(), Title: "t", Content: "c"})
	require.NoError(t, err)
	user := domain.PublicUser{ID: uuid.New(), Username: "bob", Email: "bob@example.com"}

	view, err := f.uc.AddComment(ctx, post.ID, user, "nice post")
	require.NoError(t, err)
	assert.Equal(t, "nice post", view.Text)
	assert.Equal(t, domain.UserRef{ID: user.ID, Username: "bob"}, view.User)
	require.Len(t, f.posts.comments, 1)
	assert.Equal(t, post.ID, f.posts.comments[0].PostID)

	_, err = f.uc.AddComment(ctx, uuid.New(), user, "lost")
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
}

func TestImageCleanupHandler(t *testing.T) {
	files := newFakeFiles()
	cleaner := NewDirectImageCleaner(files, logger.Discard())

	require.NoError(t, cleaner.PublishImageCleanup(context.Background(), payloads.ImageCleanupPayload{ObjectKey: "posts/a.png"}))
	assert.Equal(t, []string{"posts/a.png"}, files.deleted)

	files.deleteErr = errors.New("boom")
	handle := NewImageCleanupHandler(files, logger.Discard())
	assert.Error(t, handle(context.Background(), payloads.ImageCleanupPayload{ObjectKey: "posts/b.png"}))
}
