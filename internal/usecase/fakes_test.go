package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/GoArmGo/SocialApp/internal/domain"
	"github.com/GoArmGo/SocialApp/internal/messaging/payloads"
	"github.com/google/uuid"
)

type fakeUsers struct {
	byEmail   map[string]*domain.User
	createErr error
	getErr    error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]*domain.User{}}
}

func (f *fakeUsers) CreateUser(_ context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.byEmail[strings.ToLower(u.Email)] = u
	return nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.byEmail[strings.ToLower(email)], nil
}

func (f *fakeUsers) GetUserByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

type fakeHasher struct {
	verifyCalls int
}

func (h *fakeHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }

func (h *fakeHasher) Verify(p, digest string) bool {
	h.verifyCalls++
	return digest == "hashed:"+p
}

type fakeIssuer struct {
	subjects []string
}

func (i *fakeIssuer) Issue(subject string) (string, error) {
	i.subjects = append(i.subjects, subject)
	return "token-for-" + subject, nil
}

type fakePosts struct {
	posts    map[uuid.UUID]*domain.Post
	likes    map[uuid.UUID]map[uuid.UUID]bool
	comments  []*domain.Comment
	saveErr   error
	updateErr error
}

func newFakePosts() *fakePosts {
	return &fakePosts{posts: map[uuid.UUID]*domain.Post{}, likes: map[uuid.UUID]map[uuid.UUID]bool{}}
}

func (f *fakePosts) SavePost(_ context.Context, p *domain.Post) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	cp := *p
	f.posts[p.ID] = &cp
	return nil
}

func (f *fakePosts) GetPostByID(_ context.Context, id uuid.UUID) (*domain.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePosts) UpdatePost(_ context.Context, p *domain.Post) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	cp := *p
	f.posts[p.ID] = &cp
	return nil
}

func (f *fakePosts) DeletePost(_ context.Context, id uuid.UUID) error {
	delete(f.posts, id)
	return nil
}

func (f *fakePosts) ListPosts(_ context.Context, page, perPage int) ([]domain.PostView, error) {
	return []domain.PostView{}, nil
}

func (f *fakePosts) ToggleLike(_ context.Context, postID, userID uuid.UUID) (int, bool, error) {
	if f.likes[postID] == nil {
		f.likes[postID] = map[uuid.UUID]bool{}
	}
	liked := !f.likes[postID][userID]
	if liked {
		f.likes[postID][userID] = true
	} else {
		delete(f.likes[postID], userID)
	}
	return len(f.likes[postID]), liked, nil
}

func (f *fakePosts) AddComment(_ context.Context, c *domain.Comment) error {
	f.comments = append(f.comments, c)
	return nil
}

type fakeFiles struct {
	mu        sync.Mutex
	uploaded  map[string]string
	deleted   []string
	uploadErr error
	deleteErr error
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{uploaded: map[string]string{}}
}

func (f *fakeFiles) UploadFile(_ context.Context, key string, r io.Reader, _ string) (domain.StoredFile, error) {
	if f.uploadErr != nil {
		return domain.StoredFile{}, f.uploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.StoredFile{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded[key] = string(data)
	return domain.StoredFile{Key: key, URL: "http://cdn.local/" + key}, nil
}

func (f *fakeFiles) DeleteFile(_ context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

type fakePublisher struct {
	published []payloads.ImageCleanupPayload
	err       error
}

func (p *fakePublisher) PublishImageCleanup(_ context.Context, payload payloads.ImageCleanupPayload) error {
	p.published = append(p.published, payload)
	return p.err
}

var errStoreDown = errors.New("store down")
