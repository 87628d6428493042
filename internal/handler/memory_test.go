package handler

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/GoArmGo/SocialApp/internal/domain"
	"github.com/GoArmGo/SocialApp/internal/messaging/payloads"
	"github.com/google/uuid"
)

var errDuplicateEmail = errors.New("duplicate key value violates unique constraint")

// memoryStore держит пользователей и посты в памяти для тестов HTTP-слоя
type memoryStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*domain.User
	posts    map[uuid.UUID]*domain.Post
	likes    map[uuid.UUID][]uuid.UUID
	comments map[uuid.UUID][]domain.Comment
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:    map[uuid.UUID]*domain.User{},
		posts:    map[uuid.UUID]*domain.Post{},
		likes:    map[uuid.UUID][]uuid.UUID{},
		comments: map[uuid.UUID][]domain.Comment{},
	}
}

func (s *memoryStore) CreateUser(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return errDuplicateEmail
		}
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *memoryStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memoryStore) GetUserByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *memoryStore) deleteUser(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

func (s *memoryStore) SavePost(_ context.Context, p *domain.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.posts[p.ID] = &cp
	return nil
}

func (s *memoryStore) GetPostByID(_ context.Context, id uuid.UUID) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *memoryStore) UpdatePost(ctx context.Context, p *domain.Post) error {
	return s.SavePost(ctx, p)
}

func (s *memoryStore) DeletePost(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.posts, id)
	delete(s.likes, id)
	delete(s.comments, id)
	return nil
}

func (s *memoryStore) ListPosts(_ context.Context, page, perPage int) ([]domain.PostView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := make([]*domain.Post, 0, len(s.posts))
	for _, p := range s.posts {
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })

	start := (page - 1) * perPage
	if start >= len(posts) {
		return []domain.PostView{}, nil
	}
	end := start + perPage
	if end > len(posts) {
		end = len(posts)
	}

	views := make([]domain.PostView, 0, end-start)
	for _, p := range posts[start:end] {
		view := domain.PostView{
			ID:        p.ID,
			Title:     p.Title,
			Content:   p.Content,
			ImageURL:  p.ImageURL,
			Author:    s.users[p.AuthorID].Public(),
			Likes:     []domain.UserRef{},
			Comments:  []domain.CommentView{},
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		}
		for _, uid := range s.likes[p.ID] {
			view.Likes = append(view.Likes, domain.UserRef{ID: uid, Username: s.users[uid].Username})
		}
		for _, c := range s.comments[p.ID] {
			view.Comments = append(view.Comments, domain.CommentView{
				ID:        c.ID,
				Text:      c.Text,
				User:      domain.UserRef{ID: c.UserID, Username: s.users[c.UserID].Username},
				CreatedAt: c.CreatedAt,
			})
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *memoryStore) ToggleLike(_ context.Context, postID, userID uuid.UUID) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	likes := s.likes[postID]
	for i, uid := range likes {
		if uid == userID {
			s.likes[postID] = append(likes[:i], likes[i+1:]...)
			return len(s.likes[postID]), false, nil
		}
	}
	s.likes[postID] = append(likes, userID)
	return len(s.likes[postID]), true, nil
}

func (s *memoryStore) AddComment(_ context.Context, c *domain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments[c.PostID] = append(s.comments[c.PostID], *c)
	return nil
}

type memoryFiles struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    bool
}

func (f *memoryFiles) UploadFile(_ context.Context, key string, r io.Reader, _ string) (domain.StoredFile, error) {
	if f.fail {
		return domain.StoredFile{}, errors.New("media host unavailable")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.StoredFile{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return domain.StoredFile{Key: key, URL: "http://cdn.local/" + key}, nil
}

func (f *memoryFiles) DeleteFile(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []payloads.ImageCleanupPayload
}

func (p *recordingPublisher) PublishImageCleanup(_ context.Context, payload payloads.ImageCleanupPayload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, payload)
	return nil
}
