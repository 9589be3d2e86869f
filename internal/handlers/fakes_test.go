package handlers

import (
	"context"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/microblog/apiserver/internal/auth"
	"github.com/microblog/apiserver/internal/services"
	"github.com/microblog/apiserver/internal/store"
	"github.com/microblog/apiserver/types"
)

// fakeUserRepo is an in-memory services.UserRepository.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int]types.User)}
}

func (r *fakeUserRepo) List(ctx context.Context) ([]types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]types.User, 0, len(r.users))
	for id := 1; id < r.nextID; id++ {
		if user, ok := r.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return types.User{}, store.ErrDuplicateEmail
		}
	}
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user types.User) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return types.User{}, store.ErrNotFound
	}
	for id, existing := range r.users {
		if id != user.ID && existing.Email == user.Email {
			return types.User{}, store.ErrDuplicateEmail
		}
	}
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

// fakeBlogpostRepo is an in-memory services.BlogpostRepository.
type fakeBlogpostRepo struct {
	mu     sync.Mutex
	nextID int
	posts  map[int]types.Blogpost
}

func newFakeBlogpostRepo() *fakeBlogpostRepo {
	return &fakeBlogpostRepo{nextID: 1, posts: make(map[int]types.Blogpost)}
}

func (r *fakeBlogpostRepo) List(ctx context.Context) ([]types.Blogpost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	posts := make([]types.Blogpost, 0, len(r.posts))
	for id := 1; id < r.nextID; id++ {
		if post, ok := r.posts[id]; ok {
			posts = append(posts, post)
		}
	}
	return posts, nil
}

func (r *fakeBlogpostRepo) Get(ctx context.Context, id int) (types.Blogpost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return types.Blogpost{}, store.ErrNotFound
	}
	return post, nil
}

func (r *fakeBlogpostRepo) Create(ctx context.Context, post types.Blogpost) (types.Blogpost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = r.nextID
	r.nextID++
	r.posts[post.ID] = post
	return post, nil
}

func (r *fakeBlogpostRepo) Update(ctx context.Context, post types.Blogpost) (types.Blogpost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[post.ID]; !ok {
		return types.Blogpost{}, store.ErrNotFound
	}
	r.posts[post.ID] = post
	return post, nil
}

func (r *fakeBlogpostRepo) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

const testSecret = "test-secret"

// newTestRouter wires the handlers over in-memory repositories with the
// same route layout the server uses.
func newTestRouter(userRepo *fakeUserRepo, postRepo *fakeBlogpostRepo) (*chi.Mux, *auth.TokenService) {
	userService := services.NewUserService(userRepo)
	blogpostService := services.NewBlogpostService(postRepo)
	tokenService := auth.NewTokenService(testSecret)
	authMiddleware := RequireAuth(tokenService, userService)

	router := chi.NewRouter()
	router.Route("/api/v1/users", func(r chi.Router) {
		UserRouter(r, userService, tokenService, authMiddleware)
	})
	router.Route("/api/v1/blogposts", func(r chi.Router) {
		BlogpostRouter(r, blogpostService, authMiddleware)
	})
	return router, tokenService
}
