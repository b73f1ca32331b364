package application

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"go-commerce-api/internal/domain/entity"
	"go-commerce-api/internal/domain/repository"
	"go-commerce-api/pkg/assets"
	"go-commerce-api/pkg/mailer"
	tpl "go-commerce-api/pkg/mailer/templates"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
	seq   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	r.seq++
	u.ID = fmt.Sprintf("user-%d", r.seq)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, id string, in repository.UserUpdate) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if in.Email != nil {
		for otherID, other := range r.users {
			if otherID != id && other.Email == *in.Email {
				return nil, repository.ErrDuplicateEmail
			}
		}
		u.Email = *in.Email
	}
	if in.FullName != nil {
		u.FullName = *in.FullName
	}
	if in.ProfileImage != nil {
		u.ProfileImage = *in.ProfileImage
	}
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Password = passwordHash
	return nil
}

func (r *fakeUserRepo) SetResetToken(_ context.Context, id, token string, expires time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.ResetPasswordToken = &token
	u.ResetPasswordExpires = &expires
	return nil
}

func (r *fakeUserRepo) GetByResetToken(_ context.Context, token string, now time.Time) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ResetPasswordToken != nil && *u.ResetPasswordToken == token &&
			u.ResetPasswordExpires != nil && u.ResetPasswordExpires.After(now) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) ClearResetToken(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.ResetPasswordToken = nil
	u.ResetPasswordExpires = nil
	return nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

// fakeStore is an in-memory asset store. Payloads equal to "bad" fail to
// decode; a thumbFail flag makes thumbnail derivation fail.
type fakeStore struct {
	mu        sync.Mutex
	files     map[string]bool
	seq       int
	thumbFail bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{files: map[string]bool{}}
}

func (s *fakeStore) SaveBase64(_ context.Context, payload, namespace string) (string, error) {
	if strings.TrimSpace(payload) == "" || payload == "bad" {
		return "", assets.ErrInvalidPayload
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	rel := fmt.Sprintf("uploads/%s/img-%d.png", namespace, s.seq)
	s.files[rel] = true
	return rel, nil
}

func (s *fakeStore) Thumbnail(_ context.Context, sourcePath, namespace string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.thumbFail {
		return "", fmt.Errorf("decode %s: broken", sourcePath)
	}
	if !s.files[sourcePath] {
		return "", assets.ErrSourceNotFound
	}
	rel := "uploads/" + namespace + "/thumbnails/" + path.Base(sourcePath)
	s.files[rel] = true
	return rel, nil
}

func (s *fakeStore) Remove(_ context.Context, p string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, p)
	return nil
}

func (s *fakeStore) PublicURL(_ context.Context, p string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == "" || !s.files[p] {
		return ""
	}
	return "http://test/" + p
}

func (s *fakeStore) exists(p string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files[p]
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

var _ assets.Store = (*fakeStore)(nil)

type sentMail struct {
	To      string
	Subject string
	HTML    string
}

// fakeSender records deliveries on a channel so tests can wait for the
// detached send goroutine.
type fakeSender struct {
	sent chan sentMail
}

func newFakeSender() *fakeSender {
	return &fakeSender{sent: make(chan sentMail, 8)}
}

func (f *fakeSender) Send(_ context.Context, to, subject, html string) error {
	f.sent <- sentMail{To: to, Subject: subject, HTML: html}
	return nil
}

func (f *fakeSender) wait(timeout time.Duration) (sentMail, bool) {
	select {
	case m := <-f.sent:
		return m, true
	case <-time.After(timeout):
		return sentMail{}, false
	}
}

type sentTemplate struct {
	To   string
	Name string
	Data tpl.EmailData
}

// fakeTemplateSender records template deliveries, covering senders that defer
// rendering to the worker.
type fakeTemplateSender struct {
	fakeSender
	templates chan sentTemplate
}

func newFakeTemplateSender() *fakeTemplateSender {
	return &fakeTemplateSender{
		fakeSender: fakeSender{sent: make(chan sentMail, 8)},
		templates:  make(chan sentTemplate, 8),
	}
}

func (f *fakeTemplateSender) SendTemplate(_ context.Context, to, name string, data tpl.EmailData) error {
	f.templates <- sentTemplate{To: to, Name: name, Data: data}
	return nil
}

func (f *fakeTemplateSender) waitTemplate(timeout time.Duration) (sentTemplate, bool) {
	select {
	case m := <-f.templates:
		return m, true
	case <-time.After(timeout):
		return sentTemplate{}, false
	}
}

var _ mailer.TemplateSender = (*fakeTemplateSender)(nil)

// fakeCollectionRepo is an in-memory CollectionRepository.
type fakeCollectionRepo struct {
	mu    sync.Mutex
	items map[int64]*entity.Collection
	seq   int64
}

func newFakeCollectionRepo() *fakeCollectionRepo {
	return &fakeCollectionRepo{items: map[int64]*entity.Collection{}}
}

func (r *fakeCollectionRepo) ListActive(_ context.Context) ([]entity.Collection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Collection, 0, len(r.items))
	for _, c := range r.items {
		if !c.Deleted {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeCollectionRepo) GetByID(_ context.Context, id int64) (*entity.Collection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCollectionRepo) Create(_ context.Context, c *entity.Collection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	c.ID = r.seq
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	r.items[c.ID] = &cp
	return nil
}

func (r *fakeCollectionRepo) Update(_ context.Context, id int64, in repository.CollectionUpdate) (*entity.Collection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if in.Title != nil {
		c.Title = *in.Title
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Image != nil {
		c.Image = *in.Image
	}
	if in.Thumbnail != nil {
		c.Thumbnail = *in.Thumbnail
	}
	c.UpdatedAt = time.Now()
	cp := *c
	return &cp, nil
}

func (r *fakeCollectionRepo) SoftDelete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok || c.Deleted {
		return false, nil
	}
	c.Deleted = true
	return true, nil
}

var _ repository.CollectionRepository = (*fakeCollectionRepo)(nil)

// fakeProductRepo is an in-memory ProductRepository with the same descending
// id ordering and pagination as the Postgres implementation.
type fakeProductRepo struct {
	mu    sync.Mutex
	items map[int64]*entity.Product
	seq   int64
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{items: map[int64]*entity.Product{}}
}

func (r *fakeProductRepo) ListActive(_ context.Context, f repository.ProductFilter, page, limit int) ([]entity.Product, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := make([]entity.Product, 0, len(r.items))
	for _, p := range r.items {
		if p.Deleted {
			continue
		}
		if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
			continue
		}
		matched = append(matched, *p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := len(matched)
	start := (page - 1) * limit
	if start >= total {
		return []entity.Product{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	cp.Images = append([]string(nil), p.Images...)
	return &cp, nil
}

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	p.ID = r.seq
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	cp.Images = append([]string(nil), p.Images...)
	r.items[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, id int64, in repository.ProductUpdate) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.DiscountPercentage != nil {
		p.DiscountPercentage = *in.DiscountPercentage
	}
	if in.Rating != nil {
		p.Rating = *in.Rating
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.BrandID != nil {
		p.BrandID = *in.BrandID
	}
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
	if in.Images != nil {
		p.Images = append([]string(nil), *in.Images...)
	}
	p.UpdatedAt = time.Now()
	cp := *p
	cp.Images = append([]string(nil), p.Images...)
	return &cp, nil
}

func (r *fakeProductRepo) SoftDelete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok || p.Deleted {
		return false, nil
	}
	p.Deleted = true
	return true, nil
}

var _ repository.ProductRepository = (*fakeProductRepo)(nil)
