package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/techelevate/platform/internal/common"
	"github.com/techelevate/platform/internal/dbx"
	"github.com/techelevate/platform/internal/server/identity"
	"github.com/techelevate/platform/internal/server/models"
	"github.com/techelevate/platform/internal/server/repositories/accounts"
	"github.com/techelevate/platform/internal/server/repositories/categories"
	"github.com/techelevate/platform/internal/server/repositories/comments"
	"github.com/techelevate/platform/internal/server/repositories/contents"
	"github.com/techelevate/platform/internal/server/repositories/posts"
	"github.com/techelevate/platform/internal/server/repositories/revocations"
	"github.com/techelevate/platform/internal/server/repositories/shares"
	"github.com/techelevate/platform/internal/server/repositories/subscriptions"
	"github.com/techelevate/platform/internal/server/repositories/wishlist"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// fakeRepos keeps every table in memory. It is enough to exercise the
// services without a database.
type fakeRepos struct {
	accounts      *fakeAccounts
	posts         *fakePosts
	comments      *fakeComments
	categories    *fakeCategories
	contents      *fakeContents
	subscriptions *fakeSubscriptions
	wishlist      *fakeWishlist
	shares        *fakeShares
}

func newFakeRepos() *fakeRepos {
	return &fakeRepos{
		accounts:      &fakeAccounts{rows: map[identity.Subject]identity.Account{}, next: map[identity.Role]int64{}},
		posts:         &fakePosts{rows: map[int64]models.Post{}},
		comments:      &fakeComments{rows: map[int64]models.Comment{}},
		categories:    &fakeCategories{rows: map[int64]models.Category{}},
		contents:      &fakeContents{rows: map[int64]models.Content{}},
		subscriptions: &fakeSubscriptions{rows: map[int64]models.Subscription{}},
		wishlist:      &fakeWishlist{rows: map[int64]models.WishlistEntry{}},
		shares:        &fakeShares{rows: map[int64]models.Share{}},
	}
}

func (m *fakeRepos) RunMigrations(context.Context, *sql.DB) error       { return nil }
func (m *fakeRepos) Accounts(db dbx.DBTX) accounts.Repository           { return m.accounts }
func (m *fakeRepos) Revocations(db dbx.DBTX) revocations.Repository     { return nil }
func (m *fakeRepos) Posts(db dbx.DBTX) posts.Repository                 { return m.posts }
func (m *fakeRepos) Comments(db dbx.DBTX) comments.Repository           { return m.comments }
func (m *fakeRepos) Categories(db dbx.DBTX) categories.Repository       { return m.categories }
func (m *fakeRepos) Contents(db dbx.DBTX) contents.Repository           { return m.contents }
func (m *fakeRepos) Subscriptions(db dbx.DBTX) subscriptions.Repository { return m.subscriptions }
func (m *fakeRepos) Wishlist(db dbx.DBTX) wishlist.Repository           { return m.wishlist }
func (m *fakeRepos) Shares(db dbx.DBTX) shares.Repository               { return m.shares }

// --- accounts ---

type fakeAccounts struct {
	mu       sync.Mutex
	rows     map[identity.Subject]identity.Account
	next     map[identity.Role]int64
	findErr  error
	emailErr error
}

func (f *fakeAccounts) Create(ctx context.Context, a *identity.Account) (*identity.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.Role != a.Role {
			continue
		}
		if row.Email == a.Email {
			return nil, common.Conflict("email")
		}
		if row.Username == a.Username {
			return nil, common.Conflict("username")
		}
	}
	f.next[a.Role]++
	a.ID = f.next[a.Role]
	a.CreatedAt = time.Now()
	f.rows[a.Subject()] = *a
	out := *a
	return &out, nil
}

func (f *fakeAccounts) FindByID(ctx context.Context, s identity.Subject) (*identity.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	row, ok := f.rows[s]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &row, nil
}

func (f *fakeAccounts) FindByEmail(ctx context.Context, role identity.Role, email string) (*identity.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.emailErr != nil {
		return nil, f.emailErr
	}
	for _, row := range f.rows {
		if row.Role == role && row.Email == email {
			return &row, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccounts) List(ctx context.Context, role identity.Role) ([]*identity.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*identity.Account
	for _, row := range f.rows {
		if row.Role == role {
			out = append(out, &row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAccounts) update(s identity.Subject, fn func(a *identity.Account)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[s]
	if !ok {
		return common.ErrorNotFound
	}
	fn(&row)
	f.rows[s] = row
	return nil
}

func (f *fakeAccounts) UpdateProfile(ctx context.Context, a *identity.Account) error {
	f.mu.Lock()
	for s, row := range f.rows {
		if s != a.Subject() && row.Role == a.Role && row.Email == a.Email {
			f.mu.Unlock()
			return common.Conflict("email")
		}
	}
	f.mu.Unlock()
	return f.update(a.Subject(), func(row *identity.Account) {
		row.Email, row.Username, row.DisplayName = a.Email, a.Username, a.DisplayName
	})
}

func (f *fakeAccounts) UpdatePassword(ctx context.Context, s identity.Subject, hash []byte) error {
	return f.update(s, func(row *identity.Account) { row.PasswordHash = hash })
}

func (f *fakeAccounts) SetActive(ctx context.Context, s identity.Subject, active bool) error {
	return f.update(s, func(row *identity.Account) { row.Active = active })
}

func (f *fakeAccounts) SetProfilePicture(ctx context.Context, s identity.Subject, key string) error {
	return f.update(s, func(row *identity.Account) { row.ProfilePictureKey = key })
}

func (f *fakeAccounts) Delete(ctx context.Context, s identity.Subject) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[s]; !ok {
		return common.ErrorNotFound
	}
	delete(f.rows, s)
	return nil
}

// --- posts ---

type fakePosts struct {
	rows map[int64]models.Post
	next int64
}

func (f *fakePosts) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	f.next++
	p.ID = f.next
	f.rows[p.ID] = *p
	return p, nil
}

func (f *fakePosts) Get(ctx context.Context, id int64) (*models.Post, error) {
	p, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &p, nil
}

func (f *fakePosts) List(ctx context.Context, categoryID *int64) ([]*models.Post, error) {
	var out []*models.Post
	for _, p := range f.rows {
		if categoryID == nil || (p.CategoryID != nil && *p.CategoryID == *categoryID) {
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakePosts) Update(ctx context.Context, p *models.Post) error {
	if _, ok := f.rows[p.ID]; !ok {
		return common.ErrorNotFound
	}
	f.rows[p.ID] = *p
	return nil
}

func (f *fakePosts) SetStatus(ctx context.Context, id int64, status string) error {
	p, ok := f.rows[id]
	if !ok {
		return common.ErrorNotFound
	}
	p.Status = status
	f.rows[id] = p
	return nil
}

func (f *fakePosts) React(ctx context.Context, id int64, like bool) error {
	p, ok := f.rows[id]
	if !ok {
		return common.ErrorNotFound
	}
	if like {
		p.Likes++
	} else {
		p.Dislikes++
	}
	f.rows[id] = p
	return nil
}

func (f *fakePosts) Delete(ctx context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.rows, id)
	return nil
}

// --- comments ---

type fakeComments struct {
	rows map[int64]models.Comment
	next int64
}

func (f *fakeComments) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	f.next++
	c.ID = f.next
	f.rows[c.ID] = *c
	return c, nil
}

func (f *fakeComments) Get(ctx context.Context, id int64) (*models.Comment, error) {
	c, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &c, nil
}

func (f *fakeComments) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	var out []*models.Comment
	for _, c := range f.rows {
		if c.PostID == postID {
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeComments) Update(ctx context.Context, c *models.Comment) error {
	f.rows[c.ID] = *c
	return nil
}

func (f *fakeComments) Delete(ctx context.Context, id int64) error {
	delete(f.rows, id)
	return nil
}

// --- categories ---

type fakeCategories struct {
	rows map[int64]models.Category
	next int64
}

func (f *fakeCategories) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	for _, row := range f.rows {
		if row.Name == c.Name {
			return nil, common.Conflict("name")
		}
	}
	f.next++
	c.ID = f.next
	f.rows[c.ID] = *c
	return c, nil
}

func (f *fakeCategories) Get(ctx context.Context, id int64) (*models.Category, error) {
	c, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &c, nil
}

func (f *fakeCategories) List(ctx context.Context) ([]*models.Category, error) {
	var out []*models.Category
	for _, c := range f.rows {
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCategories) Update(ctx context.Context, c *models.Category) error {
	f.rows[c.ID] = *c
	return nil
}

func (f *fakeCategories) Delete(ctx context.Context, id int64) error {
	delete(f.rows, id)
	return nil
}

// --- contents ---

type fakeContents struct {
	rows map[int64]models.Content
	next int64
}

func (f *fakeContents) Create(ctx context.Context, c *models.Content) (*models.Content, error) {
	f.next++
	c.ID = f.next
	f.rows[c.ID] = *c
	return c, nil
}

func (f *fakeContents) Get(ctx context.Context, id int64) (*models.Content, error) {
	c, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &c, nil
}

func (f *fakeContents) ListByStatus(ctx context.Context, status string) ([]*models.Content, error) {
	var out []*models.Content
	for _, c := range f.rows {
		if c.Status == status {
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeContents) Update(ctx context.Context, c *models.Content) error {
	f.rows[c.ID] = *c
	return nil
}

func (f *fakeContents) SetStatus(ctx context.Context, id int64, status string) error {
	c := f.rows[id]
	c.Status = status
	f.rows[id] = c
	return nil
}

func (f *fakeContents) Delete(ctx context.Context, id int64) error {
	delete(f.rows, id)
	return nil
}

// --- member features ---

type fakeSubscriptions struct {
	rows map[int64]models.Subscription
	next int64
}

func (f *fakeSubscriptions) Create(ctx context.Context, s *models.Subscription) (*models.Subscription, error) {
	for _, row := range f.rows {
		if row.Subscriber == s.Subscriber && row.CategoryID == s.CategoryID {
			return nil, common.Conflict("category")
		}
	}
	f.next++
	s.ID = f.next
	f.rows[s.ID] = *s
	return s, nil
}

func (f *fakeSubscriptions) Get(ctx context.Context, id int64) (*models.Subscription, error) {
	s, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &s, nil
}

func (f *fakeSubscriptions) ListByOwner(ctx context.Context, owner identity.Subject) ([]*models.Subscription, error) {
	var out []*models.Subscription
	for _, s := range f.rows {
		if s.Subscriber == owner {
			out = append(out, &s)
		}
	}
	return out, nil
}

func (f *fakeSubscriptions) Delete(ctx context.Context, id int64) error {
	delete(f.rows, id)
	return nil
}

type fakeWishlist struct {
	rows map[int64]models.WishlistEntry
	next int64
}

func (f *fakeWishlist) Create(ctx context.Context, w *models.WishlistEntry) (*models.WishlistEntry, error) {
	for _, row := range f.rows {
		if row.Holder == w.Holder && row.PostID == w.PostID {
			return nil, common.Conflict("post")
		}
	}
	f.next++
	w.ID = f.next
	f.rows[w.ID] = *w
	return w, nil
}

func (f *fakeWishlist) Get(ctx context.Context, id int64) (*models.WishlistEntry, error) {
	w, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &w, nil
}

func (f *fakeWishlist) ListByOwner(ctx context.Context, owner identity.Subject) ([]*models.WishlistEntry, error) {
	var out []*models.WishlistEntry
	for _, w := range f.rows {
		if w.Holder == owner {
			out = append(out, &w)
		}
	}
	return out, nil
}

func (f *fakeWishlist) Delete(ctx context.Context, id int64) error {
	delete(f.rows, id)
	return nil
}

type fakeShares struct {
	rows map[int64]models.Share
	next int64
}

func (f *fakeShares) Create(ctx context.Context, s *models.Share) (*models.Share, error) {
	f.next++
	s.ID = f.next
	f.rows[s.ID] = *s
	return s, nil
}

func (f *fakeShares) Get(ctx context.Context, id int64) (*models.Share, error) {
	s, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &s, nil
}

func (f *fakeShares) ListBySender(ctx context.Context, sender identity.Subject) ([]*models.Share, error) {
	var out []*models.Share
	for _, s := range f.rows {
		if s.Sender == sender {
			out = append(out, &s)
		}
	}
	return out, nil
}

func (f *fakeShares) ListByRecipient(ctx context.Context, recipient identity.Subject) ([]*models.Share, error) {
	var out []*models.Share
	for _, s := range f.rows {
		if s.Recipient == recipient {
			out = append(out, &s)
		}
	}
	return out, nil
}

func (f *fakeShares) Delete(ctx context.Context, id int64) error {
	delete(f.rows, id)
	return nil
}
