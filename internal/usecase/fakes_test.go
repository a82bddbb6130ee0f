package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"crowdfunding/internal/data/entity"
	"crowdfunding/internal/data/repository"
	"crowdfunding/pkg/apperrors"
	"crowdfunding/pkg/token"
	"crowdfunding/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ==================== USERS ====================

type fakeUsers struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*entity.User
}

func (f *fakeUsers) copyOf(u *entity.User) *entity.User {
	c := *u
	return &c
}

func (f *fakeUsers) Create(_ context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, user.Email) {
			return apperrors.FieldValidation("email", "A user with that email already exists.")
		}
		if u.Username == user.Username {
			return apperrors.FieldValidation("username", "A user with that username already exists.")
		}
	}
	f.byID[user.ID] = f.copyOf(user)
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		return f.copyOf(u), nil
	}
	return nil, nil
}

func (f *fakeUsers) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[uuid.UUID]*entity.User, len(ids))
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out[id] = f.copyOf(u)
		}
	}
	return out, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			return f.copyOf(u), nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Username == username {
			return f.copyOf(u), nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) Update(_ context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[user.ID]; !ok {
		return apperrors.NotFound("user")
	}
	f.byID[user.ID] = f.copyOf(user)
	return nil
}

func (f *fakeUsers) MarkVerified(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok || u.Verified {
		return false, nil
	}
	u.Verified = true
	return true, nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return apperrors.NotFound("user")
	}
	u.PasswordHash = hash
	return nil
}

// ==================== SESSIONS ====================

type fakeSessions struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*entity.Session
}

func (f *fakeSessions) Create(_ context.Context, session *entity.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *session
	f.byID[session.ID] = &c
	return nil
}

func (f *fakeSessions) FindByID(_ context.Context, id uuid.UUID) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.byID[id]; ok {
		c := *s
		return &c, nil
	}
	return nil, nil
}

func (f *fakeSessions) Revoke(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok || s.RevokedAt != nil {
		return false, nil
	}
	s.RevokedAt = &at
	return true, nil
}

func (f *fakeSessions) CleanExpiredSessions(_ context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, s := range f.byID {
		if s.ExpiresAt.Before(before) {
			delete(f.byID, id)
			n++
		}
	}
	return n, nil
}

// ==================== CATEGORIES & TAGS ====================

type fakeCategories struct {
	byID map[uuid.UUID]*entity.Category
}

func (f *fakeCategories) Create(_ context.Context, category *entity.Category) error {
	for _, c := range f.byID {
		if c.Name == category.Name {
			return apperrors.ErrConflict
		}
	}
	c := *category
	f.byID[category.ID] = &c
	return nil
}

func (f *fakeCategories) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	if c, ok := f.byID[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeCategories) FindAll(_ context.Context) ([]*entity.Category, error) {
	out := make([]*entity.Category, 0, len(f.byID))
	for _, c := range f.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCategories) Update(_ context.Context, category *entity.Category) error {
	if _, ok := f.byID[category.ID]; !ok {
		return apperrors.NotFound("category")
	}
	c := *category
	f.byID[category.ID] = &c
	return nil
}

func (f *fakeCategories) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return apperrors.NotFound("category")
	}
	delete(f.byID, id)
	return nil
}

type fakeTags struct {
	byID      map[uuid.UUID]*entity.Tag
	campaigns *fakeCampaigns
}

func (f *fakeTags) Create(_ context.Context, tag *entity.Tag) error {
	for _, t := range f.byID {
		if t.Name == tag.Name {
			return apperrors.ErrConflict
		}
	}
	t := *tag
	f.byID[tag.ID] = &t
	return nil
}

func (f *fakeTags) FindByID(_ context.Context, id uuid.UUID) (*entity.Tag, error) {
	if t, ok := f.byID[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeTags) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*entity.Tag, error) {
	out := []*entity.Tag{}
	for _, id := range ids {
		if t, ok := f.byID[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTags) FindByCampaignID(_ context.Context, campaignID uuid.UUID) ([]*entity.Tag, error) {
	out := []*entity.Tag{}
	for _, id := range f.campaigns.tags[campaignID] {
		if t, ok := f.byID[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTags) FindAll(_ context.Context) ([]*entity.Tag, error) {
	out := make([]*entity.Tag, 0, len(f.byID))
	for _, t := range f.byID {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeTags) Update(_ context.Context, tag *entity.Tag) error {
	if _, ok := f.byID[tag.ID]; !ok {
		return apperrors.NotFound("tag")
	}
	t := *tag
	f.byID[tag.ID] = &t
	return nil
}

func (f *fakeTags) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return apperrors.NotFound("tag")
	}
	delete(f.byID, id)
	return nil
}

// ==================== CAMPAIGNS ====================

type fakeCampaigns struct {
	byID map[uuid.UUID]*entity.Campaign
	tags map[uuid.UUID][]uuid.UUID
}

func (f *fakeCampaigns) Create(_ context.Context, campaign *entity.Campaign) error {
	c := *campaign
	f.byID[campaign.ID] = &c
	return nil
}

func (f *fakeCampaigns) FindByID(_ context.Context, id uuid.UUID) (*entity.Campaign, error) {
	if c, ok := f.byID[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeCampaigns) filtered(filter repository.CampaignFilter) []*entity.Campaign {
	out := []*entity.Campaign{}
	for _, c := range f.byID {
		if filter.AuthorID != nil && c.AuthorID != *filter.AuthorID {
			continue
		}
		if filter.CategoryID != nil && (c.CategoryID == nil || *c.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.TagID != nil {
			found := false
			for _, t := range f.tags[c.ID] {
				if t == *filter.TagID {
					found = true
				}
			}
			if !found {
				continue
			}
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeCampaigns) FindAll(_ context.Context, filter repository.CampaignFilter, limit, offset int) ([]*entity.Campaign, error) {
	all := f.filtered(filter)
	if offset >= len(all) {
		return []*entity.Campaign{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeCampaigns) CountAll(_ context.Context, filter repository.CampaignFilter) (int64, error) {
	return int64(len(f.filtered(filter))), nil
}

func (f *fakeCampaigns) Update(_ context.Context, campaign *entity.Campaign) error {
	if _, ok := f.byID[campaign.ID]; !ok {
		return apperrors.NotFound("campaign")
	}
	c := *campaign
	f.byID[campaign.ID] = &c
	return nil
}

func (f *fakeCampaigns) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return apperrors.NotFound("campaign")
	}
	delete(f.byID, id)
	delete(f.tags, id)
	return nil
}

func (f *fakeCampaigns) SetTags(_ context.Context, campaignID uuid.UUID, tagIDs []uuid.UUID) error {
	f.tags[campaignID] = append([]uuid.UUID(nil), tagIDs...)
	return nil
}

type fakeImages struct {
	items []*entity.CampaignImage
}

func (f *fakeImages) Create(_ context.Context, image *entity.CampaignImage) error {
	c := *image
	f.items = append(f.items, &c)
	return nil
}

func (f *fakeImages) FindByID(_ context.Context, id uuid.UUID) (*entity.CampaignImage, error) {
	for _, i := range f.items {
		if i.ID == id {
			c := *i
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeImages) FindByCampaignID(_ context.Context, campaignID uuid.UUID) ([]*entity.CampaignImage, error) {
	out := []*entity.CampaignImage{}
	for _, i := range f.items {
		if i.CampaignID == campaignID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (f *fakeImages) Delete(_ context.Context, id uuid.UUID) error {
	for idx, i := range f.items {
		if i.ID == id {
			f.items = append(f.items[:idx], f.items[idx+1:]...)
			return nil
		}
	}
	return apperrors.NotFound("image")
}

// ==================== DONATIONS, COMMENTS, RATINGS ====================

type fakeDonations struct {
	items     []*entity.Donation
	campaigns *fakeCampaigns
}

func (f *fakeDonations) Create(_ context.Context, donation *entity.Donation) error {
	c := *donation
	f.items = append(f.items, &c)
	return nil
}

func (f *fakeDonations) FindByID(_ context.Context, id uuid.UUID) (*entity.Donation, error) {
	for _, d := range f.items {
		if d.ID == id {
			c := *d
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeDonations) FindByCampaignID(_ context.Context, campaignID uuid.UUID) ([]*entity.Donation, error) {
	out := []*entity.Donation{}
	for _, d := range f.items {
		if d.CampaignID == campaignID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDonations) forAuthor(authorID uuid.UUID, campaignID *uuid.UUID) []*entity.Donation {
	out := []*entity.Donation{}
	for _, d := range f.items {
		c, ok := f.campaigns.byID[d.CampaignID]
		if !ok || c.AuthorID != authorID {
			continue
		}
		if campaignID != nil && d.CampaignID != *campaignID {
			continue
		}
		out = append(out, d)
	}
	return out
}

func (f *fakeDonations) FindForAuthor(_ context.Context, authorID uuid.UUID, campaignID *uuid.UUID, limit, offset int) ([]*entity.Donation, error) {
	all := f.forAuthor(authorID, campaignID)
	if offset >= len(all) {
		return []*entity.Donation{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeDonations) CountForAuthor(_ context.Context, authorID uuid.UUID, campaignID *uuid.UUID) (int64, error) {
	return int64(len(f.forAuthor(authorID, campaignID))), nil
}

func (f *fakeDonations) AmountsByCampaignIDs(_ context.Context, campaignIDs []uuid.UUID) (map[uuid.UUID][]decimal.Decimal, error) {
	out := make(map[uuid.UUID][]decimal.Decimal, len(campaignIDs))
	for _, id := range campaignIDs {
		for _, d := range f.items {
			if d.CampaignID == id {
				out[id] = append(out[id], d.Amount)
			}
		}
	}
	return out, nil
}

type fakeComments struct {
	items []*entity.Comment
}

func (f *fakeComments) Create(_ context.Context, comment *entity.Comment) error {
	c := *comment
	f.items = append(f.items, &c)
	return nil
}

func (f *fakeComments) FindByID(_ context.Context, id uuid.UUID) (*entity.Comment, error) {
	for _, c := range f.items {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeComments) FindByCampaignID(_ context.Context, campaignID uuid.UUID) ([]*entity.Comment, error) {
	out := []*entity.Comment{}
	for _, c := range f.items {
		if c.CampaignID == campaignID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeComments) Delete(_ context.Context, id uuid.UUID) error {
	doomed := map[uuid.UUID]bool{id: true}
	// replies go with their parent
	for changed := true; changed; {
		changed = false
		for _, c := range f.items {
			if c.ParentID != nil && doomed[*c.ParentID] && !doomed[c.ID] {
				doomed[c.ID] = true
				changed = true
			}
		}
	}
	kept := f.items[:0]
	for _, c := range f.items {
		if !doomed[c.ID] {
			kept = append(kept, c)
		}
	}
	f.items = kept
	return nil
}

type fakeRatings struct {
	items []*entity.Rating
}

func (f *fakeRatings) Create(_ context.Context, rating *entity.Rating) error {
	for _, r := range f.items {
		if r.UserID == rating.UserID && r.CampaignID == rating.CampaignID {
			return apperrors.NewFieldError(apperrors.ErrDuplicateRating, "non_field_errors", "You have already rated this post.")
		}
	}
	c := *rating
	f.items = append(f.items, &c)
	return nil
}

func (f *fakeRatings) FindByID(_ context.Context, id uuid.UUID) (*entity.Rating, error) {
	for _, r := range f.items {
		if r.ID == id {
			c := *r
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeRatings) FindByUserAndCampaign(_ context.Context, userID, campaignID uuid.UUID) (*entity.Rating, error) {
	for _, r := range f.items {
		if r.UserID == userID && r.CampaignID == campaignID {
			c := *r
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeRatings) FindByCampaignID(_ context.Context, campaignID uuid.UUID) ([]*entity.Rating, error) {
	out := []*entity.Rating{}
	for _, r := range f.items {
		if r.CampaignID == campaignID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRatings) ValuesByCampaignIDs(_ context.Context, campaignIDs []uuid.UUID) (map[uuid.UUID][]int, error) {
	out := make(map[uuid.UUID][]int, len(campaignIDs))
	for _, id := range campaignIDs {
		for _, r := range f.items {
			if r.CampaignID == id {
				out[id] = append(out[id], r.Value)
			}
		}
	}
	return out, nil
}

func (f *fakeRatings) Update(_ context.Context, rating *entity.Rating) error {
	for i, r := range f.items {
		if r.ID == rating.ID {
			c := *rating
			f.items[i] = &c
			return nil
		}
	}
	return apperrors.NotFound("rating")
}

func (f *fakeRatings) Delete(_ context.Context, id uuid.UUID) error {
	for i, r := range f.items {
		if r.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return apperrors.NotFound("rating")
}

// ==================== NOTIFIER & REVOCATIONS ====================

type sentEmail struct {
	Template  string
	Recipient string
	Data      map[string]any
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, template, recipient string, data map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEmail{Template: template, Recipient: recipient, Data: data})
	return nil
}

// lastToken returns the token at the end of the most recent action link of template.
func (f *fakeNotifier) lastToken(t *testing.T, template string) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.sent) - 1; i >= 0; i-- {
		if f.sent[i].Template != template {
			continue
		}
		link, _ := f.sent[i].Data["ActionURL"].(string)
		return link[strings.LastIndex(link, "/")+1:]
	}
	t.Fatalf("no %s email sent", template)
	return ""
}

func (f *fakeNotifier) count(template string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.sent {
		if s.Template == template {
			n++
		}
	}
	return n
}

type fakeRevocations struct {
	mu      sync.Mutex
	revoked map[uuid.UUID]time.Duration
}

func (f *fakeRevocations) Revoke(_ context.Context, sessionID uuid.UUID, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[sessionID] = ttl
	return nil
}

func (f *fakeRevocations) IsRevoked(_ context.Context, sessionID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.revoked[sessionID]
	return ok, nil
}

// ==================== ENVIRONMENT ====================

type testEnv struct {
	svc         *Service
	repo        *repository.Repository
	users       *fakeUsers
	sessions    *fakeSessions
	categories  *fakeCategories
	tags        *fakeTags
	campaigns   *fakeCampaigns
	images      *fakeImages
	donations   *fakeDonations
	comments    *fakeComments
	ratings     *fakeRatings
	notifier    *fakeNotifier
	revocations *fakeRevocations
	clock       *utils.FixedClock
	codec       *token.Codec
	config      *utils.Config
}

var errSMTPDown = errors.New("smtp down")

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	campaigns := &fakeCampaigns{byID: map[uuid.UUID]*entity.Campaign{}, tags: map[uuid.UUID][]uuid.UUID{}}
	env := &testEnv{
		users:       &fakeUsers{byID: map[uuid.UUID]*entity.User{}},
		sessions:    &fakeSessions{byID: map[uuid.UUID]*entity.Session{}},
		categories:  &fakeCategories{byID: map[uuid.UUID]*entity.Category{}},
		tags:        &fakeTags{byID: map[uuid.UUID]*entity.Tag{}, campaigns: campaigns},
		campaigns:   campaigns,
		images:      &fakeImages{},
		donations:   &fakeDonations{campaigns: campaigns},
		comments:    &fakeComments{},
		ratings:     &fakeRatings{},
		notifier:    &fakeNotifier{},
		revocations: &fakeRevocations{revoked: map[uuid.UUID]time.Duration{}},
		clock:       &utils.FixedClock{T: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)},
		config: &utils.Config{
			App:   utils.AppConfig{Name: "crowdfunding", FrontendURL: "http://front.test/"},
			JWT:   utils.JWTConfig{Secret: "test-secret", AccessTTL: 15 * time.Minute, RefreshTTL: 24 * time.Hour},
			Token: utils.TokenConfig{ActivationTTL: time.Hour, ResetTTL: time.Hour},
			Mail:  utils.MailConfig{SupportEmail: "support@test"},
		},
	}
	env.codec = token.NewCodec(env.config.JWT.Secret, env.clock)
	env.repo = &repository.Repository{
		User:          env.users,
		Session:       env.sessions,
		Category:      env.categories,
		Tag:           env.tags,
		Campaign:      env.campaigns,
		CampaignImage: env.images,
		Donation:      env.donations,
		Comment:       env.comments,
		Rating:        env.ratings,
	}
	env.svc = NewService(env.repo, env.config, env.codec, env.notifier, env.revocations, env.clock, zap.NewNop())
	return env
}

func mustParseUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

// seedUser stores a user directly, bypassing registration.
func (e *testEnv) seedUser(t *testing.T, username string, verified bool) *entity.User {
	t.Helper()
	hash, err := utils.HashPassword("Secret123!")
	if err != nil {
		t.Fatal(err)
	}
	u := &entity.User{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: e.clock.Now(), UpdatedAt: e.clock.Now()},
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Phone:        "01012345678",
		Verified:     verified,
	}
	e.users.byID[u.ID] = u
	return u
}

func (e *testEnv) seedCampaign(author *entity.User, target string) *entity.Campaign {
	c := &entity.Campaign{
		BaseEditable: entity.BaseEditable{ID: uuid.New(), CreatedAt: e.clock.Now(), UpdatedAt: e.clock.Now()},
		Title:        "Clean water",
		Content:      "Wells for the village",
		AuthorID:     author.ID,
		TargetAmount: decimal.RequireFromString(target),
	}
	e.campaigns.byID[c.ID] = c
	e.clock.Advance(time.Second)
	return c
}

func (e *testEnv) seedDonation(campaign *entity.Campaign, donor *entity.User, amount string) {
	e.donations.items = append(e.donations.items, &entity.Donation{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: e.clock.Now()},
		CampaignID: campaign.ID,
		UserID:     &donor.ID,
		Amount:     decimal.RequireFromString(amount),
	})
}
