package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/dwellio/backend/internal/models"
	"github.com/dwellio/backend/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeStore is an in-memory stand-in for both repositories, mirroring their
// filter, expansion, and transactional semantics so handler contracts can be
// exercised without a running deployment.
type fakeStore struct {
	users      map[primitive.ObjectID]*models.User
	properties map[primitive.ObjectID]*models.Property
	order      []primitive.ObjectID // property insertion order

	failWith error // when set, every operation fails with this error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      make(map[primitive.ObjectID]*models.User),
		properties: make(map[primitive.ObjectID]*models.Property),
	}
}

func (s *fakeStore) List(_ context.Context, q repository.ListQuery) ([]models.PropertyListItem, int64, error) {
	if s.failWith != nil {
		return nil, 0, s.failWith
	}

	var creatorID primitive.ObjectID
	if q.Creator != "" {
		id, err := primitive.ObjectIDFromHex(q.Creator)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid creator id %q: %w", q.Creator, err)
		}
		creatorID = id
	}

	var matched []*models.Property
	for _, id := range s.order {
		p := s.properties[id]
		if q.PropertyType != "" && p.PropertyType != q.PropertyType {
			continue
		}
		if q.TitleLike != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(q.TitleLike)) {
			continue
		}
		if q.Creator != "" && p.Creator != creatorID {
			continue
		}
		matched = append(matched, p)
	}

	total := int64(len(matched))

	sort.SliceStable(matched, func(i, j int) bool {
		var less bool
		switch q.SortField() {
		case "price":
			less = matched[i].Price < matched[j].Price
		case "title":
			less = matched[i].Title < matched[j].Title
		default:
			less = matched[i].ID.Hex() < matched[j].ID.Hex()
		}
		if q.SortDirection() < 0 {
			return !less
		}
		return less
	})

	skip := q.Skip()
	if skip > len(matched) {
		skip = len(matched)
	}
	end := skip + q.Limit()
	if end > len(matched) {
		end = len(matched)
	}
	matched = matched[skip:end]

	items := make([]models.PropertyListItem, 0, len(matched))
	for _, p := range matched {
		summary := models.CreatorSummary{}
		if creator, ok := s.users[p.Creator]; ok {
			summary = models.CreatorSummary{
				ID:     creator.ID,
				Name:   creator.Name,
				Email:  creator.Email,
				Avatar: creator.Avatar,
			}
		}
		items = append(items, models.PropertyListItem{
			ID:           p.ID,
			Title:        p.Title,
			Description:  p.Description,
			PropertyType: p.PropertyType,
			Location:     p.Location,
			Price:        p.Price,
			Photo:        p.Photo,
			Creator:      summary,
		})
	}
	return items, total, nil
}

func (s *fakeStore) GetByID(_ context.Context, id string) (models.PropertyDetail, error) {
	if s.failWith != nil {
		return models.PropertyDetail{}, s.failWith
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.PropertyDetail{}, repository.ErrNotFound
	}
	p, ok := s.properties[oid]
	if !ok {
		return models.PropertyDetail{}, repository.ErrNotFound
	}
	return s.expand(p), nil
}

func (s *fakeStore) Create(_ context.Context, property models.Property) (models.Property, error) {
	if s.failWith != nil {
		return models.Property{}, s.failWith
	}
	owner, ok := s.users[property.Creator]
	if !ok {
		return models.Property{}, repository.ErrNotFound
	}

	property.ID = primitive.NewObjectID()
	s.properties[property.ID] = &property
	s.order = append(s.order, property.ID)
	owner.AllProperties = append(owner.AllProperties, property.ID)
	return property, nil
}

func (s *fakeStore) Update(_ context.Context, id string, upd models.PropertyUpdate) (models.PropertyDetail, error) {
	if s.failWith != nil {
		return models.PropertyDetail{}, s.failWith
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.PropertyDetail{}, repository.ErrNotFound
	}
	p, ok := s.properties[oid]
	if !ok {
		return models.PropertyDetail{}, repository.ErrNotFound
	}

	p.Title = upd.Title
	p.Description = upd.Description
	p.PropertyType = upd.PropertyType
	p.Location = upd.Location
	p.Price = upd.Price
	if upd.Photo != nil {
		p.Photo = *upd.Photo
	}
	return s.expand(p), nil
}

func (s *fakeStore) Delete(_ context.Context, id string) error {
	if s.failWith != nil {
		return s.failWith
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}
	if _, ok := s.properties[oid]; !ok {
		return repository.ErrNotFound
	}
	delete(s.properties, oid)
	for i, ordered := range s.order {
		if ordered == oid {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *fakeStore) ListUsers(_ context.Context) ([]models.UserDetail, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	details := make([]models.UserDetail, 0, len(s.users))
	for _, user := range s.users {
		details = append(details, s.expandUser(user))
	}
	sort.Slice(details, func(i, j int) bool { return details[i].ID.Hex() < details[j].ID.Hex() })
	return details, nil
}

func (s *fakeStore) GetUserByID(_ context.Context, id string) (models.UserDetail, error) {
	if s.failWith != nil {
		return models.UserDetail{}, s.failWith
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.UserDetail{}, repository.ErrNotFound
	}
	user, ok := s.users[oid]
	if !ok {
		return models.UserDetail{}, repository.ErrNotFound
	}
	return s.expandUser(user), nil
}

func (s *fakeStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	if s.failWith != nil {
		return models.User{}, s.failWith
	}
	for _, user := range s.users {
		if user.Email == email {
			return *user, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func (s *fakeStore) CreateUser(ctx context.Context, user models.User) (models.User, bool, error) {
	if s.failWith != nil {
		return models.User{}, false, s.failWith
	}
	if existing, err := s.FindByEmail(ctx, user.Email); err == nil {
		return existing, false, nil
	}
	user.ID = primitive.NewObjectID()
	if user.AllProperties == nil {
		user.AllProperties = []primitive.ObjectID{}
	}
	s.users[user.ID] = &user
	return user, true, nil
}

func (s *fakeStore) expand(p *models.Property) models.PropertyDetail {
	detail := models.PropertyDetail{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		PropertyType: p.PropertyType,
		Location:     p.Location,
		Price:        p.Price,
		Photo:        p.Photo,
	}
	if creator, ok := s.users[p.Creator]; ok {
		detail.Creator = *creator
	}
	return detail
}

func (s *fakeStore) expandUser(user *models.User) models.UserDetail {
	expanded := make([]models.Property, 0, len(user.AllProperties))
	for _, ref := range user.AllProperties {
		if p, ok := s.properties[ref]; ok {
			expanded = append(expanded, *p)
		}
	}
	return models.UserDetail{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Avatar:        user.Avatar,
		AllProperties: expanded,
	}
}

// userStoreAdapter maps the fake's user methods onto the UserStore interface
// without colliding with the property method names.
type userStoreAdapter struct{ *fakeStore }

func (a userStoreAdapter) List(ctx context.Context) ([]models.UserDetail, error) {
	return a.ListUsers(ctx)
}

func (a userStoreAdapter) GetByID(ctx context.Context, id string) (models.UserDetail, error) {
	return a.GetUserByID(ctx, id)
}

func (a userStoreAdapter) Create(ctx context.Context, user models.User) (models.User, bool, error) {
	return a.CreateUser(ctx, user)
}

type fakeUploader struct {
	uploads []string
	failErr error
}

func (u *fakeUploader) Upload(_ context.Context, payload string) (string, error) {
	if u.failErr != nil {
		return "", u.failErr
	}
	u.uploads = append(u.uploads, payload)
	return fmt.Sprintf("https://media.test/upload/%d.png", len(u.uploads)), nil
}

type testEnv struct {
	app   *fiber.App
	store *fakeStore
	media *fakeUploader
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newFakeStore()
	media := &fakeUploader{}

	propertiesHandler := NewPropertiesHandler(store, userStoreAdapter{store}, media, NewValidator())
	usersHandler := NewUsersHandler(userStoreAdapter{store})

	app := fiber.New()
	app.Use(recover.New())

	api := app.Group("/api/v1")
	propertyRoutes := api.Group("/properties")
	propertyRoutes.Get("/", propertiesHandler.List)
	propertyRoutes.Post("/", propertiesHandler.Create)
	propertyRoutes.Get("/show/:id", propertiesHandler.Get)
	propertyRoutes.Get("/:id", propertiesHandler.Get)
	propertyRoutes.Patch("/:id", propertiesHandler.Update)
	propertyRoutes.Delete("/:id", propertiesHandler.Delete)

	for _, prefix := range []string{"/users", "/agents"} {
		group := api.Group(prefix)
		group.Get("/", usersHandler.List)
		group.Post("/", usersHandler.Create)
		group.Get("/show/:id", usersHandler.Get)
		group.Get("/:id", usersHandler.Get)
	}

	return &testEnv{app: app, store: store, media: media}
}

func seedUser(t *testing.T, store *fakeStore, name, email string) models.User {
	t.Helper()
	user, created, err := store.CreateUser(context.Background(), models.User{Name: name, Email: email})
	if err != nil || !created {
		t.Fatalf("failed seeding user %s: created=%v err=%v", email, created, err)
	}
	return user
}

func seedProperty(t *testing.T, store *fakeStore, owner models.User, title, propertyType string, price float64) models.Property {
	t.Helper()
	property, err := store.Create(context.Background(), models.Property{
		Title:        title,
		Description:  "seeded",
		PropertyType: propertyType,
		Location:     "Testville",
		Price:        price,
		Photo:        "https://media.test/seed.png",
		Creator:      owner.ID,
	})
	if err != nil {
		t.Fatalf("failed seeding property %s: %v", title, err)
	}
	return property
}

func performRequest(t *testing.T, app *fiber.App, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req, int((10 * time.Second).Milliseconds()))
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	return resp
}

func performJSONRequest(t *testing.T, app *fiber.App, method, path string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	headers := map[string]string{}
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
		headers["Content-Type"] = "application/json"
	}
	return performRequest(t, app, method, path, body, headers)
}

func decodeJSONMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("failed decoding JSON response: %v body=%q", err, string(raw))
	}
	return payload
}

func decodeJSONArray(t *testing.T, resp *http.Response) []any {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}

	var payload []any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("failed decoding JSON array: %v body=%q", err, string(raw))
	}
	return payload
}

func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Fatalf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

var errStoreDown = errors.New("connection reset by peer")
