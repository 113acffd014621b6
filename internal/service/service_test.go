package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/devevents/api/internal/apperror"
	"github.com/devevents/api/internal/auth"
	"github.com/devevents/api/internal/model"
	"github.com/devevents/api/internal/repository"
)

// Hand-written in-memory mocks. The services only see the repository
// interfaces, so a map-backed fake exercises the same code paths as the
// SQLite implementation without any database setup.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPasswords() *auth.PasswordService {
	return auth.NewPasswordServiceForTest(bcrypt.MinCost)
}

// ---------------------------------------------------------------------------
// users

type mockUserRepo struct {
	users  map[int64]*model.User
	nextID int64
}

var _ repository.UserRepository = (*mockUserRepo)(nil)

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*model.User)}
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *model.User) error {
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("User not found")
	}
	result := *user
	return &result, nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			result := *user
			return &result, nil
		}
	}
	return nil, apperror.NotFound("User not found")
}

func (m *mockUserRepo) EmailTaken(_ context.Context, email string, excludeID int64) (bool, error) {
	for _, user := range m.users {
		if user.Email == email && user.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) ListUsers(_ context.Context, opts repository.ListOptions) ([]model.User, int, error) {
	all := make([]model.User, 0, len(m.users))
	for _, user := range m.users {
		all = append(all, *user)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := len(all)
	if opts.Offset >= len(all) {
		return []model.User{}, total, nil
	}
	all = all[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(all) {
		all = all[:opts.Limit]
	}
	return all, total, nil
}

func (m *mockUserRepo) UpdateUser(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return apperror.NotFound("User not found")
	}
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) UpdateUserPassword(_ context.Context, id int64, passwordHash string) error {
	user, ok := m.users[id]
	if !ok {
		return apperror.NotFound("User not found")
	}
	user.Password = passwordHash
	return nil
}

// ---------------------------------------------------------------------------
// categories

type mockCategoryRepo struct {
	categories []model.Category
}

var _ repository.CategoryRepository = (*mockCategoryRepo)(nil)

func newMockCategoryRepo() *mockCategoryRepo {
	repo := &mockCategoryRepo{}
	for i, name := range model.SeedCategories {
		repo.categories = append(repo.categories, model.Category{ID: int64(i + 1), Name: name})
	}
	return repo
}

func (m *mockCategoryRepo) ListCategories(_ context.Context) ([]model.Category, error) {
	return append([]model.Category(nil), m.categories...), nil
}

func (m *mockCategoryRepo) GetCategoryByID(_ context.Context, id int64) (*model.Category, error) {
	for _, c := range m.categories {
		if c.ID == id {
			result := c
			return &result, nil
		}
	}
	return nil, apperror.NotFound("Resource not found")
}

// ---------------------------------------------------------------------------
// events

type mockEventRepo struct {
	events     map[int64]*model.Event
	attendees  map[int64][]int64
	nextID     int64
	users      *mockUserRepo
	categories *mockCategoryRepo
}

var _ repository.EventRepository = (*mockEventRepo)(nil)

func newMockEventRepo(users *mockUserRepo, categories *mockCategoryRepo) *mockEventRepo {
	return &mockEventRepo{
		events:     make(map[int64]*model.Event),
		attendees:  make(map[int64][]int64),
		users:      users,
		categories: categories,
	}
}

func (m *mockEventRepo) CreateEvent(_ context.Context, event *model.Event) error {
	m.nextID++
	event.ID = m.nextID
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	stored := *event
	m.events[event.ID] = &stored
	m.attendees[event.ID] = []int64{event.UserID}
	return nil
}

func (m *mockEventRepo) GetEventByID(_ context.Context, id int64) (*model.Event, error) {
	event, ok := m.events[id]
	if !ok {
		return nil, apperror.NotFound("Resource not found")
	}
	result := *event
	return &result, nil
}

func (m *mockEventRepo) GetEventDetail(ctx context.Context, id int64) (*model.EventDetail, error) {
	event, ok := m.events[id]
	if !ok {
		return nil, apperror.NotFound("Resource not found")
	}
	return m.buildDetail(ctx, event)
}

func (m *mockEventRepo) ListEvents(ctx context.Context, opts repository.ListOptions) ([]model.EventDetail, int, error) {
	ids := make([]int64, 0, len(m.events))
	for id := range m.events {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	total := len(ids)
	if opts.Offset >= len(ids) {
		return []model.EventDetail{}, total, nil
	}
	ids = ids[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(ids) {
		ids = ids[:opts.Limit]
	}

	details := make([]model.EventDetail, 0, len(ids))
	for _, id := range ids {
		d, err := m.buildDetail(ctx, m.events[id])
		if err != nil {
			return nil, 0, err
		}
		details = append(details, *d)
	}
	return details, total, nil
}

func (m *mockEventRepo) UpdateEvent(_ context.Context, event *model.Event) error {
	if _, ok := m.events[event.ID]; !ok {
		return apperror.NotFound("Resource not found")
	}
	stored := *event
	m.events[event.ID] = &stored
	return nil
}

func (m *mockEventRepo) DeleteEvent(_ context.Context, id int64) error {
	if _, ok := m.events[id]; !ok {
		return apperror.NotFound("Resource not found")
	}
	delete(m.events, id)
	delete(m.attendees, id)
	return nil
}

func (m *mockEventRepo) Attendees(ctx context.Context, eventID int64) ([]model.Attendee, error) {
	result := []model.Attendee{}
	for _, userID := range m.attendees[eventID] {
		user, err := m.users.GetUserByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		result = append(result, model.Attendee{
			ID:        user.ID,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Bio:       user.Bio,
		})
	}
	return result, nil
}

func (m *mockEventRepo) IsAttendee(_ context.Context, eventID, userID int64) (bool, error) {
	for _, id := range m.attendees[eventID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEventRepo) AddAttendee(_ context.Context, eventID, userID int64) error {
	m.attendees[eventID] = append(m.attendees[eventID], userID)
	return nil
}

func (m *mockEventRepo) RemoveAttendee(_ context.Context, eventID, userID int64) error {
	list := m.attendees[eventID]
	for i, id := range list {
		if id == userID {
			m.attendees[eventID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockEventRepo) buildDetail(ctx context.Context, event *model.Event) (*model.EventDetail, error) {
	owner, err := m.users.GetUserByID(ctx, event.UserID)
	if err != nil {
		return nil, err
	}
	category, err := m.categories.GetCategoryByID(ctx, event.CategoryID)
	if err != nil {
		return nil, err
	}
	attendees, err := m.Attendees(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	return &model.EventDetail{
		ID:            event.ID,
		Title:         event.Title,
		Description:   event.Description,
		CoverImage:    event.CoverImage,
		Venue:         event.Venue,
		VenueLat:      event.VenueLat,
		VenueLng:      event.VenueLng,
		AttendeeTotal: event.AttendeeTotal,
		Date:          event.Date,
		User: model.UserSummary{
			ID:        owner.ID,
			FirstName: owner.FirstName,
			LastName:  owner.LastName,
			Email:     owner.Email,
			Bio:       owner.Bio,
		},
		Category:  *category,
		Attendees: attendees,
	}, nil
}
