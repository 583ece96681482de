package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"portfolio-contact/internal/domain"
	"portfolio-contact/internal/usecase"
	"portfolio-contact/pkg/apperror"
	"portfolio-contact/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock Repositories
type MockContactRepo struct {
	mock.Mock
}

func (m *MockContactRepo) Create(ctx context.Context, msg *domain.ContactMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockContactRepo) List(ctx context.Context, opts domain.ContactListOptions) ([]domain.ContactMessage, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContactMessage), args.Error(1)
}

func (m *MockContactRepo) Count(ctx context.Context, opts domain.ContactListOptions) (int, error) {
	args := m.Called(ctx, opts)
	return args.Int(0), args.Error(1)
}

func (m *MockContactRepo) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) IsConfigured() bool {
	return m.Called().Bool(0)
}

func (m *MockMailer) SendContactEmail(ctx context.Context, msg *domain.ContactMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockMailer) SendConfirmationEmail(ctx context.Context, name, email string) error {
	return m.Called(ctx, name, email).Error(0)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestSubmitContact(t *testing.T) {
	t.Run("Should store normalized message and send both mails", func(t *testing.T) {
		repo := new(MockContactRepo)
		mailer := new(MockMailer)
		m := metrics.New()
		uc := usecase.NewContactUsecase(repo, mailer, m)

		repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ContactMessage")).Return(nil).Run(func(args mock.Arguments) {
			msg := args.Get(1).(*domain.ContactMessage)
			assert.Equal(t, "Ana", msg.Name)
			assert.Equal(t, "ana@example.com", msg.Email)
			assert.Equal(t, "Hello there, nice portfolio", msg.Message)
			assert.Equal(t, domain.MessageStatusNew, msg.Status)
			assert.Equal(t, "10.0.0.1", msg.IPAddress)
			assert.NotEmpty(t, msg.ID)
		})
		mailer.On("IsConfigured").Return(true)
		mailer.On("SendContactEmail", mock.Anything, mock.Anything).Return(nil)
		mailer.On("SendConfirmationEmail", mock.Anything, "Ana", "ana@example.com").Return(nil)

		msg, err := uc.SubmitContact(context.Background(), &domain.ContactRequest{
			Name: "  Ana ", Email: " Ana@Example.com", Message: " Hello there, nice portfolio ",
		}, domain.ClientMeta{IPAddress: "10.0.0.1", UserAgent: "test"})

		require.NoError(t, err)
		assert.NotEmpty(t, msg.ID)
		repo.AssertExpectations(t)
		mailer.AssertExpectations(t)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues(metrics.OutcomeAccepted)))
	})

	t.Run("Should succeed even when mail delivery fails", func(t *testing.T) {
		repo := new(MockContactRepo)
		mailer := new(MockMailer)
		m := metrics.New()
		uc := usecase.NewContactUsecase(repo, mailer, m)

		repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		mailer.On("IsConfigured").Return(true)
		mailer.On("SendContactEmail", mock.Anything, mock.Anything).Return(errors.New("smtp down"))
		mailer.On("SendConfirmationEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

		_, err := uc.SubmitContact(context.Background(), &domain.ContactRequest{
			Name: "Ana", Email: "ana@example.com", Message: "Hello there, nice portfolio",
		}, domain.ClientMeta{})

		assert.NoError(t, err)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.EmailErrors.WithLabelValues("owner")))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.EmailErrors.WithLabelValues("confirmation")))
	})

	t.Run("Should skip mail when not configured", func(t *testing.T) {
		repo := new(MockContactRepo)
		mailer := new(MockMailer)
		uc := usecase.NewContactUsecase(repo, mailer, nil)

		repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		mailer.On("IsConfigured").Return(false)

		_, err := uc.SubmitContact(context.Background(), &domain.ContactRequest{
			Name: "Ana", Email: "ana@example.com", Message: "Hello there, nice portfolio",
		}, domain.ClientMeta{})

		assert.NoError(t, err)
		mailer.AssertNotCalled(t, "SendContactEmail", mock.Anything, mock.Anything)
	})

	t.Run("Should return 500 app error when storage fails", func(t *testing.T) {
		repo := new(MockContactRepo)
		mailer := new(MockMailer)
		uc := usecase.NewContactUsecase(repo, mailer, nil)

		repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

		_, err := uc.SubmitContact(context.Background(), &domain.ContactRequest{
			Name: "Ana", Email: "ana@example.com", Message: "Hello there, nice portfolio",
		}, domain.ClientMeta{})

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusInternalServerError, appErr.Code)
		assert.Equal(t, "Failed to save message. Please try again.", appErr.Message)
		mailer.AssertNotCalled(t, "IsConfigured")
	})

	t.Run("Should reject blank fields from direct callers", func(t *testing.T) {
		repo := new(MockContactRepo)
		uc := usecase.NewContactUsecase(repo, nil, nil)

		_, err := uc.SubmitContact(context.Background(), &domain.ContactRequest{Name: " ", Email: "a@b.c", Message: "x"}, domain.ClientMeta{})

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestListMessages(t *testing.T) {
	t.Run("Should clamp paging and pass filters through", func(t *testing.T) {
		repo := new(MockContactRepo)
		uc := usecase.NewContactUsecase(repo, nil, nil)

		want := domain.ContactListOptions{Limit: usecase.MaxListLimit, Skip: 0, Statuses: []domain.MessageStatus{domain.MessageStatusNew}}
		repo.On("List", mock.Anything, want).Return([]domain.ContactMessage{{ID: "1"}}, nil)
		repo.On("Count", mock.Anything, want).Return(7, nil)

		msgs, total, err := uc.ListMessages(context.Background(), domain.ContactListOptions{
			Limit: 10000, Skip: -3, Statuses: []domain.MessageStatus{domain.MessageStatusNew},
		})

		require.NoError(t, err)
		assert.Len(t, msgs, 1)
		assert.Equal(t, 7, total)
	})

	t.Run("Should reject unknown status", func(t *testing.T) {
		repo := new(MockContactRepo)
		uc := usecase.NewContactUsecase(repo, nil, nil)

		_, _, err := uc.ListMessages(context.Background(), domain.ContactListOptions{Statuses: []domain.MessageStatus{"archived"}})

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
	})
}

func TestHealthCheck(t *testing.T) {
	t.Run("Should report healthy with cache and mail", func(t *testing.T) {
		repo := new(MockContactRepo)
		cache := new(MockPinger)
		mailer := new(MockMailer)
		repo.On("Ping", mock.Anything).Return(nil)
		cache.On("Ping", mock.Anything).Return(nil)
		mailer.On("IsConfigured").Return(true)

		status, err := usecase.NewHealthUsecase(repo, cache, mailer).Check(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "healthy", status.Status)
		assert.Equal(t, "connected", status.Services["cache"])
		assert.Equal(t, "configured", status.Services["email"])
	})

	t.Run("Should fail when database is down", func(t *testing.T) {
		repo := new(MockContactRepo)
		repo.On("Ping", mock.Anything).Return(errors.New("refused"))

		status, err := usecase.NewHealthUsecase(repo, nil, nil).Check(context.Background())

		assert.ErrorIs(t, err, usecase.ErrDatabaseDown)
		assert.Equal(t, "unhealthy", status.Status)
		assert.Equal(t, "in_memory", status.Services["cache"])
	})
}
