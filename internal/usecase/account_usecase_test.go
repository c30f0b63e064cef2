package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"github.com/iho/creditline/internal/domain"
	"github.com/iho/creditline/internal/infrastructure/metrics"
	"github.com/iho/creditline/internal/usecase"
	"github.com/iho/creditline/internal/usecase/mocks"
)

func TestAccountUseCase_CreateAccount(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.CreateAccountInput
		setupMocks  func(*mocks.MockAccountRepository, *mocks.MockIDGenerator, *mocks.MockEventPublisher)
		expectError error
	}{
		{
			name:  "successful account creation",
			input: usecase.CreateAccountInput{Name: "  Acme working capital "},
			setupMocks: func(repo *mocks.MockAccountRepository, idGen *mocks.MockIDGenerator, pub *mocks.MockEventPublisher) {
				idGen.EXPECT().Generate().Return("acc-1")
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, account *domain.Account) error {
						if account.Name != "Acme working capital" {
							t.Errorf("expected trimmed name, got %q", account.Name)
						}
						return nil
					})
				pub.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, messages ...domain.Message) error {
						if len(messages) != 1 || messages[0].Type != domain.MessageTypeAccountCreated || messages[0].Key != "acc-1" {
							t.Errorf("unexpected messages %+v", messages)
						}
						return nil
					})
			},
		},
		{
			name:        "invalid name",
			input:       usecase.CreateAccountInput{Name: "   "},
			setupMocks:  func(*mocks.MockAccountRepository, *mocks.MockIDGenerator, *mocks.MockEventPublisher) {},
			expectError: domain.ErrInvalidAccountName,
		},
		{
			name:  "repository error",
			input: usecase.CreateAccountInput{Name: "line"},
			setupMocks: func(repo *mocks.MockAccountRepository, idGen *mocks.MockIDGenerator, _ *mocks.MockEventPublisher) {
				idGen.EXPECT().Generate().Return("acc-1")
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
			},
			expectError: errors.New("connection reset"),
		},
		{
			name:  "publish failure does not fail creation",
			input: usecase.CreateAccountInput{Name: "line"},
			setupMocks: func(repo *mocks.MockAccountRepository, idGen *mocks.MockIDGenerator, pub *mocks.MockEventPublisher) {
				idGen.EXPECT().Generate().Return("acc-1")
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
				pub.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := mocks.NewMockAccountRepository(ctrl)
			idGen := mocks.NewMockIDGenerator(ctrl)
			pub := mocks.NewMockEventPublisher(ctrl)
			tt.setupMocks(repo, idGen, pub)

			m := metrics.New(prometheus.NewRegistry())
			uc := usecase.NewAccountUseCase(repo, idGen, pub, m, zerolog.Nop())

			account, err := uc.CreateAccount(context.Background(), tt.input)

			if tt.expectError != nil {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if errors.Is(tt.expectError, domain.ErrInvalidAccountName) && !errors.Is(err, domain.ErrInvalidAccountName) {
					t.Fatalf("expected ErrInvalidAccountName, got %v", err)
				}
				if got := testutil.ToFloat64(m.AccountsCreated); got != 0 {
					t.Errorf("expected no accounts counted, got %v", got)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if account.ID != "acc-1" || account.EventCount != 0 || account.LastEvent != nil {
				t.Errorf("unexpected account %+v", account)
			}
			if got := testutil.ToFloat64(m.AccountsCreated); got != 1 {
				t.Errorf("expected 1 account counted, got %v", got)
			}
		})
	}
}

func TestAccountUseCase_GetAccount(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockAccountRepository(ctrl)
	repo.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, domain.ErrAccountNotFound)

	uc := usecase.NewAccountUseCase(repo, nil, nil, nil, zerolog.Nop())

	if _, err := uc.GetAccount(context.Background(), "missing"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountUseCase_ListAccounts(t *testing.T) {
	tests := []struct {
		name       string
		input      usecase.ListAccountsInput
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", input: usecase.ListAccountsInput{}, wantLimit: usecase.DefaultPageSize, wantOffset: 0},
		{name: "caps limit", input: usecase.ListAccountsInput{Limit: 1000, Offset: 5}, wantLimit: usecase.MaxPageSize, wantOffset: 5},
		{name: "negative offset", input: usecase.ListAccountsInput{Limit: 10, Offset: -1}, wantLimit: 10, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := mocks.NewMockAccountRepository(ctrl)
			repo.EXPECT().List(gomock.Any(), tt.wantLimit, tt.wantOffset).Return([]*domain.Account{{ID: "acc-1"}}, nil)

			uc := usecase.NewAccountUseCase(repo, nil, nil, nil, zerolog.Nop())

			accounts, err := uc.ListAccounts(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(accounts) != 1 {
				t.Errorf("expected 1 account, got %d", len(accounts))
			}
		})
	}
}
