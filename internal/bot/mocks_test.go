package bot

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) DropPending(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSource) Start(ctx context.Context, dispatch func(Event)) {
	m.Called(ctx, dispatch)
}

func (m *MockSource) Send(ctx context.Context, reply Reply) error {
	args := m.Called(ctx, reply)
	return args.Error(0)
}

func (m *MockSource) Typing(ctx context.Context, chatID int64) error {
	args := m.Called(ctx, chatID)
	return args.Error(0)
}

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, prompt string) mo.Result[string] {
	args := m.Called(ctx, prompt)
	return args.Get(0).(mo.Result[string])
}
