package sheets

import (
	"context"
	"sync"

	"github.com/pmehta/expenso/internal/model"
)

// MockStore is a mock implementation of Store for testing.
type MockStore struct {
	FindFunc        func(ctx context.Context, name string) (*model.SpreadsheetRef, error)
	CreateFunc      func(ctx context.Context, title, worksheetTitle string) (*model.SpreadsheetRef, error)
	WriteHeaderFunc func(ctx context.Context, spreadsheetID, worksheetTitle string) error
	AppendRowFunc   func(ctx context.Context, spreadsheetID, rangeSelector string, row []string) error

	FindCalls        []string
	CreateCalls      []string
	WriteHeaderCalls []string
	AppendCalls      []AppendCall

	mu sync.Mutex
}

// AppendCall records a single call to AppendRow.
type AppendCall struct {
	SpreadsheetID string
	RangeSelector string
	Row           []string
}

// NewMockStore creates a new mock store.
func NewMockStore() *MockStore {
	return &MockStore{}
}

// FindSpreadsheet implements the Store interface.
func (m *MockStore) FindSpreadsheet(ctx context.Context, name string) (*model.SpreadsheetRef, error) {
	m.mu.Lock()
	m.FindCalls = append(m.FindCalls, name)
	m.mu.Unlock()

	if m.FindFunc != nil {
		return m.FindFunc(ctx, name)
	}
	return nil, nil
}

// CreateSpreadsheet implements the Store interface.
func (m *MockStore) CreateSpreadsheet(ctx context.Context, title, worksheetTitle string) (*model.SpreadsheetRef, error) {
	m.mu.Lock()
	m.CreateCalls = append(m.CreateCalls, title)
	m.mu.Unlock()

	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, title, worksheetTitle)
	}
	return &model.SpreadsheetRef{ID: "mock-sheet-id", URL: "https://docs.google.com/spreadsheets/d/mock-sheet-id/edit"}, nil
}

// WriteHeader implements the Store interface.
func (m *MockStore) WriteHeader(ctx context.Context, spreadsheetID, worksheetTitle string) error {
	m.mu.Lock()
	m.WriteHeaderCalls = append(m.WriteHeaderCalls, spreadsheetID)
	m.mu.Unlock()

	if m.WriteHeaderFunc != nil {
		return m.WriteHeaderFunc(ctx, spreadsheetID, worksheetTitle)
	}
	return nil
}

// AppendRow implements the Store interface.
func (m *MockStore) AppendRow(ctx context.Context, spreadsheetID, rangeSelector string, row []string) error {
	m.mu.Lock()
	m.AppendCalls = append(m.AppendCalls, AppendCall{
		SpreadsheetID: spreadsheetID,
		RangeSelector: rangeSelector,
		Row:           row,
	})
	m.mu.Unlock()

	if m.AppendRowFunc != nil {
		return m.AppendRowFunc(ctx, spreadsheetID, rangeSelector, row)
	}
	return nil
}

// AppendCallCount returns how many times AppendRow was called.
func (m *MockStore) AppendCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.AppendCalls)
}

// Factory returns a StoreFactory that always yields this mock.
func (m *MockStore) Factory() StoreFactory {
	return func(_ context.Context, _ string) (Store, error) {
		return m, nil
	}
}
