package ext

import (
	"github.com/stretchr/testify/mock"
)

type MockAmbassador struct {
	mock.Mock
}

func NewMockAmbassador() *MockAmbassador {
	return &MockAmbassador{}
}

func (m *MockAmbassador) IsTerminal() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockAmbassador) ReadLine() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockAmbassador) ReadPassword() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}
