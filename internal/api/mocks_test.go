package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-progress/internal/domain"
	"github.com/phrazzld/lingo-progress/internal/domain/srs"
	"github.com/phrazzld/lingo-progress/internal/service/learning"
	"github.com/stretchr/testify/mock"
)

// MockLearningService is a mock implementation of learning.Service
type MockLearningService struct {
	mock.Mock
}

var _ learning.Service = (*MockLearningService)(nil)

func (m *MockLearningService) GetAdaptiveState(ctx context.Context, studentID uuid.UUID) (*learning.AdaptiveStatus, error) {
	args := m.Called(ctx, studentID)
	status, _ := args.Get(0).(*learning.AdaptiveStatus)
	return status, args.Error(1)
}

func (m *MockLearningService) RecordAnswer(
	ctx context.Context,
	studentID uuid.UUID,
	record domain.PerformanceRecord,
) (*learning.AdaptiveStatus, error) {
	args := m.Called(ctx, studentID, record)
	status, _ := args.Get(0).(*learning.AdaptiveStatus)
	return status, args.Error(1)
}

func (m *MockLearningService) CommitLevelUp(ctx context.Context, studentID uuid.UUID) (*learning.AdaptiveStatus, error) {
	args := m.Called(ctx, studentID)
	status, _ := args.Get(0).(*learning.AdaptiveStatus)
	return status, args.Error(1)
}

func (m *MockLearningService) CommitLevelDown(ctx context.Context, studentID uuid.UUID) (*learning.AdaptiveStatus, error) {
	args := m.Called(ctx, studentID)
	status, _ := args.Get(0).(*learning.AdaptiveStatus)
	return status, args.Error(1)
}

func (m *MockLearningService) InitializeWord(
	ctx context.Context,
	studentID uuid.UUID,
	wordID string,
) (*domain.VocabularyProgress, bool, error) {
	args := m.Called(ctx, studentID, wordID)
	progress, _ := args.Get(0).(*domain.VocabularyProgress)
	return progress, args.Bool(1), args.Error(2)
}

func (m *MockLearningService) ReviewWord(
	ctx context.Context,
	studentID uuid.UUID,
	wordID string,
	quality domain.Quality,
) (*domain.VocabularyProgress, error) {
	args := m.Called(ctx, studentID, wordID, quality)
	progress, _ := args.Get(0).(*domain.VocabularyProgress)
	return progress, args.Error(1)
}

func (m *MockLearningService) PostponeWord(
	ctx context.Context,
	studentID uuid.UUID,
	wordID string,
	days int,
) (*domain.VocabularyProgress, error) {
	args := m.Called(ctx, studentID, wordID, days)
	progress, _ := args.Get(0).(*domain.VocabularyProgress)
	return progress, args.Error(1)
}

func (m *MockLearningService) DueWords(
	ctx context.Context,
	studentID uuid.UUID,
	maxWords int,
) ([]*domain.VocabularyProgress, error) {
	args := m.Called(ctx, studentID, maxWords)
	words, _ := args.Get(0).([]*domain.VocabularyProgress)
	return words, args.Error(1)
}

func (m *MockLearningService) StudyStats(ctx context.Context, studentID uuid.UUID) (*srs.StudyStats, error) {
	args := m.Called(ctx, studentID)
	stats, _ := args.Get(0).(*srs.StudyStats)
	return stats, args.Error(1)
}
