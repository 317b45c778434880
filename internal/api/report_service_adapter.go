package api

import (
	"github.com/bizmodelai/bizmodelai/internal/services"
)

type reportStoreAdapter struct {
	store Store
}

func newReportStoreAdapter(store Store) services.ReportStore {
	return &reportStoreAdapter{store: store}
}

func (a *reportStoreAdapter) GetAttempt(id string) (*services.QuizAttempt, error) {
	return attemptToService(a.store.GetAttempt(id)), nil
}

var _ services.ReportStore = (*reportStoreAdapter)(nil)
