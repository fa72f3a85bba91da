package service

import (
	"context"
	"fmt"
	"time"

	"audiovault/internal/models"
	"audiovault/internal/policy"
	"audiovault/internal/repository"
)

type MonitoringService struct {
	stats repository.StatsRepo
	blobs BlobStore
}

func NewMonitoringService(stats repository.StatsRepo, blobs BlobStore) *MonitoringService {
	return &MonitoringService{stats: stats, blobs: blobs}
}

// Stats returns table counts plus blob usage. Admin only.
func (s *MonitoringService) Stats(ctx context.Context, sub policy.Subject) (models.LibraryStats, error) {
	if err := policy.Authorize(policy.Request{Subject: sub, Resource: policy.ResourceLibrary, Action: policy.ActionInspect}); err != nil {
		return models.LibraryStats{}, err
	}

	st, err := s.stats.Counts(ctx)
	if err != nil {
		return models.LibraryStats{}, err
	}
	files, bytes, err := s.blobs.Usage()
	if err != nil {
		return models.LibraryStats{}, fmt.Errorf("blob usage: %w", err)
	}
	st.BlobFiles, st.BlobBytes = files, bytes
	st.TakenAt = time.Now().UTC()
	return st, nil
}
