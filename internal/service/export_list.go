package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"product-engine/internal/clients"
)

// ExportListService reads export statuses back from redis for the
// back-office listing endpoints.
type ExportListService struct {
	redis *clients.RedisClient
}

func NewExportListService(redis *clients.RedisClient) *ExportListService {
	return &ExportListService{redis: redis}
}

func (s *ExportListService) GetExports(ctx context.Context) ([]ExportStatus, error) {
	if s.redis == nil {
		return nil, errors.New("redis client not configured")
	}

	keys, err := s.redis.SMembers(ctx, exportSetKey)
	if err != nil {
		return nil, err
	}

	var statuses []ExportStatus
	for _, key := range keys {
		data, err := s.redis.Get(ctx, key)
		if err != nil {
			// expired entries stay in the set until their id rotates out
			continue
		}

		var status ExportStatus
		if err := json.Unmarshal([]byte(data), &status); err != nil {
			continue
		}

		statuses = append(statuses, status)
	}

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Created.After(statuses[j].Created)
	})

	return statuses, nil
}

func (s *ExportListService) GetExport(ctx context.Context, exportID string) (*ExportStatus, error) {
	if s.redis == nil {
		return nil, errors.New("redis client not configured")
	}

	data, err := s.redis.Get(ctx, exportID)
	if err != nil {
		return nil, errors.New("export not found")
	}

	var status ExportStatus
	if err := json.Unmarshal([]byte(data), &status); err != nil {
		return nil, errors.New("export status is corrupted")
	}

	return &status, nil
}
