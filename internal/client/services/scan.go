package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/riceguard/riceguard/internal/client/api"
	"github.com/riceguard/riceguard/internal/client/apierr"
	"github.com/riceguard/riceguard/internal/client/models"
	"github.com/riceguard/riceguard/internal/client/repositories/scans"
	"github.com/riceguard/riceguard/internal/dbx"
	"github.com/riceguard/riceguard/internal/logging"
)

// ScanService defines scan submission, history and recommendation
// operations. Fetched history is mirrored into a local cache so it stays
// readable when the server cannot be reached.
type ScanService interface {
	Submit(ctx context.Context, fileName string, image []byte, notes, modelVersion string) (*models.ScanItem, error)
	History(ctx context.Context, page, pageSize int, sortBy, sortOrder string) (*models.ScanList, error)
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, ids []string) (int, error)
	Recommendation(ctx context.Context, diseaseKey string) (*models.Recommendation, error)
}

type scanService struct {
	api API
	db  *sql.DB
	log logging.Logger
}

// NewScanService constructs a ScanService bound to the given API facade
// and local database.
func NewScanService(apiClient API, db *sql.DB, log logging.Logger) ScanService {
	return &scanService{api: apiClient, db: db, log: log}
}

func (s *scanService) cacheRepo(db dbx.DBTX) scans.Repository {
	return scans.NewSQLiteRepository(db)
}

// Submit uploads a leaf image for analysis. The file contents are opaque to
// this layer; the server runs inference and returns the scan record.
func (s *scanService) Submit(ctx context.Context, fileName string, image []byte, notes, modelVersion string) (*models.ScanItem, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("empty image %q", fileName)
	}
	if modelVersion == "" {
		modelVersion = "1.0"
	}

	var out models.ScanItem
	mp := &api.Multipart{
		FileField: "file",
		FileName:  fileName,
		File:      image,
		Fields:    map[string]string{"modelVersion": modelVersion},
	}
	if notes != "" {
		mp.Fields["notes"] = notes
	}
	if err := s.api.Upload(ctx, "/scans", mp, &out); err != nil {
		return nil, err
	}

	if err := s.cacheRepo(s.db).Upsert(ctx, &out); err != nil {
		s.log.Warn(ctx, "caching submitted scan failed", "error", err, "scan_id", out.ID)
	}
	return &out, nil
}

// History fetches a page of scan history and refreshes the local cache.
// When the server is unreachable, the cached copy is served instead.
func (s *scanService) History(ctx context.Context, page, pageSize int, sortBy, sortOrder string) (*models.ScanList, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if sortBy == "" {
		sortBy = "createdAt"
	}
	if sortOrder == "" {
		sortOrder = "desc"
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("pageSize", strconv.Itoa(pageSize))
	query.Set("sortBy", sortBy)
	query.Set("sortOrder", sortOrder)

	var out models.ScanList
	if err := s.api.Get(ctx, "/scans", query, &out); err != nil {
		var rec *apierr.Record
		if errors.As(err, &rec) && rec.Kind == apierr.KindNetwork {
			return s.cachedHistory(ctx, err)
		}
		return nil, err
	}

	s.refreshCache(ctx, out.Items)
	return &out, nil
}

func (s *scanService) cachedHistory(ctx context.Context, cause error) (*models.ScanList, error) {
	items, err := s.cacheRepo(s.db).GetAll(ctx)
	if err != nil || len(items) == 0 {
		// Nothing usable locally; the original failure is the answer.
		return nil, cause
	}
	s.log.Info(ctx, "server unreachable, serving cached scan history", "cached", len(items))
	return &models.ScanList{
		Items:    items,
		Total:    len(items),
		Page:     1,
		PageSize: len(items),
	}, nil
}

func (s *scanService) refreshCache(ctx context.Context, items []models.ScanItem) {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.cacheRepo(tx)
		for i := range items {
			if err := repo.Upsert(ctx, &items[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Warn(ctx, "refreshing scan cache failed", "error", err)
	}
}

func (s *scanService) Delete(ctx context.Context, id string) error {
	var out models.DeleteOneOut
	if err := s.api.Delete(ctx, "/scans/"+url.PathEscape(id), &out); err != nil {
		return err
	}
	if err := s.cacheRepo(s.db).DeleteByID(ctx, id); err != nil {
		s.log.Warn(ctx, "removing cached scan failed", "error", err, "scan_id", id)
	}
	return nil
}

func (s *scanService) BulkDelete(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var out models.BulkDeleteOut
	if err := s.api.Post(ctx, "/scans/bulk-delete", models.BulkDeleteIn{IDs: ids}, &out); err != nil {
		return 0, err
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.cacheRepo(tx)
		for _, id := range ids {
			if err := repo.DeleteByID(ctx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Warn(ctx, "removing cached scans failed", "error", err)
	}
	return out.DeletedCount, nil
}

func (s *scanService) Recommendation(ctx context.Context, diseaseKey string) (*models.Recommendation, error) {
	var out models.Recommendation
	if err := s.api.Get(ctx, "/recommendations/"+url.PathEscape(diseaseKey), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
