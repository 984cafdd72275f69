package services

import (
	"context"
	"database/sql"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riceguard/riceguard/internal/client/api"
	"github.com/riceguard/riceguard/internal/client/apierr"
	"github.com/riceguard/riceguard/internal/client/localdb"
	"github.com/riceguard/riceguard/internal/client/models"
	"github.com/riceguard/riceguard/internal/client/repositories/scans"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := localdb.Init(context.Background(), filepath.Join(t.TempDir(), "riceguard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func scanItem(id string, createdAt time.Time) models.ScanItem {
	return models.ScanItem{
		ID:           id,
		Label:        models.DiseaseBrownSpot,
		Confidence:   0.91,
		ModelVersion: "1.0",
		CreatedAt:    createdAt,
	}
}

func networkRecord(urlStr string) *apierr.Record {
	return &apierr.Record{
		Kind:    apierr.KindNetwork,
		Message: "Network error. Please check your connection.",
		URL:     urlStr,
		Method:  "GET",
		Time:    time.Now(),
	}
}

func TestScanService_Submit(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)

	fake := &fakeAPI{
		uploadFn: func(path string, mp *api.Multipart, out any) error {
			require.Equal(t, "/scans", path)
			require.Equal(t, "file", mp.FileField)
			require.Equal(t, "leaf.jpg", mp.FileName)
			require.Equal(t, []byte{0xFF, 0xD8}, mp.File)
			require.Equal(t, "spots on lower leaves", mp.Fields["notes"])
			require.Equal(t, "1.0", mp.Fields["modelVersion"])
			*(out.(*models.ScanItem)) = scanItem("s1", time.Now().UTC())
			return nil
		},
	}
	svc := NewScanService(fake, db, testLogger())

	got, err := svc.Submit(ctx, "leaf.jpg", []byte{0xFF, 0xD8}, "spots on lower leaves", "")
	require.NoError(t, err)
	require.Equal(t, "s1", got.ID)
	require.Equal(t, models.DiseaseBrownSpot, got.Label)

	// The submitted scan must land in the local cache.
	cached, err := scans.NewSQLiteRepository(db).GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	require.Equal(t, "s1", cached[0].ID)
}

func TestScanService_SubmitEmptyImage(t *testing.T) {
	svc := NewScanService(&fakeAPI{}, setupDB(t), testLogger())
	_, err := svc.Submit(context.Background(), "leaf.jpg", nil, "", "")
	require.Error(t, err)
}

func TestScanService_HistoryRefreshesCache(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	now := time.Now().UTC().Truncate(time.Second)

	fake := &fakeAPI{
		getFn: func(path string, query url.Values, out any) error {
			require.Equal(t, "/scans", path)
			require.Equal(t, "2", query.Get("page"))
			require.Equal(t, "10", query.Get("pageSize"))
			require.Equal(t, "confidence", query.Get("sortBy"))
			require.Equal(t, "asc", query.Get("sortOrder"))
			*(out.(*models.ScanList)) = models.ScanList{
				Items:    []models.ScanItem{scanItem("s1", now), scanItem("s2", now.Add(time.Minute))},
				Total:    12,
				Page:     2,
				PageSize: 10,
				HasPrev:  true,
			}
			return nil
		},
	}
	svc := NewScanService(fake, db, testLogger())

	list, err := svc.History(ctx, 2, 10, "confidence", "asc")
	require.NoError(t, err)
	require.Equal(t, 12, list.Total)
	require.Len(t, list.Items, 2)

	cached, err := scans.NewSQLiteRepository(db).GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 2)
}

func TestScanService_HistoryDefaults(t *testing.T) {
	fake := &fakeAPI{
		getFn: func(_ string, query url.Values, out any) error {
			require.Equal(t, "1", query.Get("page"))
			require.Equal(t, "20", query.Get("pageSize"))
			require.Equal(t, "createdAt", query.Get("sortBy"))
			require.Equal(t, "desc", query.Get("sortOrder"))
			*(out.(*models.ScanList)) = models.ScanList{Page: 1, PageSize: 20}
			return nil
		},
	}
	svc := NewScanService(fake, setupDB(t), testLogger())

	_, err := svc.History(context.Background(), 0, 0, "", "")
	require.NoError(t, err)
}

func TestScanService_HistoryFallsBackToCacheOffline(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	now := time.Now().UTC().Truncate(time.Second)

	repo := scans.NewSQLiteRepository(db)
	older := scanItem("s1", now.Add(-time.Hour))
	newer := scanItem("s2", now)
	require.NoError(t, repo.Upsert(ctx, &older))
	require.NoError(t, repo.Upsert(ctx, &newer))

	fake := &fakeAPI{
		getFn: func(_ string, _ url.Values, _ any) error {
			return networkRecord("http://api.local/scans")
		},
	}
	svc := NewScanService(fake, db, testLogger())

	list, err := svc.History(ctx, 1, 20, "", "")
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	require.Equal(t, "s2", list.Items[0].ID, "cached history is newest first")
	require.Equal(t, 2, list.Total)
}

func TestScanService_HistoryOfflineEmptyCache(t *testing.T) {
	rec := networkRecord("http://api.local/scans")
	fake := &fakeAPI{
		getFn: func(_ string, _ url.Values, _ any) error { return rec },
	}
	svc := NewScanService(fake, setupDB(t), testLogger())

	_, err := svc.History(context.Background(), 1, 20, "", "")
	require.ErrorIs(t, err, rec)
}

func TestScanService_HistoryNonNetworkErrorNotMasked(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)

	item := scanItem("s1", time.Now().UTC())
	require.NoError(t, scans.NewSQLiteRepository(db).Upsert(ctx, &item))

	rec := &apierr.Record{Status: 500, Kind: apierr.KindServer, Message: "Server error. Please try again later."}
	fake := &fakeAPI{
		getFn: func(_ string, _ url.Values, _ any) error { return rec },
	}
	svc := NewScanService(fake, db, testLogger())

	_, err := svc.History(ctx, 1, 20, "", "")
	require.ErrorIs(t, err, rec)
}

func TestScanService_Delete(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)

	item := scanItem("s1", time.Now().UTC())
	require.NoError(t, scans.NewSQLiteRepository(db).Upsert(ctx, &item))

	fake := &fakeAPI{
		deleteFn: func(path string, out any) error {
			require.Equal(t, "/scans/s1", path)
			*(out.(*models.DeleteOneOut)) = models.DeleteOneOut{Deleted: true, ID: "s1"}
			return nil
		},
	}
	svc := NewScanService(fake, db, testLogger())

	require.NoError(t, svc.Delete(ctx, "s1"))

	cached, err := scans.NewSQLiteRepository(db).GetAll(ctx)
	require.NoError(t, err)
	require.Empty(t, cached)
}

func TestScanService_BulkDelete(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	now := time.Now().UTC()

	repo := scans.NewSQLiteRepository(db)
	for _, id := range []string{"s1", "s2", "s3"} {
		it := scanItem(id, now)
		require.NoError(t, repo.Upsert(ctx, &it))
	}

	fake := &fakeAPI{
		postFn: func(path string, in, out any) error {
			require.Equal(t, "/scans/bulk-delete", path)
			body, ok := in.(models.BulkDeleteIn)
			require.True(t, ok)
			require.Equal(t, []string{"s1", "s3"}, body.IDs)
			*(out.(*models.BulkDeleteOut)) = models.BulkDeleteOut{DeletedCount: 2}
			return nil
		},
	}
	svc := NewScanService(fake, db, testLogger())

	n, err := svc.BulkDelete(ctx, []string{"s1", "s3"})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	cached, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	require.Equal(t, "s2", cached[0].ID)
}

func TestScanService_BulkDeleteEmpty(t *testing.T) {
	fake := &fakeAPI{}
	svc := NewScanService(fake, setupDB(t), testLogger())

	n, err := svc.BulkDelete(context.Background(), nil)
	require.NoError(t, err)
	require.Zero(t, n)
	require.Empty(t, fake.calls)
}

func TestScanService_Recommendation(t *testing.T) {
	fake := &fakeAPI{
		getFn: func(path string, _ url.Values, out any) error {
			require.Equal(t, "/recommendations/brown_spot", path)
			*(out.(*models.Recommendation)) = models.Recommendation{
				DiseaseKey: models.DiseaseBrownSpot,
				Title:      "Brown Spot Management",
				Steps:      []string{"Apply balanced fertilizer", "Use certified seed"},
				Version:    "2024.1",
			}
			return nil
		},
	}
	svc := NewScanService(fake, setupDB(t), testLogger())

	rec, err := svc.Recommendation(context.Background(), "brown_spot")
	require.NoError(t, err)
	require.Equal(t, "Brown Spot Management", rec.Title)
	require.Len(t, rec.Steps, 2)
}
