package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/riceguard/riceguard/internal/client/models"
)

const historyPageSize = 10

// readFile is a test seam for os.ReadFile.
var readFile = os.ReadFile

// Scan submits a leaf image for analysis and prints the diagnosis.
func (a *App) Scan(ctx context.Context, path string) error {
	a.setRoute(RouteScan)

	image, err := readFile(path)
	if err != nil {
		printlnFn("Cannot read file:", err.Error())
		return err
	}

	notes, err := GetMultiline(a.reader, "Notes (optional)", os.Stdout)
	if err != nil {
		return err
	}

	item, err := a.scans.Submit(ctx, filepath.Base(path), image, notes, "")
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("Diagnosis: %s (%.0f%% confidence)", item.Label, item.Confidence*100))
	if item.Label != models.DiseaseHealthy {
		printlnFn(fmt.Sprintf("Run 'recommend %s' for treatment advice.", item.Label))
	}
	return nil
}

// History prints one page of scan history, newest first.
func (a *App) History(ctx context.Context, page int) error {
	a.setRoute(RouteHistory)

	list, err := a.scans.History(ctx, page, historyPageSize, "createdAt", "desc")
	if err != nil {
		return err
	}

	if len(list.Items) == 0 {
		printlnFn("No scans yet.")
		return nil
	}

	for _, item := range list.Items {
		line := fmt.Sprintf("%s  %s  %s  %.0f%%",
			item.ID, item.CreatedAt.Local().Format("2006-01-02 15:04"), item.Label, item.Confidence*100)
		if item.Notes != "" {
			line += "  " + item.Notes
		}
		printlnFn(line)
	}
	printlnFn(fmt.Sprintf("Page %d of %d scans total.", list.Page, list.Total))
	return nil
}

// Recommend prints the treatment advice for a disease key.
func (a *App) Recommend(ctx context.Context, diseaseKey string) error {
	rec, err := a.scans.Recommendation(ctx, diseaseKey)
	if err != nil {
		return err
	}

	printlnFn(rec.Title)
	for i, step := range rec.Steps {
		printlnFn(fmt.Sprintf("  %d. %s", i+1, step))
	}
	return nil
}

// Delete removes one or more scans, server-side and from the local cache.
func (a *App) Delete(ctx context.Context, ids []string) error {
	a.setRoute(RouteHistory)

	if len(ids) == 1 {
		if err := a.scans.Delete(ctx, ids[0]); err != nil {
			return err
		}
		printlnFn("Deleted.")
		return nil
	}

	n, err := a.scans.BulkDelete(ctx, ids)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Deleted %d scans.", n))
	return nil
}

// Settings prints the effective client configuration.
func (a *App) Settings(ctx context.Context) error {
	a.setRoute(RouteSettings)

	printlnFn("Server:         ", a.config.BaseURL)
	printlnFn("Local cache:    ", a.config.DatabasePath)
	printlnFn("Request timeout:", a.config.RequestTimeout.String())
	printlnFn("Max attempts:   ", fmt.Sprint(a.config.MaxAttempts))
	return nil
}
