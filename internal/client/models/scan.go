package models

import "time"

// Disease keys the model can report.
const (
	DiseaseRiceBlast           = "rice_blast"
	DiseaseLeafBlast           = "leaf_blast"
	DiseaseBrownSpot           = "brown_spot"
	DiseaseNarrowBrownSpot     = "narrow_brown_spot"
	DiseaseLeafScald           = "leaf_scald"
	DiseaseBacterialLeafBlight = "bacterial_leaf_blight"
	DiseaseHealthy             = "healthy"
)

// ScanItem is one analyzed leaf image.
type ScanItem struct {
	ID           string    `json:"id"`
	Label        string    `json:"label"`
	Confidence   float64   `json:"confidence"`
	ModelVersion string    `json:"modelVersion"`
	Notes        string    `json:"notes,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ScanList is a page of scan history.
type ScanList struct {
	Items    []ScanItem `json:"items"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
	HasNext  bool       `json:"hasNext"`
	HasPrev  bool       `json:"hasPrev"`
}

// BulkDeleteIn names the scans to remove in one call.
type BulkDeleteIn struct {
	IDs []string `json:"ids"`
}

type BulkDeleteOut struct {
	DeletedCount int `json:"deletedCount"`
}

type DeleteOneOut struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// Recommendation is the treatment advice for a disease key.
type Recommendation struct {
	DiseaseKey string    `json:"diseaseKey"`
	Title      string    `json:"title"`
	Steps      []string  `json:"steps"`
	Version    string    `json:"version"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
