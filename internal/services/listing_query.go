package services

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// ParseListingQuery builds a listing query from search parameters. It never
// fails: malformed values are treated as absent and page/limit fall back to
// their defaults.
func ParseListingQuery(v url.Values) models.ListingQuery {
	f := models.ListingFilter{
		Localisation: strings.TrimSpace(v.Get("localisation")),
		PrixMin:      parseFloat(v.Get("prixMin")),
		PrixMax:      parseFloat(v.Get("prixMax")),
		TypeBien:     splitList(v["typeBien"]),
		Meublee:      parseBool(v.Get("meublee")),
		Statut:       splitList(v["statut"]),
		NbPiecesMin:  parseInt(v.Get("nbPiecesMin")),
		NbPiecesMax:  parseInt(v.Get("nbPiecesMax")),
		SurfaceMin:   parseFloat(v.Get("surfaceMin")),
		SurfaceMax:   parseFloat(v.Get("surfaceMax")),
		EtageMin:     parseInt(v.Get("etageMin")),
		EtageMax:     parseInt(v.Get("etageMax")),
		Amenities:    splitList(v["amenities"]),
	}
	for _, k := range models.FeatureNames {
		if b := parseBool(v.Get(k)); b != nil {
			if f.Features == nil {
				f.Features = map[string]bool{}
			}
			f.Features[k] = *b
		}
	}

	sortOrder := strings.ToLower(strings.TrimSpace(v.Get("sortOrder")))
	q := models.ListingQuery{
		Filter: f,
		Sort: models.ListingSort{
			Field: models.SortField(v.Get("sortBy")),
			Asc:   sortOrder == "asc" || sortOrder == "1",
		},
		Page:  clampPositive(v.Get("page"), DefaultPage),
		Limit: clampPositive(v.Get("limit"), DefaultLimit),
	}
	if !q.Sort.Field.Valid() {
		q.Sort = models.ListingSort{Field: models.SortCreatedAt}
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if maxPage := math.MaxInt32/q.Limit + 1; q.Page > maxPage {
		q.Page = maxPage
	}
	return q
}

func clampPositive(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func parseInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// integer part of a decimal, "2.5" gives 2
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || math.IsNaN(f) || math.Abs(f) > math.MaxInt32 {
			return nil
		}
		n = int(f)
	}
	return &n
}

// parseBool accepts only "true" and "false".
func parseBool(s string) *bool {
	switch strings.TrimSpace(s) {
	case "true":
		b := true
		return &b
	case "false":
		b := false
		return &b
	}
	return nil
}

// splitList flattens repeated and comma separated values.
func splitList(vals []string) []string {
	var out []string
	for _, v := range vals {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
