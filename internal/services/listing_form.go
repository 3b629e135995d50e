package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/FindHome-mobile/FindHome-Backend/internal/api/validate"
	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
)

// ListingInput is a listing write as received from a form or JSON body.
// Every value arrives as text; a key that is absent was not supplied.
type ListingInput struct {
	Fields  map[string]string
	Uploads []Upload
}

func (in ListingInput) get(k string) (string, bool) {
	v, ok := in.Fields[k]
	return strings.TrimSpace(v), ok
}

// form coerces ListingInput fields and collects coercion failures.
type form struct {
	in   ListingInput
	errs validate.Errs
}

func (f *form) str(k string) (string, bool) { return f.in.get(k) }

// float parses k. Empty or absent values report ok=false; garbage, NaN and
// infinities are recorded as an error.
func (f *form) float(k, msg string) (float64, bool) {
	s, ok := f.in.get(k)
	if !ok || s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		f.errs.Add(&validate.ErrField{Field: k, Msg: msg})
		return 0, false
	}
	return v, true
}

func (f *form) int(k, msg string) (int, bool) {
	v, ok := f.float(k, msg)
	if !ok {
		return 0, false
	}
	if math.Abs(v) > math.MaxInt32 || v != math.Trunc(v) {
		f.errs.Add(&validate.ErrField{Field: k, Msg: msg})
		return 0, false
	}
	return int(v), true
}

func (f *form) bool(k string) (bool, bool) {
	s, ok := f.in.get(k)
	if !ok {
		return false, false
	}
	return s == "true", true
}

func (f *form) list(k string) ([]string, bool) {
	s, ok := f.in.get(k)
	if !ok {
		return nil, false
	}
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, true
}

// apply copies every supplied field onto l. Ownership and images are
// handled by the caller.
func (f *form) apply(l *models.Listing) {
	if v, ok := f.str("titre"); ok {
		l.Titre = v
	}
	if v, ok := f.str("description"); ok {
		l.Description = v
	}
	if v, ok := f.str("localisation"); ok {
		l.Localisation = v
	}
	if v, ok := f.float("prix", "Le prix doit être un nombre"); ok {
		l.Prix = v
	}
	if v, ok := f.int("nbPieces", "Le nombre de pièces doit être un entier"); ok {
		l.NbPieces = v
	}
	if v, ok := f.float("surface", "La surface doit être un nombre"); ok {
		l.Surface = v
	}
	if v, ok := f.str("typeBien"); ok && v != "" {
		l.TypeBien = models.PropertyType(v)
	}
	if v, ok := f.str("statut"); ok && v != "" {
		l.Statut = models.ListingStatus(v)
	}
	if v, ok := f.str("telephone"); ok {
		l.Telephone = v
	}
	if v, ok := f.str("facebook"); ok {
		l.Facebook = v
	}
	if v, ok := f.int("etage", "L'étage doit être un entier"); ok {
		l.Etage = &v
	}
	if v, ok := f.bool("meublee"); ok {
		l.Meublee = v
	}
	for _, k := range models.FeatureNames {
		if v, ok := f.bool(k); ok {
			l.Features.Set(k, v)
		}
	}
	if v, ok := f.list("amenities"); ok {
		l.Amenities = v
	}
}

var requiredListingFields = []string{"titre", "description", "localisation", "prix", "nbPieces", "surface", "typeBien"}

func (in ListingInput) missingRequired() bool {
	for _, k := range requiredListingFields {
		if v, _ := in.get(k); v == "" {
			return true
		}
	}
	return false
}
