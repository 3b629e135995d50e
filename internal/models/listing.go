package models

import (
	"strings"
	"time"

	"github.com/FindHome-mobile/FindHome-Backend/internal/api/validate"
)

type ListingStatus string

const (
	StatusAvailable   ListingStatus = "disponible"
	StatusUnavailable ListingStatus = "indisponible"
	StatusRented      ListingStatus = "en_location"
)

var listingStatuses = []string{string(StatusAvailable), string(StatusUnavailable), string(StatusRented)}

func (s ListingStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusUnavailable, StatusRented:
		return true
	}
	return false
}

type PropertyType string

const (
	TypeApartment PropertyType = "appartement"
	TypeHouse     PropertyType = "maison"
	TypeVilla     PropertyType = "villa"
	TypeStudio    PropertyType = "studio"
	TypeDuplex    PropertyType = "duplex"
)

var propertyTypes = []string{
	string(TypeApartment), string(TypeHouse), string(TypeVilla), string(TypeStudio), string(TypeDuplex),
}

func (t PropertyType) Valid() bool {
	switch t {
	case TypeApartment, TypeHouse, TypeVilla, TypeStudio, TypeDuplex:
		return true
	}
	return false
}

// Features holds the boolean amenity flags of a listing.
type Features struct {
	Ascenseur     bool `json:"ascenseur"`
	Parking       bool `json:"parking"`
	Climatisation bool `json:"climatisation"`
	Chauffage     bool `json:"chauffage"`
	Balcon        bool `json:"balcon"`
	Jardin        bool `json:"jardin"`
	Piscine       bool `json:"piscine"`
}

// FeatureNames lists the flag keys in the order they appear on the wire.
var FeatureNames = []string{"ascenseur", "parking", "climatisation", "chauffage", "balcon", "jardin", "piscine"}

// Set toggles the flag named by key. Unknown keys are ignored.
func (f *Features) Set(key string, v bool) {
	switch key {
	case "ascenseur":
		f.Ascenseur = v
	case "parking":
		f.Parking = v
	case "climatisation":
		f.Climatisation = v
	case "chauffage":
		f.Chauffage = v
	case "balcon":
		f.Balcon = v
	case "jardin":
		f.Jardin = v
	case "piscine":
		f.Piscine = v
	}
}

func (f Features) Get(key string) bool {
	switch key {
	case "ascenseur":
		return f.Ascenseur
	case "parking":
		return f.Parking
	case "climatisation":
		return f.Climatisation
	case "chauffage":
		return f.Chauffage
	case "balcon":
		return f.Balcon
	case "jardin":
		return f.Jardin
	case "piscine":
		return f.Piscine
	}
	return false
}

type Listing struct {
	ID           string        `json:"_id"`
	Titre        string        `json:"titre"`
	Description  string        `json:"description"`
	Localisation string        `json:"localisation"`
	Prix         float64       `json:"prix"`
	NbPieces     int           `json:"nbPieces"`
	Surface      float64       `json:"surface"`
	TypeBien     PropertyType  `json:"typeBien"`
	Meublee      bool          `json:"meublee"`
	Images       []string      `json:"images"`
	Amenities    []string      `json:"amenities"`
	Statut       ListingStatus `json:"statut"`
	OwnerID      string        `json:"-"`
	Telephone    string        `json:"telephone"`
	Facebook     string        `json:"facebook,omitempty"`
	Etage        *int          `json:"etage,omitempty"`
	Features
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate normalises text fields and checks the stored constraints of a listing.
func (l *Listing) Validate() error {
	l.Titre = strings.TrimSpace(l.Titre)
	l.Description = strings.TrimSpace(l.Description)
	l.Localisation = strings.TrimSpace(l.Localisation)
	l.Telephone = strings.TrimSpace(l.Telephone)
	if l.Statut == "" {
		l.Statut = StatusAvailable
	}

	var errs validate.Errs
	errs.Add(validate.Required("titre", l.Titre, "Le titre est requis"))
	errs.Add(validate.MaxLen("titre", l.Titre, 100, "Le titre ne peut pas dépasser 100 caractères"))
	errs.Add(validate.Required("description", l.Description, "La description est requise"))
	errs.Add(validate.MaxLen("description", l.Description, 1000, "La description ne peut pas dépasser 1000 caractères"))
	errs.Add(validate.Required("localisation", l.Localisation, "La localisation est requise"))
	errs.Add(validate.MinFloat("prix", l.Prix, 0, "Le prix ne peut pas être négatif"))
	errs.Add(validate.MinInt("nbPieces", int64(l.NbPieces), 1, "Le nombre de pièces doit être au moins 1"))
	errs.Add(validate.MinFloat("surface", l.Surface, 1, "La surface doit être au moins 1m²"))
	errs.Add(validate.OneOf("typeBien", string(l.TypeBien), propertyTypes, "Le type de bien est invalide"))
	errs.Add(validate.OneOf("statut", string(l.Statut), listingStatuses, "Le statut est invalide"))
	errs.Add(validate.Required("proprietaire", l.OwnerID, "Le propriétaire est requis"))
	errs.Add(validate.Required("telephone", l.Telephone, "Le numéro de téléphone est requis"))
	if l.Etage != nil {
		errs.Add(validate.MinInt("etage", int64(*l.Etage), 0, "L'étage ne peut pas être négatif"))
	}
	return errs.Err()
}

// ListingFilter is the typed form of a search request. Nil pointers and empty
// slices mean the criterion is absent.
type ListingFilter struct {
	Localisation string
	PrixMin      *float64
	PrixMax      *float64
	TypeBien     []string
	Meublee      *bool
	Statut       []string
	NbPiecesMin  *int
	NbPiecesMax  *int
	SurfaceMin   *float64
	SurfaceMax   *float64
	EtageMin     *int
	EtageMax     *int
	Features     map[string]bool
	Amenities    []string
	OwnerID      string
}

// Matches reports whether l satisfies every criterion of f. Stores that cannot
// push the filter down use it directly.
func (f ListingFilter) Matches(l Listing) bool {
	if f.OwnerID != "" && l.OwnerID != f.OwnerID {
		return false
	}
	if f.Localisation != "" && !containsFold(l.Localisation, f.Localisation) {
		return false
	}
	if f.PrixMin != nil && l.Prix < *f.PrixMin {
		return false
	}
	if f.PrixMax != nil && l.Prix > *f.PrixMax {
		return false
	}
	if len(f.TypeBien) > 0 && !contains(f.TypeBien, string(l.TypeBien)) {
		return false
	}
	if f.Meublee != nil && l.Meublee != *f.Meublee {
		return false
	}
	if len(f.Statut) > 0 && !contains(f.Statut, string(l.Statut)) {
		return false
	}
	if f.NbPiecesMin != nil && l.NbPieces < *f.NbPiecesMin {
		return false
	}
	if f.NbPiecesMax != nil && l.NbPieces > *f.NbPiecesMax {
		return false
	}
	if f.SurfaceMin != nil && l.Surface < *f.SurfaceMin {
		return false
	}
	if f.SurfaceMax != nil && l.Surface > *f.SurfaceMax {
		return false
	}
	if f.EtageMin != nil && (l.Etage == nil || *l.Etage < *f.EtageMin) {
		return false
	}
	if f.EtageMax != nil && (l.Etage == nil || *l.Etage > *f.EtageMax) {
		return false
	}
	for k, v := range f.Features {
		if l.Features.Get(k) != v {
			return false
		}
	}
	if len(f.Amenities) > 0 {
		hit := false
		for _, want := range f.Amenities {
			for _, have := range l.Amenities {
				if containsFold(have, want) {
					hit = true
					break
				}
			}
			if hit {
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// Keys names the stored fields the filter constrains, in a fixed order.
func (f ListingFilter) Keys() []string {
	keys := []string{}
	add := func(on bool, k string) {
		if on {
			keys = append(keys, k)
		}
	}
	add(f.OwnerID != "", "proprietaire")
	add(f.Localisation != "", "localisation")
	add(f.PrixMin != nil || f.PrixMax != nil, "prix")
	add(len(f.TypeBien) > 0, "typeBien")
	add(f.Meublee != nil, "meublee")
	add(len(f.Statut) > 0, "statut")
	add(f.NbPiecesMin != nil || f.NbPiecesMax != nil, "nbPieces")
	add(f.SurfaceMin != nil || f.SurfaceMax != nil, "surface")
	add(f.EtageMin != nil || f.EtageMax != nil, "etage")
	for _, k := range FeatureNames {
		_, ok := f.Features[k]
		add(ok, k)
	}
	add(len(f.Amenities) > 0, "amenities")
	return keys
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

type SortField string

const (
	SortPrix         SortField = "prix"
	SortSurface      SortField = "surface"
	SortNbPieces     SortField = "nbPieces"
	SortCreatedAt    SortField = "createdAt"
	SortLocalisation SortField = "localisation"
)

func (f SortField) Valid() bool {
	switch f {
	case SortPrix, SortSurface, SortNbPieces, SortCreatedAt, SortLocalisation:
		return true
	}
	return false
}

type ListingSort struct {
	Field SortField
	Asc   bool
}

// ListingQuery is a filter plus sort and page window.
type ListingQuery struct {
	Filter ListingFilter
	Sort   ListingSort
	Page   int
	Limit  int
}

func (q ListingQuery) Skip() int { return (q.Page - 1) * q.Limit }

// ListingView is a listing as returned to API clients, with the owner
// populated and image URLs resolved.
type ListingView struct {
	Listing
	Owner      *OwnerSummary `json:"proprietaire"`
	ImagesURLs []string      `json:"imagesUrls"`
}

type TypeCount struct {
	Type  string `json:"_id"`
	Count int64  `json:"count"`
}

type ListingStats struct {
	TotalAnnonces         int64       `json:"totalAnnonces"`
	AnnoncesDisponibles   int64       `json:"annoncesDisponibles"`
	AnnoncesEnLocation    int64       `json:"annoncesEnLocation"`
	AnnoncesIndisponibles int64       `json:"annoncesIndisponibles"`
	PrixMoyen             float64     `json:"prixMoyen"`
	RepartitionType       []TypeCount `json:"repartitionType"`
}

type OwnerListingStats struct {
	Total         int     `json:"total"`
	Disponibles   int     `json:"disponibles"`
	EnLocation    int     `json:"enLocation"`
	Indisponibles int     `json:"indisponibles"`
	TotalRevenue  float64 `json:"totalRevenue"`
}
