package mongodb

import (
	"time"

	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
	"github.com/FindHome-mobile/FindHome-Backend/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	colUsers         = "utilisateurs"
	colListings      = "annonces"
	colFavorites     = "favoris"
	colMessages      = "messages"
	colOwnerRequests = "demandeproprietaires"
)

// oid parses a hex id. Malformed ids can never match a document, so they
// surface as ErrNotFound.
func oid(id string) (primitive.ObjectID, error) {
	o, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repository.ErrNotFound
	}
	return o, nil
}

func oids(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if o, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, o)
		}
	}
	return out
}

func hexOrEmpty(o primitive.ObjectID) string {
	if o.IsZero() {
		return ""
	}
	return o.Hex()
}

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Nom       string             `bson:"nom"`
	Prenom    string             `bson:"prenom"`
	Email     string             `bson:"email"`
	Password  string             `bson:"motDePasse"`
	Photo     string             `bson:"photo_de_profile,omitempty"`
	Type      string             `bson:"type"`
	NumTel    string             `bson:"numTel,omitempty"`
	Facebook  string             `bson:"facebook,omitempty"`
	Location  string             `bson:"location,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func toUserDocument(u models.User) userDocument {
	d := userDocument{
		Nom:       u.Nom,
		Prenom:    u.Prenom,
		Email:     u.Email,
		Password:  u.PasswordHash,
		Photo:     u.Photo,
		Type:      string(u.Role),
		NumTel:    u.NumTel,
		Facebook:  u.Facebook,
		Location:  u.Location,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if o, err := primitive.ObjectIDFromHex(u.ID); err == nil {
		d.ID = o
	}
	return d
}

func (d userDocument) model() models.User {
	return models.User{
		ID:           d.ID.Hex(),
		Nom:          d.Nom,
		Prenom:       d.Prenom,
		Email:        d.Email,
		PasswordHash: d.Password,
		Photo:        d.Photo,
		Role:         models.Role(d.Type),
		NumTel:       d.NumTel,
		Facebook:     d.Facebook,
		Location:     d.Location,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type listingDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Titre         string             `bson:"titre"`
	Description   string             `bson:"description"`
	Localisation  string             `bson:"localisation"`
	Prix          float64            `bson:"prix"`
	NbPieces      int                `bson:"nbPieces"`
	Surface       float64            `bson:"surface"`
	TypeBien      string             `bson:"typeBien"`
	Meublee       bool               `bson:"meublee"`
	Images        []string           `bson:"images"`
	Amenities     []string           `bson:"amenities"`
	Statut        string             `bson:"statut"`
	Proprietaire  primitive.ObjectID `bson:"proprietaire"`
	Telephone     string             `bson:"telephone"`
	Facebook      string             `bson:"facebook,omitempty"`
	Etage         *int               `bson:"etage,omitempty"`
	Ascenseur     bool               `bson:"ascenseur"`
	Parking       bool               `bson:"parking"`
	Climatisation bool               `bson:"climatisation"`
	Chauffage     bool               `bson:"chauffage"`
	Balcon        bool               `bson:"balcon"`
	Jardin        bool               `bson:"jardin"`
	Piscine       bool               `bson:"piscine"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func toListingDocument(l models.Listing) (listingDocument, error) {
	owner, err := primitive.ObjectIDFromHex(l.OwnerID)
	if err != nil {
		return listingDocument{}, repository.ErrNotFound
	}
	d := listingDocument{
		Titre:         l.Titre,
		Description:   l.Description,
		Localisation:  l.Localisation,
		Prix:          l.Prix,
		NbPieces:      l.NbPieces,
		Surface:       l.Surface,
		TypeBien:      string(l.TypeBien),
		Meublee:       l.Meublee,
		Images:        nonNil(l.Images),
		Amenities:     nonNil(l.Amenities),
		Statut:        string(l.Statut),
		Proprietaire:  owner,
		Telephone:     l.Telephone,
		Facebook:      l.Facebook,
		Etage:         l.Etage,
		Ascenseur:     l.Ascenseur,
		Parking:       l.Parking,
		Climatisation: l.Climatisation,
		Chauffage:     l.Chauffage,
		Balcon:        l.Balcon,
		Jardin:        l.Jardin,
		Piscine:       l.Piscine,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
	if o, err := primitive.ObjectIDFromHex(l.ID); err == nil {
		d.ID = o
	}
	return d, nil
}

func (d listingDocument) model() models.Listing {
	return models.Listing{
		ID:           d.ID.Hex(),
		Titre:        d.Titre,
		Description:  d.Description,
		Localisation: d.Localisation,
		Prix:         d.Prix,
		NbPieces:     d.NbPieces,
		Surface:      d.Surface,
		TypeBien:     models.PropertyType(d.TypeBien),
		Meublee:      d.Meublee,
		Images:       nonNil(d.Images),
		Amenities:    nonNil(d.Amenities),
		Statut:       models.ListingStatus(d.Statut),
		OwnerID:      hexOrEmpty(d.Proprietaire),
		Telephone:    d.Telephone,
		Facebook:     d.Facebook,
		Etage:        d.Etage,
		Features: models.Features{
			Ascenseur:     d.Ascenseur,
			Parking:       d.Parking,
			Climatisation: d.Climatisation,
			Chauffage:     d.Chauffage,
			Balcon:        d.Balcon,
			Jardin:        d.Jardin,
			Piscine:       d.Piscine,
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type favoriteDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Client    primitive.ObjectID `bson:"client"`
	Annonce   primitive.ObjectID `bson:"annonce"`
	DateAjout time.Time          `bson:"dateAjout"`
}

func (d favoriteDocument) model() models.Favorite {
	return models.Favorite{
		ID:        d.ID.Hex(),
		ClientID:  d.Client.Hex(),
		ListingID: d.Annonce.Hex(),
		DateAdded: d.DateAjout,
	}
}

type messageDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Subject   string             `bson:"subject"`
	Message   string             `bson:"message"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d messageDocument) model() models.ContactMessage {
	return models.ContactMessage{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Subject:   d.Subject,
		Message:   d.Message,
		CreatedAt: d.CreatedAt,
	}
}

type ownerRequestDocument struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty"`
	Utilisateur    primitive.ObjectID  `bson:"utilisateur"`
	Statut         string              `bson:"statut"`
	DateDemande    time.Time           `bson:"dateDemande"`
	DateTraitement *time.Time          `bson:"dateTraitement,omitempty"`
	TraitePar      *primitive.ObjectID `bson:"traitePar,omitempty"`
}

func (d ownerRequestDocument) model() models.OwnerRequest {
	r := models.OwnerRequest{
		ID:           d.ID.Hex(),
		UserID:       d.Utilisateur.Hex(),
		Status:       models.RequestStatus(d.Statut),
		RequestDate:  d.DateDemande,
		DecisionDate: d.DateTraitement,
	}
	if d.TraitePar != nil {
		r.DecidedBy = d.TraitePar.Hex()
	}
	return r
}
