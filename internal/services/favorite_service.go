package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/FindHome-mobile/FindHome-Backend/internal/auth"
	"github.com/FindHome-mobile/FindHome-Backend/internal/metrics"
	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
	repo "github.com/FindHome-mobile/FindHome-Backend/internal/repository"
)

type FavoriteService struct {
	favorites repo.Favorites
	users     repo.Users
	listings  *ListingService
	repoL     repo.Listings
	log       *slog.Logger
}

func NewFavoriteService(r repo.Repositories, listings *ListingService, log *slog.Logger) *FavoriteService {
	return &FavoriteService{
		favorites: r.Favorites,
		users:     r.Users,
		listings:  listings,
		repoL:     r.Listings,
		log:       log,
	}
}

// allowed lets anonymous callers through; an identified caller must be the
// client or an admin.
func allowed(actor auth.Actor, clientID string) error {
	if actor.ID == "" || actor.Is(clientID) || actor.IsAdmin() {
		return nil
	}
	return Forbidden("Accès non autorisé")
}

// Add fails when the client or the listing is missing, or when the pair exists.
func (s *FavoriteService) Add(ctx context.Context, actor auth.Actor, clientID, listingID string) (models.Favorite, error) {
	if err := allowed(actor, clientID); err != nil {
		return models.Favorite{}, err
	}
	if _, err := s.users.GetByID(ctx, clientID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Favorite{}, NotFound("Client non trouvé")
		}
		return models.Favorite{}, Internal("Erreur lors de l'ajout aux favoris", err)
	}
	if _, err := s.repoL.GetByID(ctx, listingID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Favorite{}, NotFound(msgListingNotFound)
		}
		return models.Favorite{}, Internal("Erreur lors de l'ajout aux favoris", err)
	}

	f, err := s.favorites.Create(ctx, models.Favorite{ClientID: clientID, ListingID: listingID})
	if errors.Is(err, repo.ErrDuplicate) {
		return models.Favorite{}, Conflict("Cette annonce est déjà dans vos favoris")
	}
	if err != nil {
		s.log.Error("favorite add failed", "client_id", clientID, "listing_id", listingID, "err", err)
		return models.Favorite{}, Internal("Erreur lors de l'ajout aux favoris", err)
	}
	metrics.FavoriteOps.WithLabelValues("add").Inc()
	s.log.Info("favorite added", "client_id", clientID, "listing_id", listingID)
	return f, nil
}

func (s *FavoriteService) Remove(ctx context.Context, actor auth.Actor, clientID, listingID string) error {
	if err := allowed(actor, clientID); err != nil {
		return err
	}
	err := s.favorites.Delete(ctx, clientID, listingID)
	if errors.Is(err, repo.ErrNotFound) {
		return NotFound("Favori non trouvé")
	}
	if err != nil {
		return Internal("Erreur lors de la suppression du favori", err)
	}
	metrics.FavoriteOps.WithLabelValues("remove").Inc()
	s.log.Info("favorite removed", "client_id", clientID, "listing_id", listingID)
	return nil
}

// ListByClient returns favorites newest first with listings populated.
// Favorites whose listing is gone carry a nil listing.
func (s *FavoriteService) ListByClient(ctx context.Context, actor auth.Actor, clientID string) ([]models.FavoriteView, error) {
	if err := allowed(actor, clientID); err != nil {
		return nil, err
	}
	favs, err := s.favorites.ListByClient(ctx, clientID)
	if err != nil {
		return nil, Internal("Erreur lors de la récupération des favoris", err)
	}
	out := make([]models.FavoriteView, 0, len(favs))
	for _, f := range favs {
		v := models.FavoriteView{ID: f.ID, ClientID: f.ClientID, DateAdded: f.DateAdded}
		lv, err := s.listings.Get(ctx, f.ListingID)
		switch {
		case err == nil:
			v.Listing = &lv
		case KindOf(err) != KindNotFound:
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type FavoriteCheck struct {
	IsFavorite bool             `json:"isFavorite"`
	Favorite   *models.Favorite `json:"favori"`
}

// Check never fails; store errors read as "not a favorite".
func (s *FavoriteService) Check(ctx context.Context, clientID, listingID string) FavoriteCheck {
	f, err := s.favorites.Find(ctx, clientID, listingID)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			s.log.Warn("favorite check failed", "client_id", clientID, "listing_id", listingID, "err", err)
		}
		return FavoriteCheck{}
	}
	return FavoriteCheck{IsFavorite: true, Favorite: &f}
}

func (s *FavoriteService) Count(ctx context.Context, clientID string) (int64, error) {
	n, err := s.favorites.CountByClient(ctx, clientID)
	if err != nil {
		return 0, Internal("Erreur lors du comptage des favoris", err)
	}
	return n, nil
}
