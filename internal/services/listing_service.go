package services

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/FindHome-mobile/FindHome-Backend/internal/auth"
	"github.com/FindHome-mobile/FindHome-Backend/internal/metrics"
	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
	repo "github.com/FindHome-mobile/FindHome-Backend/internal/repository"
	"golang.org/x/sync/errgroup"
)

const (
	msgListingNotFound   = "Annonce non trouvée"
	msgNotAllowedEdit    = "Vous n'êtes pas autorisé à modifier cette annonce"
	msgNotAllowedDelete  = "Vous n'êtes pas autorisé à supprimer cette annonce"
	msgOwnersOnly        = "Seuls les propriétaires peuvent créer des annonces"
	msgInvalidStatus     = "Statut invalide. Valeurs autorisées: disponible, indisponible, en_location"
	msgMissingFields     = "Champs requis manquants"
	msgImageRequired     = "Au moins une image est requise"
	msgTelephoneRequired = "Le numéro de téléphone est requis"
)

// Submitter runs a function in the background.
type Submitter interface {
	Submit(f func())
}

type ListingService struct {
	listings  repo.Listings
	users     repo.Users
	favorites repo.Favorites
	cache     repo.ListingCache
	images    *ImageStore
	pool      Submitter
	log       *slog.Logger
}

func NewListingService(r repo.Repositories, cache repo.ListingCache, images *ImageStore, pool Submitter, log *slog.Logger) *ListingService {
	return &ListingService{
		listings:  r.Listings,
		users:     r.Users,
		favorites: r.Favorites,
		cache:     cache,
		images:    images,
		pool:      pool,
		log:       log,
	}
}

type SearchFilters struct {
	Applied bool     `json:"applied"`
	Summary []string `json:"summary"`
}

type SearchResult struct {
	Success     bool                 `json:"success"`
	Count       int                  `json:"count"`
	TotalCount  int64                `json:"totalCount"`
	TotalPages  int64                `json:"totalPages"`
	CurrentPage int                  `json:"currentPage"`
	HasNextPage bool                 `json:"hasNextPage"`
	HasPrevPage bool                 `json:"hasPrevPage"`
	Annonces    []models.ListingView `json:"annonces"`
	Filters     SearchFilters        `json:"filters"`
}

// Search runs the count and the page fetch concurrently against the same
// filter. Writes landing between the two reads may skew the metadata.
func (s *ListingService) Search(ctx context.Context, q models.ListingQuery) (SearchResult, error) {
	var (
		page  []models.Listing
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = s.listings.Find(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.listings.Count(gctx, q.Filter)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("listing search failed", "err", err)
		return SearchResult{}, Internal("Erreur lors de la récupération des annonces", err)
	}

	views, err := s.views(ctx, page)
	if err != nil {
		return SearchResult{}, err
	}
	metrics.ListingSearches.Observe(float64(total))

	totalPages := int64(math.Ceil(float64(total) / float64(q.Limit)))
	keys := q.Filter.Keys()
	return SearchResult{
		Success:     true,
		Count:       len(views),
		TotalCount:  total,
		TotalPages:  totalPages,
		CurrentPage: q.Page,
		HasNextPage: int64(q.Page) < totalPages,
		HasPrevPage: q.Page > 1,
		Annonces:    views,
		Filters:     SearchFilters{Applied: len(keys) > 0, Summary: keys},
	}, nil
}

// views populates owners with one batched lookup.
func (s *ListingService) views(ctx context.Context, ls []models.Listing) ([]models.ListingView, error) {
	ids := make([]string, 0, len(ls))
	seen := map[string]bool{}
	for _, l := range ls {
		if !seen[l.OwnerID] {
			seen[l.OwnerID] = true
			ids = append(ids, l.OwnerID)
		}
	}
	owners, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, Internal("Erreur lors de la récupération des propriétaires", err)
	}
	out := make([]models.ListingView, 0, len(ls))
	for _, l := range ls {
		out = append(out, s.view(l, owners))
	}
	return out, nil
}

func (s *ListingService) view(l models.Listing, owners map[string]models.User) models.ListingView {
	v := models.ListingView{Listing: l, ImagesURLs: s.images.URLs(l.Images)}
	if u, ok := owners[l.OwnerID]; ok {
		v.Owner = u.Summary()
	}
	return v
}

func (s *ListingService) viewOne(ctx context.Context, l models.Listing) (models.ListingView, error) {
	vs, err := s.views(ctx, []models.Listing{l})
	if err != nil {
		return models.ListingView{}, err
	}
	return vs[0], nil
}

func (s *ListingService) load(ctx context.Context, id string) (models.Listing, error) {
	if l, ok := s.cache.GetListing(ctx, id); ok {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return l, nil
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()
	l, err := s.listings.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Listing{}, NotFound(msgListingNotFound)
	}
	if err != nil {
		return models.Listing{}, Internal("Erreur lors de la récupération de l'annonce", err)
	}
	s.cache.SetListing(ctx, l)
	return l, nil
}

// Get returns one listing with its owner populated.
func (s *ListingService) Get(ctx context.Context, id string) (models.ListingView, error) {
	l, err := s.load(ctx, id)
	if err != nil {
		return models.ListingView{}, err
	}
	return s.viewOne(ctx, l)
}

func (s *ListingService) Stats(ctx context.Context) (models.ListingStats, error) {
	if st, ok := s.cache.GetStats(ctx); ok {
		return st, nil
	}
	st, err := s.listings.Stats(ctx)
	if err != nil {
		s.log.Error("listing stats failed", "err", err)
		return models.ListingStats{}, Internal("Erreur lors de la récupération des statistiques", err)
	}
	s.cache.SetStats(ctx, st)
	return st, nil
}

type OwnerListings struct {
	Success  bool                     `json:"success"`
	Count    int                      `json:"count"`
	Annonces []models.ListingView     `json:"annonces"`
	Stats    models.OwnerListingStats `json:"stats"`
}

// ListByOwner is the owner dashboard. Only the owner and admins may read it.
func (s *ListingService) ListByOwner(ctx context.Context, actor auth.Actor, ownerID string) (OwnerListings, error) {
	if !actor.Is(ownerID) && !actor.IsAdmin() {
		return OwnerListings{}, Forbidden("Accès non autorisé")
	}
	ls, err := s.listings.ListByOwner(ctx, ownerID)
	if err != nil {
		return OwnerListings{}, Internal("Erreur lors de la récupération des annonces du propriétaire", err)
	}
	views, err := s.views(ctx, ls)
	if err != nil {
		return OwnerListings{}, err
	}
	st := models.OwnerListingStats{Total: len(ls)}
	for _, l := range ls {
		switch l.Statut {
		case models.StatusAvailable:
			st.Disponibles++
		case models.StatusRented:
			st.EnLocation++
			st.TotalRevenue += l.Prix
		case models.StatusUnavailable:
			st.Indisponibles++
		}
	}
	return OwnerListings{Success: true, Count: len(views), Annonces: views, Stats: st}, nil
}

// CreateOptions selects the create variant.
type CreateOptions struct {
	// Delegate lets an admin name the owner through the proprietaire field.
	Delegate bool
	// RequireImages rejects a create without at least one upload.
	RequireImages bool
}

// resolveOwner decides who owns a new listing. Owners always create for
// themselves; admins may create for another owner when delegation is on.
func (s *ListingService) resolveOwner(ctx context.Context, actor auth.Actor, in ListingInput, opts CreateOptions) (models.User, error) {
	if opts.Delegate && actor.IsAdmin() {
		ownerID, _ := in.get("proprietaire")
		if ownerID == "" {
			return models.User{}, Validation("Erreur de validation: Le propriétaire est requis")
		}
		u, err := s.users.GetByID(ctx, ownerID)
		if errors.Is(err, repo.ErrNotFound) {
			return models.User{}, NotFound("Propriétaire non trouvé")
		}
		if err != nil {
			return models.User{}, Internal("Erreur lors de la création de l'annonce", err)
		}
		if u.Role != models.RoleOwner {
			return models.User{}, Validation("L'utilisateur indiqué n'est pas un propriétaire")
		}
		return u, nil
	}
	if !actor.IsOwner() {
		return models.User{}, Forbidden(msgOwnersOnly)
	}
	u, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return models.User{}, Unauthorized("Utilisateur non trouvé")
	}
	return u, nil
}

// Create is the single listing write path for every create variant.
func (s *ListingService) Create(ctx context.Context, actor auth.Actor, in ListingInput, opts CreateOptions) (models.ListingView, error) {
	owner, err := s.resolveOwner(ctx, actor, in, opts)
	if err != nil {
		return models.ListingView{}, err
	}
	if in.missingRequired() {
		return models.ListingView{}, Validation(msgMissingFields)
	}
	if opts.RequireImages && len(in.Uploads) == 0 {
		return models.ListingView{}, Validation(msgImageRequired)
	}
	if tel, _ := in.get("telephone"); tel == "" {
		return models.ListingView{}, Validation(msgTelephoneRequired)
	}

	images, err := s.images.Encode(in.Uploads)
	if err != nil {
		return models.ListingView{}, err
	}

	l := models.Listing{
		OwnerID:   owner.ID,
		Images:    images,
		Amenities: []string{},
		Facebook:  owner.Facebook,
	}
	f := &form{in: in}
	f.apply(&l)
	if err := f.errs.Err(); err != nil {
		return models.ListingView{}, invalid(err)
	}
	if err := l.Validate(); err != nil {
		return models.ListingView{}, invalid(err)
	}

	created, err := s.listings.Create(ctx, l)
	if err != nil {
		s.log.Error("listing create failed", "owner_id", owner.ID, "err", err)
		return models.ListingView{}, Internal("Erreur lors de la création de l'annonce", err)
	}
	s.cache.InvalidateStats(ctx)
	metrics.ListingWrites.WithLabelValues("create").Inc()
	s.log.Info("listing created", "listing_id", created.ID, "owner_id", owner.ID, "actor_id", actor.ID, "images", len(images))

	v := s.view(created, map[string]models.User{owner.ID: owner})
	return v, nil
}

// owned loads a listing and checks that actor may change it.
func (s *ListingService) owned(ctx context.Context, actor auth.Actor, id, denied string) (models.Listing, error) {
	l, err := s.listings.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Listing{}, NotFound(msgListingNotFound)
	}
	if err != nil {
		return models.Listing{}, Internal("Erreur lors de la récupération de l'annonce", err)
	}
	if !actor.Is(l.OwnerID) && !actor.IsAdmin() {
		return models.Listing{}, Forbidden(denied)
	}
	return l, nil
}

// Update applies the supplied fields only. Uploaded images replace the
// stored list.
func (s *ListingService) Update(ctx context.Context, actor auth.Actor, id string, in ListingInput) (models.ListingView, error) {
	l, err := s.owned(ctx, actor, id, msgNotAllowedEdit)
	if err != nil {
		return models.ListingView{}, err
	}

	f := &form{in: in}
	f.apply(&l)
	if err := f.errs.Err(); err != nil {
		return models.ListingView{}, invalid(err)
	}
	if len(in.Uploads) > 0 {
		images, err := s.images.Encode(in.Uploads)
		if err != nil {
			return models.ListingView{}, err
		}
		l.Images = images
	}
	if err := l.Validate(); err != nil {
		return models.ListingView{}, invalid(err)
	}

	updated, err := s.listings.Update(ctx, l)
	if errors.Is(err, repo.ErrNotFound) {
		return models.ListingView{}, NotFound(msgListingNotFound)
	}
	if err != nil {
		s.log.Error("listing update failed", "listing_id", id, "err", err)
		return models.ListingView{}, Internal("Erreur lors de la modification de l'annonce", err)
	}
	s.invalidate(ctx, id)
	metrics.ListingWrites.WithLabelValues("update").Inc()
	s.log.Info("listing updated", "listing_id", id, "actor_id", actor.ID)
	return s.viewOne(ctx, updated)
}

// UpdateStatus allows any transition between the three statuses.
func (s *ListingService) UpdateStatus(ctx context.Context, actor auth.Actor, id string, status models.ListingStatus) (models.ListingView, error) {
	if !status.Valid() {
		return models.ListingView{}, Validation(msgInvalidStatus)
	}
	if _, err := s.owned(ctx, actor, id, msgNotAllowedEdit); err != nil {
		return models.ListingView{}, err
	}
	updated, err := s.listings.UpdateStatus(ctx, id, status)
	if errors.Is(err, repo.ErrNotFound) {
		return models.ListingView{}, NotFound(msgListingNotFound)
	}
	if err != nil {
		return models.ListingView{}, Internal("Erreur lors de la mise à jour du statut", err)
	}
	s.invalidate(ctx, id)
	metrics.ListingWrites.WithLabelValues("status").Inc()
	s.log.Info("listing status changed", "listing_id", id, "statut", status, "actor_id", actor.ID)
	return s.viewOne(ctx, updated)
}

// Delete removes local image files first, best effort, then the document.
// Favorites pointing at the listing are removed in the background.
func (s *ListingService) Delete(ctx context.Context, actor auth.Actor, id string) error {
	l, err := s.owned(ctx, actor, id, msgNotAllowedDelete)
	if err != nil {
		return err
	}
	removed := s.images.Remove(l.Images)

	if err := s.listings.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NotFound(msgListingNotFound)
		}
		s.log.Error("listing delete failed", "listing_id", id, "err", err)
		return Internal("Erreur lors de la suppression de l'annonce", err)
	}
	s.invalidate(ctx, id)
	metrics.ListingWrites.WithLabelValues("delete").Inc()
	s.log.Info("listing deleted", "listing_id", id, "actor_id", actor.ID, "files_removed", removed)

	s.pool.Submit(func() { s.dropFavorites(id) })
	return nil
}

func (s *ListingService) dropFavorites(listingID string) {
	n, err := s.favorites.DeleteByListing(context.Background(), listingID)
	if err != nil {
		s.log.Warn("favorites cascade failed", "listing_id", listingID, "err", err)
		return
	}
	metrics.FavoriteOps.WithLabelValues("cascade").Add(float64(n))
	if n > 0 {
		s.log.Info("favorites cascaded", "listing_id", listingID, "removed", n)
	}
}

func (s *ListingService) invalidate(ctx context.Context, id string) {
	s.cache.DeleteListing(ctx, id)
	s.cache.InvalidateStats(ctx)
}
