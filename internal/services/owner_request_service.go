package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/FindHome-mobile/FindHome-Backend/internal/auth"
	"github.com/FindHome-mobile/FindHome-Backend/internal/metrics"
	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
	repo "github.com/FindHome-mobile/FindHome-Backend/internal/repository"
)

const (
	msgRequestNotFound  = "Demande non trouvée"
	msgAlreadyProcessed = "Cette demande a déjà été traitée"
	msgAlreadyPending   = "Vous avez déjà une demande en attente"
)

type OwnerRequestService struct {
	requests repo.OwnerRequests
	users    repo.Users
	log      *slog.Logger
	now      func() time.Time
}

func NewOwnerRequestService(r repo.Repositories, log *slog.Logger) *OwnerRequestService {
	return &OwnerRequestService{requests: r.OwnerRequests, users: r.Users, log: log, now: time.Now}
}

// Create files a promotion request for userID, or for the actor when userID
// is empty.
func (s *OwnerRequestService) Create(ctx context.Context, actor auth.Actor, userID string) (models.OwnerRequestView, error) {
	if userID == "" {
		userID = actor.ID
	}
	if userID == "" {
		return models.OwnerRequestView{}, Unauthorized(msgMissingIdentity)
	}
	if actor.ID != "" && !actor.Is(userID) && !actor.IsAdmin() {
		return models.OwnerRequestView{}, Forbidden("Accès non autorisé")
	}

	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return models.OwnerRequestView{}, NotFound(msgUserNotFound)
	}
	if err != nil {
		return models.OwnerRequestView{}, Internal("Erreur lors de la création de la demande", err)
	}
	switch u.Role {
	case models.RoleOwner:
		return models.OwnerRequestView{}, Conflict("Vous êtes déjà propriétaire")
	case models.RoleAdmin:
		return models.OwnerRequestView{}, Conflict("Les admins ne peuvent pas devenir propriétaires")
	}

	if _, err := s.requests.FindPendingByUser(ctx, userID); err == nil {
		return models.OwnerRequestView{}, Conflict(msgAlreadyPending)
	} else if !errors.Is(err, repo.ErrNotFound) {
		return models.OwnerRequestView{}, Internal("Erreur lors de la création de la demande", err)
	}

	// The store rejects a second pending request for the same user, which
	// closes the window between the check above and the insert.
	req, err := s.requests.Create(ctx, models.OwnerRequest{UserID: userID})
	if errors.Is(err, repo.ErrDuplicate) {
		return models.OwnerRequestView{}, Conflict(msgAlreadyPending)
	}
	if err != nil {
		s.log.Error("owner request create failed", "user_id", userID, "err", err)
		return models.OwnerRequestView{}, Internal("Erreur lors de la création de la demande", err)
	}
	metrics.OwnerRequests.WithLabelValues("created").Inc()
	s.log.Info("owner request created", "request_id", req.ID, "user_id", userID)
	return s.view(ctx, req)
}

// List returns requests newest first, optionally filtered by status.
func (s *OwnerRequestService) List(ctx context.Context, status string) ([]models.OwnerRequestView, error) {
	st := models.RequestStatus(status)
	if st != "" && !st.Valid() {
		return nil, Validation("Statut invalide. Valeurs autorisées: en_attente, approuvee, rejetee")
	}
	reqs, err := s.requests.List(ctx, st)
	if err != nil {
		return nil, Internal("Erreur lors de la récupération des demandes", err)
	}
	return s.views(ctx, reqs)
}

func (s *OwnerRequestService) Get(ctx context.Context, id string) (models.OwnerRequestView, error) {
	req, err := s.requests.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.OwnerRequestView{}, NotFound(msgRequestNotFound)
	}
	if err != nil {
		return models.OwnerRequestView{}, Internal("Erreur lors de la récupération de la demande", err)
	}
	return s.view(ctx, req)
}

// LatestForUser returns the most recent request of userID, whatever its status.
func (s *OwnerRequestService) LatestForUser(ctx context.Context, userID string) (models.OwnerRequestView, error) {
	req, err := s.requests.LatestByUser(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return models.OwnerRequestView{}, NotFound("Aucune demande trouvée pour cet utilisateur")
	}
	if err != nil {
		return models.OwnerRequestView{}, Internal("Erreur lors de la récupération de la demande", err)
	}
	return s.view(ctx, req)
}

func (s *OwnerRequestService) pending(ctx context.Context, id string) (models.OwnerRequest, error) {
	req, err := s.requests.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.OwnerRequest{}, NotFound(msgRequestNotFound)
	}
	if err != nil {
		return models.OwnerRequest{}, Internal("Erreur lors de la récupération de la demande", err)
	}
	if req.Status != models.RequestPending {
		return models.OwnerRequest{}, Conflict(msgAlreadyProcessed)
	}
	return req, nil
}

// Approve promotes the requesting user, then marks the request approved.
// The two writes are not atomic: a failure after the promotion leaves the
// user promoted with the request still pending, and retrying the approval
// completes it.
func (s *OwnerRequestService) Approve(ctx context.Context, actor auth.Actor, id string) (models.OwnerRequestView, error) {
	if !actor.IsAdmin() {
		return models.OwnerRequestView{}, Forbidden("Seuls les admins peuvent approuver les demandes")
	}
	req, err := s.pending(ctx, id)
	if err != nil {
		return models.OwnerRequestView{}, err
	}

	if err := s.users.UpdateRole(ctx, req.UserID, models.RoleOwner); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.OwnerRequestView{}, NotFound(msgUserNotFound)
		}
		s.log.Error("owner promotion failed", "request_id", id, "user_id", req.UserID, "err", err)
		return models.OwnerRequestView{}, Internal("Erreur lors de l'approbation de la demande", err)
	}

	decided, err := s.decide(ctx, actor, id, models.RequestApproved)
	if err != nil {
		s.log.Error("owner request left pending after promotion", "request_id", id, "user_id", req.UserID, "err", err)
		return models.OwnerRequestView{}, err
	}
	metrics.OwnerRequests.WithLabelValues("approved").Inc()
	s.log.Info("owner request approved", "request_id", id, "user_id", req.UserID, "admin_id", actor.ID)
	return s.view(ctx, decided)
}

func (s *OwnerRequestService) Reject(ctx context.Context, actor auth.Actor, id string) (models.OwnerRequestView, error) {
	if !actor.IsAdmin() {
		return models.OwnerRequestView{}, Forbidden("Seuls les admins peuvent rejeter les demandes")
	}
	if _, err := s.pending(ctx, id); err != nil {
		return models.OwnerRequestView{}, err
	}
	decided, err := s.decide(ctx, actor, id, models.RequestRejected)
	if err != nil {
		return models.OwnerRequestView{}, err
	}
	metrics.OwnerRequests.WithLabelValues("rejected").Inc()
	s.log.Info("owner request rejected", "request_id", id, "user_id", decided.UserID, "admin_id", actor.ID)
	return s.view(ctx, decided)
}

func (s *OwnerRequestService) decide(ctx context.Context, actor auth.Actor, id string, status models.RequestStatus) (models.OwnerRequest, error) {
	decided, err := s.requests.Decide(ctx, id, status, actor.ID, s.now())
	switch {
	case errors.Is(err, repo.ErrConflict):
		return models.OwnerRequest{}, Conflict(msgAlreadyProcessed)
	case errors.Is(err, repo.ErrNotFound):
		return models.OwnerRequest{}, NotFound(msgRequestNotFound)
	case err != nil:
		return models.OwnerRequest{}, Internal("Erreur lors du traitement de la demande", err)
	}
	return decided, nil
}

func (s *OwnerRequestService) view(ctx context.Context, req models.OwnerRequest) (models.OwnerRequestView, error) {
	vs, err := s.views(ctx, []models.OwnerRequest{req})
	if err != nil {
		return models.OwnerRequestView{}, err
	}
	return vs[0], nil
}

func (s *OwnerRequestService) views(ctx context.Context, reqs []models.OwnerRequest) ([]models.OwnerRequestView, error) {
	ids := make([]string, 0, len(reqs)*2)
	for _, r := range reqs {
		ids = append(ids, r.UserID)
		if r.DecidedBy != "" {
			ids = append(ids, r.DecidedBy)
		}
	}
	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, Internal("Erreur lors de la récupération des utilisateurs", err)
	}
	out := make([]models.OwnerRequestView, 0, len(reqs))
	for _, r := range reqs {
		v := models.OwnerRequestView{
			ID:           r.ID,
			Status:       r.Status,
			RequestDate:  r.RequestDate,
			DecisionDate: r.DecisionDate,
		}
		if u, ok := users[r.UserID]; ok {
			v.User = u.Summary()
			v.User.Role = u.Role
		}
		if u, ok := users[r.DecidedBy]; ok {
			v.DecidedBy = u.Summary()
		}
		out = append(out, v)
	}
	return out, nil
}
