package services

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
)

type cacheMock struct{ mock.Mock }

func (m *cacheMock) GetListing(ctx context.Context, id string) (models.Listing, bool) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Listing), args.Bool(1)
}

func (m *cacheMock) SetListing(ctx context.Context, l models.Listing) { m.Called(ctx, l) }

func (m *cacheMock) DeleteListing(ctx context.Context, id string) { m.Called(ctx, id) }

func (m *cacheMock) GetStats(ctx context.Context) (models.ListingStats, bool) {
	args := m.Called(ctx)
	return args.Get(0).(models.ListingStats), args.Bool(1)
}

func (m *cacheMock) SetStats(ctx context.Context, st models.ListingStats) { m.Called(ctx, st) }

func (m *cacheMock) InvalidateStats(ctx context.Context) { m.Called(ctx) }

func TestSearchPriceWindowAndType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.seedUser(t, models.RoleOwner, "owner@example.com")

	_, err := f.listings.Create(ctx, actorOf(owner), listingInput(nil), CreateOptions{})
	require.NoError(t, err)

	res, err := f.listings.Search(ctx, ParseListingQuery(url.Values{
		"prixMin": {"500"}, "prixMax": {"1500"}, "typeBien": {"studio"},
	}))
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, int64(1), res.TotalCount)
	assert.True(t, res.Success)
	assert.True(t, res.Filters.Applied)
	assert.Equal(t, []string{"prix", "typeBien"}, res.Filters.Summary)
	require.NotNil(t, res.Annonces[0].Owner)
	assert.Equal(t, owner.ID, res.Annonces[0].Owner.ID)

	res, err = f.listings.Search(ctx, ParseListingQuery(url.Values{"prixMax": {"900"}}))
	require.NoError(t, err)
	assert.Zero(t, res.Count)
	assert.Zero(t, res.TotalPages)
	assert.False(t, res.HasNextPage)
}

func TestSearchFarPastLastPage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.seedUser(t, models.RoleOwner, "owner@example.com")
	_, err := f.listings.Create(ctx, actorOf(owner), listingInput(nil), CreateOptions{})
	require.NoError(t, err)

	res, err := f.listings.Search(ctx, ParseListingQuery(url.Values{"page": {"9223372036854775807"}}))
	require.NoError(t, err)
	assert.Zero(t, res.Count)
	assert.Empty(t, res.Annonces)
	assert.Equal(t, int64(1), res.TotalCount)
	assert.False(t, res.HasNextPage)
	assert.True(t, res.HasPrevPage)
}

func TestSearchPagesAreDisjointAndComplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.seedUser(t, models.RoleOwner, "owner@example.com")
	for i := 0; i < 25; i++ {
		// prices repeat so the tie-break on id decides the order
		_, err := f.listings.Create(ctx, actorOf(owner),
			listingInput(map[string]string{"prix": strconv.Itoa(100 * (i % 5))}), CreateOptions{})
		require.NoError(t, err)
	}

	seen := map[string]bool{}
	last := -1.0
	for page := 1; page <= 3; page++ {
		res, err := f.listings.Search(ctx, ParseListingQuery(url.Values{
			"limit": {"10"}, "page": {strconv.Itoa(page)}, "sortBy": {"prix"}, "sortOrder": {"asc"},
		}))
		require.NoError(t, err)
		assert.Equal(t, int64(25), res.TotalCount)
		assert.Equal(t, int64(3), res.TotalPages)
		assert.Equal(t, page, res.CurrentPage)
		assert.Equal(t, page < 3, res.HasNextPage)
		assert.Equal(t, page > 1, res.HasPrevPage)
		assert.False(t, res.Filters.Applied)
		for _, a := range res.Annonces {
			assert.False(t, seen[a.ID], "listing %s returned twice", a.ID)
			seen[a.ID] = true
			assert.GreaterOrEqual(t, a.Prix, last)
			last = a.Prix
		}
	}
	assert.Len(t, seen, 25)

	res, err := f.listings.Search(ctx, ParseListingQuery(url.Values{"limit": {"10"}, "page": {"4"}}))
	require.NoError(t, err)
	assert.Zero(t, res.Count)
	assert.NotNil(t, res.Annonces)
}

func TestCreateRequiresOwnerUntilApproved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := f.seedUser(t, models.RoleClient, "client@example.com")
	admin := f.seedUser(t, models.RoleAdmin, "admin@example.com")

	_, err := f.listings.Create(ctx, actorOf(client), listingInput(nil), CreateOptions{})
	requireKind(t, err, KindForbidden, "Seuls les propriétaires peuvent créer des annonces")

	req, err := f.requests.Create(ctx, actorOf(client), "")
	require.NoError(t, err)
	_, err = f.requests.Approve(ctx, actorOf(admin), req.ID)
	require.NoError(t, err)

	actor, err := f.users.ResolveActor(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, actor.Role)

	v, err := f.listings.Create(ctx, actor, listingInput(nil), CreateOptions{})
	require.NoError(t, err)
	assert.Equal(t, client.ID, v.OwnerID)
	assert.Equal(t, models.StatusAvailable, v.Statut)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := actorOf(f.seedUser(t, models.RoleOwner, "owner@example.com"))

	_, err := f.listings.Create(ctx, owner, listingInput(map[string]string{"surface": "-"}), CreateOptions{})
	requireKind(t, err, KindValidation, "Champs requis manquants")

	_, err = f.listings.Create(ctx, owner, listingInput(nil), CreateOptions{RequireImages: true})
	requireKind(t, err, KindValidation, "Au moins une image est requise")

	_, err = f.listings.Create(ctx, owner, listingInput(map[string]string{"telephone": " "}), CreateOptions{})
	requireKind(t, err, KindValidation, "Le numéro de téléphone est requis")

	_, err = f.listings.Create(ctx, owner, listingInput(map[string]string{"prix": "cher"}), CreateOptions{})
	requireKind(t, err, KindValidation, "Erreur de validation: Le prix doit être un nombre")

	for _, raw := range []string{"NaN", "Inf", "+Inf", "-inf"} {
		_, err = f.listings.Create(ctx, owner, listingInput(map[string]string{"prix": raw}), CreateOptions{})
		requireKind(t, err, KindValidation, "Erreur de validation: Le prix doit être un nombre")
	}
	_, err = f.listings.Create(ctx, owner, listingInput(map[string]string{"surface": "Infinity"}), CreateOptions{})
	requireKind(t, err, KindValidation, "Erreur de validation: La surface doit être un nombre")

	_, err = f.listings.Create(ctx, owner, listingInput(map[string]string{"typeBien": "chateau"}), CreateOptions{})
	requireKind(t, err, KindValidation, "Erreur de validation: Le type de bien est invalide")

	in := listingInput(nil)
	in.Uploads = []Upload{{Filename: "doc.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}}
	_, err = f.listings.Create(ctx, owner, in, CreateOptions{})
	requireKind(t, err, KindValidation, "Seuls les fichiers images sont autorisés")
}

func TestCreateWithImagesAndFlags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.seedUser(t, models.RoleOwner, "owner@example.com")

	in := listingInput(map[string]string{
		"meublee":   "true",
		"piscine":   "true",
		"etage":     "2",
		"amenities": "wifi, parking privé",
	})
	in.Uploads = []Upload{pngUpload("a.png"), pngUpload("b.png")}
	v, err := f.listings.Create(ctx, actorOf(owner), in, CreateOptions{RequireImages: true})
	require.NoError(t, err)

	require.Len(t, v.Images, 2)
	assert.Contains(t, v.Images[0], "data:image/png;base64,")
	assert.Equal(t, v.Images, v.ImagesURLs)
	assert.True(t, v.Meublee)
	assert.True(t, v.Piscine)
	assert.False(t, v.Parking)
	require.NotNil(t, v.Etage)
	assert.Equal(t, 2, *v.Etage)
	assert.Equal(t, []string{"wifi", "parking privé"}, v.Amenities)
	assert.Equal(t, "fb.com/owner", v.Facebook)
}

func TestAdminDelegatedCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.seedUser(t, models.RoleOwner, "owner@example.com")
	client := f.seedUser(t, models.RoleClient, "client@example.com")
	admin := actorOf(f.seedUser(t, models.RoleAdmin, "admin@example.com"))

	v, err := f.listings.Create(ctx, admin, listingInput(map[string]string{"proprietaire": owner.ID}), CreateOptions{Delegate: true})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, v.OwnerID)

	_, err = f.listings.Create(ctx, admin, listingInput(map[string]string{"proprietaire": client.ID}), CreateOptions{Delegate: true})
	requireKind(t, err, KindValidation, "")

	_, err = f.listings.Create(ctx, admin, listingInput(map[string]string{"proprietaire": "missing"}), CreateOptions{Delegate: true})
	requireKind(t, err, KindNotFound, "Propriétaire non trouvé")

	_, err = f.listings.Create(ctx, admin, listingInput(nil), CreateOptions{})
	requireKind(t, err, KindForbidden, "")
}

func TestUpdateIsPartialAndOwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := actorOf(f.seedUser(t, models.RoleOwner, "owner@example.com"))
	other := actorOf(f.seedUser(t, models.RoleOwner, "other@example.com"))
	admin := actorOf(f.seedUser(t, models.RoleAdmin, "admin@example.com"))

	created, err := f.listings.Create(ctx, owner, listingInput(nil), CreateOptions{})
	require.NoError(t, err)

	_, err = f.listings.Update(ctx, other, created.ID, ListingInput{Fields: map[string]string{"prix": "1"}})
	requireKind(t, err, KindForbidden, "Vous n'êtes pas autorisé à modifier cette annonce")

	v, err := f.listings.Update(ctx, owner, created.ID, ListingInput{Fields: map[string]string{"prix": "1200"}})
	require.NoError(t, err)
	assert.Equal(t, 1200.0, v.Prix)
	assert.Equal(t, created.Titre, v.Titre)
	assert.Equal(t, created.CreatedAt, v.CreatedAt)

	v, err = f.listings.Update(ctx, admin, created.ID, ListingInput{Fields: map[string]string{"titre": "Nouveau titre"}})
	require.NoError(t, err)
	assert.Equal(t, "Nouveau titre", v.Titre)
	assert.Equal(t, 1200.0, v.Prix)

	_, err = f.listings.Update(ctx, owner, created.ID, ListingInput{Fields: map[string]string{"nbPieces": "2.5"}})
	requireKind(t, err, KindValidation, "Erreur de validation: Le nombre de pièces doit être un entier")

	_, err = f.listings.Update(ctx, owner, "missing", ListingInput{})
	requireKind(t, err, KindNotFound, "Annonce non trouvée")
}

func TestUpdateStatusAndOwnerDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ownerUser := f.seedUser(t, models.RoleOwner, "owner@example.com")
	owner := actorOf(ownerUser)
	client := actorOf(f.seedUser(t, models.RoleClient, "client@example.com"))

	a, err := f.listings.Create(ctx, owner, listingInput(map[string]string{"prix": "800"}), CreateOptions{})
	require.NoError(t, err)
	_, err = f.listings.Create(ctx, owner, listingInput(nil), CreateOptions{})
	require.NoError(t, err)

	_, err = f.listings.UpdateStatus(ctx, owner, a.ID, "vendu")
	requireKind(t, err, KindValidation, "Statut invalide. Valeurs autorisées: disponible, indisponible, en_location")

	v, err := f.listings.UpdateStatus(ctx, owner, a.ID, models.StatusRented)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRented, v.Statut)

	dash, err := f.listings.ListByOwner(ctx, owner, ownerUser.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, dash.Count)
	assert.Equal(t, models.OwnerListingStats{Total: 2, Disponibles: 1, EnLocation: 1, TotalRevenue: 800}, dash.Stats)

	_, err = f.listings.ListByOwner(ctx, client, ownerUser.ID)
	requireKind(t, err, KindForbidden, "")

	st, err := f.listings.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), st.TotalAnnonces)
	assert.Equal(t, int64(1), st.AnnoncesEnLocation)
	assert.Equal(t, 900.0, st.PrixMoyen)
	assert.Equal(t, []models.TypeCount{{Type: "studio", Count: 2}}, st.RepartitionType)
}

func TestDeleteRemovesFilesAndFavorites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ownerUser := f.seedUser(t, models.RoleOwner, "owner@example.com")
	client := f.seedUser(t, models.RoleClient, "client@example.com")

	for _, name := range []string{"one.jpg", "two.jpg"} {
		require.NoError(t, os.WriteFile(filepath.Join(f.dir, name), []byte("x"), 0o600))
	}
	l, err := f.repos.Listings.Create(ctx, models.Listing{
		Titre: "Maison", Description: "d", Localisation: "Sfax", Prix: 500, NbPieces: 3,
		Surface: 120, TypeBien: models.TypeHouse, Statut: models.StatusAvailable,
		OwnerID: ownerUser.ID, Telephone: "1",
		Images: []string{"one.jpg", "../two.jpg", "data:image/png;base64,AA=="},
	})
	require.NoError(t, err)
	_, err = f.favorites.Add(ctx, actorOf(client), client.ID, l.ID)
	require.NoError(t, err)

	err = f.listings.Delete(ctx, actorOf(client), l.ID)
	requireKind(t, err, KindForbidden, "Vous n'êtes pas autorisé à supprimer cette annonce")

	require.NoError(t, f.listings.Delete(ctx, actorOf(ownerUser), l.ID))
	assert.NoFileExists(t, filepath.Join(f.dir, "one.jpg"))
	assert.NoFileExists(t, filepath.Join(f.dir, "two.jpg"))

	n, err := f.favorites.Count(ctx, client.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	err = f.listings.Delete(ctx, actorOf(ownerUser), l.ID)
	requireKind(t, err, KindNotFound, "Annonce non trouvée")
}

func TestGetReadsThroughCache(t *testing.T) {
	c := new(cacheMock)
	c.On("InvalidateStats", mock.Anything).Return()
	f := newFixtureWithCache(t, c)
	ctx := context.Background()
	owner := f.seedUser(t, models.RoleOwner, "owner@example.com")

	created, err := f.listings.Create(ctx, actorOf(owner), listingInput(nil), CreateOptions{})
	require.NoError(t, err)

	c.On("GetListing", mock.Anything, created.ID).Return(models.Listing{}, false).Once()
	c.On("SetListing", mock.Anything, mock.MatchedBy(func(l models.Listing) bool {
		return l.ID == created.ID
	})).Return().Once()
	v, err := f.listings.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Titre, v.Titre)
	require.NotNil(t, v.Owner)

	cached := models.Listing{ID: "cached-only", Titre: "Depuis le cache", OwnerID: owner.ID}
	c.On("GetListing", mock.Anything, "cached-only").Return(cached, true).Once()
	v, err = f.listings.Get(ctx, "cached-only")
	require.NoError(t, err)
	assert.Equal(t, "Depuis le cache", v.Titre)

	c.On("GetListing", mock.Anything, "missing").Return(models.Listing{}, false).Once()
	_, err = f.listings.Get(ctx, "missing")
	requireKind(t, err, KindNotFound, "Annonce non trouvée")

	c.On("DeleteListing", mock.Anything, created.ID).Return().Once()
	_, err = f.listings.UpdateStatus(ctx, actorOf(owner), created.ID, models.StatusUnavailable)
	require.NoError(t, err)

	c.AssertExpectations(t)
	c.AssertNumberOfCalls(t, "InvalidateStats", 2)
}

func TestStatsServedFromCache(t *testing.T) {
	c := new(cacheMock)
	f := newFixtureWithCache(t, c)
	ctx := context.Background()

	c.On("GetStats", mock.Anything).Return(models.ListingStats{}, false).Once()
	c.On("SetStats", mock.Anything, mock.Anything).Return().Once()
	st, err := f.listings.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, st.TotalAnnonces)
	assert.NotNil(t, st.RepartitionType)

	c.On("GetStats", mock.Anything).Return(models.ListingStats{TotalAnnonces: 42}, true).Once()
	st, err = f.listings.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), st.TotalAnnonces)

	c.AssertExpectations(t)
}
