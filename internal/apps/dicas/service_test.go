package dicas

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/catalog"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	store *repository.Store
	svc   *Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := testutil.NewDB(t)
	store := repository.New(db)
	temas, err := services.NewTemaService(store, catalog.NewRegistry(catalog.Defaults...))
	require.NoError(t, err)
	t.Cleanup(temas.Close)
	return fixture{db: db, store: store, svc: NewService(store, temas)}
}

func (f fixture) countLinks(t *testing.T) int64 {
	var n int64
	require.NoError(t, f.db.Model(&models.DicaSubtema{}).Count(&n).Error)
	return n
}

func subtemaNames(d *DicaResponse) []string {
	names := make([]string, len(d.Subtemas))
	for i, s := range d.Subtemas {
		names[i] = s.Name
	}
	return names
}

func reusableBags() *CreateRequest {
	return &CreateRequest{
		Title:    "Reduce Plastic",
		Content:  "Use reusable bags.",
		Tema:     "Eco",
		Subtemas: []string{"Plastic", "Waste"},
	}
}

func TestCreateCopiesMonitorFlag(t *testing.T) {
	for _, monitor := range []bool{false, true} {
		f := newFixture(t)
		testutil.CreateUser(t, f.db, "a@x.com", monitor)
		testutil.CreateTema(t, f.db, "Eco")

		dica, err := f.svc.Create(context.Background(), "a@x.com", reusableBags())
		require.NoError(t, err)

		assert.Equal(t, monitor, dica.IsCreatedBySpecialist)
		assert.False(t, dica.IsVerify)
		assert.Equal(t, "Eco", dica.Theme)
		assert.ElementsMatch(t, []string{"Plastic", "Waste"}, subtemaNames(dica))
	}
}

func TestCreateOneLinkPerDistinctSubtema(t *testing.T) {
	f := newFixture(t)
	testutil.CreateUser(t, f.db, "a@x.com", false)
	eco := testutil.CreateTema(t, f.db, "Eco")
	existing := testutil.CreateSubtema(t, f.db, eco.ID, "Plastic")

	req := reusableBags()
	req.Subtemas = []string{"Plastic", " Plastic ", "Waste", ""}
	dica, err := f.svc.Create(context.Background(), "A@X.com", req)
	require.NoError(t, err)

	require.Len(t, dica.Subtemas, 2)
	assert.EqualValues(t, 2, f.countLinks(t))
	assert.Contains(t, []string{dica.Subtemas[0].ID.String(), dica.Subtemas[1].ID.String()}, existing.ID.String())
}

func TestCreateMissingTemaCreatesNothing(t *testing.T) {
	f := newFixture(t)
	testutil.CreateUser(t, f.db, "a@x.com", false)

	_, err := f.svc.Create(context.Background(), "a@x.com", reusableBags())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	var n int64
	require.NoError(t, f.db.Model(&models.Dica{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCreateUnknownAuthor(t *testing.T) {
	f := newFixture(t)
	testutil.CreateTema(t, f.db, "Eco")

	_, err := f.svc.Create(context.Background(), "ghost@x.com", reusableBags())
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestCreateRejectsShortContent(t *testing.T) {
	f := newFixture(t)
	testutil.CreateUser(t, f.db, "a@x.com", false)
	testutil.CreateTema(t, f.db, "Eco")

	req := reusableBags()
	req.Content = "ok"
	_, err := f.svc.Create(context.Background(), "a@x.com", req)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateSubtemaOfOtherTemaRollsBack(t *testing.T) {
	f := newFixture(t)
	testutil.CreateUser(t, f.db, "a@x.com", false)
	testutil.CreateTema(t, f.db, "Eco")
	agua := testutil.CreateTema(t, f.db, "Agua")
	testutil.CreateSubtema(t, f.db, agua.ID, "Waste")

	_, err := f.svc.Create(context.Background(), "a@x.com", reusableBags())
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	var dicas, subtemas int64
	require.NoError(t, f.db.Model(&models.Dica{}).Count(&dicas).Error)
	require.NoError(t, f.db.Model(&models.Subtema{}).Count(&subtemas).Error)
	assert.Zero(t, dicas)
	assert.EqualValues(t, 1, subtemas, "Plastic must not survive the rollback")
}

func TestUpdateReplacesLinksOnDifference(t *testing.T) {
	f := newFixture(t)
	testutil.CreateUser(t, f.db, "a@x.com", false)
	testutil.CreateTema(t, f.db, "Eco")
	ctx := context.Background()

	dica, err := f.svc.Create(ctx, "a@x.com", reusableBags())
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, dica.ID, &UpdateRequest{
		Content:  "Carry a cloth bag.",
		Subtemas: []string{"Waste", "Reuse"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Carry a cloth bag.", updated.Content)
	assert.ElementsMatch(t, []string{"Waste", "Reuse"}, subtemaNames(updated))
	assert.EqualValues(t, 2, f.countLinks(t))
}

func TestUpdateSameSetKeepsLinks(t *testing.T) {
	f := newFixture(t)
	testutil.CreateUser(t, f.db, "a@x.com", false)
	testutil.CreateTema(t, f.db, "Eco")
	ctx := context.Background()

	dica, err := f.svc.Create(ctx, "a@x.com", reusableBags())
	require.NoError(t, err)
	before, err := f.store.DicaSubtemas.FindByDica(ctx, dica.ID)
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, dica.ID, &UpdateRequest{
		Content:  "Use reusable bags always.",
		Subtemas: []string{"Waste", "Plastic"},
	})
	require.NoError(t, err)

	after, err := f.store.DicaSubtemas.FindByDica(ctx, dica.ID)
	require.NoError(t, err)
	require.Len(t, after, 2)
	assert.ElementsMatch(t, []uuid.UUID{before[0].ID, before[1].ID}, []uuid.UUID{after[0].ID, after[1].ID})
}

func TestUpdateTemaResolvesCarriedNamesStrictly(t *testing.T) {
	f := newFixture(t)
	testutil.CreateUser(t, f.db, "a@x.com", false)
	testutil.CreateTema(t, f.db, "Eco")
	testutil.CreateTema(t, f.db, "Agua")
	ctx := context.Background()

	dica, err := f.svc.Create(ctx, "a@x.com", reusableBags())
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, dica.ID, &UpdateRequest{Content: dica.Content, Tema: "Agua"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err), "names already bound to Eco")
	assert.Nil(t, updated)

	got, err := f.svc.Get(ctx, dica.ID)
	require.NoError(t, err)
	assert.Equal(t, "Eco", got.Theme)
}

func TestUpdateMissingDica(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Update(context.Background(), uuid.New(), &UpdateRequest{Content: "valid content"})
	assert.ErrorIs(t, err, ErrDicaNotFound)
}

func TestVerify(t *testing.T) {
	f := newFixture(t)
	testutil.CreateUser(t, f.db, "a@x.com", false)
	testutil.CreateUser(t, f.db, "monitor@x.com", true)
	testutil.CreateTema(t, f.db, "Eco")
	ctx := context.Background()

	dica, err := f.svc.Create(ctx, "a@x.com", reusableBags())
	require.NoError(t, err)

	_, err = f.svc.Verify(ctx, dica.ID, "a@x.com")
	assert.ErrorIs(t, err, services.ErrNotMonitor)
	got, err := f.svc.Get(ctx, dica.ID)
	require.NoError(t, err)
	assert.False(t, got.IsVerify)

	_, err = f.svc.Verify(ctx, dica.ID, "ghost@x.com")
	assert.ErrorIs(t, err, services.ErrUserNotFound)

	verified, err := f.svc.Verify(ctx, dica.ID, "monitor@x.com")
	require.NoError(t, err)
	assert.True(t, verified.IsVerify)
	require.NotNil(t, verified.VerifyBy)
	assert.Equal(t, "monitor@x.com", *verified.VerifyBy)
	assert.False(t, verified.IsCreatedBySpecialist)

	testutil.CreateUser(t, f.db, "other@x.com", true)
	again, err := f.svc.Verify(ctx, dica.ID, "other@x.com")
	require.NoError(t, err)
	require.NotNil(t, again.VerifyBy)
	assert.Equal(t, "monitor@x.com", *again.VerifyBy, "first verifier is kept")

	_, err = f.svc.Verify(ctx, uuid.New(), "monitor@x.com")
	assert.ErrorIs(t, err, ErrDicaNotFound)
}

func TestDeleteRemovesLinksThenDica(t *testing.T) {
	f := newFixture(t)
	testutil.CreateUser(t, f.db, "a@x.com", false)
	testutil.CreateTema(t, f.db, "Eco")
	ctx := context.Background()

	dica, err := f.svc.Create(ctx, "a@x.com", reusableBags())
	require.NoError(t, err)
	require.EqualValues(t, 2, f.countLinks(t))

	require.NoError(t, f.svc.Delete(ctx, dica.ID))
	assert.Zero(t, f.countLinks(t))

	_, err = f.svc.Get(ctx, dica.ID)
	assert.ErrorIs(t, err, ErrDicaNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, dica.ID), ErrDicaNotFound)
}

func TestQueries(t *testing.T) {
	f := newFixture(t)
	testutil.CreateUser(t, f.db, "a@x.com", false)
	testutil.CreateUser(t, f.db, "monitor@x.com", true)
	testutil.CreateTema(t, f.db, "Eco")
	testutil.CreateTema(t, f.db, "Agua")
	ctx := context.Background()

	plain, err := f.svc.Create(ctx, "a@x.com", reusableBags())
	require.NoError(t, err)
	expert, err := f.svc.Create(ctx, "monitor@x.com", reusableBags())
	require.NoError(t, err)
	unlinked := reusableBags()
	unlinked.Subtemas = nil
	_, err = f.svc.Create(ctx, "a@x.com", unlinked)
	require.NoError(t, err)
	_, err = f.svc.Verify(ctx, expert.ID, "monitor@x.com")
	require.NoError(t, err)

	all, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	specialists, err := f.svc.Specialists(ctx)
	require.NoError(t, err)
	require.Len(t, specialists, 1)
	assert.Equal(t, expert.ID, specialists[0].ID)

	verified, err := f.svc.ByTema(ctx, "Eco", true)
	require.NoError(t, err)
	require.Len(t, verified, 1)
	assert.Equal(t, expert.ID, verified[0].ID)

	pending, err := f.svc.ByTema(ctx, "Eco", false)
	require.NoError(t, err)
	require.Len(t, pending, 1, "unlinked dicas are not listed by tema")
	assert.Equal(t, plain.ID, pending[0].ID)

	_, err = f.svc.ByTema(ctx, "Agua", true)
	assert.ErrorIs(t, err, ErrNoDicasForTema)

	_, err = f.svc.ByTema(ctx, "Nope", true)
	assert.ErrorIs(t, err, services.ErrTemaNotFound)
}
