package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/perfume-catalog/internal/domain/entity"
	repo "github.com/oksasatya/perfume-catalog/internal/domain/repository"
	"github.com/oksasatya/perfume-catalog/internal/infrastructure/memory"
	"github.com/oksasatya/perfume-catalog/pkg/helpers"
)

type testServices struct {
	store    *memory.Store
	brands   *BrandService
	perfumes *PerfumeService
	members  *MemberService
	mail     *recordingPublisher
}

type recordingPublisher struct {
	mu   sync.Mutex
	jobs []any
}

func (p *recordingPublisher) PublishJSON(_ context.Context, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, v)
	return nil
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	helpers.PasswordCost = bcrypt.MinCost
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	st := memory.NewStore()
	guard := NewIntegrityGuard(st.Brands(), st.Perfumes(), st.Members(), logger)
	mail := &recordingPublisher{}
	members := NewMemberService(st.Members(), st, guard, helpers.NewJWTManager("test-secret", time.Hour), logger)
	members.Mail = mail
	members.AppName = "perfume-catalog"
	perfumes := NewPerfumeService(st.Perfumes(), st.Brands(), st.Members(), st, guard, logger)
	brands := NewBrandService(st.Brands(), st, guard, logger)
	brands.Reindex = perfumes
	return &testServices{
		store:    st,
		brands:   brands,
		perfumes: perfumes,
		members:  members,
		mail:     mail,
	}
}

func strp(s string) *string   { return &s }
func f64p(f float64) *float64 { return &f }

func perfumeInput(brandID, name string) PerfumeInput {
	return PerfumeInput{
		PerfumeName:    strp(name),
		URI:            strp("https://img.test/" + name + ".jpg"),
		Price:          f64p(120),
		Concentration:  strp("EDP"),
		Description:    strp("fresh"),
		Ingredients:    strp("bergamot"),
		Volume:         f64p(100),
		TargetAudience: strp("unisex"),
		Brand:          strp(brandID),
	}
}

func (ts *testServices) register(t *testing.T, email string) *entity.Member {
	t.Helper()
	sess, err := ts.members.Register(context.Background(), RegisterInput{Email: email, Password: "secret123", Name: "Member " + email})
	require.NoError(t, err)
	return sess.Member
}

func TestBrandDeletionBlockedWhileInUse(t *testing.T) {
	ctx := context.Background()
	ts := newTestServices(t)
	b, err := ts.brands.Create(ctx, "Aqua Dior")
	require.NoError(t, err)
	p, err := ts.perfumes.Create(ctx, perfumeInput(b.ID, "Ocean Mist"))
	require.NoError(t, err)

	_, err = ts.brands.Delete(ctx, b.ID)
	appErr := AsError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, KindConflict, appErr.Kind)
	assert.Equal(t, CodeBrandInUse, appErr.Code)
	assert.Equal(t, 1, appErr.Details["perfumeCount"])
	assert.Equal(t, "Aqua Dior", appErr.Details["brandName"])

	_, err = ts.perfumes.Delete(ctx, p.ID)
	require.NoError(t, err)
	deleted, err := ts.brands.Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, deleted.ID)

	_, err = ts.brands.Get(ctx, b.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestBrandCreateRejectsDuplicateAndBlank(t *testing.T) {
	ctx := context.Background()
	ts := newTestServices(t)
	_, err := ts.brands.Create(ctx, "  Cedar Lab ")
	require.NoError(t, err)

	_, err = ts.brands.Create(ctx, "Cedar Lab")
	assert.Equal(t, CodeBrandNameTaken, AsError(err).Code)

	_, err = ts.brands.Create(ctx, "   ")
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestPerfumeRequiresExistingBrand(t *testing.T) {
	ctx := context.Background()
	ts := newTestServices(t)

	_, err := ts.perfumes.Create(ctx, perfumeInput("missing", "Ghost"))
	appErr := AsError(err)
	assert.Equal(t, KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Details, "brand")
}

func TestPerfumeUpdateIsPartial(t *testing.T) {
	ctx := context.Background()
	ts := newTestServices(t)
	b, _ := ts.brands.Create(ctx, "Amber House")
	p, err := ts.perfumes.Create(ctx, perfumeInput(b.ID, "Midnight Amber"))
	require.NoError(t, err)

	updated, err := ts.perfumes.Update(ctx, p.ID, PerfumeInput{Price: f64p(99.5)})
	require.NoError(t, err)
	assert.Equal(t, 99.5, updated.Price)
	assert.Equal(t, "Midnight Amber", updated.PerfumeName)
	assert.Equal(t, "Amber House", updated.BrandName)

	_, err = ts.perfumes.Update(ctx, p.ID, PerfumeInput{Volume: f64p(0)})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestCommentUpsertIsOnePerAuthor(t *testing.T) {
	ctx := context.Background()
	ts := newTestServices(t)
	m := ts.register(t, "user@myteam.com")
	b, _ := ts.brands.Create(ctx, "Sample Brand")
	p, _ := ts.perfumes.Create(ctx, perfumeInput(b.ID, "Ocean Mist"))

	got, created, err := ts.perfumes.UpsertComment(ctx, p.ID, m.ID, 3, "great")
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, got.Comments, 1)
	first := got.Comments[0]
	assert.Equal(t, m.Name, first.AuthorName)

	got, created, err = ts.perfumes.UpsertComment(ctx, p.ID, m.ID, 1, "changed my mind")
	require.NoError(t, err)
	assert.False(t, created)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, first.ID, got.Comments[0].ID)
	assert.Equal(t, 1, got.Comments[0].Rating)
	assert.Equal(t, "changed my mind", got.Comments[0].Content)
}

func TestCommentRatingValidated(t *testing.T) {
	ctx := context.Background()
	ts := newTestServices(t)
	m := ts.register(t, "user@myteam.com")
	b, _ := ts.brands.Create(ctx, "Sample Brand")
	p, _ := ts.perfumes.Create(ctx, perfumeInput(b.ID, "Ocean Mist"))

	for _, r := range []int{0, 4} {
		_, _, err := ts.perfumes.UpsertComment(ctx, p.ID, m.ID, r, "x")
		appErr := AsError(err)
		assert.Equal(t, KindValidation, appErr.Kind)
		assert.Contains(t, appErr.Details, "rating")
	}
}

func TestDeleteCommentIdempotent(t *testing.T) {
	ctx := context.Background()
	ts := newTestServices(t)
	m := ts.register(t, "user@myteam.com")
	b, _ := ts.brands.Create(ctx, "Sample Brand")
	p, _ := ts.perfumes.Create(ctx, perfumeInput(b.ID, "Ocean Mist"))
	_, _, err := ts.perfumes.UpsertComment(ctx, p.ID, m.ID, 2, "ok")
	require.NoError(t, err)

	got, err := ts.perfumes.DeleteComment(ctx, p.ID, m.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Comments)

	got, err = ts.perfumes.DeleteComment(ctx, p.ID, m.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Comments)
}

func TestMemberDeletionBlockedByComments(t *testing.T) {
	ctx := context.Background()
	ts := newTestServices(t)
	m := ts.register(t, "user@myteam.com")
	b, _ := ts.brands.Create(ctx, "Sample Brand")
	p, _ := ts.perfumes.Create(ctx, perfumeInput(b.ID, "Ocean Mist"))
	_, _, err := ts.perfumes.UpsertComment(ctx, p.ID, m.ID, 3, "love it")
	require.NoError(t, err)

	err = ts.members.Delete(ctx, m.ID)
	appErr := AsError(err)
	assert.Equal(t, CodeMemberHasComments, appErr.Code)
	assert.Equal(t, 1, appErr.Details["commentCount"])

	// Deleting the perfume discards its comments and unblocks the member.
	_, err = ts.perfumes.Delete(ctx, p.ID)
	require.NoError(t, err)
	require.NoError(t, ts.members.Delete(ctx, m.ID))
}

// abortedPerfumes fails any count, as Postgres does once a statement in the
// transaction has failed.
type abortedPerfumes struct{ repo.PerfumeRepository }

func (abortedPerfumes) CountCommentedBy(context.Context, string) (int, error) {
	return 0, errors.New("current transaction is aborted")
}

func TestMemberDeletionOfUnknownMemberIsNotFound(t *testing.T) {
	ctx := context.Background()
	ts := newTestServices(t)

	err := ts.members.Delete(ctx, "not-a-member")
	assert.Equal(t, KindNotFound, KindOf(err))

	guard := NewIntegrityGuard(ts.store.Brands(), abortedPerfumes{ts.store.Perfumes()}, ts.store.Members(), nil)
	err = guard.GuardMemberDeletion(ctx, "not-a-member")
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "Member not found", AsError(err).Message)
}

func TestRegisterNormalizesAndRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	ts := newTestServices(t)
	sess, err := ts.members.Register(ctx, RegisterInput{Email: " New@Example.COM ", Password: "secret123", Name: "New"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", sess.Member.Email)
	assert.False(t, sess.Member.IsAdmin)
	assert.NotEqual(t, "secret123", sess.Member.Password)
	assert.NotEmpty(t, sess.Token)
	assert.Len(t, ts.mail.jobs, 1)

	_, err = ts.members.Register(ctx, RegisterInput{Email: "new@example.com", Password: "other123", Name: "Again"})
	assert.Equal(t, CodeEmailTaken, AsError(err).Code)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	ts := newTestServices(t)
	ts.register(t, "user@myteam.com")

	_, errUnknown := ts.members.Login(ctx, "nobody@myteam.com", "secret123")
	_, errWrong := ts.members.Login(ctx, "user@myteam.com", "wrongpass")
	assert.Equal(t, errUnknown, errWrong)
	assert.Equal(t, KindInvalidCredentials, KindOf(errWrong))

	sess, err := ts.members.Login(ctx, "USER@myteam.com", "secret123")
	require.NoError(t, err)
	id, ok := ts.members.VerifyToken(ctx, sess.Token)
	require.True(t, ok)
	assert.Equal(t, sess.Member.ID, id.ID)
}

func TestVerifyTokenFailsClosed(t *testing.T) {
	ctx := context.Background()
	ts := newTestServices(t)
	m := ts.register(t, "user@myteam.com")

	for _, tok := range []string{"", "garbage"} {
		_, ok := ts.members.VerifyToken(ctx, tok)
		assert.False(t, ok)
	}

	foreign := helpers.NewJWTManager("other-secret", time.Hour)
	tok, _, err := foreign.Generate(m.ID, true)
	require.NoError(t, err)
	_, ok := ts.members.VerifyToken(ctx, tok)
	assert.False(t, ok)
}

func TestVerifyTokenReadsAdminFromStore(t *testing.T) {
	ctx := context.Background()
	ts := newTestServices(t)
	m := ts.register(t, "user@myteam.com")
	ts.members.AllowSelfAdmin = true

	tok, _, err := ts.members.JWT.Generate(m.ID, false)
	require.NoError(t, err)
	_, err = ts.members.PromoteFirstAdmin(ctx, m.ID)
	require.NoError(t, err)

	id, ok := ts.members.VerifyToken(ctx, tok)
	require.True(t, ok)
	assert.True(t, id.IsAdmin)
}

func TestPromoteFirstAdmin(t *testing.T) {
	ctx := context.Background()
	ts := newTestServices(t)
	a := ts.register(t, "a@myteam.com")
	b := ts.register(t, "b@myteam.com")

	_, err := ts.members.PromoteFirstAdmin(ctx, a.ID)
	assert.Equal(t, KindForbidden, KindOf(err))

	ts.members.AllowSelfAdmin = true
	promoted, err := ts.members.PromoteFirstAdmin(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin)

	_, err = ts.members.PromoteFirstAdmin(ctx, b.ID)
	assert.Equal(t, CodeAdminExists, AsError(err).Code)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	ts := newTestServices(t)
	m := ts.register(t, "user@myteam.com")

	err := ts.members.ChangePassword(ctx, m.ID, "wrong", "newsecret")
	assert.Equal(t, CodeCurrentPasswordInvalid, AsError(err).Code)

	require.NoError(t, ts.members.ChangePassword(ctx, m.ID, "secret123", "newsecret"))
	_, err = ts.members.Login(ctx, m.Email, "newsecret")
	require.NoError(t, err)
	assert.Len(t, ts.mail.jobs, 2)
}

func TestUpdateProfileKeepsUnsetFields(t *testing.T) {
	ctx := context.Background()
	ts := newTestServices(t)
	yob := 1990
	male := true
	sess, err := ts.members.Register(ctx, RegisterInput{Email: "p@myteam.com", Password: "secret123", Name: "P", YOB: &yob, Gender: &male})
	require.NoError(t, err)

	m, err := ts.members.UpdateProfile(ctx, sess.Member.ID, ProfileInput{Name: strp("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", m.Name)
	require.NotNil(t, m.YOB)
	assert.Equal(t, 1990, *m.YOB)
	require.NotNil(t, m.Gender)
	assert.True(t, *m.Gender)
}

func TestLoginWithOAuthRegistersOnce(t *testing.T) {
	ctx := context.Background()
	ts := newTestServices(t)

	first, err := ts.members.LoginWithOAuth(ctx, "Google@Example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "google", first.Member.Name)

	second, err := ts.members.LoginWithOAuth(ctx, "google@example.com", "Other")
	require.NoError(t, err)
	assert.Equal(t, first.Member.ID, second.Member.ID)
}

type fakeImages struct{ path string }

func (f *fakeImages) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	_, _ = io.ReadAll(r)
	f.path = objectPath
	return "https://storage.test/" + objectPath, nil
}

func TestUploadImage(t *testing.T) {
	ctx := context.Background()
	ts := newTestServices(t)
	b, _ := ts.brands.Create(ctx, "Sample Brand")
	p, _ := ts.perfumes.Create(ctx, perfumeInput(b.ID, "Ocean Mist"))

	_, err := ts.perfumes.UploadImage(ctx, p.ID, "a.png", "image/png", strings.NewReader("x"))
	assert.Equal(t, KindUnavailable, KindOf(err))

	imgs := &fakeImages{}
	ts.perfumes.Images = imgs
	got, err := ts.perfumes.UploadImage(ctx, p.ID, "a.PNG", "image/png", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(imgs.path, "perfumes/"+p.ID+"/"))
	assert.True(t, strings.HasSuffix(imgs.path, ".png"))
	assert.Equal(t, "https://storage.test/"+imgs.path, got.URI)
}

// Concurrent brand deletes and perfume creates must never leave a perfume
// pointing at a deleted brand.
func TestBrandDeleteRacesPerfumeCreate(t *testing.T) {
	ctx := context.Background()
	for i := 0; i < 20; i++ {
		ts := newTestServices(t)
		b, err := ts.brands.Create(ctx, "Race")
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = ts.brands.Delete(ctx, b.ID)
		}()
		go func() {
			defer wg.Done()
			_, _ = ts.perfumes.Create(ctx, perfumeInput(b.ID, "Racer"))
		}()
		wg.Wait()

		perfumes, err := ts.perfumes.List(ctx, entity.PerfumeFilter{BrandID: b.ID})
		require.NoError(t, err)
		if len(perfumes) > 0 {
			_, err := ts.brands.Get(ctx, b.ID)
			assert.NoError(t, err, "perfume references a deleted brand")
		}
	}
}

// recordingIndex keeps the last document indexed per perfume.
type recordingIndex struct {
	mu   sync.Mutex
	docs map[string]entity.Perfume
}

func (x *recordingIndex) Index(_ context.Context, p *entity.Perfume) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.docs == nil {
		x.docs = map[string]entity.Perfume{}
	}
	x.docs[p.ID] = *p
	return nil
}

func (x *recordingIndex) Remove(_ context.Context, id string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.docs, id)
	return nil
}

func (x *recordingIndex) Search(context.Context, string, int) ([]entity.PerfumeHit, error) {
	return nil, nil
}

func (x *recordingIndex) doc(id string) entity.Perfume {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.docs[id]
}

func TestSearchIndexFollowsCommentsAndBrandRename(t *testing.T) {
	ctx := context.Background()
	ts := newTestServices(t)
	idx := &recordingIndex{}
	ts.perfumes.Index = idx

	b, _ := ts.brands.Create(ctx, "Sample Brand")
	p, err := ts.perfumes.Create(ctx, perfumeInput(b.ID, "Ocean Mist"))
	require.NoError(t, err)
	assert.Equal(t, "Sample Brand", idx.doc(p.ID).BrandName)

	m := ts.register(t, "user@myteam.com")
	_, _, err = ts.perfumes.UpsertComment(ctx, p.ID, m.ID, 2, "fine")
	require.NoError(t, err)
	rated := idx.doc(p.ID)
	assert.InDelta(t, 2, rated.AverageRating(), 0.001)

	_, err = ts.perfumes.DeleteComment(ctx, p.ID, m.ID)
	require.NoError(t, err)
	assert.Empty(t, idx.doc(p.ID).Comments)

	_, err = ts.brands.Update(ctx, b.ID, "Aqua Dior")
	require.NoError(t, err)
	assert.Equal(t, "Aqua Dior", idx.doc(p.ID).BrandName)
}
