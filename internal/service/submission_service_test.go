package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"descontamina/internal/catalog"
	"descontamina/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSubmitStoresAndPushes(t *testing.T) {
	cat := catalog.MustLoad()
	repo := repository.NewMemoryDiagnosisRepo()
	crm := &fakeCRM{}
	svc := NewSubmissionService(cat, repo, crm, NewReferenceCodec(""), zap.NewNop())

	payload := payloadWithAll(5)
	payload["email"] = "ana.souza@acme.com.br"
	payload["name"] = "Ana"
	payload["company"] = "Acme"
	payload["swot-strengths"] = "time unido"
	payload["q-communication-0"] = "2"

	ref, err := svc.Submit(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, "ana_souza_acme_com_br", ref)
	svc.Wait()

	stored, err := repo.Get(context.Background(), "ana_souza_acme_com_br")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Ana", stored.Name)
	assert.Equal(t, "time unido", stored.Strengths)
	assert.Equal(t, 2, stored.AllAnswers["communication-0"])
	assert.Equal(t, 4.0, stored.Averages["communication"])
	assert.Equal(t, 5.0, stored.Averages["motivation"])
	assert.False(t, stored.CreatedAt.IsZero())

	assert.Equal(t, 1, crm.count())
	assert.Equal(t, "ana.souza@acme.com.br", crm.calls[0].Email)
}

func TestSubmitResubmissionMerges(t *testing.T) {
	cat := catalog.MustLoad()
	repo := repository.NewMemoryDiagnosisRepo()
	svc := NewSubmissionService(cat, repo, nil, NewReferenceCodec(""), zap.NewNop())

	first := payloadWithAll(5)
	first["company"] = "Acme"
	first["swot-threats"] = "crise"
	_, err := svc.Submit(context.Background(), first)
	require.NoError(t, err)
	before, _ := repo.Get(context.Background(), "a_b_com")

	svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	second := payloadWithAll(9)
	second["name"] = "Ana"
	_, err = svc.Submit(context.Background(), second)
	require.NoError(t, err)

	after, err := repo.Get(context.Background(), "a_b_com")
	require.NoError(t, err)
	assert.Equal(t, "Acme", after.Company)
	assert.Equal(t, "crise", after.Threats)
	assert.Equal(t, "Ana", after.Name)
	assert.Equal(t, 9.0, after.Averages["climate"])
	assert.True(t, before.CreatedAt.Equal(after.CreatedAt))
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))

	third := payloadWithAll(9)
	third["swot-threats"] = ""
	third["company"] = "   "
	_, err = svc.Submit(context.Background(), third)
	require.NoError(t, err)

	cleared, err := repo.Get(context.Background(), "a_b_com")
	require.NoError(t, err)
	assert.Empty(t, cleared.Threats)
	assert.Empty(t, cleared.Company)
	assert.Equal(t, "Ana", cleared.Name)
}

func TestBuildMarksPresentFields(t *testing.T) {
	svc := NewSubmissionService(catalog.MustLoad(), nil, nil, NewReferenceCodec(""), zap.NewNop())

	sub, err := svc.Build(map[string]any{"email": "a@b.com", "swot-strengths": "", "name": nil})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"email": true, "swot-strengths": true, "name": true}, sub.Present)

	fields := sub.Fields()
	assert.Contains(t, fields, "swot-strengths")
	assert.Equal(t, "", fields["swot-strengths"])
	assert.NotContains(t, fields, "company")
}

func TestSubmitRejectsEmailWithPathSeparator(t *testing.T) {
	repo := repository.NewMemoryDiagnosisRepo()
	crm := &fakeCRM{}
	svc := NewSubmissionService(catalog.MustLoad(), repo, crm, NewReferenceCodec(""), zap.NewNop())

	_, err := svc.Submit(context.Background(), map[string]any{"email": "ana/ops@acme.com"})
	assert.True(t, errors.Is(err, ErrValidation))
	svc.Wait()

	stored, err := repo.Get(context.Background(), "ana/ops_acme_com")
	require.NoError(t, err)
	assert.Nil(t, stored)
	assert.Equal(t, 0, crm.count())
}

func TestSubmitValidation(t *testing.T) {
	cat := catalog.MustLoad()
	repo := repository.NewMemoryDiagnosisRepo()
	crm := &fakeCRM{}
	svc := NewSubmissionService(cat, repo, crm, NewReferenceCodec(""), zap.NewNop())

	for name, payload := range map[string]map[string]any{
		"nil payload": nil,
		"no email":    {"name": "Ana"},
		"blank email": {"email": "   "},
		"null email":  {"email": nil},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), payload)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
	svc.Wait()
	assert.Equal(t, 0, crm.count())
}

func TestSubmitWithoutStore(t *testing.T) {
	crm := &fakeCRM{}
	svc := NewSubmissionService(catalog.MustLoad(), nil, crm, NewReferenceCodec(""), zap.NewNop())
	ref, err := svc.Submit(context.Background(), payloadWithAll(3))
	require.NoError(t, err)
	assert.Equal(t, "a_b_com", ref)
	svc.Wait()
	assert.Equal(t, 1, crm.count())
}

func TestSubmitStoreFailure(t *testing.T) {
	crm := &fakeCRM{}
	svc := NewSubmissionService(catalog.MustLoad(), failingRepo{}, crm, NewReferenceCodec(""), zap.NewNop())
	_, err := svc.Submit(context.Background(), payloadWithAll(3))
	assert.True(t, errors.Is(err, ErrStoreWrite))
	svc.Wait()
	assert.Equal(t, 0, crm.count())
}

func TestSubmitCRMFailureIsNotFatal(t *testing.T) {
	crm := &fakeCRM{err: errBoom}
	svc := NewSubmissionService(catalog.MustLoad(), repository.NewMemoryDiagnosisRepo(), crm, NewReferenceCodec(""), zap.NewNop())
	_, err := svc.Submit(context.Background(), payloadWithAll(3))
	require.NoError(t, err)
	svc.Wait()
	assert.Equal(t, 1, crm.count())
}

func TestSubmitSignedReference(t *testing.T) {
	refs := NewReferenceCodec("secret")
	svc := NewSubmissionService(catalog.MustLoad(), repository.NewMemoryDiagnosisRepo(), nil, refs, zap.NewNop())
	ref, err := svc.Submit(context.Background(), payloadWithAll(3))
	require.NoError(t, err)

	id, err := refs.Decode(ref)
	require.NoError(t, err)
	assert.Equal(t, "a_b_com", id)
}
