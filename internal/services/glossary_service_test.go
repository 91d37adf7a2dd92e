package services

import (
	"testing"

	app_errors "lingoflow/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTermRejectsDuplicatePerDomain(t *testing.T) {
	f := newFixture(t)

	_, err := f.glossary.CreateTerm(testCtx(), "firewall", "", "Brandmauer", "", "")
	require.NoError(t, err)

	// Same term, same domain: conflict. Same term, other domain: fine.
	_, err = f.glossary.CreateTerm(testCtx(), "firewall", "", "Firewall", "", "")
	assert.True(t, app_errors.IsCode(err, app_errors.ErrDuplicateResource.Code))

	_, err = f.glossary.CreateTerm(testCtx(), "firewall", "networking", "Firewall", "", "")
	assert.NoError(t, err)
}

func TestCreateTermValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.glossary.CreateTerm(testCtx(), " ", "", "x", "", "")
	assert.True(t, app_errors.IsCode(err, app_errors.ErrValidation.Code))

	_, err = f.glossary.CreateTerm(testCtx(), "term", "", "  ", "", "")
	assert.True(t, app_errors.IsCode(err, app_errors.ErrValidation.Code))
}

func TestUpdateTermKeepsIdentity(t *testing.T) {
	f := newFixture(t)

	term, err := f.glossary.CreateTerm(testCtx(), "cache", "infra", "Zwischenspeicher", "", "")
	require.NoError(t, err)

	updated, err := f.glossary.UpdateTerm(testCtx(), term.ID, "Cache", "a fast local copy", "keep untranslated")
	require.NoError(t, err)
	assert.Equal(t, "cache", updated.Term)
	assert.Equal(t, "infra", updated.Domain)
	assert.Equal(t, "Cache", updated.Translation)
	assert.Equal(t, "a fast local copy", updated.Definition)

	_, err = f.glossary.UpdateTerm(testCtx(), "missing-id", "x", "", "")
	assert.True(t, app_errors.IsCode(err, app_errors.ErrResourceNotFound.Code))
}

func TestMatchTermsWordBoundaries(t *testing.T) {
	f := newFixture(t)

	_, err := f.glossary.CreateTerm(testCtx(), "cat", "", "Katze", "", "")
	require.NoError(t, err)

	// "catalog" contains "cat" but is not a word-boundary match.
	hits, err := f.glossary.MatchTerms(testCtx(), "Browse the catalog", "")
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = f.glossary.MatchTerms(testCtx(), "The CAT sleeps", "")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Katze", hits[0].Translation)
}

func TestMatchTermsNextToPunctuation(t *testing.T) {
	f := newFixture(t)

	_, err := f.glossary.CreateTerm(testCtx(), "platform", "", "Plattform", "", "")
	require.NoError(t, err)

	for _, text := range []string{
		"Welcome to the platform.",
		"The platform, as described, is stable",
		"(platform)",
		"platform: an overview",
	} {
		hits, err := f.glossary.MatchTerms(testCtx(), text, "")
		require.NoError(t, err)
		require.Len(t, hits, 1, "expected a hit in %q", text)
		assert.Equal(t, "Plattform", hits[0].Translation)
	}

	// Still no hit inside a longer word.
	hits, err := f.glossary.MatchTerms(testCtx(), "cross-platforms everywhere", "")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestMatchTermsDomainShadowsGeneral(t *testing.T) {
	f := newFixture(t)

	_, err := f.glossary.CreateTerm(testCtx(), "driver", "", "Fahrer", "", "")
	require.NoError(t, err)
	_, err = f.glossary.CreateTerm(testCtx(), "driver", "software", "Treiber", "", "")
	require.NoError(t, err)

	// Without a domain only the general glossary applies.
	hits, err := f.glossary.MatchTerms(testCtx(), "install the driver", "")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Fahrer", hits[0].Translation)

	// With a domain the specific term wins over the general one.
	hits, err = f.glossary.MatchTerms(testCtx(), "install the driver", "software")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Treiber", hits[0].Translation)
	assert.Equal(t, "software", hits[0].Domain)
}

func TestMatchTermsMultiWordTerm(t *testing.T) {
	f := newFixture(t)

	_, err := f.glossary.CreateTerm(testCtx(), "load balancer", "", "Lastverteiler", "", "")
	require.NoError(t, err)

	hits, err := f.glossary.MatchTerms(testCtx(), "Put a load   balancer in front", "")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Lastverteiler", hits[0].Translation)
}

func TestListTermsFilters(t *testing.T) {
	f := newFixture(t)

	for _, seed := range [][2]string{
		{"firewall", "networking"},
		{"firmware", "networking"},
		{"footer", "web"},
	} {
		_, err := f.glossary.CreateTerm(testCtx(), seed[0], seed[1], "x", "", "")
		require.NoError(t, err)
	}

	terms, total, err := f.glossary.ListTerms(testCtx(), "networking", "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, terms, 2)

	terms, total, err = f.glossary.ListTerms(testCtx(), "", "fir", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, terms, 2)
	assert.Equal(t, "firewall", terms[0].Term)
}

func TestDeleteTerm(t *testing.T) {
	f := newFixture(t)

	term, err := f.glossary.CreateTerm(testCtx(), "gateway", "", "Gateway", "", "")
	require.NoError(t, err)

	require.NoError(t, f.glossary.DeleteTerm(testCtx(), term.ID))
	err = f.glossary.DeleteTerm(testCtx(), term.ID)
	assert.True(t, app_errors.IsCode(err, app_errors.ErrResourceNotFound.Code))
}
