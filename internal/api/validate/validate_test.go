package validate

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrsCollectsOnlyFailures(t *testing.T) {
	var errs Errs
	errs.Add(Required("nom", "Alice", "Le nom est requis"))
	errs.Add(Required("prenom", "  ", "Le prénom est requis"))
	errs.Add(MaxLen("titre", "abcdef", 3, "Titre trop long"))
	errs.Add(MinInt("nbPieces", 2, 1, "unused"))

	require.Len(t, errs, 2)
	assert.Equal(t, "Le prénom est requis, Titre trop long", errs.Messages())
	assert.Equal(t, "prenom: Le prénom est requis; titre: Titre trop long", errs.Error())

	var target Errs
	require.True(t, errors.As(errs.Err(), &target))
	assert.Equal(t, errs, target)
}

func TestEmptyErrsIsNil(t *testing.T) {
	var errs Errs
	errs.Add(nil)
	assert.NoError(t, errs.Err())
}

func TestMaxLenCountsRunes(t *testing.T) {
	assert.Nil(t, MaxLen("titre", "éééé", 4, "x"))
	assert.NotNil(t, MaxLen("titre", "ééééé", 4, "x"))
}

func TestMinFloatIsInclusive(t *testing.T) {
	assert.Nil(t, MinFloat("surface", 1, 1, "x"))
	assert.NotNil(t, MinFloat("surface", 0.5, 1, "x"))
	assert.NotNil(t, MinFloat("surface", math.NaN(), 1, "x"))
}

func TestOneOf(t *testing.T) {
	allowed := []string{"studio", "villa"}
	assert.Nil(t, OneOf("typeBien", "villa", allowed, "x"))
	assert.NotNil(t, OneOf("typeBien", "Villa", allowed, "x"))
}

func TestEmail(t *testing.T) {
	for _, ok := range []string{"a@b.co", "first.last@mail.example.org"} {
		assert.Nil(t, Email("email", ok, "x"), ok)
	}
	for _, bad := range []string{"", "plain", "a@b", "a b@c.d", "@b.c"} {
		assert.NotNil(t, Email("email", bad, "x"), bad)
	}
}
