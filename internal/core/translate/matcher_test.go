package translate

import (
	"errors"
	"testing"

	"food-translator/internal/core/flavor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLexicon(t *testing.T) *flavor.Lexicon {
	t.Helper()
	w := func(pairs ...any) flavor.Vector {
		var v flavor.Vector
		for i := 0; i < len(pairs); i += 2 {
			v[pairs[i].(flavor.Dimension)] = pairs[i+1].(float64)
		}
		return v
	}
	lex, err := flavor.NewLexicon(map[string]flavor.Vector{
		"tomato":  w(flavor.Acidity, 3.0, flavor.Sweetness, 1.0),
		"basil":   w(flavor.Aromatic, 2.0),
		"chili":   w(flavor.Heat, 4.0),
		"coconut": w(flavor.Fattiness, 3.0, flavor.Sweetness, 1.5),
		"lime":    w(flavor.Acidity, 3.5),
		"fish":    w(flavor.Saltiness, 3.0, flavor.Umami, 2.5),
		"cheese":  w(flavor.Fattiness, 3.0, flavor.Umami, 2.0, flavor.Saltiness, 1.5),
	})
	require.NoError(t, err)
	return lex
}

func testUniverse(lex *flavor.Lexicon) Universe {
	return Universe{
		NewDish(lex, "Margherita Pizza", "Italian", "pizza.jpg", []string{"tomato", "basil", "mozzarella cheese"}),
		NewDish(lex, "Tom Yum", "Thai", "", []string{"lime", "chili", "fish sauce"}),
		NewDish(lex, "Green Curry", "Thai", "", []string{"coconut milk", "chili", "thai basil", "fish sauce"}),
		NewDish(lex, "Som Tam", "Thai", "", []string{"lime", "tomato", "chili", "fish sauce"}),
		NewDish(lex, "Pico de Gallo", "Mexican", "", []string{"tomato", "lime", "chili"}),
	}
}

func TestUniverseFind(t *testing.T) {
	u := testUniverse(testLexicon(t))

	d, ok := u.Find("margherita")
	require.True(t, ok)
	assert.Equal(t, "Margherita Pizza", d.Name)

	d, ok = u.Find("  TOM ")
	require.True(t, ok)
	assert.Equal(t, "Tom Yum", d.Name, "first match in declared order wins")

	_, ok = u.Find("sushi")
	assert.False(t, ok)

	_, ok = u.Find("")
	assert.False(t, ok)
}

func TestUniverseCandidates(t *testing.T) {
	u := testUniverse(testLexicon(t))

	thai := u.Candidates("Thai", "tom yum")
	require.Len(t, thai, 2)
	assert.Equal(t, "Green Curry", thai[0].Name)
	assert.Equal(t, "Som Tam", thai[1].Name)

	assert.Empty(t, u.Candidates("thai", ""), "cuisine comparison is case-sensitive")
}

func TestUniverseCuisines(t *testing.T) {
	u := testUniverse(testLexicon(t))
	assert.Equal(t, []CuisineCount{
		{Name: "Italian", Dishes: 1},
		{Name: "Thai", Dishes: 3},
		{Name: "Mexican", Dishes: 1},
	}, u.Cuisines())
}

func TestUniverseSearch(t *testing.T) {
	u := testUniverse(testLexicon(t))
	assert.Len(t, u.Search("", ""), 5)
	assert.Len(t, u.Search("", "Thai"), 3)

	got := u.Search("U", "Thai")
	require.Len(t, got, 2)
	assert.Equal(t, "Tom Yum", got[0].Name)
	assert.Equal(t, "Green Curry", got[1].Name)

	got = u.Search("curry", "")
	require.Len(t, got, 1)
	assert.Equal(t, "Green Curry", got[0].Name)

	assert.NotNil(t, u.Search("nothing", ""))
}

func TestTranslate(t *testing.T) {
	lex := testLexicon(t)
	u := testUniverse(lex)
	source, ok := u.Find("pico")
	require.True(t, ok)

	result, err := Translate(source, "Thai", u)
	require.NoError(t, err)

	assert.Equal(t, "Pico de Gallo", result.Source.Name)
	assert.Equal(t, "Som Tam", result.Match.Dish.Name)
	assert.Equal(t, "Thai", result.Match.Dish.Cuisine)
	assert.GreaterOrEqual(t, result.Match.Percent, 0)
	assert.LessOrEqual(t, result.Match.Percent, 100)
	assert.Equal(t, flavor.Normalize(source.Vector), result.SourceNormalized)
	assert.Equal(t, flavor.Normalize(result.Match.Dish.Vector), result.Match.Normalized)
	assert.Contains(t, result.Match.Shared, flavor.Acidity)
	assert.Contains(t, result.Match.Shared, flavor.Heat)
	assert.Empty(t, result.Alternatives)
}

func TestTranslateExcludesSource(t *testing.T) {
	lex := testLexicon(t)
	u := testUniverse(lex)
	source, _ := u.Find("tom yum")

	result, err := Translate(source, "Thai", u)
	require.NoError(t, err)
	assert.NotEqual(t, "Tom Yum", result.Match.Dish.Name)
}

func TestTranslateTieBreakIsDeterministic(t *testing.T) {
	lex := testLexicon(t)
	ingredients := []string{"coconut milk", "chili"}
	u := Universe{
		NewDish(lex, "Source Dish", "Fusion", "", []string{"coconut", "chili", "lime"}),
		NewDish(lex, "Khao Soi", "Thai", "", ingredients),
		NewDish(lex, "Panang Curry", "Thai", "", ingredients),
		NewDish(lex, "Massaman Curry", "Thai", "", ingredients),
	}

	for i := 0; i < 25; i++ {
		result, err := Translate(u[0], "Thai", u, WithAlternatives(5))
		require.NoError(t, err)
		assert.Equal(t, "Khao Soi", result.Match.Dish.Name)
		require.Len(t, result.Alternatives, 2)
		assert.Equal(t, "Panang Curry", result.Alternatives[0].Dish.Name)
		assert.Equal(t, "Massaman Curry", result.Alternatives[1].Dish.Name)
	}
}

func TestTranslateNoCandidates(t *testing.T) {
	lex := testLexicon(t)
	u := testUniverse(lex)
	source, _ := u.Find("margherita")

	for _, cuisine := range []string{"Japanese", "thai", ""} {
		result, err := Translate(source, cuisine, u)
		assert.Nil(t, result)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoCandidates)

		var nc *NoCandidatesError
		require.True(t, errors.As(err, &nc))
		assert.Equal(t, cuisine, nc.Cuisine)
	}

	onlySelf := Universe{source}
	_, err := Translate(source, "Italian", onlySelf)
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestTranslateDegenerateSource(t *testing.T) {
	lex := testLexicon(t)
	u := testUniverse(lex)
	source := NewDish(lex, "Plain Water", "International", "", []string{"water"})
	require.True(t, source.Vector.IsZero())

	result, err := Translate(source, "Thai", u)
	require.NoError(t, err)
	assert.Equal(t, "Tom Yum", result.Match.Dish.Name, "all scores are 0, first candidate wins")
	assert.Equal(t, 0, result.Match.Percent)
	assert.Empty(t, result.Match.Shared)
	assert.Equal(t, flavor.Vector{}, result.SourceNormalized)
}

func TestRankOrder(t *testing.T) {
	lex := testLexicon(t)
	u := testUniverse(lex)
	source, _ := u.Find("pico")

	ranked, err := Rank(source, "Thai", u)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Similarity, ranked[i].Similarity)
	}
}

func TestWithAlternativesBounds(t *testing.T) {
	lex := testLexicon(t)
	u := testUniverse(lex)
	source, _ := u.Find("pico")

	result, err := Translate(source, "Thai", u, WithAlternatives(-3))
	require.NoError(t, err)
	assert.Empty(t, result.Alternatives)

	result, err = Translate(source, "Thai", u, WithAlternatives(50))
	require.NoError(t, err)
	assert.Len(t, result.Alternatives, 2)
}
