package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sevenwd/sevenwd/catalog"
)

func TestNewCatalogCardCounts(t *testing.T) {
	c := catalog.New(7)

	require.Equal(t, 23, c.Age1CardCount())
	require.Equal(t, 23, c.Age2CardCount())
	require.Equal(t, 20, c.Age3CardCount())
	require.Equal(t, 7, c.GuildCardCount())
	require.Len(t, c.AllGuildCards(), 7)
}

func TestCatalogResolvesEveryWonderAndToken(t *testing.T) {
	c := catalog.New(7)

	for w := catalog.Wonders(0); w < catalog.NumWonders; w++ {
		card := c.Wonder(w)
		require.NotNil(t, card)
		require.Equal(t, catalog.Wonder, card.Type())
	}

	for tok := catalog.ScienceToken(0); tok < catalog.NumScienceTokens; tok++ {
		card := c.ScienceToken(tok)
		require.NotNil(t, card)
		require.Equal(t, catalog.ScienceTokenType, card.Type())
	}
}

func TestGetCardResolvesAcrossTheWholeIDSpace(t *testing.T) {
	c := catalog.New(7)

	for i := 0; i < c.Age1CardCount(); i++ {
		want := c.Age1Card(i)
		got := c.GetCard(want.ID())
		require.Equal(t, want.Type(), got.Type())
		require.Equal(t, want.ID(), got.ID())
	}
}
