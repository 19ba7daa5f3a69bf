package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge_KeepsFirstOccurrenceInOrder(t *testing.T) {
	scoped := []Result{
		{Title: "John Doe (footballer)", Source: "scoped"},
	}
	general := []Result{
		{Title: "John_Doe_(footballer)", Source: "general"},
		{Title: "Johan Cruyff"},
		{URL: "https://EN.wikipedia.org/wiki/Johor#History"},
		{URL: "https://en.wikipedia.org/wiki/Johor"},
		{},
	}
	got := Merge(scoped, general)
	assert.Equal(t, []string{"John Doe (footballer)", "Johan Cruyff", ""}, Titles(got))
	assert.Equal(t, "scoped", got[0].Source)
	assert.Equal(t, "https://EN.wikipedia.org/wiki/Johor#History", got[2].URL)
}

func TestMerge_Empty(t *testing.T) {
	assert.Nil(t, Merge())
	assert.Nil(t, Merge(nil, []Result{}))
}
