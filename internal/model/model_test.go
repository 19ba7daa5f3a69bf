package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCareerRecord_EmptyListsSerializeAsArrays(t *testing.T) {
	b, err := json.Marshal(NewCareerRecord())
	require.NoError(t, err)
	assert.JSONEq(t, `{"full_name":"","clubs":[],"national_team":[]}`, string(b))
}

func TestCareerEntry_OmitsUnconfirmedFields(t *testing.T) {
	b, err := json.Marshal(CareerEntry{Name: "Arsenal", Years: "2018–"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Arsenal","years":"2018–"}`, string(b))
}

func TestCareerRecord_CloneIsDeep(t *testing.T) {
	r := NewCareerRecord()
	r.Clubs = append(r.Clubs, CareerEntry{Name: "Arsenal"})
	r.Honours = []string{"Premier League: 2020"}

	c := r.Clone()
	c.Clubs[0].Name = "Chelsea"
	c.Honours[0] = "changed"

	assert.Equal(t, "Arsenal", r.Clubs[0].Name)
	assert.Equal(t, "Premier League: 2020", r.Honours[0])

	var zero CareerRecord
	z := zero.Clone()
	assert.NotNil(t, z.Clubs)
	assert.NotNil(t, z.NationalTeam)
	assert.Nil(t, z.Honours)
}
