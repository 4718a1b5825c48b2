package addressbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/models"
)

func addr(city string) models.Address {
	return models.Address{
		Id:      primitive.NewObjectID(),
		Street:  "1 Main St",
		City:    city,
		State:   "Puducherry",
		ZipCode: "605001",
		Phone:   "9876543210",
	}
}

func countDefaults(list []models.Address) int {
	n := 0
	for _, a := range list {
		if a.IsDefault {
			n++
		}
	}
	return n
}

func TestAddFirstBecomesDefault(t *testing.T) {
	list := Add(nil, addr("Pondicherry"))

	require.Len(t, list, 1)
	assert.True(t, list[0].IsDefault)
}

func TestAddDefaultDisplacesCurrent(t *testing.T) {
	list := Add(nil, addr("Pondicherry"))
	second := addr("Chennai")
	second.IsDefault = true

	list = Add(list, second)

	require.Len(t, list, 2)
	assert.False(t, list[0].IsDefault)
	assert.True(t, list[1].IsDefault)
	assert.Equal(t, 1, countDefaults(list))
}

func TestAddNonDefaultKeepsCurrent(t *testing.T) {
	list := Add(nil, addr("Pondicherry"))
	list = Add(list, addr("Chennai"))

	assert.True(t, list[0].IsDefault)
	assert.False(t, list[1].IsDefault)
}

func TestRemoveDefaultPromotesAnother(t *testing.T) {
	list := Add(nil, addr("Pondicherry"))
	list = Add(list, addr("Chennai"))
	list = Add(list, addr("Bangalore"))

	list, ok := Remove(list, list[0].Id)

	require.True(t, ok)
	require.Len(t, list, 2)
	assert.Equal(t, 1, countDefaults(list), "exactly one default must remain")
}

func TestRemoveNonDefaultKeepsDefault(t *testing.T) {
	list := Add(nil, addr("Pondicherry"))
	list = Add(list, addr("Chennai"))

	list, ok := Remove(list, list[1].Id)

	require.True(t, ok)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsDefault)
}

func TestRemoveLastLeavesEmptyBook(t *testing.T) {
	list := Add(nil, addr("Pondicherry"))

	list, ok := Remove(list, list[0].Id)

	require.True(t, ok)
	assert.Empty(t, list)
	assert.Equal(t, 0, countDefaults(list))
}

func TestRemoveUnknownId(t *testing.T) {
	list := Add(nil, addr("Pondicherry"))

	got, ok := Remove(list, primitive.NewObjectID())

	assert.False(t, ok)
	assert.Len(t, got, 1)
}

func TestUpdateCannotUnsetOnlyDefault(t *testing.T) {
	list := Add(nil, addr("Pondicherry"))

	changed := list[0]
	changed.City = "Auroville"
	changed.IsDefault = false

	list, ok := Update(list, changed)

	require.True(t, ok)
	assert.Equal(t, "Auroville", list[0].City)
	assert.True(t, list[0].IsDefault, "the only default cannot be unset")
}

func TestUpdateMakesNewDefault(t *testing.T) {
	list := Add(nil, addr("Pondicherry"))
	list = Add(list, addr("Chennai"))

	changed := list[1]
	changed.IsDefault = true

	list, ok := Update(list, changed)

	require.True(t, ok)
	assert.False(t, list[0].IsDefault)
	assert.True(t, list[1].IsDefault)
}

func TestSetDefault(t *testing.T) {
	list := Add(nil, addr("Pondicherry"))
	list = Add(list, addr("Chennai"))

	list, ok := SetDefault(list, list[1].Id)

	require.True(t, ok)
	assert.False(t, list[0].IsDefault)
	assert.True(t, list[1].IsDefault)

	_, ok = SetDefault(list, primitive.NewObjectID())
	assert.False(t, ok)
}

func TestFindAndDefault(t *testing.T) {
	list := Add(nil, addr("Pondicherry"))
	list = Add(list, addr("Chennai"))

	found, ok := Find(list, list[1].Id)
	require.True(t, ok)
	assert.Equal(t, "Chennai", found.City)

	def, ok := Default(list)
	require.True(t, ok)
	assert.Equal(t, "Pondicherry", def.City)
}
