// Package addressbook manipulates a user's embedded address list.
// The functions are pure: handlers read the list off the user
// document, apply a change here, and write the whole list back.
// Invariant: exactly one address is default whenever the list is
// non-empty.
package addressbook

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/models"
)

// Add appends an address. The first address in the book always
// becomes the default; a new address marked default displaces the
// current one.
func Add(list []models.Address, addr models.Address) []models.Address {
	if addr.Id.IsZero() {
		addr.Id = primitive.NewObjectID()
	}
	if len(list) == 0 {
		addr.IsDefault = true
	}
	if addr.IsDefault {
		for i := range list {
			list[i].IsDefault = false
		}
	}
	return append(list, addr)
}

// Update replaces the address with a matching id. Returns false when
// the id is not in the book. Marking the updated address default
// displaces the current default; an update may not unset the only
// default, so clearing the flag on the current default keeps it set.
func Update(list []models.Address, addr models.Address) ([]models.Address, bool) {
	idx := -1
	for i := range list {
		if list[i].Id == addr.Id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return list, false
	}
	if !addr.IsDefault && list[idx].IsDefault {
		addr.IsDefault = true
	}
	if addr.IsDefault {
		for i := range list {
			list[i].IsDefault = false
		}
	}
	list[idx] = addr
	return list, true
}

// Remove deletes the address with the given id. If the removed
// address was the default and others remain, the first remaining
// address is promoted; only an empty book has no default.
func Remove(list []models.Address, id primitive.ObjectID) ([]models.Address, bool) {
	idx := -1
	for i := range list {
		if list[i].Id == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return list, false
	}

	wasDefault := list[idx].IsDefault
	list = append(list[:idx], list[idx+1:]...)

	if wasDefault && len(list) > 0 {
		list[0].IsDefault = true
	}
	return list, true
}

// SetDefault marks the address with the given id as the default.
func SetDefault(list []models.Address, id primitive.ObjectID) ([]models.Address, bool) {
	found := false
	for i := range list {
		if list[i].Id == id {
			found = true
		}
	}
	if !found {
		return list, false
	}
	for i := range list {
		list[i].IsDefault = list[i].Id == id
	}
	return list, true
}

// Find returns the address with the given id.
func Find(list []models.Address, id primitive.ObjectID) (models.Address, bool) {
	for _, addr := range list {
		if addr.Id == id {
			return addr, true
		}
	}
	return models.Address{}, false
}

// Default returns the default address.
func Default(list []models.Address) (models.Address, bool) {
	for _, addr := range list {
		if addr.IsDefault {
			return addr, true
		}
	}
	return models.Address{}, false
}
