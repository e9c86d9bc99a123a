package challenge

import (
	"iter"
)

const (
	CATALOG_LATEST = 2 // Default catalog version.
)

// Catalog is a versioned, fixed set of challenges.
type Catalog struct {
	Version    int
	Trials     int // Trials run per evaluation.
	Challenges []*Challenge
}

var catalogs = map[int]*Catalog{
	1: {
		Version: 1,
		Trials:  50,
		Challenges: []*Challenge{
			XorChallenge(),
			OneBitAddChallenge(),
			FullAddChallenge(255),
		},
	},
	2: {
		Version: 2,
		Trials:  100,
		Challenges: []*Challenge{
			XorChallenge(),
			OneBitAddChallenge(),
			FullAddChallenge(16),
			MultiplyChallenge(),
			Sha256Challenge(),
		},
	},
}

// CatalogVersion returns the catalog for version.
func CatalogVersion(version int) (cat *Catalog, err error) {
	cat, ok := catalogs[version]
	if !ok {
		err = ErrCatalogInvalid
		return
	}

	return
}

// Latest returns the default catalog.
func Latest() *Catalog {
	cat, _ := CatalogVersion(CATALOG_LATEST)
	return cat
}

// Get returns the challenge for id.
func (cat *Catalog) Get(id Id) (ch *Challenge, err error) {
	for _, ch = range cat.Challenges {
		if ch.Id == id {
			return
		}
	}

	ch = nil
	err = ErrChallengeInvalid
	return
}

// All iterates over the challenges in id order.
func (cat *Catalog) All() iter.Seq2[Id, *Challenge] {
	return func(yield func(id Id, ch *Challenge) bool) {
		for _, ch := range cat.Challenges {
			if !yield(ch.Id, ch) {
				return
			}
		}
	}
}
