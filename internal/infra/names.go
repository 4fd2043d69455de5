package infra

import (
	"errors"
	"math/rand"

	"exchange_chat/internal/domain"
)

var (
	firstNames = []string{
		"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael", "Linda",
		"David", "Elizabeth", "William", "Barbara", "Richard", "Susan", "Joseph", "Jessica",
		"Thomas", "Sarah", "Charles", "Karen", "Olena", "Taras", "Iryna", "Andriy",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
		"Rodriguez", "Martinez", "Hernandez", "Lopez", "Wilson", "Anderson", "Taylor", "Moore",
		"Shevchenko", "Kovalenko", "Bondarenko", "Tkachenko",
	}
)

// RandomNames produces "First Last" display names.
type RandomNames struct {
	first []string
	last  []string
}

var _ domain.NameSource = (*RandomNames)(nil)

// NewRandomNames returns a name source over the built-in name lists.
func NewRandomNames() *RandomNames {
	return &RandomNames{first: firstNames, last: lastNames}
}

// NewName picks a random first and last name.
func (n *RandomNames) NewName() (string, error) {
	if len(n.first) == 0 || len(n.last) == 0 {
		return "", errors.New("name lists are empty")
	}
	return n.first[rand.Intn(len(n.first))] + " " + n.last[rand.Intn(len(n.last))], nil
}
