package dogs

import (
	"net/url"
	"strings"
)

// Criteria son los filtros de búsqueda. Campo vacío = no filtra.
type Criteria struct {
	Sex      Sex
	Age      Age
	Size     Size
	Shedding Shedding
	// Breed matchea primary_breed o secondary_breed.
	Breed string
}

// Claves reconocidas en el query string.
const (
	KeySex      = "sex"
	KeyAge      = "age"
	KeySize     = "size"
	KeyShedding = "shedding"
	KeyBreed    = "breed"
)

var criteriaSetters = map[string]func(*Criteria, string){
	KeySex:      func(c *Criteria, v string) { c.Sex = Sex(v) },
	KeyAge:      func(c *Criteria, v string) { c.Age = Age(v) },
	KeySize:     func(c *Criteria, v string) { c.Size = Size(v) },
	KeyShedding: func(c *Criteria, v string) { c.Shedding = Shedding(v) },
	KeyBreed:    func(c *Criteria, v string) { c.Breed = v },
}

// ParseCriteria arma Criteria desde un mapa clave -> valores (url.Values).
// Claves desconocidas y valores vacíos se ignoran.
func ParseCriteria(values map[string][]string) Criteria {
	var c Criteria
	for key, vs := range values {
		set, ok := criteriaSetters[key]
		if !ok || len(vs) == 0 {
			continue
		}
		v := strings.TrimSpace(vs[0])
		if v == "" {
			continue
		}
		set(&c, v)
	}
	return c
}

func (c Criteria) IsZero() bool {
	return c == Criteria{}
}

// Values devuelve solo los filtros activos.
func (c Criteria) Values() url.Values {
	out := url.Values{}
	add := func(k, v string) {
		if v != "" {
			out.Set(k, v)
		}
	}
	add(KeySex, string(c.Sex))
	add(KeyAge, string(c.Age))
	add(KeySize, string(c.Size))
	add(KeyShedding, string(c.Shedding))
	add(KeyBreed, c.Breed)
	return out
}

// Matches aplica todos los filtros activos (AND).
func (c Criteria) Matches(d Dog) bool {
	if c.Breed != "" && d.PrimaryBreed != c.Breed && d.SecondaryBreed != c.Breed {
		return false
	}
	if c.Size != "" && d.Size != c.Size {
		return false
	}
	if c.Age != "" && d.Age != c.Age {
		return false
	}
	if c.Shedding != "" && d.Shedding != c.Shedding {
		return false
	}
	if c.Sex != "" && d.Sex != c.Sex {
		return false
	}
	return true
}

// Filter no modifica records. Sin filtros devuelve el mismo slice.
func Filter(records []Dog, c Criteria) []Dog {
	if c.IsZero() {
		return records
	}
	out := make([]Dog, 0, len(records))
	for _, d := range records {
		if c.Matches(d) {
			out = append(out, d)
		}
	}
	return out
}
