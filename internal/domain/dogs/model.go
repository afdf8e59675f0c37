package dogs

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Sex define el sexo publicado por Petstablished.
// @Enum Male, Female
type Sex string

const (
	SexMale   Sex = "Male"
	SexFemale Sex = "Female"
)

// Age es la etapa de vida del perro.
// @Enum Puppy, Young, Adult, Senior
type Age string

const (
	AgePuppy  Age = "Puppy"
	AgeYoung  Age = "Young"
	AgeAdult  Age = "Adult"
	AgeSenior Age = "Senior"
)

// Size es el tamaño del perro.
// @Enum Small, Medium, Large, X-Large
type Size string

const (
	SizeSmall  Size = "Small"
	SizeMedium Size = "Medium"
	SizeLarge  Size = "Large"
	SizeXLarge Size = "X-Large"
)

// Shedding indica cuánto pelo suelta.
type Shedding string

const (
	SheddingNone   Shedding = "No shedding"
	SheddingLittle Shedding = "Sheds a little"
	SheddingLot    Shedding = "Sheds a lot"
)

type Status string

const (
	StatusAvailable Status = "Available"
)

// Dog es un registro del listado público de Petstablished.
// Solo tipamos lo que leemos; el resto (fotos, descripción, bonded, etc.)
// viaja intacto en Extra y se vuelve a serializar tal cual.
type Dog struct {
	ID             int64
	Name           string
	Sex            Sex
	Age            Age
	Size           Size
	Shedding       Shedding
	PrimaryBreed   string
	SecondaryBreed string
	Status         Status

	Extra map[string]json.RawMessage
}

const (
	fieldID             = "id"
	fieldName           = "name"
	fieldSex            = "sex"
	fieldAge            = "age"
	fieldSize           = "size"
	fieldShedding       = "shedding"
	fieldPrimaryBreed   = "primary_breed"
	fieldSecondaryBreed = "secondary_breed"
	fieldStatus         = "status"
)

func (d *Dog) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	out := Dog{
		ID:             rawID(raw[fieldID]),
		Name:           rawString(raw[fieldName]),
		Sex:            Sex(rawString(raw[fieldSex])),
		Age:            Age(rawString(raw[fieldAge])),
		Size:           Size(rawString(raw[fieldSize])),
		Shedding:       Shedding(rawString(raw[fieldShedding])),
		PrimaryBreed:   rawString(raw[fieldPrimaryBreed]),
		SecondaryBreed: rawString(raw[fieldSecondaryBreed]),
		Status:         Status(rawString(raw[fieldStatus])),
	}

	for _, k := range []string{
		fieldID, fieldName, fieldSex, fieldAge, fieldSize,
		fieldShedding, fieldPrimaryBreed, fieldSecondaryBreed, fieldStatus,
	} {
		delete(raw, k)
	}
	if len(raw) > 0 {
		out.Extra = raw
	}

	*d = out
	return nil
}

func (d Dog) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(d.Extra)+9)
	for k, v := range d.Extra {
		m[k] = v
	}
	m[fieldID] = d.ID
	m[fieldName] = d.Name
	m[fieldSex] = d.Sex
	m[fieldAge] = d.Age
	m[fieldSize] = d.Size
	m[fieldShedding] = d.Shedding
	m[fieldPrimaryBreed] = d.PrimaryBreed
	m[fieldSecondaryBreed] = d.SecondaryBreed
	m[fieldStatus] = d.Status
	return json.Marshal(m)
}

// rawID acepta número o string numérico. 0 = sin id.
func rawID(raw json.RawMessage) int64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if id, err := n.Int64(); err == nil {
			return id
		}
		return 0
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err == nil {
			return id
		}
	}
	return 0
}

// rawString tolera null y valores no-string (se usan tal cual).
func rawString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
