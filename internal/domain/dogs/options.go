package dogs

import "strconv"

// Choice es una opción de un select del front.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SearchOptions son las opciones de los filtros y de per_page.
type SearchOptions struct {
	Sex      []Choice `json:"sex"`
	Age      []Choice `json:"age"`
	Size     []Choice `json:"size"`
	Shedding []Choice `json:"shedding"`
	Breed    []Choice `json:"breed"`
	PerPage  []Choice `json:"per_page"`
}

var anyChoice = Choice{Value: "", Label: "Any"}

// PerPageChoices son los tamaños de página ofrecidos; "All" usa PerPageAll.
var PerPageChoices = []int{24, 48, 96}

// NewSearchOptions arma las opciones; breed sale del snapshot actual.
func NewSearchOptions(breeds []string) SearchOptions {
	breedChoices := make([]Choice, 0, len(breeds)+1)
	breedChoices = append(breedChoices, anyChoice)
	for _, b := range breeds {
		breedChoices = append(breedChoices, Choice{Value: b, Label: b})
	}

	perPage := make([]Choice, 0, len(PerPageChoices)+1)
	for _, n := range PerPageChoices {
		v := strconv.Itoa(n)
		perPage = append(perPage, Choice{Value: v, Label: v})
	}
	perPage = append(perPage, Choice{Value: strconv.Itoa(PerPageAll), Label: "All"})

	return SearchOptions{
		Sex: []Choice{
			anyChoice,
			{Value: string(SexMale), Label: "Male"},
			{Value: string(SexFemale), Label: "Female"},
		},
		Age: []Choice{
			anyChoice,
			{Value: string(AgePuppy), Label: "Puppy"},
			{Value: string(AgeYoung), Label: "Young"},
			{Value: string(AgeAdult), Label: "Adult"},
			{Value: string(AgeSenior), Label: "Senior"},
		},
		Size: []Choice{
			anyChoice,
			{Value: string(SizeSmall), Label: "Small"},
			{Value: string(SizeMedium), Label: "Medium"},
			{Value: string(SizeLarge), Label: "Large"},
			{Value: string(SizeXLarge), Label: "X-Large"},
		},
		Shedding: []Choice{
			anyChoice,
			{Value: string(SheddingNone), Label: "No Shedding"},
			{Value: string(SheddingLittle), Label: "Sheds a Little"},
			{Value: string(SheddingLot), Label: "Sheds a Lot"},
		},
		Breed:   breedChoices,
		PerPage: perPage,
	}
}
