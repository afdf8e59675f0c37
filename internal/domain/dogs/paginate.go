package dogs

// PerPageAll es el valor de per_page que significa "mostrar todos".
const PerPageAll = 999

// Paginate devuelve la página (1-indexed) y el total de páginas (mínimo 1).
//
// PerPageAll, o un pageSize <= 0, devuelve todo en la página 1.
// Una página fuera de rango (< 1 o > total) devuelve un slice vacío,
// también con PerPageAll.
// El slice devuelto tiene cap recortado: un append no pisa el snapshot.
func Paginate(records []Dog, page, pageSize int) ([]Dog, int) {
	if pageSize == PerPageAll || pageSize <= 0 {
		if page != 1 {
			return []Dog{}, 1
		}
		return records[:len(records):len(records)], 1
	}

	total := (len(records) + pageSize - 1) / pageSize
	if total < 1 {
		total = 1
	}
	if page < 1 || page > total {
		return []Dog{}, total
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end:end], total
}
