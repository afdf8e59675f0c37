package dogs

// Dedupe colapsa registros con el mismo ID (Petstablished repite a veces
// las parejas bonded en varias páginas). Gana el último visto, pero conserva
// la posición del primero para no romper el orden por nombre.
// Registros sin ID se descartan.
func Dedupe(records []Dog) []Dog {
	pos := make(map[int64]int, len(records))
	out := make([]Dog, 0, len(records))

	for _, d := range records {
		if d.ID <= 0 {
			continue
		}
		if i, ok := pos[d.ID]; ok {
			out[i] = d
			continue
		}
		pos[d.ID] = len(out)
		out = append(out, d)
	}
	return out
}

// KeepAvailable descarta todo lo que no esté Available; el filtro
// search[status] del lado del servidor no siempre se respeta.
func KeepAvailable(records []Dog) []Dog {
	out := make([]Dog, 0, len(records))
	for _, d := range records {
		if d.Status == StatusAvailable {
			out = append(out, d)
		}
	}
	return out
}
