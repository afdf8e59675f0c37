package dogs

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	KeyCurrentPage = "current_page"
	KeyPerPage     = "per_page"
)

// BuildQueryString serializa los parámetros actuales sin current_page ni
// valores vacíos, con orden de claves estable.
func BuildQueryString(values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == KeyCurrentPage {
			continue
		}
		vs := values[k]
		if len(vs) == 0 || strings.TrimSpace(vs[0]) == "" {
			continue
		}
		parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(vs[0]))
	}
	return strings.Join(parts, "&")
}

// PageLink arma el href de una página conservando el resto de filtros.
func PageLink(basePath string, page int, qs string) string {
	href := basePath + "?" + KeyCurrentPage + "=" + strconv.Itoa(page)
	if qs != "" {
		href += "&" + qs
	}
	return href
}
