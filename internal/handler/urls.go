package handler

import (
	"fmt"
	"net/url"

	"github.com/glosshq/gloss/internal/domain"
)

// translateBase is the unit editor path for a scope.
func translateBase(scope domain.TranslationScope) string {
	return fmt.Sprintf("/translate/%s/%s/%s/",
		url.PathEscape(scope.Project.Slug),
		url.PathEscape(scope.Component.Slug),
		url.PathEscape(scope.Language.Code))
}

// translateURL links one offset in an active search.
func translateURL(scope domain.TranslationScope, sid string, offset int) string {
	return fmt.Sprintf("%s?sid=%s&offset=%d", translateBase(scope), url.QueryEscape(sid), offset)
}

// checksumURL links a unit directly by its identity hash.
func checksumURL(projectSlug, componentSlug, languageCode, idHash string) string {
	return fmt.Sprintf("/translate/%s/%s/%s/?checksum=%s",
		url.PathEscape(projectSlug),
		url.PathEscape(componentSlug),
		url.PathEscape(languageCode),
		url.QueryEscape(idHash))
}

// zenBase is the zen editor path for a scope.
func zenBase(scope domain.TranslationScope) string {
	return fmt.Sprintf("/zen/%s/%s/%s/",
		url.PathEscape(scope.Project.Slug),
		url.PathEscape(scope.Component.Slug),
		url.PathEscape(scope.Language.Code))
}

// changesURL rebuilds the change browser URL with the given page.
func changesURL(q url.Values, page int) string {
	out := url.Values{}
	for key, vals := range q {
		if key == "page" {
			continue
		}
		out[key] = vals
	}
	if page > 1 {
		out.Set("page", fmt.Sprintf("%d", page))
	}
	if len(out) == 0 {
		return "/changes/"
	}
	return "/changes/?" + out.Encode()
}
