package handler

import "net/http"

// Routes mounts every route on a fresh mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /changes/", h.handle(h.Changes))
	mux.HandleFunc("GET /changes/csv/", h.handle(h.ChangesCSV))
	mux.HandleFunc("GET /changes/rss/", h.handle(h.ChangesRSS))

	mux.HandleFunc("GET /translate/{project}/{component}/{lang}/", h.handle(h.Translate))
	mux.HandleFunc("POST /translate/{project}/{component}/{lang}/", h.handle(h.TranslatePost))
	mux.HandleFunc("POST /translate/{project}/{component}/{lang}/lock/", h.handle(h.Lock))
	mux.HandleFunc("POST /translate/{project}/{component}/{lang}/unlock/", h.handle(h.Unlock))

	mux.HandleFunc("POST /auto-translate/{project}/{component}/{lang}/", h.handle(h.AutoTranslate))

	mux.HandleFunc("POST /comment/{id}/", h.handle(h.CommentPost))
	mux.HandleFunc("POST /comment/{id}/delete/", h.handle(h.CommentDelete))

	mux.HandleFunc("GET /zen/{project}/{component}/{lang}/", h.handle(h.Zen))
	mux.HandleFunc("GET /zen/{project}/{component}/{lang}/load/", h.handle(h.ZenLoad))
	mux.HandleFunc("POST /zen/{project}/{component}/{lang}/save/", h.handle(h.ZenSave))

	mux.HandleFunc("POST /search-replace/{project}/", h.handle(h.Replace))
	mux.HandleFunc("POST /search-replace/{project}/{component}/", h.handle(h.Replace))
	mux.HandleFunc("POST /search-replace/{project}/{component}/{lang}/", h.handle(h.Replace))

	return mux
}
