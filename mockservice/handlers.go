package mockservice

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// The hosted service answers unknown records with an empty object, so we do the same.
func writeNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, struct{}{})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": message,
			"type":    http.StatusText(status),
			"code":    status,
		},
	})
}

func albumID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil
}

// readChanges decodes a create or update request body, which may be either form-encoded or a
// JSON object. Form values are kept as strings.
func readChanges(r *http.Request) (AlbumChanges, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return AlbumChanges{}, fmt.Errorf("reading request body: %w", err)
	}
	if mediaType == "application/json" {
		return changesFromJSON(data)
	}
	form, err := url.ParseQuery(string(data))
	if err != nil {
		return AlbumChanges{}, fmt.Errorf("malformed form body: %w", err)
	}
	var changes AlbumChanges
	if _, ok := form["userId"]; ok {
		changes.UserID = ldvalue.String(form.Get("userId"))
	}
	if _, ok := form["title"]; ok {
		changes.Title = ldvalue.NewOptionalString(form.Get("title"))
	}
	return changes, nil
}

func changesFromJSON(data []byte) (AlbumChanges, error) {
	if len(data) == 0 {
		return AlbumChanges{}, nil
	}
	var v ldvalue.Value
	if err := json.Unmarshal(data, &v); err != nil {
		return AlbumChanges{}, fmt.Errorf("malformed JSON body: %w", err)
	}
	if v.Type() != ldvalue.ObjectType {
		return AlbumChanges{}, errors.New("request body must be a JSON object")
	}
	var changes AlbumChanges
	changes.UserID = v.GetByKey("userId")
	if title := v.GetByKey("title"); !title.IsNull() {
		if title.IsString() {
			changes.Title = ldvalue.NewOptionalString(title.StringValue())
		} else {
			changes.Title = ldvalue.NewOptionalString(title.JSONString())
		}
	}
	return changes, nil
}

func (s *Service) listAlbums(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.List())
}

func (s *Service) getAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := albumID(r)
	if !ok {
		writeNotFound(w)
		return
	}
	a, err := s.store.Get(id)
	if err != nil {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Service) createAlbum(w http.ResponseWriter, r *http.Request) {
	changes, err := readChanges(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a := s.store.Create(changes)
	s.logger.Debug("album created", zap.Int("id", a.ID))
	writeJSON(w, http.StatusCreated, a)
}

func (s *Service) replaceAlbum(w http.ResponseWriter, r *http.Request) {
	s.update(w, r, s.store.Replace)
}

func (s *Service) patchAlbum(w http.ResponseWriter, r *http.Request) {
	s.update(w, r, s.store.Patch)
}

func (s *Service) update(
	w http.ResponseWriter,
	r *http.Request,
	apply func(int, AlbumChanges) (Album, error),
) {
	id, ok := albumID(r)
	if !ok {
		writeNotFound(w)
		return
	}
	changes, err := readChanges(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := apply(id, changes)
	if err != nil {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Service) deleteAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := albumID(r)
	if !ok {
		writeNotFound(w)
		return
	}
	if err := s.store.Delete(id); err != nil {
		writeNotFound(w)
		return
	}
	s.logger.Debug("album deleted", zap.Int("id", id))
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Service) handleReset(w http.ResponseWriter, r *http.Request) {
	s.Reset()
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Service) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"albums": s.store.List()})
}

func (s *Service) handleLoadState(w http.ResponseWriter, r *http.Request) {
	var state struct {
		Albums []Album `json:"albums"`
	}
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		writeError(w, http.StatusBadRequest, "invalid state JSON: "+err.Error())
		return
	}
	if err := s.store.Load(state.Albums); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded"})
}
