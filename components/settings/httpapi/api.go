package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	settings "github.com/rza1914/ishop-settings/components/settings"
	"github.com/rza1914/ishop-settings/components/settings/commands"
	"github.com/rza1914/ishop-settings/components/settings/queries"
)

// Handlers exposes HTTP endpoints backed by shared commands and queries.
type Handlers struct {
	SetField   gocommand.Commander[commands.SetFieldInput]
	SetMany    gocommand.Commander[commands.SetManyInput]
	UpdateItem gocommand.Commander[commands.UpdateListItemInput]
	Save       gocommand.Commander[commands.SaveAllInput]
	Reset      gocommand.Commander[commands.ResetAllInput]
	Restore    gocommand.Commander[commands.RestoreInput]

	Status   gocommand.Querier[queries.StatusInput, settings.Status]
	Snapshot gocommand.Querier[queries.SnapshotInput, settings.Domain]
	Backup   gocommand.Querier[queries.BackupInput, *settings.BackupDocument]
}

// NewHandlers wires every endpoint to the page through the shared commands and queries.
func NewHandlers(page *settings.Page, telemetry commands.Telemetry) *Handlers {
	return &Handlers{
		SetField:   commands.NewSetFieldCommand(page, telemetry),
		SetMany:    commands.NewSetManyCommand(page, telemetry),
		UpdateItem: commands.NewUpdateListItemCommand(page, telemetry),
		Save:       commands.NewSaveAllCommand(page, telemetry),
		Reset:      commands.NewResetAllCommand(page, telemetry),
		Restore:    commands.NewRestoreCommand(page, telemetry),
		Status:     queries.NewStatusQuery(page),
		Snapshot:   queries.NewSnapshotQuery(page),
		Backup:     queries.NewBackupQuery(page),
	}
}

type fieldsRequest struct {
	Path    string            `json:"path"`
	Value   any               `json:"value"`
	Text    *string           `json:"text"`
	Updates []settings.Update `json:"updates"`
	commands.Actor
}

// HandleStatus serves GET /settings/status.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.Status.Query(r.Context(), queries.StatusInput{})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// HandleSnapshot serves GET /settings/{domain}.
func (h *Handlers) HandleSnapshot(w http.ResponseWriter, r *http.Request, domain string) {
	snapshot, err := h.Snapshot.Query(r.Context(), queries.SnapshotInput{Domain: domain})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// HandleSetFields serves POST /settings/fields with either one path/value pair
// or an updates batch.
func (h *Handlers) HandleSetFields(w http.ResponseWriter, r *http.Request) {
	var payload fieldsRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var err error
	if len(payload.Updates) > 0 {
		err = h.SetMany.Execute(r.Context(), commands.SetManyInput{Updates: payload.Updates, Actor: payload.Actor})
	} else {
		err = h.SetField.Execute(r.Context(), commands.SetFieldInput{
			Path:  payload.Path,
			Value: payload.Value,
			Text:  payload.Text,
			Actor: payload.Actor,
		})
	}
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleUpdateItem serves POST /settings/items.
func (h *Handlers) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var payload commands.UpdateListItemInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.UpdateItem.Execute(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSave serves POST /settings/save. Partial failures answer 502 with the
// per-domain result so clients can retry only what failed.
func (h *Handlers) HandleSave(w http.ResponseWriter, r *http.Request) {
	var result settings.SaveResult
	err := h.Save.Execute(r.Context(), commands.SaveAllInput{Actor: actorFromHeaders(r), Result: &result})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, result)
	case len(result.Failed) > 0:
		writeJSON(w, http.StatusBadGateway, result)
	default:
		writeError(w, err)
	}
}

// HandleReset serves POST /settings/reset. The body must carry {"confirm": true}.
func (h *Handlers) HandleReset(w http.ResponseWriter, r *http.Request) {
	var payload commands.ResetAllInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if payload.ActorID == "" {
		payload.Actor = actorFromHeaders(r)
	}
	if err := h.Reset.Execute(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleBackup serves GET /settings/backup as YAML, or JSON with ?format=json.
func (h *Handlers) HandleBackup(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Backup.Query(r.Context(), queries.BackupInput{})
	if err != nil {
		writeError(w, err)
		return
	}
	if r.URL.Query().Get("format") == "json" {
		writeJSON(w, http.StatusOK, doc)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Content-Disposition", `attachment; filename="settings-`+doc.ID+`.yaml"`)
	if err := settings.EncodeBackup(w, doc); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// HandleRestore serves POST /settings/restore with a YAML or JSON document.
func (h *Handlers) HandleRestore(w http.ResponseWriter, r *http.Request) {
	doc, err := settings.DecodeBackup(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Restore.Execute(r.Context(), commands.RestoreInput{Document: doc, Actor: actorFromHeaders(r)}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StatusCode maps settings errors to HTTP status codes.
func StatusCode(err error) int {
	var unknown *settings.UnknownPathError
	var mismatch *settings.TypeMismatchError
	var saveErr *settings.SaveError
	switch {
	case errors.As(err, &unknown):
		return http.StatusNotFound
	case errors.As(err, &mismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, settings.ErrInvalidPath):
		return http.StatusBadRequest
	case errors.Is(err, settings.ErrSaveInProgress), errors.Is(err, settings.ErrConfirmationDeclined):
		return http.StatusConflict
	case errors.As(err, &saveErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), StatusCode(err))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func actorFromHeaders(r *http.Request) commands.Actor {
	return commands.Actor{
		ActorID:  r.Header.Get("X-Actor-ID"),
		UserID:   r.Header.Get("X-User-ID"),
		TenantID: r.Header.Get("X-Tenant-ID"),
	}
}
