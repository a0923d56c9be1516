package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CreateKeyRequest represents a request to create an API key
type CreateKeyRequest struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Secret string `json:"secret,omitempty"`
}

// CreateKeyResponse returns the secret once; it cannot be retrieved later.
type CreateKeyResponse struct {
	Name   string `json:"name"`
	Role   Role   `json:"role"`
	Secret string `json:"secret"`
}

type envelope struct {
	OK      bool   `json:"ok"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// Routes mounts key management under the caller's router. The caller is
// expected to guard it with Middleware(PermissionManageKeys).
func (ks *KeyStore) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", ks.HandleListKeys)
	r.Post("/", ks.HandleCreateKey)
	r.Delete("/{name}", ks.HandleDeleteKey)
	return r
}

// HandleListKeys lists stored keys
func (ks *KeyStore) HandleListKeys(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, envelope{OK: true, Result: ks.Keys()}, http.StatusOK)
}

// HandleCreateKey stores a new key, generating the secret when none is given
func (ks *KeyStore) HandleCreateKey(w http.ResponseWriter, r *http.Request) {
	var req CreateKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		writeError(w, "name is required", http.StatusBadRequest)
		return
	}
	role, err := ParseRole(req.Role)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	secret := req.Secret
	if secret == "" {
		if secret, err = GenerateSecret(); err != nil {
			writeError(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	if err := ks.AddKey(req.Name, secret, role); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrKeyExists) {
			status = http.StatusConflict
		}
		writeError(w, err.Error(), status)
		return
	}

	writeJSON(w, envelope{OK: true, Result: CreateKeyResponse{Name: req.Name, Role: role, Secret: secret}}, http.StatusCreated)
}

// HandleDeleteKey removes a key
func (ks *KeyStore) HandleDeleteKey(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := ks.RemoveKey(name); err != nil {
		writeError(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, envelope{OK: true, Result: map[string]string{"deleted": name}}, http.StatusOK)
}

func writeJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, envelope{Error: http.StatusText(status), Message: message, Code: status}, status)
}
