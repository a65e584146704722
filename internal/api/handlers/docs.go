package handlers

import (
	"net/http"
	"os"
	"path/filepath"
)

// ServeOpenAPISpec serves the OpenAPI specification YAML file
func ServeOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	wd, err := os.Getwd()
	if err != nil {
		http.Error(w, "Failed to get working directory", http.StatusInternalServerError)
		return
	}

	specPath := filepath.Join(wd, "api", "openapi.yaml")

	data, err := os.ReadFile(specPath)
	if err != nil {
		http.Error(w, "Failed to read OpenAPI specification", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/x-yaml")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// RedirectDocs sends browsers at the API root to the Swagger UI
func RedirectDocs(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/swagger/", http.StatusTemporaryRedirect)
}
