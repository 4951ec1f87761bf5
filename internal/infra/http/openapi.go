package http

import (
	_ "embed"
	"net/http"
)

var (
	//go:embed openapi.yaml
	openAPISpec []byte
)

func handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(openAPISpec)
}
