package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ThumbnailServer serves generated preview files from the thumbnails
// directory under the repository root. The route is expected to be
// mounted as /api/thumbnails/*.
func ThumbnailServer(thumbnailsDir string) http.HandlerFunc {
	cleanDir := filepath.Clean(thumbnailsDir)
	log.Printf("Serving thumbnails from directory: %s", cleanDir)

	return func(w http.ResponseWriter, r *http.Request) {
		relativePath := strings.TrimPrefix(r.URL.Path, "/api/thumbnails/")
		if relativePath == "" || strings.Contains(relativePath, "..") {
			http.Error(w, "Invalid thumbnail path", http.StatusBadRequest)
			return
		}

		requestedPath := filepath.Clean(filepath.Join(cleanDir, relativePath))
		if !strings.HasPrefix(requestedPath, cleanDir) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			log.Printf("SECURITY: Attempted thumbnail access outside directory: Request='%s', Resolved='%s'", r.URL.Path, requestedPath)
			return
		}

		if _, err := os.Stat(requestedPath); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		} else if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			log.Printf("Error stating thumbnail file %s: %v", requestedPath, err)
			return
		}

		cacheDuration := 24 * time.Hour
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(cacheDuration.Seconds())))
		w.Header().Set("Expires", time.Now().Add(cacheDuration).Format(http.TimeFormat))

		http.ServeFile(w, r, requestedPath)
	}
}
