package api

import (
	"net/http"
	"regexp"
	"strings"
)

var localhostPattern = regexp.MustCompile(`^localhost:\d+$`)

func cleanOrigin(origin string) string {
	cleanedOrigin := strings.TrimPrefix(origin, "https://")
	cleanedOrigin = strings.TrimPrefix(cleanedOrigin, "http://")
	if idx := strings.Index(cleanedOrigin, "/"); idx != -1 {
		cleanedOrigin = cleanedOrigin[:idx]
	}
	return cleanedOrigin
}

func isAllowedOrigin(origin string, allowedOrigins []string, devMode bool) bool {
	cleanedRequest := cleanOrigin(origin)

	// Allow localhost for development
	if devMode && localhostPattern.MatchString(cleanedRequest) {
		return true
	}

	// Check against configured allowed origins
	for _, allowed := range allowedOrigins {
		if allowed == "*" || cleanOrigin(allowed) == cleanedRequest {
			return true
		}
	}

	return false
}

func wrapMuxWithCorsAndOrigins(mux *http.ServeMux, app *Application) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if origin == "" {
			handleCors(mux.ServeHTTP)(w, r)
			return
		}

		if isAllowedOrigin(origin, app.Config.AllowedOrigins, app.Config.DevMode) {
			handleCors(mux.ServeHTTP)(w, r)
			return
		}

		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("origin not allowed: " + cleanOrigin(origin)))
	})
}

func (app *Application) BuildRoutes(mux *http.ServeMux) *http.ServeMux {
	finalMux := http.NewServeMux()

	single := requestLimit(app.Config.MaxImageBytes, 1)
	batch := requestLimit(app.Config.MaxImageBytes, MaxBatchImages)

	mux.HandleFunc("/", app.home)
	mux.HandleFunc("/v1/analyze", limitBody(single, app.analyze))
	mux.HandleFunc("/v1/analyze/batch", limitBody(batch, app.analyzeBatch))
	mux.HandleFunc("/v1/analyses", app.listAnalyses)
	mux.HandleFunc("/v1/analyses/", app.getAnalysis)
	mux.HandleFunc("/v1/images/", app.getImage)

	finalMux.Handle("/", logRequests(wrapMuxWithCorsAndOrigins(mux, app)))

	return finalMux
}

// requestLimit is the JSON body size that can carry n base64 images of maxImage bytes
func requestLimit(maxImage int64, n int) int64 {
	if maxImage <= 0 {
		return 0
	}
	return (maxImage*4/3+4)*int64(n) + 64<<10
}
